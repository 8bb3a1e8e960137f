package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("ファイルなしならデフォルト値になること", func(t *testing.T) {
		cfg, err := LoadConfigFile("")
		if err != nil {
			t.Fatalf("読み込みエラー: %v", err)
		}
		if cfg.PageLimit != DefaultPageLimit || cfg.Generator != DefaultGenerator {
			t.Errorf("デフォルト値が違います: %+v", cfg)
		}
	})

	t.Run("YAMLファイルの値が反映されること", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yaml := "page_limit: 8\ngenerator: plan-aware\nseed: 99\n"
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("読み込みエラー: %v", err)
		}
		if cfg.PageLimit != 8 || cfg.Generator != "plan-aware" || cfg.Seed != 99 {
			t.Errorf("ファイルの値が反映されていません: %+v", cfg)
		}
		// 未指定の項目はデフォルトのまま
		if cfg.PageWidth != DefaultPageWidth {
			t.Errorf("未指定項目が書き換わっています: %v", cfg.PageWidth)
		}
	})

	t.Run("環境変数がファイルより優先されること", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("page_limit: 8\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("LAYOUT_PAGE_LIMIT", "12")

		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("読み込みエラー: %v", err)
		}
		if cfg.PageLimit != 12 {
			t.Errorf("環境変数が優先されていません: %d", cfg.PageLimit)
		}
	})

	t.Run("不正な設定はエラーになること", func(t *testing.T) {
		cases := map[string]string{
			"page_limit がゼロ": "page_limit: 0\n",
			"ページ幅が負":         "page_width: -100\n",
			"未知のモード":         "mode: aggressive\n",
		}
		for name, yaml := range cases {
			t.Run(name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "config.yaml")
				if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
					t.Fatal(err)
				}
				if _, err := LoadConfigFile(path); err == nil {
					t.Error("不正な設定がエラーになりませんでした")
				}
			})
		}
	})

	t.Run("存在しないファイルはエラーになること", func(t *testing.T) {
		if _, err := LoadConfigFile("/no/such/config.yaml"); err == nil {
			t.Error("存在しないファイルでエラーになりませんでした")
		}
	})
}

func TestConfig_PipelineOptions(t *testing.T) {
	cfg, err := LoadConfigFile("")
	if err != nil {
		t.Fatalf("読み込みエラー: %v", err)
	}
	cfg.Seed = 7
	cfg.PageLimit = 5

	opts := cfg.PipelineOptions()
	if opts.Seed != 7 || opts.PageLimit != 5 {
		t.Errorf("設定値が実行パラメータへ反映されていません: %+v", opts)
	}
	if opts.PageWidth != DefaultPageWidth || opts.PageHeight != DefaultPageHeight {
		t.Errorf("ページサイズが反映されていません: %+v", opts)
	}
}
