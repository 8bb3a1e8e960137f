package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-layout-kit/internal/config"
	"github.com/shouni/go-layout-kit/pkg/domain"
	"github.com/shouni/go-layout-kit/pkg/parser"
	"github.com/shouni/go-layout-kit/pkg/pipeline"
	"github.com/shouni/go-layout-kit/pkg/placement"

	"github.com/spf13/cobra"
)

// layoutCmd は、台本からレイアウトドキュメント（JSON）を生成するのだ。
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "台本からページレイアウトを計算して保存するのだ。",
	Long: `台本（JSON）を解析し、ページ割りとコマ割り当てを計算して
レイアウトドキュメントをJSON形式で出力するのだ。
--with-render を付けると吹き出し・効果音・説明テキストの配置計算まで行うのだよ。`,
	RunE: layoutCommand,
}

// layoutOutput は layout コマンドの出力形式なのだ。
// renders は --with-render 指定時のみ埋まるのだよ。
type layoutOutput struct {
	Document *domain.LayoutDocument `json:"document"`
	Renders  []pipeline.PanelRender `json:"renders,omitempty"`
}

func layoutCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 入力ソースの必須チェック
	if opts.ScriptFile == "" && !isStdin() {
		return fmt.Errorf("台本（--script-file）を指定してほしいのだ")
	}
	if opts.ScriptFile == "" {
		opts.ScriptFile = "-"
	}

	// 2. 設定のロード（ファイル → 環境変数 → フラグの順で上書きなのだ）
	cfg, err := config.LoadConfigFile(opts.ConfigFile)
	if err != nil {
		return err
	}
	cfg.Options = opts
	applyFlagOverrides(cmd, cfg)

	slog.Info("レイアウト計算を起動するのだ！",
		"script", opts.ScriptFile,
		"page_limit", cfg.PageLimit,
		"generator", cfg.Generator,
		"seed", cfg.Seed,
		"output", opts.OutputFile)

	// 3. 台本の読み込み
	script, err := parser.NewScriptParser().ParseFromPath(ctx, opts.ScriptFile)
	if err != nil {
		return fmt.Errorf("台本の読み込みに失敗したのだ: %w", err)
	}

	// 4. パイプラインの実行
	pipeOpts := cfg.PipelineOptions()
	pipeOpts.ChunkSize = opts.ChunkSize

	p, err := pipeline.New(pipeOpts, placement.NewBasicMeasurer())
	if err != nil {
		return fmt.Errorf("パイプラインの構築に失敗したのだ: %w", err)
	}

	doc, err := p.Run(ctx, script)
	if err != nil {
		return fmt.Errorf("レイアウト計算中にエラーが発生したのだ: %w", err)
	}

	out := layoutOutput{Document: doc}
	if opts.WithRender {
		renders, err := p.PrepareRender(ctx, doc)
		if err != nil {
			return fmt.Errorf("配置計算中にエラーが発生したのだ: %w", err)
		}
		out.Renders = renders
	}

	// 5. 結果の保存
	if err := writeJSON(opts.OutputFile, out); err != nil {
		return err
	}

	slog.Info("レイアウトの生成が完了したのだ！",
		"pages", len(doc.Pages), "output_file", opts.OutputFile)
	return nil
}

// applyFlagOverrides は、ユーザーが明示したフラグだけを設定へ反映するのだ。
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if cmd.Flags().Changed("page-limit") {
		cfg.PageLimit = opts.PageLimit
	}
	if cmd.Flags().Changed("generator") {
		cfg.Generator = opts.Generator
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = opts.Mode
	}
}

// writeJSON は結果をローカルファイル（"-" で標準出力）へ書き出すのだ。
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("結果のJSON化に失敗したのだ: %w", err)
	}

	if path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗したのだ: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("結果の保存に失敗したのだ: %w", err)
	}
	return nil
}
