package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shouni/go-utils/envutil"
	"gopkg.in/yaml.v3"

	"github.com/shouni/go-layout-kit/pkg/pagination"
	"github.com/shouni/go-layout-kit/pkg/pipeline"
)

// デフォルト値の定義なのだ
const (
	DefaultPageLimit  = pipeline.DefaultPageLimit
	DefaultSeed       = pipeline.DefaultSeed
	DefaultGenerator  = "basic"
	DefaultMode       = "simple"
	DefaultLocalFile  = "output/layout.json" // レイアウト結果のデフォルト保存先なのだ
	DefaultPageWidth  = pipeline.DefaultPageWidth
	DefaultPageHeight = pipeline.DefaultPageHeight
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
// 環境変数が設定ファイルより優先されるのだよ。
type Config struct {
	PageLimit  int     `yaml:"page_limit"`
	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`
	Generator  string  `yaml:"generator"`
	Mode       string  `yaml:"mode"`
	Seed       int64   `yaml:"seed"`

	Options GenerateOptions `yaml:"-"`
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		PageLimit:  envInt("LAYOUT_PAGE_LIMIT", DefaultPageLimit),
		PageWidth:  envFloat("LAYOUT_PAGE_WIDTH", DefaultPageWidth),
		PageHeight: envFloat("LAYOUT_PAGE_HEIGHT", DefaultPageHeight),
		Generator:  envutil.GetEnv("LAYOUT_GENERATOR", DefaultGenerator),
		Mode:       envutil.GetEnv("LAYOUT_MODE", DefaultMode),
		Seed:       int64(envInt("LAYOUT_SEED", DefaultSeed)),
	}
	return cfg
}

// LoadConfigFile は YAML 設定ファイルを読み込んで環境変数設定へ重ねるのだ。
// ファイル → 環境変数の順で適用されるので、環境変数が最終的に勝つのだよ。
func LoadConfigFile(path string) (*Config, error) {
	cfg := &Config{
		PageLimit:  DefaultPageLimit,
		PageWidth:  DefaultPageWidth,
		PageHeight: DefaultPageHeight,
		Generator:  DefaultGenerator,
		Mode:       DefaultMode,
		Seed:       DefaultSeed,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルのパースに失敗しました (%s): %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の整合性を検証するのだ。
func (c *Config) Validate() error {
	if c.PageLimit < 1 {
		return fmt.Errorf("page_limit は1以上にするのだ: %d", c.PageLimit)
	}
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("ページサイズが不正なのだ: %vx%v", c.PageWidth, c.PageHeight)
	}
	switch pagination.Mode(c.Mode) {
	case pagination.ModeSimple, pagination.ModeStrict, "":
	default:
		return fmt.Errorf("未知のページ割りモードなのだ: %q", c.Mode)
	}
	return nil
}

// PipelineOptions は設定値をパイプラインの実行パラメータへ変換するのだ。
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Seed = c.Seed
	opts.PageLimit = c.PageLimit
	opts.Mode = pagination.Mode(c.Mode)
	opts.Kind = pipeline.GeneratorKind(c.Generator)
	opts.PageWidth = c.PageWidth
	opts.PageHeight = c.PageHeight
	return opts
}

func applyEnvOverrides(cfg *Config) {
	env := LoadConfig()
	if os.Getenv("LAYOUT_PAGE_LIMIT") != "" {
		cfg.PageLimit = env.PageLimit
	}
	if os.Getenv("LAYOUT_PAGE_WIDTH") != "" {
		cfg.PageWidth = env.PageWidth
	}
	if os.Getenv("LAYOUT_PAGE_HEIGHT") != "" {
		cfg.PageHeight = env.PageHeight
	}
	if os.Getenv("LAYOUT_GENERATOR") != "" {
		cfg.Generator = env.Generator
	}
	if os.Getenv("LAYOUT_MODE") != "" {
		cfg.Mode = env.Mode
	}
	if os.Getenv("LAYOUT_SEED") != "" {
		cfg.Seed = env.Seed
	}
}

func envInt(key string, fallback int) int {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	ScriptFile string // --script-file
	OutputFile string // --output-file
	ConfigFile string // --config

	// レイアウト挙動設定
	Seed      int64  // --seed
	PageLimit int    // --page-limit
	Generator string // --generator
	Mode      string // --mode
	ChunkSize int    // --chunk-size

	// 描画準備
	WithRender bool // --with-render
}
