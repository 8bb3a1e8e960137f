package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-layout-kit/internal/config"

	"github.com/spf13/cobra"
)

var opts config.GenerateOptions

// rootCmd は、すべてのサブコマンドを束ねる親コマンドなのだ。
var rootCmd = &cobra.Command{
	Use:   "layout-kit",
	Short: "漫画台本からページレイアウトを計算するツールなのだ。",
	Long: `台本（JSON）を読み込み、重要度ベースのページ割り・コマ割り当て・
吹き出しと効果音の配置計算までを一括で行うのだ。
同じ入力と同じシードからは常に同じレイアウトが得られるのだよ。`,
	SilenceUsage: true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ScriptFile, "script-file", "f", "", "台本ファイルのパス（'-'で標準入力なのだ）。")
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML設定ファイルのパスなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", config.DefaultLocalFile, "レイアウト結果の保存パス（'-'で標準出力なのだ）。")

	// --- レイアウト挙動設定 ---
	rootCmd.PersistentFlags().Int64Var(&opts.Seed, "seed", config.DefaultSeed, "テンプレート選択に使う乱数シードなのだ。")
	rootCmd.PersistentFlags().IntVarP(&opts.PageLimit, "page-limit", "p", config.DefaultPageLimit, "1ページあたりの重要度の上限なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Generator, "generator", "g", config.DefaultGenerator, "ページ割り生成器（basic / plan-aware）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Mode, "mode", "m", config.DefaultMode, "ページ割りモード（simple / strict）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.ChunkSize, "chunk-size", 0, "台本をチャンク分割して逐次処理するサイズ（0で一括なのだ）。")

	layoutCmd.Flags().BoolVar(&opts.WithRender, "with-render", false, "吹き出し・効果音の配置計算まで実行するのだ。")
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(layoutCmd, inspectCmd, validateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
