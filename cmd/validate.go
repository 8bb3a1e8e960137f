package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-layout-kit/pkg/parser"
)

// validateCmd は、台本JSONのスキーマ検証だけを実行するのだ。
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "台本（JSON）がスキーマに適合しているか検証するのだ。",
	Long: `台本ファイルを読み込み、レイアウト計算は行わずに
スキーマ適合性だけをチェックするのだ。CIでの事前検証に便利なのだよ。`,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if opts.ScriptFile == "" && !isStdin() {
		return fmt.Errorf("台本（--script-file）を指定してほしいのだ")
	}

	var data []byte
	var err error
	if opts.ScriptFile == "" || opts.ScriptFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(opts.ScriptFile)
	}
	if err != nil {
		return fmt.Errorf("台本の読み込みに失敗したのだ: %w", err)
	}

	if err := parser.ValidateBytes(data); err != nil {
		return fmt.Errorf("台本の検証に失敗したのだ: %w", err)
	}

	slog.Info("台本はスキーマに適合しているのだ！", "script", opts.ScriptFile)
	return nil
}
