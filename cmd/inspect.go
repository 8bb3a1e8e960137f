package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// inspectCmd は、生成済みレイアウト（JSON）をテーブル表示するのだ。
var inspectCmd = &cobra.Command{
	Use:   "inspect [layout.json]",
	Short: "レイアウトドキュメントの中身を一覧表示するのだ。",
	Long: `layout コマンドが出力したJSONを読み込み、ページごとのコマ配置を
人間が読みやすいテーブルで表示するのだ。`,
	Args: cobra.MaximumNArgs(1),
	RunE: inspectCommand,
}

func inspectCommand(cmd *cobra.Command, args []string) error {
	path := opts.OutputFile
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("レイアウトファイルの読み込みに失敗したのだ (%s): %w", path, err)
	}

	// layout コマンドの出力形式と、ドキュメント単体の両方を受け付けるのだ
	var wrapped struct {
		Document *domain.LayoutDocument `json:"document"`
	}
	doc := &domain.LayoutDocument{}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Document != nil {
		doc = wrapped.Document
	} else if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("レイアウトJSONのパースに失敗したのだ: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "タイトル: %s（全%dページ）\n", doc.Title, len(doc.Pages))
	fmt.Fprintln(cmd.OutOrStdout(), renderPanelTable(doc))
	return nil
}

// renderPanelTable はページごとのコマ配置をテーブル文字列へ整形するのだ。
func renderPanelTable(doc *domain.LayoutDocument) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ページ", "コマ", "位置", "サイズ", "セリフ", "効果音", "内容"})

	for _, page := range doc.Pages {
		for i, panel := range page.Panels {
			tw.AppendRow(table.Row{
				page.PageNumber,
				i + 1,
				fmt.Sprintf("(%.2f, %.2f)", panel.Position.X, panel.Position.Y),
				fmt.Sprintf("%.2f x %.2f", panel.Size.Width, panel.Size.Height),
				len(panel.Dialogues),
				len(panel.Sfx),
				truncateCell(panel.Content, 24),
			})
		}
		tw.AppendSeparator()
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

func truncateCell(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
