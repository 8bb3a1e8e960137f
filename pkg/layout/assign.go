package layout

import (
	"log/slog"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// MaxPlacedDialogues は配置後の1コマに残すセリフ数の上限です。
const MaxPlacedDialogues = 2

// Assigner はページごとのコマ群をテンプレートの枠に割り当て、
// 説明テキストの確定と見せ方の強調度の再導出までを担います。
type Assigner struct {
	selector   *Selector
	resolver   *contentResolver
	normalizer Normalizer
}

// NewAssigner は Assigner を生成します。
// normalizer が nil の場合は DefaultNormalizer(6) を使います。
func NewAssigner(selector *Selector, normalizer Normalizer) *Assigner {
	if normalizer == nil {
		normalizer = DefaultNormalizer(6)
	}
	return &Assigner{
		selector:   selector,
		resolver:   newContentResolver(),
		normalizer: normalizer,
	}
}

// Assign はページ単位のコマ群をレイアウト済みページ列へ変換します。
// テンプレートの枠数を超えるコマは枠を巡回して再利用し（index % slotCount）、
// 最後に各ページの縦方向を [0,1] に正規化します。
func (a *Assigner) Assign(pageGroups []domain.Panels) []domain.Page {
	if len(pageGroups) == 0 {
		return nil
	}

	// 強調度はレイアウト全体の分布で均すため、先に全コマ分を集めて正規化する
	var rawScores []int
	for _, group := range pageGroups {
		for _, panel := range group {
			rawScores = append(rawScores, rawRenderScore(panel))
		}
	}
	importances := a.normalizer(rawScores)

	pages := make([]domain.Page, 0, len(pageGroups))
	scoreIdx := 0

	for pageIdx, group := range pageGroups {
		tmpl := a.selector.Select(len(group))
		if len(group) > len(tmpl.Slots) {
			slog.Warn("テンプレートの枠数を超えるコマがあるため枠を巡回します",
				"page", pageIdx+1, "panels", len(group), "slots", len(tmpl.Slots), "template", tmpl.Name)
		}

		pageSeen := make(map[string]struct{})
		placed := make([]domain.PlacedPanel, 0, len(group))

		for i, panel := range group {
			slot := tmpl.Slots[i%len(tmpl.Slots)]
			placed = append(placed, domain.PlacedPanel{
				Position:   slot.Position,
				Size:       slot.Size,
				Content:    a.resolver.Resolve(panel, pageSeen),
				Dialogues:  truncateDialogues(panel.Dialogues),
				Sfx:        panel.Sfx,
				Importance: importances[scoreIdx],
			})
			scoreIdx++
		}

		NormalizeVertical(placed)

		pages = append(pages, domain.Page{
			PageNumber: pageIdx + 1,
			Panels:     placed,
		})
	}

	return pages
}

// truncateDialogues はセリフを MaxPlacedDialogues 件までに切り詰めます。
func truncateDialogues(dialogues []domain.Dialogue) []domain.Dialogue {
	if len(dialogues) <= MaxPlacedDialogues {
		return dialogues
	}
	return dialogues[:MaxPlacedDialogues]
}
