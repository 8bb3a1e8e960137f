package domain

import "sort"

// UniqueSpeakers はコマ列から重複しない話者名を抽出します。
func (ps Panels) UniqueSpeakers() []string {
	set := make(map[string]struct{})
	for _, panel := range ps {
		for _, d := range panel.Dialogues {
			if d.Speaker != "" {
				set[d.Speaker] = struct{}{}
			}
		}
	}

	speakers := make([]string, 0, len(set))
	for name := range set {
		speakers = append(speakers, name)
	}
	sort.Strings(speakers)

	return speakers
}

// HasPagePlan は全コマにページ番号が割り当て済みかどうかを返します。
// 1コマでも未割り当てがあればプランは不完全とみなします。
func (ps Panels) HasPagePlan() bool {
	if len(ps) == 0 {
		return false
	}
	for _, panel := range ps {
		if panel.Page <= 0 {
			return false
		}
	}
	return true
}

// TotalDialogueLength はコマ内の全セリフの文字数（rune数）合計を返します。
func (p Panel) TotalDialogueLength() int {
	total := 0
	for _, d := range p.Dialogues {
		total += len([]rune(d.Text))
	}
	return total
}
