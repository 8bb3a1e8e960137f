package placement

import "strings"

// probeChars は折り返し見積もりに使うサンプル文字です。
// 全文を都度実測する代わりに、全角・半角1文字分の幅を測って概算します。
const (
	fullwidthProbe = "あ"
	halfwidthProbe = "M"
)

// wrapText は text を maxWidth に収まるよう行分割します。
// 全角・半角のサンプル幅で1文字ずつ積算し、ASCII 単語の途中で折り返す場合は
// 直近のスペースまで戻して単語単位の折り返しにします。明示的な改行は常に尊重します。
func wrapText(text string, maxWidth, fontSize float64, m Measurer) []string {
	if text == "" {
		return nil
	}

	fw := m.MeasureWidth(fullwidthProbe, fontSize)
	hw := m.MeasureWidth(halfwidthProbe, fontSize)
	if fw <= 0 {
		fw = fontSize
	}
	if hw <= 0 {
		hw = fontSize / 2
	}

	var lines []string
	var line []rune
	var lineWidth float64

	flush := func() {
		lines = append(lines, strings.TrimRight(string(line), " "))
		line = line[:0]
		lineWidth = 0
	}

	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}

		w := hw
		if IsFullwidth(r) {
			w = fw
		}

		if lineWidth+w > maxWidth && len(line) > 0 {
			// ASCII 単語の途中なら直近のスペースで折り返す
			if isWordRune(r) {
				if idx := lastSpace(line); idx >= 0 {
					rest := append([]rune{}, line[idx+1:]...)
					line = line[:idx]
					flush()
					line = append(line, rest...)
					for _, lr := range rest {
						if IsFullwidth(lr) {
							lineWidth += fw
						} else {
							lineWidth += hw
						}
					}
				} else {
					flush()
				}
			} else {
				flush()
			}
		}

		if len(line) == 0 && r == ' ' {
			continue
		}
		line = append(line, r)
		lineWidth += w
	}

	if len(line) > 0 || len(lines) == 0 {
		flush()
	}

	return lines
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func lastSpace(line []rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			return i
		}
	}
	return -1
}

// truncateWithEllipsis は行数を maxLines に切り詰め、最終行の末尾を省略記号にします。
func truncateWithEllipsis(lines []string, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) <= maxLines {
		return lines
	}

	out := make([]string, maxLines)
	copy(out, lines[:maxLines])

	last := []rune(out[maxLines-1])
	if len(last) > 0 {
		last = last[:len(last)-1]
	}
	out[maxLines-1] = string(last) + "…"
	return out
}
