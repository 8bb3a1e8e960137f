package layout

import "github.com/shouni/go-layout-kit/pkg/domain"

// Normalizer は生スコア列をレイアウト全体で比較可能な分布に均す関数です。
// ポリシーを差し替えられるよう注入可能にしてあります。
type Normalizer func(scores []int) []int

// rawRenderScore はコマの見せ方の強調度の生スコアを算出します。
// ページ区切りに使った Importance とは独立で、セリフ密度と
// 説明文の長さの固定閾値から導出します。
func rawRenderScore(p domain.Panel) int {
	score := 1

	dialogueLen := p.TotalDialogueLength()
	switch {
	case dialogueLen >= 80:
		score += 3
	case dialogueLen >= 40:
		score += 2
	case dialogueLen >= 15:
		score += 1
	}

	contentLen := len([]rune(p.Content))
	switch {
	case contentLen >= 60:
		score += 2
	case contentLen >= 24:
		score += 1
	}

	return score
}

// DefaultNormalizer は生スコアを min-max 方式で [1, ceiling] に均す
// 既定の Normalizer を返します。全スコアが同値の場合は中央値に寄せます。
func DefaultNormalizer(ceiling int) Normalizer {
	if ceiling < 1 {
		ceiling = 1
	}

	return func(scores []int) []int {
		if len(scores) == 0 {
			return nil
		}

		minScore, maxScore := scores[0], scores[0]
		for _, s := range scores {
			if s < minScore {
				minScore = s
			}
			if s > maxScore {
				maxScore = s
			}
		}

		out := make([]int, len(scores))
		if minScore == maxScore {
			mid := (1 + ceiling) / 2
			if mid < 1 {
				mid = 1
			}
			for i := range out {
				out[i] = mid
			}
			return out
		}

		spread := float64(maxScore - minScore)
		for i, s := range scores {
			ratio := float64(s-minScore) / spread
			out[i] = 1 + int(ratio*float64(ceiling-1)+0.5)
			if out[i] > ceiling {
				out[i] = ceiling
			}
		}
		return out
	}
}
