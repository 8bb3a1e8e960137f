package layout

import (
	"math"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// spanTolerance はページ縦方向の正規化をスキップできる許容誤差です。
const spanTolerance = 0.001

// NormalizeVertical はページ内のコマ群の縦方向の占有範囲を [0,1] に引き伸ばします。
// すでに正規化済み（誤差 spanTolerance 以内）の場合は何もしないため、
// 再適用しても結果は変わりません。
func NormalizeVertical(panels []domain.PlacedPanel) {
	if len(panels) == 0 {
		return
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range panels {
		if p.Position.Y < minY {
			minY = p.Position.Y
		}
		if bottom := p.Position.Y + p.Size.Height; bottom > maxY {
			maxY = bottom
		}
	}

	span := maxY - minY
	if span <= 0 {
		return
	}
	if math.Abs(span-1) <= spanTolerance && math.Abs(minY) <= spanTolerance {
		return
	}

	scale := 1 / span
	for i := range panels {
		panels[i].Position.Y = round6(clamp01((panels[i].Position.Y - minY) * scale))
		panels[i].Size.Height = round6(clamp01(panels[i].Size.Height * scale))
	}
}

// round6 はレイアウト出力の座標精度（小数6桁）に丸めます。
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// clamp01 は値を [0,1] に収めます。
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
