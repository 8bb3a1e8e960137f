package placement

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// Engine は1コマ内の空き領域探索と説明テキストの配置を担います。
// 計算は純粋・同期的で、占有状態の更新は呼び出し側の責務です。
type Engine struct {
	cfg      Config
	measurer Measurer
}

// NewEngine は配置エンジンを生成します。設定エラーは即時に返します。
func NewEngine(cfg Config, m Measurer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置エンジンの設定が不正です: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("計測器（Measurer）が注入されていません")
	}
	return &Engine{cfg: cfg, measurer: m}, nil
}

// Config はエンジンの設定値を返します。
func (e *Engine) Config() Config { return e.cfg }

// CalculateContentTextPlacement は説明テキストの衝突しない配置を計算します。
// 空き領域を面積降順に試し、フォントサイズを最大値から最小値まで下げながら
// 収まる組を探します。どこにも収まらない場合でも強制配置を返し、nil は
// text が空のときにのみ返します。副作用はなく、返された矩形を占有領域として
// 登録するのは呼び出し側の仕事です。
func (e *Engine) CalculateContentTextPlacement(text string, panel domain.Rect, reg *Registry) *domain.ContentPlacement {
	if text == "" {
		return nil
	}

	obstacles := reg.OccupiedAreas()
	if len(obstacles) > e.cfg.ObstacleWarnCount {
		// 探索は座標候補の直積で最悪4乗に伸びる。実コマでは障害物は数個なので
		// 再設計はせず、想定を超えたときだけ警告を残す。
		slog.Warn("占有領域が多く空き領域探索が高コストになっています",
			"obstacles", len(obstacles), "threshold", e.cfg.ObstacleWarnCount)
	}

	regions := e.freeRegions(panel, obstacles)

	bestSize := e.cfg.MinFontSize
	bestOverflow := -1.0

	for _, region := range regions {
		for size := e.cfg.MaxFontSize; size >= e.cfg.MinFontSize; size-- {
			lines := wrapText(text, region.Width, size, e.measurer)
			needed := float64(len(lines)) * size * e.cfg.LineHeight

			if needed <= region.Height {
				return &domain.ContentPlacement{
					Text:     text,
					X:        region.X,
					Y:        region.Y,
					Width:    region.Width,
					Height:   needed,
					FontSize: size,
					Lines:    lines,
					Bounds:   domain.Rect{X: region.X, Y: region.Y, Width: region.Width, Height: needed},
				}
			}

			if overflow := needed - region.Height; bestOverflow < 0 || overflow < bestOverflow {
				bestOverflow = overflow
				bestSize = size
			}
		}
	}

	return e.forcedPlacement(text, panel, bestSize)
}

// freeRegions はコマ境界と障害物の辺から候補座標を作り、
// 障害物と重ならない軸平行矩形を面積降順で列挙します。
func (e *Engine) freeRegions(panel domain.Rect, obstacles []domain.OccupiedArea) []domain.Rect {
	inner := panel.Inset(e.cfg.Margin)
	if inner.Width <= 0 || inner.Height <= 0 {
		return nil
	}

	xs := []float64{inner.X, inner.Right()}
	ys := []float64{inner.Y, inner.Bottom()}
	for _, ob := range obstacles {
		xs = append(xs, clampTo(ob.X-e.cfg.Margin, inner.X, inner.Right()))
		xs = append(xs, clampTo(ob.Right()+e.cfg.Margin, inner.X, inner.Right()))
		ys = append(ys, clampTo(ob.Y-e.cfg.Margin, inner.Y, inner.Bottom()))
		ys = append(ys, clampTo(ob.Bottom()+e.cfg.Margin, inner.Y, inner.Bottom()))
	}
	xs = sortUnique(xs)
	ys = sortUnique(ys)

	var regions []domain.Rect
	for i := 0; i < len(xs); i++ {
		for j := i + 1; j < len(xs); j++ {
			for k := 0; k < len(ys); k++ {
				for l := k + 1; l < len(ys); l++ {
					cand := domain.Rect{
						X:      xs[i],
						Y:      ys[k],
						Width:  xs[j] - xs[i],
						Height: ys[l] - ys[k],
					}
					if cand.Width < e.cfg.MinRegionSize || cand.Height < e.cfg.MinRegionSize {
						continue
					}
					if overlapsAny(cand, obstacles) {
						continue
					}
					regions = append(regions, cand)
				}
			}
		}
	}

	sort.Slice(regions, func(a, b int) bool {
		return regions[a].Area() > regions[b].Area()
	})
	return regions
}

// forcedPlacement はどの空き領域にも収まらなかったテキストの最終手段です。
// コマ自身の境界を占有比率で制限した矩形に、探索中もっとも溢れの少なかった
// フォントサイズで詰め込み、収まらない行は省略記号付きで切り捨てます。
func (e *Engine) forcedPlacement(text string, panel domain.Rect, fontSize float64) *domain.ContentPlacement {
	inner := panel.Inset(e.cfg.Margin)
	region := domain.Rect{
		X:      inner.X,
		Y:      inner.Y,
		Width:  inner.Width * e.cfg.MaxWidthRatio,
		Height: inner.Height * e.cfg.MaxHeightRatio,
	}
	if region.Width <= 0 || region.Height <= 0 {
		region = panel
	}

	lines := wrapText(text, region.Width, fontSize, e.measurer)
	maxLines := int(region.Height / (fontSize * e.cfg.LineHeight))
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		slog.Debug("説明テキストを強制配置で切り詰めます",
			"lines", len(lines), "max_lines", maxLines, "font_size", fontSize)
		lines = truncateWithEllipsis(lines, maxLines)
	}

	height := float64(len(lines)) * fontSize * e.cfg.LineHeight
	return &domain.ContentPlacement{
		Text:     text,
		X:        region.X,
		Y:        region.Y,
		Width:    region.Width,
		Height:   height,
		FontSize: fontSize,
		Lines:    lines,
		Bounds:   domain.Rect{X: region.X, Y: region.Y, Width: region.Width, Height: height},
	}
}

func overlapsAny(rect domain.Rect, obstacles []domain.OccupiedArea) bool {
	for _, ob := range obstacles {
		if rect.Overlaps(ob.Rect) {
			return true
		}
	}
	return false
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortUnique(vals []float64) []float64 {
	sort.Float64s(vals)
	out := vals[:0]
	for i, v := range vals {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
