package layout

import (
	"fmt"
	"math/rand"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// Slot はテンプレート内の1コマ分の枠で、ページに対する比率で保持します。
type Slot struct {
	Position domain.Point
	Size     domain.Size
}

// Template は特定のコマ数に対応する枠の並びです。
// Slots は読み順（右上から左下）で格納します。
type Template struct {
	Name       string
	PanelCount int
	Slots      []Slot
}

// builtinTemplates はコマ数ごとの定番テンプレート集です。
// 同じコマ数に複数の変種を持たせ、Selector がシードに基づいて選びます。
var builtinTemplates = map[int][]Template{
	1: {
		{Name: "splash", PanelCount: 1, Slots: []Slot{
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 1, Height: 1}},
		}},
	},
	2: {
		{Name: "stack", PanelCount: 2, Slots: []Slot{
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 1, Height: 0.5}},
			{Position: domain.Point{X: 0, Y: 0.5}, Size: domain.Size{Width: 1, Height: 0.5}},
		}},
		{Name: "stack-heavy-top", PanelCount: 2, Slots: []Slot{
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 1, Height: 0.62}},
			{Position: domain.Point{X: 0, Y: 0.62}, Size: domain.Size{Width: 1, Height: 0.38}},
		}},
	},
	3: {
		{Name: "top-wide", PanelCount: 3, Slots: []Slot{
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 1, Height: 0.45}},
			{Position: domain.Point{X: 0.5, Y: 0.45}, Size: domain.Size{Width: 0.5, Height: 0.55}},
			{Position: domain.Point{X: 0, Y: 0.45}, Size: domain.Size{Width: 0.5, Height: 0.55}},
		}},
		{Name: "bottom-wide", PanelCount: 3, Slots: []Slot{
			{Position: domain.Point{X: 0.5, Y: 0}, Size: domain.Size{Width: 0.5, Height: 0.55}},
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 0.5, Height: 0.55}},
			{Position: domain.Point{X: 0, Y: 0.55}, Size: domain.Size{Width: 1, Height: 0.45}},
		}},
	},
	4: {
		{Name: "quad", PanelCount: 4, Slots: []Slot{
			{Position: domain.Point{X: 0.5, Y: 0}, Size: domain.Size{Width: 0.5, Height: 0.5}},
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 0.5, Height: 0.5}},
			{Position: domain.Point{X: 0.5, Y: 0.5}, Size: domain.Size{Width: 0.5, Height: 0.5}},
			{Position: domain.Point{X: 0, Y: 0.5}, Size: domain.Size{Width: 0.5, Height: 0.5}},
		}},
		{Name: "yonkoma", PanelCount: 4, Slots: []Slot{
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 1, Height: 0.25}},
			{Position: domain.Point{X: 0, Y: 0.25}, Size: domain.Size{Width: 1, Height: 0.25}},
			{Position: domain.Point{X: 0, Y: 0.5}, Size: domain.Size{Width: 1, Height: 0.25}},
			{Position: domain.Point{X: 0, Y: 0.75}, Size: domain.Size{Width: 1, Height: 0.25}},
		}},
	},
	5: {
		{Name: "feature-top", PanelCount: 5, Slots: []Slot{
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 1, Height: 0.4}},
			{Position: domain.Point{X: 0.5, Y: 0.4}, Size: domain.Size{Width: 0.5, Height: 0.3}},
			{Position: domain.Point{X: 0, Y: 0.4}, Size: domain.Size{Width: 0.5, Height: 0.3}},
			{Position: domain.Point{X: 0.5, Y: 0.7}, Size: domain.Size{Width: 0.5, Height: 0.3}},
			{Position: domain.Point{X: 0, Y: 0.7}, Size: domain.Size{Width: 0.5, Height: 0.3}},
		}},
	},
	6: {
		{Name: "grid-2x3", PanelCount: 6, Slots: []Slot{
			{Position: domain.Point{X: 0.5, Y: 0}, Size: domain.Size{Width: 0.5, Height: 0.333333}},
			{Position: domain.Point{X: 0, Y: 0}, Size: domain.Size{Width: 0.5, Height: 0.333333}},
			{Position: domain.Point{X: 0.5, Y: 0.333333}, Size: domain.Size{Width: 0.5, Height: 0.333333}},
			{Position: domain.Point{X: 0, Y: 0.333333}, Size: domain.Size{Width: 0.5, Height: 0.333333}},
			{Position: domain.Point{X: 0.5, Y: 0.666666}, Size: domain.Size{Width: 0.5, Height: 0.333334}},
			{Position: domain.Point{X: 0, Y: 0.666666}, Size: domain.Size{Width: 0.5, Height: 0.333334}},
		}},
	},
}

// Selector はコマ数に合うテンプレートをシード付き乱数で選びます。
// 乱数は必ず外から注入されたシード由来なので、同じシードなら選択結果も同一です。
type Selector struct {
	rng *rand.Rand
}

// NewSelector は指定シードの Selector を生成します。
func NewSelector(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Select は panelCount に一致するテンプレートを1つ返します。
// 一致するものがない場合は2列グリッドのフォールバックを生成します。
func (s *Selector) Select(panelCount int) Template {
	candidates := builtinTemplates[panelCount]
	if len(candidates) == 0 {
		return fallbackGrid(panelCount)
	}
	return candidates[s.rng.Intn(len(candidates))]
}

// fallbackGrid はテンプレート未定義のコマ数向けに2列グリッドを生成します。
// 奇数コマの場合、最終行は1コマで全幅に引き伸ばします。
func fallbackGrid(panelCount int) Template {
	if panelCount < 1 {
		panelCount = 1
	}

	rows := (panelCount + 1) / 2
	rowHeight := 1.0 / float64(rows)
	slots := make([]Slot, 0, panelCount)

	for i := 0; i < panelCount; i++ {
		row := i / 2
		y := float64(row) * rowHeight
		lastSolo := i == panelCount-1 && panelCount%2 == 1

		if lastSolo {
			slots = append(slots, Slot{
				Position: domain.Point{X: 0, Y: y},
				Size:     domain.Size{Width: 1, Height: rowHeight},
			})
			continue
		}

		// 読み順は右から左
		x := 0.5
		if i%2 == 1 {
			x = 0
		}
		slots = append(slots, Slot{
			Position: domain.Point{X: x, Y: y},
			Size:     domain.Size{Width: 0.5, Height: rowHeight},
		})
	}

	return Template{
		Name:       fmt.Sprintf("grid-fallback-%d", panelCount),
		PanelCount: panelCount,
		Slots:      slots,
	}
}
