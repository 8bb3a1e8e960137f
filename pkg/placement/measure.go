package placement

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/width"
)

// Measurer は文字列の描画幅を返す計測能力です。
// 実体は外部のラスタライズ基盤から供給され、コア自身はピクセルを描きません。
type Measurer interface {
	MeasureWidth(text string, fontSize float64) float64
}

// IsFullwidth は全角（East Asian Wide / Fullwidth）の文字かどうかを判定します。
func IsFullwidth(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	default:
		return false
	}
}

// RatioMeasurer はフォント資産なしで動く決定的な計測器です。
// 全角をフォントサイズ1文字分、半角をその HalfwidthRatio 倍として見積もります。
type RatioMeasurer struct {
	HalfwidthRatio float64
}

// NewRatioMeasurer は既定比率（半角=0.5）の RatioMeasurer を生成します。
func NewRatioMeasurer() *RatioMeasurer {
	return &RatioMeasurer{HalfwidthRatio: 0.5}
}

// MeasureWidth は文字種ごとの概算幅の合計を返します。
func (m *RatioMeasurer) MeasureWidth(text string, fontSize float64) float64 {
	ratio := m.HalfwidthRatio
	if ratio <= 0 {
		ratio = 0.5
	}

	var total float64
	for _, r := range text {
		if IsFullwidth(r) {
			total += fontSize
		} else {
			total += fontSize * ratio
		}
	}
	return total
}

// FaceMeasurer は font.Face による実測値をフォントサイズに比例換算する計測器です。
type FaceMeasurer struct {
	Face     font.Face
	BaseSize float64
}

// NewBasicMeasurer はテスト向けに決定的な basicfont.Face7x13 の計測器を生成します。
func NewBasicMeasurer() *FaceMeasurer {
	return &FaceMeasurer{Face: basicfont.Face7x13, BaseSize: 13}
}

// MeasureWidth は Face の実測幅を fontSize/BaseSize でスケールして返します。
func (m *FaceMeasurer) MeasureWidth(text string, fontSize float64) float64 {
	if m.Face == nil || m.BaseSize <= 0 {
		return NewRatioMeasurer().MeasureWidth(text, fontSize)
	}

	d := &font.Drawer{Face: m.Face}
	measured := float64(d.MeasureString(text) >> 6) // fixed.Int26_6 をピクセルへ
	return measured * fontSize / m.BaseSize
}
