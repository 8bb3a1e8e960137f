package placement

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// ErrMissingAsset は必要な事前レンダリング済みテキスト資産が無いことを示します。
// 劣化描画で取り繕うことは上流パイプラインの欠陥を隠すため、明示的に拒否します。
var ErrMissingAsset = errors.New("事前レンダリング済みテキスト資産が見つかりません")

// TextAsset は外部で縦書きレンダリングされたテキスト画像の固有サイズです。
type TextAsset struct {
	Width  float64
	Height float64
}

// Circle は思考フキダシの尾などに使う円です。
type Circle struct {
	Center domain.Point `json:"center"`
	Radius float64      `json:"radius"`
}

// SpeakerLabel は吹き出し端に添える話者名タグです。
type SpeakerLabel struct {
	Text         string      `json:"text"`
	Bounds       domain.Rect `json:"bounds"`
	FontSize     float64     `json:"fontSize"`
	CornerRadius float64     `json:"cornerRadius"`
}

// BubbleShape は吹き出し1つ分の幾何情報で、下流の描画ステップが消費します。
type BubbleShape struct {
	Type   domain.DialogueType `json:"type"`
	Text   string              `json:"text"`
	Bounds domain.Rect         `json:"bounds"`

	// 楕円（speech / thought の基礎形状）
	Center  domain.Point `json:"center"`
	RadiusX float64      `json:"radiusX"`
	RadiusY float64      `json:"radiusY"`

	// thought のもこもこ輪郭と尾の円
	Outline    []domain.Point `json:"outline,omitempty"`
	Satellites []Circle       `json:"satellites,omitempty"`

	Label *SpeakerLabel `json:"label,omitempty"`
}

// BubbleLayouter はコマ内の吹き出し幾何を計算します。
// コマは右から左へ読むため、吹き出しは右端の列から順に割り当てます。
type BubbleLayouter struct {
	cfg      Config
	measurer Measurer
}

// NewBubbleLayouter は BubbleLayouter を生成します。
// 吹き出し本数制限の対象種別が1つも設定されていない場合は設定エラーです。
func NewBubbleLayouter(cfg Config, m Measurer) (*BubbleLayouter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("吹き出しレイアウトの設定が不正です: %w", err)
	}
	if len(cfg.BubbleTypes) == 0 {
		return nil, fmt.Errorf("吹き出し本数制限の対象となるセリフ種別が設定されていません")
	}
	if m == nil {
		return nil, fmt.Errorf("計測器（Measurer）が注入されていません")
	}
	return &BubbleLayouter{cfg: cfg, measurer: m}, nil
}

// LayoutBubbles はコマ内の全吹き出しの形状を計算し、占有領域を登録します。
// assets はセリフ本文をキーとする事前レンダリング済み資産のサイズ表で、
// 欠けているセリフがあれば即時エラーになります。
func (b *BubbleLayouter) LayoutBubbles(dialogues []domain.Dialogue, assets map[string]TextAsset, panel domain.Rect, reg *Registry) ([]BubbleShape, error) {
	if len(dialogues) == 0 {
		return nil, nil
	}

	for _, d := range dialogues {
		if _, ok := assets[d.Text]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingAsset, d.Text)
		}
	}

	// 右から左の読み順に等幅の列を割り当てる
	colWidth := panel.Width / float64(len(dialogues))
	shapes := make([]BubbleShape, 0, len(dialogues))

	for i, d := range dialogues {
		asset := assets[d.Text]
		colX := panel.Right() - float64(i+1)*colWidth

		shape := b.buildShape(d, asset, domain.Rect{
			X:      colX,
			Y:      panel.Y,
			Width:  colWidth,
			Height: panel.Height,
		})

		if d.Speaker != "" && d.Type != domain.DialogueNarration {
			shape.Label = b.buildLabel(d.Speaker, shape.Bounds, panel)
		}

		reg.RegisterDialogueArea(shape.Bounds)
		shapes = append(shapes, shape)
	}

	return shapes, nil
}

// buildShape は1つの吹き出しの外形を種別ごとに組み立てます。
func (b *BubbleLayouter) buildShape(d domain.Dialogue, asset TextAsset, column domain.Rect) BubbleShape {
	padded := domain.Size{
		Width:  asset.Width + 2*b.cfg.BubblePadding,
		Height: asset.Height + 2*b.cfg.BubblePadding,
	}

	// 列に収まるよう縮小（拡大はしない）
	scale := 1.0
	if padded.Width > column.Width && padded.Width > 0 {
		scale = column.Width / padded.Width
	}
	if padded.Height*scale > column.Height && padded.Height > 0 {
		if s := column.Height / padded.Height; s < scale {
			scale = s
		}
	}
	padded.Width *= scale
	padded.Height *= scale

	// 上流のサイズ見積もり誤差への防御: 資産が矩形から溢れるなら矩形側を広げる
	if asset.Width*scale > padded.Width-2*b.cfg.BubblePadding*scale {
		padded.Width = asset.Width*scale + 2*b.cfg.BubblePadding*scale
	}

	rect := domain.Rect{
		X:      column.X + (column.Width-padded.Width)/2,
		Y:      column.Y + b.cfg.BubblePadding,
		Width:  padded.Width,
		Height: padded.Height,
	}

	center := domain.Point{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}

	switch d.Type {
	case domain.DialogueThought:
		return b.thoughtShape(d.Text, rect, center)
	case domain.DialogueNarration:
		return BubbleShape{Type: d.Type, Text: d.Text, Bounds: rect, Center: center}
	default:
		// 矩形を必ず内包する最小の楕円は、半軸を矩形の半寸法の √2 倍にしたもの
		return BubbleShape{
			Type:    domain.DialogueSpeech,
			Text:    d.Text,
			Bounds:  rect,
			Center:  center,
			RadiusX: rect.Width / 2 * math.Sqrt2,
			RadiusY: rect.Height / 2 * math.Sqrt2,
		}
	}
}

// thoughtShape はもこもこ輪郭の思考フキダシを生成します。
// 膨らみの乱数は形状自身の座標から導出したシードで固定するため、
// 同じ入力からは常に同じ輪郭が得られます。
func (b *BubbleLayouter) thoughtShape(text string, rect domain.Rect, center domain.Point) BubbleShape {
	rx := rect.Width / 2 * math.Sqrt2
	ry := rect.Height / 2 * math.Sqrt2
	rng := rand.New(rand.NewSource(geometrySeed(rect)))

	const lobes = 12
	outline := make([]domain.Point, 0, lobes*2)

	for k := 0; k < lobes; k++ {
		a1 := 2 * math.Pi * float64(k) / lobes
		a2 := 2 * math.Pi * float64(k+1) / lobes

		outline = append(outline, domain.Point{
			X: center.X + rx*math.Cos(a1),
			Y: center.Y + ry*math.Sin(a1),
		})

		// 中間点を外側へ膨らませて雲型のシルエットを作る
		mid := (a1 + a2) / 2
		bulge := 1 + 0.08 + 0.12*rng.Float64()
		outline = append(outline, domain.Point{
			X: center.X + rx*bulge*math.Cos(mid),
			Y: center.Y + ry*bulge*math.Sin(mid),
		})
	}

	// 固定角度の方向へ減衰する尾の円を 1〜3 個
	const tailAngle = 3 * math.Pi / 4
	count := 1 + rng.Intn(3)
	satellites := make([]Circle, 0, count)
	radius := math.Min(rx, ry) * 0.18
	dist := math.Max(rx, ry) * 1.1

	for k := 0; k < count; k++ {
		satellites = append(satellites, Circle{
			Center: domain.Point{
				X: center.X + dist*math.Cos(tailAngle),
				Y: center.Y + dist*math.Sin(tailAngle),
			},
			Radius: radius,
		})
		radius *= 0.6
		dist *= 1.25
	}

	return BubbleShape{
		Type:       domain.DialogueThought,
		Text:       text,
		Bounds:     rect,
		Center:     center,
		RadiusX:    rx,
		RadiusY:    ry,
		Outline:    outline,
		Satellites: satellites,
	}
}

// buildLabel は話者名タグを吹き出し左上に寄せて生成します。
// コマ境界に収まるまでフォントサイズを落とし、最後は位置をクランプします。
func (b *BubbleLayouter) buildLabel(speaker string, bubble domain.Rect, panel domain.Rect) *SpeakerLabel {
	size := b.cfg.MinFontSize * 1.2
	floor := b.cfg.MinFontSize * 0.6
	pad := b.cfg.BubblePadding / 2

	var rect domain.Rect
	for {
		w := b.measurer.MeasureWidth(speaker, size) + 2*pad
		h := size + 2*pad
		rect = domain.Rect{X: bubble.X - w/3, Y: bubble.Y - h/2, Width: w, Height: h}

		if (rect.Width <= panel.Width && rect.Height <= panel.Height) || size <= floor {
			break
		}
		size *= 0.9
	}

	rect.X = clampTo(rect.X, panel.X, maxF(panel.X, panel.Right()-rect.Width))
	rect.Y = clampTo(rect.Y, panel.Y, maxF(panel.Y, panel.Bottom()-rect.Height))

	return &SpeakerLabel{
		Text:         speaker,
		Bounds:       rect,
		FontSize:     size,
		CornerRadius: pad,
	}
}

// geometrySeed は矩形の座標ビットから決定的なシードを導出します。
func geometrySeed(r domain.Rect) int64 {
	h := fnv.New64a()
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		bits := math.Float64bits(v)
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}
