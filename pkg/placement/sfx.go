package placement

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/width"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// sfxRotations は効果音に順番に割り当てる傾き（度）の固定テーブルです。
var sfxRotations = []float64{-8, 5, -3, 7, 0}

// decorativeBrackets は効果音テキストから剥がす装飾括弧類です。
const decorativeBrackets = "【】「」『』《》〈〉≪≫〔〕[]｢｣"

// SfxPlacer は擬音テキストをアンカー候補点ベースで配置します。
// 効果音は装飾要素なので、配置に失敗してもパイプラインを止めず、
// 最終的には重なりを許容してでも必ず配置結果を返します。
type SfxPlacer struct {
	cfg      Config
	measurer Measurer
}

// NewSfxPlacer は SfxPlacer を生成します。
func NewSfxPlacer(cfg Config, m Measurer) (*SfxPlacer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("効果音プレーサーの設定が不正です: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("計測器（Measurer）が注入されていません")
	}
	return &SfxPlacer{cfg: cfg, measurer: m}, nil
}

// PlaceSfx は効果音テキスト群の配置を計算します。
// preOccupied には吹き出しの推定領域など先着の占有領域を渡します。
// 配置済みの効果音は順次占有領域に追加され、後続の効果音が避けて通ります。
func (s *SfxPlacer) PlaceSfx(sfxTexts []string, panel domain.Rect, preOccupied []domain.OccupiedArea) []domain.SfxPlacement {
	occupied := make([]domain.OccupiedArea, len(preOccupied))
	copy(occupied, preOccupied)

	var placements []domain.SfxPlacement

	for i, raw := range sfxTexts {
		main, supplement := ParseSfxText(raw)
		if main == "" {
			continue
		}

		placement, box := s.placeOne(main, supplement, i, panel, occupied)
		placement.Rotation = sfxRotations[i%len(sfxRotations)]

		occupied = append(occupied, domain.OccupiedArea{Rect: box, Kind: domain.AreaSfx})
		placements = append(placements, placement)
	}

	return placements
}

// placeOne は1件分の効果音を候補点×縮小の総当たりで配置します。
func (s *SfxPlacer) placeOne(main, supplement string, index int, panel domain.Rect, occupied []domain.OccupiedArea) (domain.SfxPlacement, domain.Rect) {
	candidates := s.cfg.SfxCandidates

	for c := 0; c < len(candidates); c++ {
		// 連続する効果音が同じ点から埋まらないよう index 分だけ回転させる
		anchor := candidates[(c+index)%len(candidates)]
		size := s.cfg.SfxMaxFontSize

		for attempt := 0; attempt < s.cfg.SfxAttempts && size >= s.cfg.SfxMinFontSize; attempt++ {
			box := s.estimateBox(main, supplement, anchor, size, panel)

			if panel.Contains(box) && !overlapsAny(box, occupied) {
				return domain.SfxPlacement{
					Text:       main,
					Supplement: supplement,
					X:          box.X,
					Y:          box.Y,
					FontSize:   size,
					Bounds:     box,
				}, box
			}
			size *= s.cfg.SfxShrinkFactor
		}
	}

	// 全候補・全サイズで失敗。装飾なので重なりを許容して最初の候補に落とす。
	slog.Debug("効果音の衝突回避に失敗したため重なりを許容して配置します", "text", main)
	size := s.cfg.SfxMinFontSize
	anchor := candidates[index%len(candidates)]
	box := s.estimateBox(main, supplement, anchor, size, panel)

	return domain.SfxPlacement{
		Text:       main,
		Supplement: supplement,
		X:          box.X,
		Y:          box.Y,
		FontSize:   size,
		Bounds:     box,
	}, box
}

// estimateBox はアンカー点を中心とした推定バウンディングボックスを算出し、
// コマ境界の内側へクランプします。
func (s *SfxPlacer) estimateBox(main, supplement string, anchor domain.Point, size float64, panel domain.Rect) domain.Rect {
	w := s.measurer.MeasureWidth(main, size)
	h := size * 1.1

	if supplement != "" {
		suppSize := size * 0.4
		if sw := s.measurer.MeasureWidth(supplement, suppSize); sw > w {
			w = sw
		}
		h += suppSize * 1.2
	}

	x := panel.X + anchor.X*panel.Width - w/2
	y := panel.Y + anchor.Y*panel.Height - h/2

	// コマ内に収まるよう位置だけを動かす（サイズは縮小ループ側の責務）
	x = clampTo(x, panel.X, maxF(panel.X, panel.Right()-w))
	y = clampTo(y, panel.Y, maxF(panel.Y, panel.Bottom()-h))

	return domain.Rect{X: x, Y: y, Width: w, Height: h}
}

// ParseSfxText は生の擬音文字列から装飾括弧と "SFX:" ラベルを剥がし、
// 末尾の丸括弧を補足（小さく添える注釈）として分離します。
// ラベルの判定は大文字小文字・全角半角を区別しません。
func ParseSfxText(raw string) (main, supplement string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ""
	}

	text = strings.Trim(text, decorativeBrackets)
	text = strings.TrimSpace(text)

	// "SFX:" / "ＳＦＸ：" などのラベル前置を除去
	folded := strings.ToUpper(width.Narrow.String(text))
	if strings.HasPrefix(folded, "SFX:") {
		runes := []rune(text)
		cut := len([]rune("SFX:"))
		if cut <= len(runes) {
			text = strings.TrimSpace(string(runes[cut:]))
		}
	}

	// 末尾の丸括弧は補足として分離する
	for _, pair := range [][2]string{{"（", "）"}, {"(", ")"}} {
		if strings.HasSuffix(text, pair[1]) {
			if idx := strings.LastIndex(text, pair[0]); idx >= 0 {
				supplement = strings.TrimSpace(text[idx+len(pair[0]) : len(text)-len(pair[1])])
				text = strings.TrimSpace(text[:idx])
				break
			}
		}
	}

	return text, supplement
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
