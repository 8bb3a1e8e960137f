package placement

import (
	"fmt"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// デフォルト値の定義
const (
	DefaultBubblePadding     = 12.0
	DefaultMinFontSize       = 12.0
	DefaultMaxFontSize       = 28.0
	DefaultLineHeight        = 1.4
	DefaultMaxWidthRatio     = 0.8
	DefaultMaxHeightRatio    = 0.35
	DefaultMinRegionSize     = 48.0
	DefaultMargin            = 16.0
	DefaultSfxMaxFontSize    = 64.0
	DefaultSfxMinFontSize    = 20.0
	DefaultSfxShrinkFactor   = 0.9
	DefaultSfxAttempts       = 10
	DefaultObstacleWarnCount = 8
)

// Config は配置エンジン全体の調整パラメータです。
type Config struct {
	// BubblePadding は吹き出し内のテキスト周囲の余白（ピクセル）です。
	BubblePadding float64

	// MinFontSize / MaxFontSize は説明テキストのフォントサイズ探索範囲です。
	MinFontSize float64
	MaxFontSize float64

	// LineHeight は行送りの倍率です。
	LineHeight float64

	// MaxWidthRatio / MaxHeightRatio は強制配置時にコマに対して
	// 説明テキストが占有できる最大比率です。
	MaxWidthRatio  float64
	MaxHeightRatio float64

	// MinRegionSize は配置候補として採用する空き領域の最小の辺長です。
	MinRegionSize float64

	// Margin はコマ端および障害物からの余白です。
	Margin float64

	// ObstacleWarnCount は空き領域探索の計算量警告を出す障害物数の閾値です。
	// 探索は障害物数に対して最悪4乗のオーダーで増えます。
	ObstacleWarnCount int

	// SfxMaxFontSize / SfxMinFontSize は効果音のフォントサイズ範囲です。
	SfxMaxFontSize float64
	SfxMinFontSize float64

	// SfxShrinkFactor は衝突時の縮小率、SfxAttempts は試行回数の上限です。
	SfxShrinkFactor float64
	SfxAttempts     int

	// SfxCandidates は効果音のアンカー候補点（コマに対する比率）です。
	SfxCandidates []domain.Point

	// BubbleTypes は吹き出し本数の制限対象となるセリフ種別です。
	// 空のままレイアウトを開始した場合は設定エラーになります。
	BubbleTypes []domain.DialogueType
}

// DefaultSfxCandidates は効果音のアンカー候補点の既定セットです。
// 連続する効果音が同じ点に集中しないよう、呼び出し側で項目index分だけ回転させます。
func DefaultSfxCandidates() []domain.Point {
	return []domain.Point{
		{X: 0.72, Y: 0.18},
		{X: 0.25, Y: 0.72},
		{X: 0.70, Y: 0.68},
		{X: 0.30, Y: 0.22},
		{X: 0.50, Y: 0.45},
	}
}

// DefaultPlacementConfig は推奨されるデフォルト設定を返します。
func DefaultPlacementConfig() Config {
	return Config{
		BubblePadding:     DefaultBubblePadding,
		MinFontSize:       DefaultMinFontSize,
		MaxFontSize:       DefaultMaxFontSize,
		LineHeight:        DefaultLineHeight,
		MaxWidthRatio:     DefaultMaxWidthRatio,
		MaxHeightRatio:    DefaultMaxHeightRatio,
		MinRegionSize:     DefaultMinRegionSize,
		Margin:            DefaultMargin,
		ObstacleWarnCount: DefaultObstacleWarnCount,
		SfxMaxFontSize:    DefaultSfxMaxFontSize,
		SfxMinFontSize:    DefaultSfxMinFontSize,
		SfxShrinkFactor:   DefaultSfxShrinkFactor,
		SfxAttempts:       DefaultSfxAttempts,
		SfxCandidates:     DefaultSfxCandidates(),
		BubbleTypes: []domain.DialogueType{
			domain.DialogueSpeech,
			domain.DialogueThought,
			domain.DialogueNarration,
		},
	}
}

// Validate は設定値の整合性を検査します。
// 不正値は起動時点のエラーとして返し、黙って既定値に置き換えることはしません。
func (c Config) Validate() error {
	if c.MinFontSize <= 0 || c.MaxFontSize < c.MinFontSize {
		return fmt.Errorf("フォントサイズ範囲が不正です: min=%v max=%v", c.MinFontSize, c.MaxFontSize)
	}
	if c.LineHeight <= 0 {
		return fmt.Errorf("行送り倍率は正の値が必要です: %v", c.LineHeight)
	}
	if c.MaxWidthRatio <= 0 || c.MaxWidthRatio > 1 || c.MaxHeightRatio <= 0 || c.MaxHeightRatio > 1 {
		return fmt.Errorf("占有比率は (0,1] が必要です: width=%v height=%v", c.MaxWidthRatio, c.MaxHeightRatio)
	}
	if c.SfxShrinkFactor <= 0 || c.SfxShrinkFactor >= 1 {
		return fmt.Errorf("効果音の縮小率は (0,1) が必要です: %v", c.SfxShrinkFactor)
	}
	if c.SfxAttempts < 1 {
		return fmt.Errorf("効果音の試行回数は1以上が必要です: %d", c.SfxAttempts)
	}
	if len(c.SfxCandidates) == 0 {
		return fmt.Errorf("効果音のアンカー候補点が設定されていません")
	}
	return nil
}
