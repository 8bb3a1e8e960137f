package placement

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

func testBubbleLayouter(t *testing.T) *BubbleLayouter {
	t.Helper()
	b, err := NewBubbleLayouter(DefaultPlacementConfig(), NewRatioMeasurer())
	require.NoError(t, err)
	return b
}

func TestNewBubbleLayouter_ConfigValidation(t *testing.T) {
	cfg := DefaultPlacementConfig()
	cfg.BubbleTypes = nil

	_, err := NewBubbleLayouter(cfg, NewRatioMeasurer())
	assert.Error(t, err, "対象セリフ種別なしは起動時エラーのはずです")
}

func TestBubbleLayouter_LayoutBubbles(t *testing.T) {
	panel := domain.Rect{X: 0, Y: 0, Width: 800, Height: 600}

	t.Run("資産が欠けていたら即時エラーになること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{{Speaker: "A", Text: "こんにちは", Type: domain.DialogueSpeech}}

		_, err := b.LayoutBubbles(dialogues, map[string]TextAsset{}, panel, NewRegistry())
		assert.True(t, errors.Is(err, ErrMissingAsset), "ErrMissingAsset が返るはずです: %v", err)
	})

	t.Run("通常セリフは矩形を内包する√2倍の楕円になること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{{Speaker: "A", Text: "やあ", Type: domain.DialogueSpeech}}
		assets := map[string]TextAsset{"やあ": {Width: 60, Height: 120}}

		shapes, err := b.LayoutBubbles(dialogues, assets, panel, NewRegistry())
		require.NoError(t, err)
		require.Len(t, shapes, 1)

		s := shapes[0]
		assert.InDelta(t, s.Bounds.Width/2*math.Sqrt2, s.RadiusX, 1e-9)
		assert.InDelta(t, s.Bounds.Height/2*math.Sqrt2, s.RadiusY, 1e-9)
	})

	t.Run("ナレーションは素の矩形になること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{{Text: "数日後", Type: domain.DialogueNarration}}
		assets := map[string]TextAsset{"数日後": {Width: 90, Height: 30}}

		shapes, err := b.LayoutBubbles(dialogues, assets, panel, NewRegistry())
		require.NoError(t, err)
		require.Len(t, shapes, 1)

		assert.Empty(t, shapes[0].Outline)
		assert.Zero(t, shapes[0].RadiusX)
		assert.Nil(t, shapes[0].Label, "ナレーションに話者タグは付かないはずです")
	})

	t.Run("思考フキダシの輪郭が決定的であること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{{Speaker: "A", Text: "（どうしよう）", Type: domain.DialogueThought}}
		assets := map[string]TextAsset{"（どうしよう）": {Width: 50, Height: 200}}

		first, err := b.LayoutBubbles(dialogues, assets, panel, NewRegistry())
		require.NoError(t, err)
		second, err := b.LayoutBubbles(dialogues, assets, panel, NewRegistry())
		require.NoError(t, err)

		assert.Equal(t, first, second, "同じ入力からは同じ輪郭が得られるはずです")
		require.NotEmpty(t, first[0].Outline)
		require.NotEmpty(t, first[0].Satellites)
		assert.LessOrEqual(t, len(first[0].Satellites), 3)

		// 尾の円は減衰すること
		sat := first[0].Satellites
		for i := 1; i < len(sat); i++ {
			assert.Less(t, sat[i].Radius, sat[i-1].Radius)
		}
	})

	t.Run("複数の吹き出しが右から左の列に割り当てられること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{
			{Speaker: "A", Text: "先に話す", Type: domain.DialogueSpeech},
			{Speaker: "B", Text: "後に話す", Type: domain.DialogueSpeech},
		}
		assets := map[string]TextAsset{
			"先に話す": {Width: 40, Height: 160},
			"後に話す": {Width: 40, Height: 160},
		}

		reg := NewRegistry()
		shapes, err := b.LayoutBubbles(dialogues, assets, panel, reg)
		require.NoError(t, err)
		require.Len(t, shapes, 2)

		// 読み順: 最初のセリフが右側
		assert.Greater(t, shapes[0].Bounds.X, shapes[1].Bounds.X)

		// 吹き出し領域が登録されていること
		assert.Len(t, reg.OccupiedAreas(), 2)
	})

	t.Run("列に収まらない資産は縮小されること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{
			{Speaker: "A", Text: "長", Type: domain.DialogueSpeech},
			{Speaker: "B", Text: "短", Type: domain.DialogueSpeech},
		}
		assets := map[string]TextAsset{
			"長": {Width: 700, Height: 300},
			"短": {Width: 40, Height: 80},
		}

		shapes, err := b.LayoutBubbles(dialogues, assets, panel, NewRegistry())
		require.NoError(t, err)
		assert.LessOrEqual(t, shapes[0].Bounds.Width, panel.Width/2+1e-9,
			"列幅を超える吹き出しは縮小されるはずです")
	})

	t.Run("話者タグがコマ内に収まること", func(t *testing.T) {
		b := testBubbleLayouter(t)
		dialogues := []domain.Dialogue{{Speaker: "とても長い名前の登場人物", Text: "わっ", Type: domain.DialogueSpeech}}
		assets := map[string]TextAsset{"わっ": {Width: 40, Height: 80}}

		shapes, err := b.LayoutBubbles(dialogues, assets, panel, NewRegistry())
		require.NoError(t, err)
		require.NotNil(t, shapes[0].Label)

		label := shapes[0].Label
		assert.GreaterOrEqual(t, label.Bounds.X, panel.X)
		assert.LessOrEqual(t, label.Bounds.Right(), panel.Right()+1e-9)
	})

	t.Run("セリフなしは何も返さないこと", func(t *testing.T) {
		b := testBubbleLayouter(t)
		shapes, err := b.LayoutBubbles(nil, nil, panel, NewRegistry())
		require.NoError(t, err)
		assert.Nil(t, shapes)
	})
}
