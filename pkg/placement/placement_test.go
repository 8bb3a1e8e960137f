package placement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultPlacementConfig(), NewRatioMeasurer())
	require.NoError(t, err)
	return e
}

func TestRegistry(t *testing.T) {
	t.Run("登録した領域が検出されること", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterDialogueArea(domain.Rect{X: 0, Y: 0, Width: 100, Height: 100})

		assert.True(t, reg.OverlapsAny(domain.Rect{X: 50, Y: 50, Width: 10, Height: 10}))
		assert.False(t, reg.OverlapsAny(domain.Rect{X: 200, Y: 200, Width: 10, Height: 10}))
	})

	t.Run("Reset で全領域が破棄されること", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterSfxArea(domain.Rect{X: 0, Y: 0, Width: 100, Height: 100})
		reg.Reset()

		assert.Empty(t, reg.OccupiedAreas())
		assert.False(t, reg.OverlapsAny(domain.Rect{X: 10, Y: 10, Width: 10, Height: 10}))
	})

	t.Run("OccupiedAreas はコピーを返すこと", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterContentArea(domain.Rect{X: 1, Y: 2, Width: 3, Height: 4})

		areas := reg.OccupiedAreas()
		areas[0].X = 999

		assert.Equal(t, 1.0, reg.OccupiedAreas()[0].X)
	})
}

func TestWrapText(t *testing.T) {
	m := NewRatioMeasurer()

	t.Run("全角テキストが幅で折り返されること", func(t *testing.T) {
		// 幅 50 / フォント 10 → 1行5文字
		lines := wrapText("あいうえおかきくけこ", 50, 10, m)
		require.Len(t, lines, 2)
		assert.Equal(t, "あいうえお", lines[0])
	})

	t.Run("ASCII 単語は途中で割らずスペースで折り返すこと", func(t *testing.T) {
		lines := wrapText("hello golang world", 40, 10, m)
		for _, line := range lines {
			assert.NotContains(t, line, "  ")
		}
		// 単語の分断がないこと
		joined := strings.Join(lines, " ")
		assert.Contains(t, joined, "golang")
	})

	t.Run("明示的な改行が尊重されること", func(t *testing.T) {
		lines := wrapText("一行目\n二行目", 1000, 10, m)
		assert.Equal(t, []string{"一行目", "二行目"}, lines)
	})

	t.Run("空文字は nil を返すこと", func(t *testing.T) {
		assert.Nil(t, wrapText("", 100, 10, m))
	})
}

func TestTruncateWithEllipsis(t *testing.T) {
	lines := []string{"あああ", "いいい", "ううう"}

	got := truncateWithEllipsis(lines, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "いい…", got[1])

	assert.Equal(t, lines, truncateWithEllipsis(lines, 5))
}

func TestEngine_CalculateContentTextPlacement(t *testing.T) {
	panel := domain.Rect{X: 0, Y: 0, Width: 800, Height: 600}

	t.Run("障害物のない空き領域に配置されること", func(t *testing.T) {
		e := testEngine(t)
		reg := NewRegistry()

		p := e.CalculateContentTextPlacement("夕暮れの商店街。", panel, reg)
		require.NotNil(t, p)
		assert.GreaterOrEqual(t, p.FontSize, e.Config().MinFontSize)
		assert.NotEmpty(t, p.Lines)
		assert.True(t, panel.Contains(p.Bounds), "配置はコマ内に収まるはずです: %+v", p.Bounds)
	})

	t.Run("障害物を避けて配置されること", func(t *testing.T) {
		e := testEngine(t)
		reg := NewRegistry()
		obstacle := domain.Rect{X: 0, Y: 0, Width: 800, Height: 300}
		reg.RegisterDialogueArea(obstacle)

		p := e.CalculateContentTextPlacement("路地の奥から足音が近づく。", panel, reg)
		require.NotNil(t, p)
		assert.False(t, p.Bounds.Overlaps(obstacle), "障害物と重なっています: %+v", p.Bounds)
	})

	t.Run("シナリオE: どこにも収まらない場合も強制配置が返ること", func(t *testing.T) {
		e := testEngine(t)
		reg := NewRegistry()
		tiny := domain.Rect{X: 0, Y: 0, Width: 120, Height: 90}
		long := strings.Repeat("長い説明文がどこまでも続いていく。", 20)

		p := e.CalculateContentTextPlacement(long, tiny, reg)
		require.NotNil(t, p, "配置は常に何かを返すはずです")
		require.NotEmpty(t, p.Lines)
		assert.True(t, strings.HasSuffix(p.Lines[len(p.Lines)-1], "…"),
			"切り詰めた最終行は省略記号で終わるはずです: %q", p.Lines[len(p.Lines)-1])
	})

	t.Run("空文字は nil を返すこと", func(t *testing.T) {
		e := testEngine(t)
		assert.Nil(t, e.CalculateContentTextPlacement("", panel, NewRegistry()))
	})

	t.Run("同一コマ内で登録された占有領域同士が重ならないこと", func(t *testing.T) {
		e := testEngine(t)
		reg := NewRegistry()
		reg.RegisterDialogueArea(domain.Rect{X: 500, Y: 40, Width: 260, Height: 200})

		p := e.CalculateContentTextPlacement("海沿いの駅のホーム。", panel, reg)
		require.NotNil(t, p)
		reg.RegisterContentArea(p.Bounds)

		areas := reg.OccupiedAreas()
		for i := 0; i < len(areas); i++ {
			for j := i + 1; j < len(areas); j++ {
				assert.False(t, areas[i].Rect.Overlaps(areas[j].Rect),
					"占有領域 %d と %d が重なっています", i, j)
			}
		}
	})
}

func TestNewEngine_ConfigValidation(t *testing.T) {
	cfg := DefaultPlacementConfig()
	cfg.MinFontSize = 0

	_, err := NewEngine(cfg, NewRatioMeasurer())
	assert.Error(t, err, "不正な設定は起動時に弾かれるはずです")

	_, err = NewEngine(DefaultPlacementConfig(), nil)
	assert.Error(t, err, "計測器なしはエラーのはずです")
}

func TestMeasurers(t *testing.T) {
	t.Run("RatioMeasurer は全角を半角の2倍として見積もること", func(t *testing.T) {
		m := NewRatioMeasurer()
		full := m.MeasureWidth("あ", 10)
		half := m.MeasureWidth("a", 10)
		assert.InDelta(t, full, 2*half, 1e-9)
	})

	t.Run("FaceMeasurer がフォントサイズに比例すること", func(t *testing.T) {
		m := NewBasicMeasurer()
		small := m.MeasureWidth("hello", 10)
		large := m.MeasureWidth("hello", 20)
		assert.InDelta(t, 2*small, large, 1e-9)
	})
}
