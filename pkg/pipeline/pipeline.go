package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-layout-kit/pkg/domain"
	"github.com/shouni/go-layout-kit/pkg/layout"
	"github.com/shouni/go-layout-kit/pkg/pagination"
	"github.com/shouni/go-layout-kit/pkg/placement"
)

// デフォルト値の定義
const (
	DefaultPageLimit  = 6
	DefaultPageWidth  = 1654.0
	DefaultPageHeight = 2339.0
	DefaultSeed       = 1
)

// Options はレイアウトパイプラインの実行パラメータです。
// 乱数はすべて Seed から導出されるため、同じ入力と同じ Seed からは
// 常に同じ幾何が得られます。
type Options struct {
	Seed       int64
	PageLimit  int
	Mode       pagination.Mode
	Kind       GeneratorKind
	ChunkSize  int
	PageWidth  float64
	PageHeight float64
	Placement  placement.Config
	Normalizer layout.Normalizer
}

// DefaultOptions は推奨されるデフォルト設定を返します。
func DefaultOptions() Options {
	return Options{
		Seed:       DefaultSeed,
		PageLimit:  DefaultPageLimit,
		Mode:       pagination.ModeSimple,
		Kind:       GeneratorBasic,
		PageWidth:  DefaultPageWidth,
		PageHeight: DefaultPageHeight,
		Placement:  placement.DefaultPlacementConfig(),
	}
}

// PanelRender は1コマ分の描画準備結果で、外部のラスタライザが消費します。
type PanelRender struct {
	PageNumber int                      `json:"pageNumber"`
	PanelIndex int                      `json:"panelIndex"`
	Bounds     domain.Rect              `json:"bounds"`
	Bubbles    []placement.BubbleShape  `json:"bubbles,omitempty"`
	Content    *domain.ContentPlacement `json:"content,omitempty"`
	Sfx        []domain.SfxPlacement    `json:"sfx,omitempty"`
}

// Pipeline は台本からレイアウトドキュメントまでの一連の変換を束ねます。
type Pipeline struct {
	opts      Options
	generator Generator
	assigner  *layout.Assigner
	engine    *placement.Engine
	sfx       *placement.SfxPlacer
	bubbles   *placement.BubbleLayouter
	measurer  placement.Measurer
}

// New はパイプラインを構築します。設定エラーはこの時点で返します。
func New(opts Options, m placement.Measurer) (*Pipeline, error) {
	if opts.PageWidth <= 0 || opts.PageHeight <= 0 {
		return nil, fmt.Errorf("ページの描画サイズが不正です: %vx%v", opts.PageWidth, opts.PageHeight)
	}

	seg, err := pagination.NewSegmenter(opts.PageLimit, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("セグメンターの構築に失敗しました: %w", err)
	}

	gen, err := NewGenerator(opts.Kind, seg, opts.ChunkSize)
	if err != nil {
		return nil, err
	}

	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = layout.DefaultNormalizer(opts.PageLimit)
	}

	engine, err := placement.NewEngine(opts.Placement, m)
	if err != nil {
		return nil, err
	}
	sfxPlacer, err := placement.NewSfxPlacer(opts.Placement, m)
	if err != nil {
		return nil, err
	}
	bubbles, err := placement.NewBubbleLayouter(opts.Placement, m)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		opts:      opts,
		generator: gen,
		assigner:  layout.NewAssigner(layout.NewSelector(opts.Seed), normalizer),
		engine:    engine,
		sfx:       sfxPlacer,
		bubbles:   bubbles,
		measurer:  m,
	}, nil
}

// Run は台本をページ割り・枠割り当てしてレイアウトドキュメントを生成します。
func (p *Pipeline) Run(ctx context.Context, script *domain.ScriptResponse) (*domain.LayoutDocument, error) {
	groups, err := p.generator.Paginate(script.Panels)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "ページ割りが確定しました",
		"panels", len(script.Panels), "pages", len(groups))

	doc := &domain.LayoutDocument{
		ID:    uuid.NewString(),
		Title: script.Title,
		Pages: p.assigner.Assign(groups),
	}
	return doc, nil
}

// PrepareRender はレイアウト済みドキュメントの全コマについて、
// 吹き出し・効果音・説明テキストの配置を計算します。
// コマごとの占有レジストリは互いに独立なので、コマ単位で並列実行します。
// 結果はコマの出現順で返すため、並列でも出力は決定的です。
func (p *Pipeline) PrepareRender(ctx context.Context, doc *domain.LayoutDocument) ([]PanelRender, error) {
	type job struct {
		pageNumber int
		panelIndex int
		bounds     domain.Rect
		panel      domain.PlacedPanel
		sfx        []string
	}

	var jobs []job
	for _, page := range doc.Pages {
		for i, panel := range page.Panels {
			jobs = append(jobs, job{
				pageNumber: page.PageNumber,
				panelIndex: i,
				bounds: domain.Rect{
					X:      panel.Position.X * p.opts.PageWidth,
					Y:      panel.Position.Y * p.opts.PageHeight,
					Width:  panel.Size.Width * p.opts.PageWidth,
					Height: panel.Size.Height * p.opts.PageHeight,
				},
				panel: panel,
				sfx:   panel.Sfx,
			})
		}
	}

	results := make([]PanelRender, len(jobs))
	g, ctx := errgroup.WithContext(ctx)

	for i, j := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			render, err := p.renderPanel(j.bounds, j.panel)
			if err != nil {
				return fmt.Errorf("ページ %d コマ %d の配置計算に失敗しました: %w", j.pageNumber, j.panelIndex+1, err)
			}
			render.PageNumber = j.pageNumber
			render.PanelIndex = j.panelIndex
			results[i] = render
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// renderPanel は1コマ分の配置を順に計算します。
// レジストリはこのコマ専用で、処理の先頭で必ずリセットします。
func (p *Pipeline) renderPanel(bounds domain.Rect, panel domain.PlacedPanel) (PanelRender, error) {
	reg := placement.NewRegistry()
	reg.Reset()

	assets := p.estimateTextAssets(panel.Dialogues)
	bubbles, err := p.bubbles.LayoutBubbles(panel.Dialogues, assets, bounds, reg)
	if err != nil {
		return PanelRender{}, err
	}

	sfxPlacements := p.sfx.PlaceSfx(panel.Sfx, bounds, reg.OccupiedAreas())
	for _, s := range sfxPlacements {
		reg.RegisterSfxArea(s.Bounds)
	}

	content := p.engine.CalculateContentTextPlacement(panel.Content, bounds, reg)
	if content != nil {
		reg.RegisterContentArea(content.Bounds)
	}

	return PanelRender{
		Bounds:  bounds,
		Bubbles: bubbles,
		Content: content,
		Sfx:     sfxPlacements,
	}, nil
}

// estimateTextAssets は縦書きレンダリング済みテキスト画像のサイズを
// 計測能力から見積もります。実資産が供給される運用では外部のサイズ表を
// そのまま LayoutBubbles に渡してください。
func (p *Pipeline) estimateTextAssets(dialogues []domain.Dialogue) map[string]placement.TextAsset {
	const maxColumnChars = 12

	fontSize := p.opts.Placement.MaxFontSize
	assets := make(map[string]placement.TextAsset, len(dialogues))

	for _, d := range dialogues {
		runeCount := len([]rune(d.Text))
		if runeCount == 0 {
			assets[d.Text] = placement.TextAsset{Width: fontSize, Height: fontSize}
			continue
		}

		columns := int(math.Ceil(float64(runeCount) / maxColumnChars))
		columnChars := runeCount
		if columnChars > maxColumnChars {
			columnChars = maxColumnChars
		}

		assets[d.Text] = placement.TextAsset{
			Width:  float64(columns) * fontSize * 1.3,
			Height: float64(columnChars) * fontSize,
		}
	}
	return assets
}
