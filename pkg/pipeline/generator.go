package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shouni/go-layout-kit/pkg/domain"
	"github.com/shouni/go-layout-kit/pkg/pagination"
)

// GeneratorKind はページ割り生成器の選択肢を表す型付きフラグです。
// 実行時の関数探索ではなく、明示的なインターフェースの実装切り替えで分岐します。
type GeneratorKind string

const (
	// GeneratorBasic は重要度の累積和からページ割りを計算する基本生成器です。
	GeneratorBasic GeneratorKind = "basic"

	// GeneratorPlanAware は上流が全コマに割り当てたページ番号を尊重する生成器です。
	// プランが不完全な場合は基本生成器へフォールバックします。
	GeneratorPlanAware GeneratorKind = "plan-aware"
)

// Generator はコマ列をページ単位のグループへ分割する戦略です。
type Generator interface {
	Paginate(panels domain.Panels) ([]domain.Panels, error)
}

// NewGenerator は種別に応じた Generator を生成します。
func NewGenerator(kind GeneratorKind, seg *pagination.Segmenter, chunkSize int) (Generator, error) {
	basic := &BasicGenerator{segmenter: seg, chunkSize: chunkSize}

	switch kind {
	case GeneratorBasic, "":
		return basic, nil
	case GeneratorPlanAware:
		return &PlanAwareGenerator{fallback: basic}, nil
	default:
		return nil, fmt.Errorf("未知のページ割り生成器です: %q", kind)
	}
}

// BasicGenerator は Segmenter によるページ割りを行います。
// chunkSize が正の場合は台本をチャンク分割して逐次処理し、結果を結合します。
type BasicGenerator struct {
	segmenter *pagination.Segmenter
	chunkSize int
}

// Paginate はコマ列をページ単位のグループへ分割します。
func (g *BasicGenerator) Paginate(panels domain.Panels) ([]domain.Panels, error) {
	if len(panels) == 0 {
		return nil, nil
	}

	chunks := pagination.SplitIntoChunks(panels, g.chunkSize)
	pages, err := g.segmenter.SegmentChunks(chunks)
	if err != nil {
		return nil, fmt.Errorf("ページ割りの計算に失敗しました: %w", err)
	}
	return pages, nil
}

// PlanAwareGenerator は台本に埋め込まれたページプランに従います。
type PlanAwareGenerator struct {
	fallback *BasicGenerator
}

// Paginate はページ番号ごとにコマをグループ化します。
// 全コマにページ番号が揃っていない場合は基本生成器へフォールバックします。
func (g *PlanAwareGenerator) Paginate(panels domain.Panels) ([]domain.Panels, error) {
	if len(panels) == 0 {
		return nil, nil
	}

	if !panels.HasPagePlan() {
		slog.Warn("ページプランが不完全なため基本生成器へフォールバックします")
		return g.fallback.Paginate(panels)
	}

	byPage := make(map[int]domain.Panels)
	for _, panel := range panels {
		byPage[panel.Page] = append(byPage[panel.Page], panel)
	}

	numbers := make([]int, 0, len(byPage))
	for n := range byPage {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	groups := make([]domain.Panels, 0, len(numbers))
	for _, n := range numbers {
		groups = append(groups, byPage[n])
	}
	return groups, nil
}
