package placement

import "github.com/shouni/go-layout-kit/pkg/domain"

// Registry は1コマ分の配置処理中に占有済み領域を追跡します。
// スコープは常に1コマで、次のコマを処理する前に必ず Reset してください。
// リセットせずに使い回すのは性能問題ではなく正しさのバグです。
type Registry struct {
	areas []domain.OccupiedArea
}

// NewRegistry は空の Registry を生成します。
func NewRegistry() *Registry {
	return &Registry{}
}

// Reset は登録済みの占有領域をすべて破棄します。
func (r *Registry) Reset() {
	r.areas = r.areas[:0]
}

// RegisterDialogueArea は吹き出しの占有領域を登録します。
func (r *Registry) RegisterDialogueArea(rect domain.Rect) {
	r.register(rect, domain.AreaDialogue)
}

// RegisterSfxArea は効果音の占有領域を登録します。
func (r *Registry) RegisterSfxArea(rect domain.Rect) {
	r.register(rect, domain.AreaSfx)
}

// RegisterContentArea は説明テキストの占有領域を登録します。
func (r *Registry) RegisterContentArea(rect domain.Rect) {
	r.register(rect, domain.AreaContent)
}

func (r *Registry) register(rect domain.Rect, kind domain.AreaKind) {
	r.areas = append(r.areas, domain.OccupiedArea{Rect: rect, Kind: kind})
}

// OccupiedAreas は登録済み領域のコピーを返します。
func (r *Registry) OccupiedAreas() []domain.OccupiedArea {
	out := make([]domain.OccupiedArea, len(r.areas))
	copy(out, r.areas)
	return out
}

// OverlapsAny は矩形が登録済みのいずれかの領域と重なるかを判定します。
func (r *Registry) OverlapsAny(rect domain.Rect) bool {
	for _, area := range r.areas {
		if rect.Overlaps(area.Rect) {
			return true
		}
	}
	return false
}
