package domain

// AreaKind は占有領域の種別（セリフ・効果音・説明テキスト）です。
type AreaKind string

const (
	AreaDialogue AreaKind = "dialogue"
	AreaSfx      AreaKind = "sfx"
	AreaContent  AreaKind = "content"
)

// OccupiedArea は1コマの配置処理中に登録される占有済み矩形です。
// ピクセル座標で保持し、コマの処理が終わるたびに破棄されます。
type OccupiedArea struct {
	Rect
	Kind AreaKind
}

// PlacedPanel はページに配置されたコマです。
// Position と Size はページに対する比率 [0,1]、Importance は
// セリフ密度と説明文の長さから再導出した見せ方の強調度です。
type PlacedPanel struct {
	Position   Point      `json:"position"`
	Size       Size       `json:"size"`
	Content    string     `json:"content"`
	Dialogues  []Dialogue `json:"dialogues"`
	Sfx        []string   `json:"sfx,omitempty"`
	Importance int        `json:"importance"`
}

// Page は物理的な1ページ分のコマ配置を表します。
type Page struct {
	PageNumber int           `json:"pageNumber"`
	Panels     []PlacedPanel `json:"panels"`
}

// LayoutDocument はレイアウト処理全体の出力で、下流のラスタライザが消費します。
type LayoutDocument struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Pages []Page `json:"pages"`
}

// ContentPlacement は説明テキスト1件分の配置結果です。
// 1回の描画パス内で生成・消費されるだけで、永続化はしません。
type ContentPlacement struct {
	Text     string   `json:"text"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	FontSize float64  `json:"fontSize"`
	Lines    []string `json:"lines"`
	Bounds   Rect     `json:"boundingBox"`
}

// SfxPlacement は効果音テキスト1件分の配置結果です。
type SfxPlacement struct {
	Text       string  `json:"text"`
	Supplement string  `json:"supplement,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   float64 `json:"fontSize"`
	Rotation   float64 `json:"rotation,omitempty"`
	Bounds     Rect    `json:"boundingBox"`
}
