package domain

// DialogueType は吹き出しの種類（通常セリフ・心の声・ナレーション）を表します。
type DialogueType string

const (
	DialogueSpeech    DialogueType = "speech"
	DialogueThought   DialogueType = "thought"
	DialogueNarration DialogueType = "narration"
)

// Dialogue は1つの発話を保持します。Speaker が空の場合はナレーション扱いです。
type Dialogue struct {
	Speaker string       `json:"speaker"`
	Text    string       `json:"text"`
	Type    DialogueType `json:"type"`
}

// Panel は台本上の1コマ分の構成要素を保持します。
// Importance はページ区切り判定にのみ使う重みで、レイアウト後の
// PlacedPanel.Importance（見せ方の強調度）とは別の軸の値です。
type Panel struct {
	Index      int        `json:"index"`
	Importance int        `json:"importance"`
	Content    string     `json:"content"`
	Dialogues  []Dialogue `json:"dialogue"`
	Narration  []string   `json:"narration,omitempty"`
	Sfx        []string   `json:"sfx,omitempty"`

	// Page は上流のプランナーが割り当てたページ番号（任意）。
	// 0 のときは未割り当てを意味します。
	Page int `json:"page,omitempty"`
}

// Panels は台本全体のコマ列です。
type Panels []Panel

// ScriptResponse は上流のエージェントから返される台本全体の構造です。
type ScriptResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Panels      Panels `json:"panels"`
}
