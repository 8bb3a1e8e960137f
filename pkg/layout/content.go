package layout

import (
	"fmt"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

const (
	// recentContentTTL は全ページ横断の重複抑制に使う記憶の保持時間です。
	recentContentTTL = 15 * time.Minute

	// unattributablePhrase は話者を特定できないコマの最終フォールバック文です。
	unattributablePhrase = "…"
)

// contentResolver はコマの説明テキストを決定します。
// セリフとの完全一致や空文字を話者由来の文言に置き換え、
// ページ内および直近のレイアウト全体に対して重複を抑制します。
type contentResolver struct {
	recent *cache.Cache
}

func newContentResolver() *contentResolver {
	return &contentResolver{
		recent: cache.New(recentContentTTL, 2*recentContentTTL),
	}
}

// Resolve はコマの説明テキストを確定し、重複記憶に登録して返します。
// 戻り値が空文字になることはありません。
func (r *contentResolver) Resolve(panel domain.Panel, pageSeen map[string]struct{}) string {
	content := strings.TrimSpace(panel.Content)

	if content == "" || duplicatesDialogue(panel, content) {
		content = speakerPhrase(panel)
	}

	if r.isSeen(content, pageSeen) {
		if frag := r.pickFragment(panel.Content, pageSeen); frag != "" {
			content = frag
		} else {
			content = speakerPhrase(panel)
		}
	}

	r.mark(content, pageSeen)
	return content
}

func (r *contentResolver) isSeen(content string, pageSeen map[string]struct{}) bool {
	if _, ok := pageSeen[content]; ok {
		return true
	}
	_, ok := r.recent.Get(content)
	return ok
}

func (r *contentResolver) mark(content string, pageSeen map[string]struct{}) {
	pageSeen[content] = struct{}{}
	r.recent.Set(content, struct{}{}, cache.DefaultExpiration)
}

// pickFragment は説明文を文単位に割り、まだ使われていない断片を探します。
func (r *contentResolver) pickFragment(content string, pageSeen map[string]struct{}) string {
	for _, frag := range splitSentences(content) {
		if !r.isSeen(frag, pageSeen) {
			return frag
		}
	}
	return ""
}

// duplicatesDialogue は説明文がコマ内のいずれかのセリフと完全一致するかを判定します。
func duplicatesDialogue(panel domain.Panel, content string) bool {
	for _, d := range panel.Dialogues {
		if strings.TrimSpace(d.Text) == content {
			return true
		}
	}
	return false
}

// speakerPhrase はコマの話者名から説明文の代替文言を導出します。
func speakerPhrase(panel domain.Panel) string {
	var speakers []string
	seen := make(map[string]struct{})
	for _, d := range panel.Dialogues {
		name := strings.TrimSpace(d.Speaker)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		speakers = append(speakers, name)
	}

	switch len(speakers) {
	case 0:
		return unattributablePhrase
	case 1:
		return speakers[0]
	case 2:
		return fmt.Sprintf("%s and %s", speakers[0], speakers[1])
	default:
		return fmt.Sprintf("%s et al.", speakers[0])
	}
}

// splitSentences は説明文を句点・終端記号で分割し、空でない断片を返します。
func splitSentences(content string) []string {
	var fragments []string
	var sb strings.Builder

	flush := func() {
		frag := strings.TrimSpace(sb.String())
		if frag != "" {
			fragments = append(fragments, frag)
		}
		sb.Reset()
	}

	for _, r := range content {
		sb.WriteRune(r)
		switch r {
		case '。', '．', '！', '？', '.', '!', '?':
			flush()
		}
	}
	flush()

	return fragments
}
