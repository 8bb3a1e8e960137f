package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// Parser は台本ドキュメントを解析するためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, path string) (*domain.ScriptResponse, error)
}

// ScriptParser は JSON 形式の台本を検証・解析する構造体です。
type ScriptParser struct{}

// NewScriptParser は新しい ScriptParser インスタンスを生成します。
func NewScriptParser() *ScriptParser {
	return &ScriptParser{}
}

// ParseFromPath はローカルファイル（"-" で標準入力）から台本を読み込み、
// スキーマ検証のうえで domain.ScriptResponse を返します。
func (p *ScriptParser) ParseFromPath(ctx context.Context, path string) (*domain.ScriptResponse, error) {
	slog.InfoContext(ctx, "台本ファイルを読み込んでいます", "path", path)

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("台本ファイルのオープンに失敗しました (%s): %w", path, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("台本ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return p.ParseBytes(data)
}

// ParseBytes は JSON バイト列を検証・解析します。
func (p *ScriptParser) ParseBytes(data []byte) (*domain.ScriptResponse, error) {
	if err := ValidateBytes(data); err != nil {
		return nil, err
	}

	var wire wireScript
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("台本JSONのパースに失敗しました: %w", err)
	}

	script := &domain.ScriptResponse{
		Title:       wire.Title,
		Description: wire.Description,
		Panels:      make(domain.Panels, 0, len(wire.Panels)),
	}

	for i, wp := range wire.Panels {
		panel := domain.Panel{
			Index:      wp.Index,
			Importance: wp.Importance,
			Content:    wp.Content,
			Narration:  wp.Narration,
			Sfx:        wp.Sfx,
			Page:       wp.Page,
		}
		if panel.Index == 0 {
			panel.Index = i + 1
		}

		for _, raw := range wp.Dialogue {
			d, err := decodeDialogue(raw)
			if err != nil {
				return nil, fmt.Errorf("コマ %d のセリフの解析に失敗しました: %w", panel.Index, err)
			}
			panel.Dialogues = append(panel.Dialogues, d)
		}

		// narration の独立リストもナレーション種別のセリフとして合流させます
		for _, n := range wp.Narration {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			panel.Dialogues = append(panel.Dialogues, domain.Dialogue{
				Text: n,
				Type: domain.DialogueNarration,
			})
		}

		script.Panels = append(script.Panels, panel)
	}

	return script, nil
}

// ValidateBytes は台本JSONをスキーマに照らして検証します。
func ValidateBytes(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(scriptSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("台本のスキーマ検証に失敗しました: %w", err)
	}

	if !result.Valid() {
		var sb strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&sb, "\n  - %s", desc)
		}
		return fmt.Errorf("台本がスキーマに適合していません:%s", sb.String())
	}
	return nil
}

// wireScript / wirePanel は入力の揺れを吸収するためのワイヤ形式です。
type wireScript struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Panels      []wirePanel `json:"panels"`
}

type wirePanel struct {
	Index      int               `json:"index"`
	Importance int               `json:"importance"`
	Content    string            `json:"content"`
	Dialogue   []json.RawMessage `json:"dialogue"`
	Narration  []string          `json:"narration"`
	Sfx        []string          `json:"sfx"`
	Page       int               `json:"page"`
}

// decodeDialogue は型付きオブジェクトとレガシー文字列の両形式を受け付けます。
func decodeDialogue(raw json.RawMessage) (domain.Dialogue, error) {
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		return parseLegacyDialogue(legacy), nil
	}

	var d domain.Dialogue
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Dialogue{}, fmt.Errorf("セリフの形式が不正です: %w", err)
	}
	if d.Type == "" {
		if d.Speaker == "" {
			d.Type = domain.DialogueNarration
		} else {
			d.Type = domain.DialogueSpeech
		}
	}
	return d, nil
}

// parseLegacyDialogue は "話者: セリフ" 形式の文字列を型付きセリフへ変換します。
// 丸括弧で括られたセリフは心の声、区切りが見つからない場合は全体を
// ナレーションとして扱います。
func parseLegacyDialogue(line string) domain.Dialogue {
	for _, sep := range []string{"：", ":"} {
		if idx := strings.Index(line, sep); idx > 0 {
			text := strings.TrimSpace(line[idx+len(sep):])
			return domain.Dialogue{
				Speaker: strings.TrimSpace(line[:idx]),
				Text:    text,
				Type:    legacyDialogueType(text),
			}
		}
	}
	return domain.Dialogue{
		Text: strings.TrimSpace(line),
		Type: domain.DialogueNarration,
	}
}

// legacyDialogueType はセリフ本文の装飾からセリフ種別を推定します。
func legacyDialogueType(text string) domain.DialogueType {
	if strings.HasPrefix(text, "（") && strings.HasSuffix(text, "）") {
		return domain.DialogueThought
	}
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		return domain.DialogueThought
	}
	return domain.DialogueSpeech
}
