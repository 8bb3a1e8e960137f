package pagination

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-layout-kit/pkg/domain"
)

// ErrPageInvariant はセグメント結合後の検算で不変条件が崩れていたことを示します。
// これは入力データの問題ではなく分割・結合ロジックの欠陥なので、
// 呼び出し側は処理を中断する必要があります。
var ErrPageInvariant = errors.New("ページ重要度の不変条件に違反しています")

// Mode はページ区切りの超過許容ポリシーです。
type Mode string

const (
	// ModeSimple はコマを追加してから閾値判定する方式です。
	// ページ合計が最大1コマ分だけ閾値を超えることを意図的に許容し、
	// コマの途中での不自然な強制改ページを避けます。既定値です。
	ModeSimple Mode = "simple"

	// ModeStrict はコマを追加する前に超過判定し、超過するコマを
	// 次ページへ送る方式です。ページ合計は決して閾値を超えません。
	ModeStrict Mode = "strict"
)

// Segmenter はコマ列の重要度の累積和からページ割りを決定します。
type Segmenter struct {
	limit int
	mode  Mode
}

// Result は1回のセグメント処理の結果です。
// Residual は最後の未完ページに積まれた重要度、LastPageOpen は
// 最後のページが閾値未達のまま開いているかどうかを表します。
// 開閉の判定は累積重要度のみで行い、コマ数は見ません。
type Result struct {
	Pages        []domain.Panels
	Residual     int
	LastPageOpen bool
}

// NewSegmenter は Segmenter を生成します。limit は 1 以上が必須です。
func NewSegmenter(limit int, mode Mode) (*Segmenter, error) {
	if limit < 1 {
		return nil, fmt.Errorf("ページ重要度の閾値は1以上が必要です: %d", limit)
	}
	switch mode {
	case ModeSimple, ModeStrict:
	case "":
		mode = ModeSimple
	default:
		return nil, fmt.Errorf("未知のページ区切りモードです: %q", mode)
	}
	return &Segmenter{limit: limit, mode: mode}, nil
}

// Limit は設定済みのページ重要度の閾値を返します。
func (s *Segmenter) Limit() int { return s.limit }

// ClampImportance は重要度を [1, limit] に丸めます。
func (s *Segmenter) ClampImportance(importance int) int {
	if importance < 1 {
		return 1
	}
	if importance > s.limit {
		return s.limit
	}
	return importance
}

// Segment はコマ列をページ単位に分割します。
// initialCarry は前のセグメントの未完ページから持ち越した残存重要度で、
// 単独実行のときは 0 を渡します。
func (s *Segmenter) Segment(panels domain.Panels, initialCarry int) Result {
	sum := initialCarry
	if sum > s.limit-1 {
		sum = s.limit - 1
	}
	if sum < 0 {
		sum = 0
	}

	var pages []domain.Panels
	var current domain.Panels

	closePage := func() {
		pages = append(pages, current)
		current = nil
		sum = 0
	}

	for _, panel := range panels {
		imp := s.ClampImportance(panel.Importance)

		// strict では超過するコマを次ページへ送る。持ち越し分しかない場合も
		// ここで空ページを閉じ、結合時に前チャンクの未完ページを確定させる。
		if s.mode == ModeStrict && (len(current) > 0 || sum > 0) && sum+imp > s.limit {
			closePage()
		}

		current = append(current, panel)
		sum += imp

		if sum >= s.limit {
			closePage()
		}
	}

	open := len(current) > 0
	if open {
		pages = append(pages, current)
	}

	return Result{Pages: pages, Residual: sum, LastPageOpen: open}
}

// SegmentChunks は独立して処理された複数チャンクを順に分割し、
// チャンク境界をまたぐ未完ページを結合して1本のページ列に仕立てます。
// 前チャンクの最終ページが開いたままなら、次チャンクの先頭ページは
// そのページの続きとして連結され、残存重要度が引き継がれます。
func (s *Segmenter) SegmentChunks(chunks []domain.Panels) ([]domain.Panels, error) {
	var pages []domain.Panels
	carry := 0
	prevOpen := false

	for _, chunk := range chunks {
		r := s.Segment(chunk, carry)
		if len(r.Pages) > 0 {
			if prevOpen && len(pages) > 0 {
				last := len(pages) - 1
				pages[last] = append(pages[last], r.Pages[0]...)
				pages = append(pages, r.Pages[1:]...)
			} else {
				pages = append(pages, r.Pages...)
			}
			prevOpen = r.LastPageOpen
			carry = r.Residual
		}
		// 空チャンクは開閉状態も持ち越しもそのまま維持する
	}

	if err := s.Verify(pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// Verify は分割結果をコマ側の重要度から検算します。
// simple モードでは最終ページ以外の合計が閾値以上であること、
// strict モードでは全ページの合計が閾値以下であることを確認します。
// 違反は分割・結合ロジックの欠陥を意味するため、回復不能なエラーとして返します。
func (s *Segmenter) Verify(pages []domain.Panels) error {
	for i, page := range pages {
		if len(page) == 0 {
			return fmt.Errorf("%w: ページ %d が空です", ErrPageInvariant, i+1)
		}

		total := 0
		for _, panel := range page {
			total += s.ClampImportance(panel.Importance)
		}

		switch s.mode {
		case ModeStrict:
			if total > s.limit {
				return fmt.Errorf("%w: ページ %d の合計 %d が閾値 %d を超えています", ErrPageInvariant, i+1, total, s.limit)
			}
		default:
			if i < len(pages)-1 && total < s.limit {
				return fmt.Errorf("%w: ページ %d の合計 %d が閾値 %d に達していません", ErrPageInvariant, i+1, total, s.limit)
			}
		}
	}
	return nil
}

// SplitIntoChunks はコマ列を最大 chunkSize 件ずつの連続チャンクに分割します。
// 1回あたりの処理対象を抑えたい呼び出し側のための補助関数です。
func SplitIntoChunks(panels domain.Panels, chunkSize int) []domain.Panels {
	if chunkSize <= 0 || len(panels) == 0 {
		if len(panels) == 0 {
			return nil
		}
		return []domain.Panels{panels}
	}

	chunks := make([]domain.Panels, 0, (len(panels)+chunkSize-1)/chunkSize)
	for start := 0; start < len(panels); start += chunkSize {
		end := start + chunkSize
		if end > len(panels) {
			end = len(panels)
		}
		chunks = append(chunks, panels[start:end])
	}

	if len(chunks) > 1 {
		slog.Debug("台本をチャンク分割しました", "chunks", len(chunks), "chunk_size", chunkSize)
	}
	return chunks
}
