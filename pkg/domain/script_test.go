package domain

import (
	"encoding/json"
	"testing"
)

func TestScriptResponse_JSON(t *testing.T) {
	t.Run("上流エージェントのレスポンス形式をパースできるのだ", func(t *testing.T) {
		inputJSON := `{
			"title": "ずんだもんの冒険",
			"panels": [
				{
					"index": 1,
					"importance": 4,
					"content": "森の中、朝もや",
					"dialogue": [
						{"speaker": "ずんだもん", "text": "出発なのだ！", "type": "speech"}
					],
					"sfx": ["ザッ"]
				}
			]
		}`

		var resp ScriptResponse
		if err := json.Unmarshal([]byte(inputJSON), &resp); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}

		if resp.Title != "ずんだもんの冒険" {
			t.Errorf("タイトルが違うのだ: %s", resp.Title)
		}
		if len(resp.Panels) != 1 || resp.Panels[0].Dialogues[0].Text != "出発なのだ！" {
			t.Error("パネル内容が正しくパースされていないのだ")
		}
		if resp.Panels[0].Importance != 4 {
			t.Errorf("importance が違うのだ: %d", resp.Panels[0].Importance)
		}
	})
}

func TestPanels_UniqueSpeakers(t *testing.T) {
	panels := Panels{
		{Dialogues: []Dialogue{{Speaker: "ずんだもん", Text: "a"}, {Speaker: "めたん", Text: "b"}}},
		{Dialogues: []Dialogue{{Speaker: "ずんだもん", Text: "c"}, {Speaker: "", Text: "ナレーション"}}},
	}

	speakers := panels.UniqueSpeakers()
	if len(speakers) != 2 {
		t.Fatalf("話者数が違います。期待値 2, 実際の値 %d", len(speakers))
	}
	// sort.Strings 済みなので順序は決定的
	if speakers[0] != "ずんだもん" && speakers[1] != "ずんだもん" {
		t.Error("ずんだもんが含まれていません")
	}
}

func TestPanels_HasPagePlan(t *testing.T) {
	t.Run("全コマ割り当て済みなら true", func(t *testing.T) {
		ps := Panels{{Page: 1}, {Page: 1}, {Page: 2}}
		if !ps.HasPagePlan() {
			t.Error("完全なプランが認識されていません")
		}
	})

	t.Run("未割り当てが混ざると false", func(t *testing.T) {
		ps := Panels{{Page: 1}, {Page: 0}}
		if ps.HasPagePlan() {
			t.Error("不完全なプランを完全と誤認しています")
		}
	})

	t.Run("空の台本は false", func(t *testing.T) {
		if (Panels{}).HasPagePlan() {
			t.Error("空の台本にプランはありません")
		}
	})
}

func TestRect_Overlaps(t *testing.T) {
	base := Rect{X: 10, Y: 10, Width: 100, Height: 50}

	cases := []struct {
		name string
		o    Rect
		want bool
	}{
		{"完全に重なる", Rect{X: 20, Y: 20, Width: 10, Height: 10}, true},
		{"部分的に重なる", Rect{X: 100, Y: 50, Width: 50, Height: 50}, true},
		{"離れている", Rect{X: 200, Y: 200, Width: 10, Height: 10}, false},
		{"辺が接するだけ", Rect{X: 110, Y: 10, Width: 10, Height: 10}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.o); got != tc.want {
				t.Errorf("期待値 %v, 実際の値 %v", tc.want, got)
			}
		})
	}
}

func TestRect_Inset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 40}

	in := r.Inset(10)
	if in.X != 10 || in.Y != 10 || in.Width != 80 || in.Height != 20 {
		t.Errorf("Inset の結果が違います: %+v", in)
	}

	// マージンが大きすぎる場合はサイズ0に潰れること
	collapsed := r.Inset(30)
	if collapsed.Height != 0 {
		t.Errorf("高さが0に潰れていません: %+v", collapsed)
	}
}
