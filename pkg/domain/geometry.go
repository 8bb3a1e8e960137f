package domain

// Point は2次元座標です。レイアウト出力ではページに対する比率 [0,1] を、
// 配置エンジン内部ではピクセル値をそのまま保持します。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size は矩形の寸法です。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect は軸平行の矩形です。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right は矩形の右端のX座標を返します。
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom は矩形の下端のY座標を返します。
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area は矩形の面積を返します。
func (r Rect) Area() float64 { return r.Width * r.Height }

// Overlaps は2つの矩形が重なるかどうかを判定します。辺が接するだけの場合は重ならない扱いです。
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains は矩形 o が r に完全に含まれるかどうかを判定します。
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Inset は四辺を margin だけ内側に縮めた矩形を返します。
// 縮めた結果が負のサイズになる場合は幅・高さ0の矩形に潰します。
func (r Rect) Inset(margin float64) Rect {
	out := Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}
