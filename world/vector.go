package world

import "math"

// Vector2D 二维坐标/方向；方向向量始终是轴对齐的单位向量
type Vector2D struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

// Vec 便捷构造
func Vec(x, y float64) Vector2D { return Vector2D{X: x, Y: y} }

func (v Vector2D) Add(o Vector2D) Vector2D  { return Vector2D{v.X + o.X, v.Y + o.Y} }
func (v Vector2D) Sub(o Vector2D) Vector2D  { return Vector2D{v.X - o.X, v.Y - o.Y} }
func (v Vector2D) Scale(k float64) Vector2D { return Vector2D{v.X * k, v.Y * k} }
func (v Vector2D) Equal(o Vector2D) bool    { return v.X == o.X && v.Y == o.Y }
func (v Vector2D) IsZero() bool             { return v.X == 0 && v.Y == 0 }
func (v Vector2D) Length() float64          { return math.Hypot(v.X, v.Y) }
func (v Vector2D) Dist(o Vector2D) float64  { return v.Sub(o).Length() }

// Normalize 返回同方向的单位向量（零向量原样返回）
func (v Vector2D) Normalize() Vector2D {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector2D{v.X / l, v.Y / l}
}

// Clamp 将每个分量压到 {-1, 0, 1}，用于把任意方向收敛为轴向单位方向
func (v Vector2D) Clamp() Vector2D {
	return Vector2D{sign(v.X), sign(v.Y)}
}

// Vertical 沿 Y 轴移动
func (v Vector2D) Vertical() bool { return v.X == 0 && v.Y != 0 }

// Horizontal 沿 X 轴移动
func (v Vector2D) Horizontal() bool { return v.Y == 0 && v.X != 0 }

// AngleTo 返回从 v 指向 o 的旋转角（度），0 表示正上方（-Y），顺时针为正，范围 [0, 360)
func (v Vector2D) AngleTo(o Vector2D) float64 {
	d := o.Sub(v)
	if d.IsZero() {
		return 0
	}
	deg := math.Atan2(d.X, -d.Y) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}
