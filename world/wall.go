package world

import (
	"fmt"
	"math"
)

// Wall 轴对齐的墙段，加载后不可变
type Wall struct {
	ID int      `json:"wall"`
	P1 Vector2D `json:"p1"`
	P2 Vector2D `json:"p2"`
}

// Validate 墙必须水平或竖直
func (w Wall) Validate() error {
	if w.P1.X != w.P2.X && w.P1.Y != w.P2.Y {
		return fmt.Errorf("wall %d is not axis-aligned: %v -> %v", w.ID, w.P1, w.P2)
	}
	return nil
}

// Bounds 返回墙段的包围盒（min, max）
func (w Wall) Bounds() (Vector2D, Vector2D) {
	return Vector2D{math.Min(w.P1.X, w.P2.X), math.Min(w.P1.Y, w.P2.Y)},
		Vector2D{math.Max(w.P1.X, w.P2.X), math.Max(w.P1.Y, w.P2.Y)}
}
