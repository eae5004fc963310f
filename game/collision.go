package game

import (
	"snakearena/world"
)

// Kind 碰撞对象种类
type Kind int

const (
	HitNone Kind = iota
	HitWall
	HitSnake
	HitPower
)

func (k Kind) String() string {
	switch k {
	case HitWall:
		return "wall"
	case HitSnake:
		return "snake"
	case HitPower:
		return "power"
	default:
		return "none"
	}
}

// Collision 碰撞结果，按 Kind 携带命中的具体实体
type Collision struct {
	Kind  Kind
	Wall  *world.Wall
	Snake *world.Snake
	Power *world.Power
}

// Hit 是否命中任何东西
func (c Collision) Hit() bool { return c.Kind != HitNone }

// Deadly 墙或蛇身
func (c Collision) Deadly() bool { return c.Kind == HitWall || c.Kind == HitSnake }

// noSnake 用于出生检测：没有"自己"需要排除
const noSnake = -1

// scene 一次加锁期间可见的全部实体；调用方已按 Snakes -> Powers -> Walls 的顺序持锁
type scene struct {
	snakes map[int]*world.Snake
	powers map[int]*world.Power
	walls  map[int]*world.Wall
	w      *world.World
	t      *Tuning
}

// check 检测点 p 是否碰到任何东西；self 为正在移动的蛇 id。
// 优先级：墙 > 活着的蛇身 > 道具。
func (sc *scene) check(p world.Vector2D, self int) Collision {
	for _, w := range sc.walls {
		if segmentHit(w.P1, w.P2, p, sc.t.WallMargin) {
			return Collision{Kind: HitWall, Wall: w}
		}
	}
	for id, s := range sc.snakes {
		if !s.Active() || sc.w.Dying.Has(id) {
			continue
		}
		n := s.Segments()
		if id == self {
			// 蛇头所在的段永远不与自己比较；转向冷却期间拐角前的那段也排除
			n--
			if sc.w.Turning.Has(id) {
				n--
			}
		}
		for i := 0; i < n; i++ {
			if segmentHit(s.Body[i], s.Body[i+1], p, sc.t.SnakeMargin) {
				return Collision{Kind: HitSnake, Snake: s}
			}
		}
	}
	for _, pw := range sc.powers {
		if pw.Died {
			continue
		}
		if p.Dist(pw.Loc) <= sc.t.PowerRadius {
			return Collision{Kind: HitPower, Power: pw}
		}
	}
	return Collision{}
}

// segmentHit 点是否落在段 a-b 外扩 margin 后的轴对齐包围盒内（含边界）
func segmentHit(a, b, p world.Vector2D, margin float64) bool {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return p.X >= minX-margin && p.X <= maxX+margin &&
		p.Y >= minY-margin && p.Y <= maxY+margin
}
