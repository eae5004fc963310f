package game

import (
	"snakearena/protocol"
	"snakearena/world"
)

// Steer 处理一次转向指令，返回是否被接受。
// 条件：蛇存活且不处于刚死亡状态、没有转向冷却、新方向与当前移动轴垂直。
// 接受时在蛇头位置追加一个拐点，并开始转向冷却。
func (e *Engine) Steer(id int, d protocol.Direction) bool {
	v := d.Vector()
	if v.IsZero() {
		return false
	}
	accepted := false
	e.World.Snakes.Update(func(snakes map[int]*world.Snake) {
		s, ok := snakes[id]
		if !ok || !s.Active() || len(s.Body) < 2 {
			return
		}
		if e.World.Turning.Has(id) {
			return
		}
		cur := s.Dir.Clamp()
		if (v.X != 0 && cur.X != 0) || (v.Y != 0 && cur.Y != 0) {
			return
		}
		s.Dir = v
		s.Body = append(s.Body, s.Head())
		e.World.Turning.Extend(id, e.Tuning.TurnTicks)
		accepted = true
	})
	return accepted
}
