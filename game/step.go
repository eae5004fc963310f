package game

import (
	"sort"

	"snakearena/world"
)

// StepResult 一帧内发生的事件计数
type StepResult struct {
	Moved       int
	Deaths      int
	PowersEaten int
	Dropped     int // 会话已不存在而被标记断线的蛇
}

// Step 推进一帧：收尾、前进、环绕、碰撞。死亡中的蛇与断线的蛇不移动。
func (e *Engine) Step() StepResult {
	var res StepResult
	e.lockScene(func(sc *scene) {
		for _, id := range world.SortedIDs(sc.snakes) {
			s := sc.snakes[id]
			if !s.DC && !e.online(id) {
				e.markDisconnected(s)
				res.Dropped++
			}
			if s.DC || !s.Alive || e.World.Dying.Has(id) {
				continue
			}
			res.Moved++
			hit := e.move(sc, s)
			switch {
			case hit.Kind == HitPower:
				res.PowersEaten++
			case hit.Deadly():
				res.Deaths++
				e.Log.Debugw("snake died", "snake", id, "name", s.Name, "hit", hit.Kind.String(), "score", s.Score)
			}
		}
	})
	return res
}

func (e *Engine) move(sc *scene, s *world.Snake) Collision {
	t := &e.Tuning
	if !e.World.Growing.Has(s.ID) {
		retractTail(s, t.StepLength)
	}
	s.SetHead(s.Head().Add(s.Dir.Scale(t.StepLength)))
	wrap(s, e.World.HalfExtent(), float64(e.World.Size))

	hit := sc.check(s.Head(), s.ID)
	switch hit.Kind {
	case HitPower:
		s.Score++
		hit.Power.Died = true
		e.World.Growing.Extend(s.ID, t.GrowthTicks)
	case HitWall, HitSnake:
		s.Died = true
		e.World.Dying.Start(s.ID, e.World.RespawnRate())
	}
	return hit
}

// retractTail 蛇尾沿身体向下一个拐点移动 step；到达拐点时丢弃该点并把剩余距离带到下一段。
// 身体至少保留两个点。
func retractTail(s *world.Snake, step float64) {
	for step > 0 && len(s.Body) >= 2 {
		tail, next := s.Body[0], s.Body[1]
		d := next.Sub(tail)
		dist := d.Length()
		if dist > step {
			s.Body[0] = tail.Add(d.Scale(step / dist))
			return
		}
		step -= dist
		if len(s.Body) == 2 {
			s.Body[0] = next
			return
		}
		s.Body = s.Body[1:]
	}
}

// wrap 蛇头越过 ±half 时整条蛇沿该轴平移一个世界边长（环面拓扑）。
// 落点严格位于边界内侧，因此重复调用不会再次平移。
func wrap(s *world.Snake, half, size float64) bool {
	h := s.Head()
	var d world.Vector2D
	switch {
	case h.X > half:
		d.X = -size
	case h.X < -half:
		d.X = size
	}
	switch {
	case h.Y > half:
		d.Y = -size
	case h.Y < -half:
		d.Y = size
	}
	if d.IsZero() {
		return false
	}
	s.Translate(d)
	return true
}

// AdvanceTimers 三张计时表各减一帧并执行状态转换：
// dying 中的蛇变为 alive=false/died=false，计时归零时重生；growing / turning 归零即移除。
// 返回本帧重生的蛇 id。
func (e *Engine) AdvanceTimers() []int {
	dying := e.World.Dying.Advance()
	e.World.Growing.Advance()
	e.World.Turning.Advance()
	if len(dying) == 0 {
		return nil
	}

	var due []int
	e.World.Snakes.Update(func(snakes map[int]*world.Snake) {
		for id, left := range dying {
			s, ok := snakes[id]
			if !ok {
				continue
			}
			s.Alive = false
			s.Died = false
			if left <= 0 {
				due = append(due, id)
			}
		}
	})
	sort.Ints(due)

	var respawned []int
	for _, id := range due {
		if e.respawn(id) {
			respawned = append(respawned, id)
		}
	}
	return respawned
}
