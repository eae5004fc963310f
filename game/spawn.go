package game

import (
	"time"

	"snakearena/world"
)

var cardinals = [4]world.Vector2D{
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: 0, Y: 1},
}

// randomPoint 世界范围内的随机整数坐标；蛇出生时整条身体都留在世界内
func (e *Engine) randomPoint() world.Vector2D {
	half := e.World.HalfExtent()
	r := half - e.Tuning.SpawnLength
	if r < half/2 {
		r = half / 2
	}
	n := int(r)
	if n <= 0 {
		return world.Vector2D{}
	}
	return world.Vec(float64(e.rng.Intn(2*n+1)-n), float64(e.rng.Intn(2*n+1)-n))
}

// footprintClear 从 tail 沿 dir 逐单位采样整条出生身体，全部无碰撞才算可用
func (e *Engine) footprintClear(sc *scene, tail, dir world.Vector2D) bool {
	for i := 0.0; i <= e.Tuning.SpawnLength; i++ {
		if sc.check(tail.Add(dir.Scale(i)), noSnake).Hit() {
			return false
		}
	}
	return true
}

// place 为 s 选一个无碰撞的位置与方向并写入世界（覆盖同 id 的旧条目）。
// 调用方持有场景锁。
func (e *Engine) place(sc *scene, s *world.Snake) error {
	for attempt := 0; attempt < e.Tuning.SpawnAttempts; attempt++ {
		tail := e.randomPoint()
		if sc.check(tail, noSnake).Hit() {
			continue
		}
		for _, k := range e.rng.Perm(len(cardinals)) {
			dir := cardinals[k]
			if !e.footprintClear(sc, tail, dir) {
				continue
			}
			s.Body = []world.Vector2D{tail, tail.Add(dir.Scale(e.Tuning.SpawnLength))}
			s.Dir = dir
			s.Score = 0
			s.Alive = true
			s.Died = false
			s.DC = false
			s.Join = true
			sc.snakes[s.ID] = s
			// 新身体不继承上一条命的生长与转向状态
			e.World.Growing.Remove(s.ID)
			e.World.Turning.Remove(s.ID)
			return nil
		}
	}
	return ErrNoSpawn
}

// SpawnSnake 新玩家入场。找不到位置时以死亡状态登记，等待重生流程重试。
func (e *Engine) SpawnSnake(id int, name string) error {
	var err error
	e.lockScene(func(sc *scene) {
		s := world.NewSnake(id, name)
		if err = e.place(sc, s); err == nil {
			return
		}
		s.Alive = false
		s.Body = []world.Vector2D{{}, {}}
		sc.snakes[id] = s
		e.World.Dying.Set(id, e.World.RespawnRate())
	})
	if err != nil {
		e.Log.Warnw("spawn failed, will retry on respawn", "snake", id, "name", name, "err", err)
		return err
	}
	e.Log.Infow("snake spawned", "snake", id, "name", name)
	return nil
}

// respawn 死亡计时结束后重新放置；会话已不在时直接移除
func (e *Engine) respawn(id int) bool {
	var err error
	placed := false
	e.lockScene(func(sc *scene) {
		old, ok := sc.snakes[id]
		if !ok {
			return
		}
		if old.DC || !e.online(id) {
			delete(sc.snakes, id)
			e.World.ClearTimers(id)
			return
		}
		s := world.NewSnake(id, old.Name)
		if err = e.place(sc, s); err != nil {
			e.World.Dying.Set(id, e.World.RespawnRate())
			return
		}
		placed = true
	})
	if err != nil {
		e.Log.Warnw("respawn failed, retrying later", "snake", id, "err", err)
	}
	if placed {
		e.Log.Debugw("snake respawned", "snake", id)
	}
	return placed
}

// SpawnPower 尝试生成一个道具：已达上限或随机点有碰撞时放弃本次（不重试）
func (e *Engine) SpawnPower() bool {
	placed := false
	e.lockScene(func(sc *scene) {
		if len(sc.powers) >= e.Tuning.MaxPowers {
			return
		}
		p := e.randomPoint()
		if sc.check(p, noSnake).Hit() {
			return
		}
		id := e.nextPowerID
		e.nextPowerID++
		sc.powers[id] = &world.Power{ID: id, Loc: p}
		placed = true
	})
	return placed
}

// SpawnPowerIfDue 按独立的时间间隔（默认每秒）尝试生成道具
func (e *Engine) SpawnPowerIfDue(now time.Time) bool {
	if e.lastPowerSpawn.IsZero() {
		e.lastPowerSpawn = now
		return false
	}
	if now.Sub(e.lastPowerSpawn) < e.Tuning.PowerInterval {
		return false
	}
	e.lastPowerSpawn = now
	return e.SpawnPower()
}
