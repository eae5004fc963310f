// Package game 是权威模拟：移动、碰撞、出生/重生、生长与转向状态机。
package game

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"snakearena/world"
)

// ErrNoSpawn 在重试上限内找不到无碰撞的出生位置
var ErrNoSpawn = errors.New("no collision-free spawn position")

// Engine 推进 World。Step / AdvanceTimers / SpawnPowerIfDue 只在 tick 协程调用；
// Steer / SpawnSnake / Disconnect 可在 I/O 回调中并发调用。
type Engine struct {
	World  *world.World
	Tuning Tuning
	Log    *zap.SugaredLogger

	// Online 判断 id 对应的会话是否仍存在；为 nil 时视为全部在线。
	// 会在持有 Snakes 锁时调用，实现方不得反向获取世界的锁。
	Online func(id int) bool

	rng            *rand.Rand // 仅在持有 Snakes 写锁时使用
	nextPowerID    int        // 仅在持有 Powers 写锁时使用
	lastPowerSpawn time.Time
}

// NewEngine 创建引擎
func NewEngine(w *world.World, t Tuning) *Engine {
	seed := t.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		World:  w,
		Tuning: t,
		Log:    zap.NewNop().Sugar(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// lockScene 按固定锁序持有三个实体集合后执行 fn
func (e *Engine) lockScene(fn func(sc *scene)) {
	e.World.Snakes.Update(func(snakes map[int]*world.Snake) {
		e.World.Powers.Update(func(powers map[int]*world.Power) {
			e.World.Walls.View(func(walls map[int]*world.Wall) {
				fn(&scene{snakes: snakes, powers: powers, walls: walls, w: e.World, t: &e.Tuning})
			})
		})
	})
}

// CheckCollision 检测一个空闲点（不属于任何蛇）会碰到什么。
// 返回的实体指针只用于识别，不得在锁外修改。
func (e *Engine) CheckCollision(p world.Vector2D) Collision {
	var c Collision
	e.lockScene(func(sc *scene) { c = sc.check(p, noSnake) })
	return c
}

// online 会话是否仍存在
func (e *Engine) online(id int) bool {
	return e.Online == nil || e.Online(id)
}

// markDisconnected 调用方持有 Snakes 锁
func (e *Engine) markDisconnected(s *world.Snake) {
	s.DC = true
	s.Died = true
	e.World.Dying.Start(s.ID, e.World.RespawnRate())
}

// Disconnect 会话断开：蛇标记为断线 + 死亡并进入死亡计时
func (e *Engine) Disconnect(id int) {
	e.World.Snakes.Update(func(snakes map[int]*world.Snake) {
		if s, ok := snakes[id]; ok {
			e.markDisconnected(s)
		}
	})
}
