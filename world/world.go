package world

import (
	"fmt"
	"sync/atomic"
)

// World 单进程唯一的世界状态。
// 三个实体集合和三张计时表各自独立加锁；需要嵌套时锁序固定为
// Snakes -> Powers -> Walls -> 计时表（最内层）。
type World struct {
	Size int // 世界边长（半径的两倍），启动后不变

	respawnRate atomic.Int64

	Snakes *Table[Snake]
	Powers *Table[Power]
	Walls  *Table[Wall]

	Dying   *Timers // 死亡到可重生的帧数
	Growing *Timers // 尾巴不收缩的帧数
	Turning *Timers // 转向冷却帧数
}

// New 创建世界
func New(size, respawnRate int) *World {
	w := &World{
		Size:    size,
		Snakes:  NewTable[Snake](),
		Powers:  NewTable[Power](),
		Walls:   NewTable[Wall](),
		Dying:   NewTimers(),
		Growing: NewTimers(),
		Turning: NewTimers(),
	}
	w.respawnRate.Store(int64(respawnRate))
	return w
}

// HalfExtent 世界半边长
func (w *World) HalfExtent() float64 {
	return float64(w.Size) / 2
}

// RespawnRate 死亡后等待的帧数
func (w *World) RespawnRate() int {
	return int(w.respawnRate.Load())
}

// SetRespawnRate 运行期调整（admin 接口）
func (w *World) SetRespawnRate(n int) {
	w.respawnRate.Store(int64(n))
}

// AddWalls 载入墙；重复 id 或非轴对齐的墙返回错误
func (w *World) AddWalls(walls []Wall) error {
	var err error
	w.Walls.Update(func(items map[int]*Wall) {
		for i := range walls {
			wl := walls[i]
			if err = wl.Validate(); err != nil {
				return
			}
			if _, dup := items[wl.ID]; dup {
				err = fmt.Errorf("duplicate wall id %d", wl.ID)
				return
			}
			items[wl.ID] = &wl
		}
	})
	return err
}

// ClearTimers 移除某条蛇的全部计时
func (w *World) ClearTimers(id int) {
	w.Dying.Remove(id)
	w.Growing.Remove(id)
	w.Turning.Remove(id)
}
