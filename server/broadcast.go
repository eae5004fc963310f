package server

import (
	"sync/atomic"

	"snakearena/protocol"
	"snakearena/world"
)

// Publisher 把世界序列化为一帧（墙、道具、蛇，各按 id 升序，每个实体一行）。
// Frame 只在 tick 协程调用；它同时完成广播后的收尾：
// 删除已被吃掉的道具和已断线的蛇，并清除蛇的 join 标记。
type Publisher struct {
	world          *world.World
	wallsEveryTick atomic.Bool
	lastSize       int
}

// NewPublisher 创建发布器
func NewPublisher(w *world.World, wallsEveryTick bool) *Publisher {
	p := &Publisher{world: w}
	p.wallsEveryTick.Store(wallsEveryTick)
	return p
}

// WallsEveryTick 墙是否随每一帧发送
func (p *Publisher) WallsEveryTick() bool { return p.wallsEveryTick.Load() }

// SetWallsEveryTick 运行期切换墙的发送方式
func (p *Publisher) SetWallsEveryTick(v bool) { p.wallsEveryTick.Store(v) }

// Frame 生成本帧的全部行。每帧分配新的切片：发送队列持有它直到写完。
func (p *Publisher) Frame() []byte {
	out := make([]byte, 0, p.lastSize)
	if p.WallsEveryTick() {
		out = p.appendWalls(out)
	}

	p.world.Powers.Update(func(items map[int]*world.Power) {
		for _, id := range world.SortedIDs(items) {
			pw := items[id]
			out = protocol.AppendPower(out, pw)
			if pw.Died {
				delete(items, id)
			}
		}
	})

	p.world.Snakes.Update(func(items map[int]*world.Snake) {
		for _, id := range world.SortedIDs(items) {
			s := items[id]
			out = protocol.AppendSnake(out, s)
			s.Join = false
			if s.DC {
				delete(items, id)
				p.world.ClearTimers(id)
			}
		}
	})

	p.lastSize = len(out)
	return out
}

// JoinPayload 墙只发一次时，新玩家握手后立即收到全部墙；否则为空
func (p *Publisher) JoinPayload() []byte {
	if p.WallsEveryTick() {
		return nil
	}
	return p.appendWalls(nil)
}

func (p *Publisher) appendWalls(dst []byte) []byte {
	p.world.Walls.View(func(items map[int]*world.Wall) {
		for _, id := range world.SortedIDs(items) {
			dst = protocol.AppendWall(dst, items[id])
		}
	})
	return dst
}
