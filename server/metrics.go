package server

import (
	"sync/atomic"
)

// Metrics 记录服务运行期的关键指标（用于监控与调试）
type Metrics struct {
	TickCount         int64 // 统计的 Tick 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	Joins             int64 // 完成握手的连接
	Leaves            int64 // 断开的会话
	CommandsAccepted  int64 // 被接受的转向
	CommandsRejected  int64 // 合法但被规则拒绝的转向（冷却、平行、已死亡）
	CommandsMalformed int64 // 无法解析的指令行
	Deaths            int64
	Respawns          int64
	PowersEaten       int64
	PowersSpawned     int64
	FailedSends       int64 // 广播时发送失败而被移除的会话
	QueueDrops        int64 // 已断开会话因发送队列满丢弃的消息
}

func (m *Metrics) IncJoins()             { atomic.AddInt64(&m.Joins, 1) }
func (m *Metrics) IncLeaves()            { atomic.AddInt64(&m.Leaves, 1) }
func (m *Metrics) IncAccepted()          { atomic.AddInt64(&m.CommandsAccepted, 1) }
func (m *Metrics) IncRejected()          { atomic.AddInt64(&m.CommandsRejected, 1) }
func (m *Metrics) IncMalformed()         { atomic.AddInt64(&m.CommandsMalformed, 1) }
func (m *Metrics) IncFailedSends()       { atomic.AddInt64(&m.FailedSends, 1) }
func (m *Metrics) IncPowersSpawned()     { atomic.AddInt64(&m.PowersSpawned, 1) }
func (m *Metrics) AddDeaths(n int)       { atomic.AddInt64(&m.Deaths, int64(n)) }
func (m *Metrics) AddRespawns(n int)     { atomic.AddInt64(&m.Respawns, int64(n)) }
func (m *Metrics) AddPowersEaten(n int)  { atomic.AddInt64(&m.PowersEaten, int64(n)) }
func (m *Metrics) AddQueueDrops(n int64) { atomic.AddInt64(&m.QueueDrops, n) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":         tick,
		"avg_tick_ms":        avgMs,
		"joins":              atomic.LoadInt64(&m.Joins),
		"leaves":             atomic.LoadInt64(&m.Leaves),
		"commands_accepted":  atomic.LoadInt64(&m.CommandsAccepted),
		"commands_rejected":  atomic.LoadInt64(&m.CommandsRejected),
		"commands_malformed": atomic.LoadInt64(&m.CommandsMalformed),
		"deaths":             atomic.LoadInt64(&m.Deaths),
		"respawns":           atomic.LoadInt64(&m.Respawns),
		"powers_eaten":       atomic.LoadInt64(&m.PowersEaten),
		"powers_spawned":     atomic.LoadInt64(&m.PowersSpawned),
		"failed_sends":       atomic.LoadInt64(&m.FailedSends),
		"queue_drops":        atomic.LoadInt64(&m.QueueDrops),
	}
}
