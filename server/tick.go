package server

import (
	"context"
	"time"
)

// Run 按帧间隔推进世界直到 ctx 结束。
// 下一帧的截止时间在上一帧截止时间上累加，睡到截止时间再执行；
// 落后超过一帧时从当前时刻重新计时，不补帧。
func (s *Server) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	next := time.Now()
	frames := 0
	lastReport := next
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-timer.C:
			s.Tick(now)

			frames++
			if now.Sub(lastReport) >= time.Second {
				Log.Debugw("frame rate", "fps", frames, "sessions", s.Sessions.Len())
				frames = 0
				lastReport = now
			}

			next = next.Add(s.FramePeriod())
			wait := time.Until(next)
			if wait < 0 {
				next = time.Now()
				wait = 0
			}
			timer.Reset(wait)
		}
	}
}

// Tick 执行一帧：移动与碰撞 → 广播 → 计时推进（死亡/重生/生长/转向）→ 按时生成道具
func (s *Server) Tick(now time.Time) {
	start := time.Now()

	res := s.Engine.Step()
	s.broadcast(s.publisher.Frame())
	respawned := s.Engine.AdvanceTimers()
	if s.Engine.SpawnPowerIfDue(now) {
		s.Metrics.IncPowersSpawned()
	}

	s.Metrics.AddDeaths(res.Deaths)
	s.Metrics.AddPowersEaten(res.PowersEaten)
	s.Metrics.AddRespawns(len(respawned))
	s.Metrics.AddTick(time.Since(start).Nanoseconds())
}
