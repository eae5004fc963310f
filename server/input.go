package server

import (
	"strings"
	"time"

	"snakearena/protocol"
)

// handleLines 按顺序处理一条连接上的完整行：
// 没有会话时第一行是玩家名（握手），之后每行都是转向指令。
// 同一连接的回调是串行的，因此握手与随后的指令不会交错。
func (s *Server) handleLines(c Conn, lines []string) {
	id := int(c.ID())
	for _, line := range lines {
		if !s.Sessions.Has(id) {
			s.join(c, line)
			continue
		}
		s.command(id, line)
	}
}

// join 握手：先发 id 与世界大小，再登记会话，最后放置蛇。
// 会话登记之后才会收到广播，所以握手两行一定先于任何实体到达。
func (s *Server) join(c Conn, line string) {
	id := int(c.ID())
	name := protocol.CleanName(line)

	if !c.Send(protocol.EncodeHandshake(id, s.World.Size)) {
		return
	}
	if walls := s.publisher.JoinPayload(); len(walls) > 0 {
		c.Send(walls)
	}
	if !s.Sessions.Add(&Session{ID: id, Name: name, Conn: c, Joined: time.Now()}) {
		Log.Warnw("duplicate session", "conn", id, "trace", c.Trace())
		return
	}
	s.Metrics.IncJoins()
	Log.Infow("player joined", "conn", id, "trace", c.Trace(), "name", name, "remote", c.RemoteAddr())

	// 找不到出生点时蛇以死亡状态登记，重生流程会继续重试
	_ = s.Engine.SpawnSnake(id, name)
}

// command 解析并应用一条转向指令；空行与格式错误的行被忽略，连接保持
func (s *Server) command(id int, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	dir, err := protocol.ParseCommand(line)
	if err != nil {
		s.Metrics.IncMalformed()
		Log.Debugw("malformed command", "conn", id, "line", line, "err", err)
		return
	}
	if s.Engine.Steer(id, dir) {
		s.Metrics.IncAccepted()
		return
	}
	s.Metrics.IncRejected()
}
