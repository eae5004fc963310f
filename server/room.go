// Package server 把连接层、会话表、模拟引擎与广播组装成游戏服务。
package server

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"snakearena/config"
	"snakearena/game"
	"snakearena/netio"
	"snakearena/protocol"
	"snakearena/world"
)

var errLineTooLong = errors.New("line exceeds limit")

// Server 单世界的权威服务：一个 tick 协程推进世界，I/O 回调并发处理握手与指令
type Server struct {
	World    *world.World
	Engine   *game.Engine
	Sessions *SessionRegistry
	Metrics  *Metrics

	publisher *Publisher
	netCfg    *netio.Config
	listener  *netio.Listener

	frameMS atomic.Int64
}

// New 按配置创建世界与引擎并载入墙
func New(cfg config.Settings) (*Server, error) {
	w := world.New(cfg.UniverseSize, cfg.RespawnRate)
	if err := w.AddWalls(cfg.Walls); err != nil {
		return nil, err
	}

	s := &Server{
		World:     w,
		Engine:    game.NewEngine(w, game.DefaultTuning()),
		Sessions:  NewSessionRegistry(),
		Metrics:   &Metrics{},
		publisher: NewPublisher(w, cfg.WallsEveryTick),
		netCfg:    netio.DefaultConfig(),
	}
	s.Engine.Log = Log.Named("game")
	s.Engine.Online = s.Sessions.Has
	s.frameMS.Store(int64(cfg.MSPerFrame))
	return s, nil
}

// FramePeriod 当前帧间隔
func (s *Server) FramePeriod() time.Duration {
	return time.Duration(s.frameMS.Load()) * time.Millisecond
}

// SetFramePeriod 运行期调整帧间隔（毫秒），下一帧生效
func (s *Server) SetFramePeriod(ms int) {
	s.frameMS.Store(int64(ms))
}

// Listen 开始在 addr 上接受 TCP 客户端；绑定失败是唯一的启动期致命错误
func (s *Server) Listen(addr string) error {
	ln, err := netio.ListenConfig(s.netCfg, addr, s.accept)
	if err != nil {
		return err
	}
	s.listener = ln
	Log.Infof("snake server listening on %s", ln.Addr())
	return nil
}

// Addr 监听地址；未 Listen 时为 nil
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close 停止接受新连接并断开所有会话
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for _, sess := range s.Sessions.Snapshot() {
		s.dropClient(sess.ID, netio.ErrClosed)
	}
	return err
}

// accept 新 TCP 连接：开始读取，第一行将被当作玩家名
func (s *Server) accept(c *netio.Conn) {
	if c.ErrorOccurred() {
		Log.Errorw("accept failed", "err", c.Err())
		return
	}
	Log.Infow("client connected", "conn", c.ID(), "trace", c.Trace(), "remote", c.RemoteAddr())
	c.Receive(s.onData)
}

// onData 一次读取完成：取出完整行交给会话逻辑，然后继续读
func (s *Server) onData(c *netio.Conn) {
	if c.ErrorOccurred() {
		s.dropConn(c, c.Err())
		return
	}

	var lines []string
	overflow := false
	c.Buffer().Consume(func(data []byte) int {
		var n int
		lines, n = protocol.SplitLines(data)
		overflow = len(data)-n > protocol.MaxLineBytes
		return n
	})
	s.handleLines(c, lines)

	if overflow {
		s.dropConn(c, errLineTooLong)
		return
	}
	c.Receive(nil)
}

// dropConn 关闭连接；已完成握手的连接同时注销会话
func (s *Server) dropConn(c Conn, err error) {
	_ = c.Close()
	if !s.dropClient(int(c.ID()), err) {
		Log.Debugw("connection closed before handshake", "conn", c.ID(), "trace", c.Trace(), "err", err)
	}
}

// dropClient 注销会话并让其蛇进入断线死亡；可重复调用
func (s *Server) dropClient(id int, err error) bool {
	sess, ok := s.Sessions.Remove(id)
	if !ok {
		return false
	}
	_ = sess.Conn.Close()
	s.Engine.Disconnect(id)
	s.Metrics.IncLeaves()
	s.Metrics.AddQueueDrops(sess.Conn.Dropped())
	Log.Infow("client disconnected", "conn", id, "trace", sess.Conn.Trace(), "name", sess.Name,
		"online", time.Since(sess.Joined).Round(time.Millisecond).String(), "err", err)
	return true
}

// QueueDrops 因发送队列满而丢弃的消息总数：已断开会话的累计值加上在线会话的当前值
func (s *Server) QueueDrops() int64 {
	n := atomic.LoadInt64(&s.Metrics.QueueDrops)
	for _, sess := range s.Sessions.Snapshot() {
		n += sess.Conn.Dropped()
	}
	return n
}

// broadcast 把同一帧发给所有会话；发送失败的会话在遍历结束后统一移除
func (s *Server) broadcast(frame []byte) {
	if len(frame) == 0 {
		return
	}
	var failed []int
	for _, sess := range s.Sessions.Snapshot() {
		if !sess.Conn.Send(frame) {
			failed = append(failed, sess.ID)
		}
	}
	for _, id := range failed {
		s.Metrics.IncFailedSends()
		s.dropClient(id, netio.ErrNotOpen)
	}
}
