package server

import "time"

// Conn 会话使用的发送端；TCP（netio.Conn）与 WebSocket（wsConn）都实现它
type Conn interface {
	ID() uint64
	Trace() string
	RemoteAddr() string
	// Send 非阻塞入队；连接已不可用时返回 false
	Send(data []byte) bool
	Close() error
	// Dropped 因发送队列满而丢弃的消息数
	Dropped() int64
}

// Session 一个已完成握手的玩家：连接 id 即玩家 id，也即其蛇的 id
type Session struct {
	ID     int
	Name   string
	Conn   Conn
	Joined time.Time
}
