// Package netio 是与游戏无关的异步 TCP 连接层：accept / connect / receive / send
// 全部非阻塞，完成时通过回调通知调用方。
package netio

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrClosed 对端关闭（读到 0 字节 / EOF）
	ErrClosed = errors.New("socket closed")
	// ErrNotOpen 连接未打开或已关闭
	ErrNotOpen = errors.New("connection not open")
)

// Handler 网络事件回调：连接建立、数据到达或出错时调用
type Handler func(c *Conn)

var connIDs atomic.Uint64

// NextID 分配进程内唯一的连接 id（TCP 与 WebSocket 共用）
func NextID() uint64 {
	return connIDs.Add(1)
}

type outbound struct {
	data  []byte
	close bool // 写完后关闭连接
}

// Conn 一条连接：私有接收缓冲 + 当前回调 + 发送队列
type Conn struct {
	id    uint64
	trace string
	nc    net.Conn
	cfg   *Config

	buf Buffer

	mu      sync.Mutex
	handler Handler
	err     error

	open      atomic.Bool
	sendCh    chan outbound
	done      chan struct{}
	closeOnce sync.Once

	dropped atomic.Int64
}

func newConn(nc net.Conn, cfg *Config, handler Handler) *Conn {
	c := &Conn{
		id:      NextID(),
		trace:   uuid.NewString(),
		nc:      nc,
		cfg:     cfg,
		handler: handler,
		sendCh:  make(chan outbound, cfg.SendQueueSize),
		done:    make(chan struct{}),
	}
	c.open.Store(true)
	go c.writeLoop()
	return c
}

// failedConn 携带错误的连接对象，用于 accept / connect 失败时通知回调
func failedConn(err error, handler Handler) *Conn {
	c := &Conn{
		id:      NextID(),
		trace:   uuid.NewString(),
		handler: handler,
		err:     err,
		done:    make(chan struct{}),
	}
	c.closeOnce.Do(func() { close(c.done) })
	return c
}

// ID 连接唯一标识
func (c *Conn) ID() uint64 { return c.id }

// Trace 日志关联用的 uuid
func (c *Conn) Trace() string { return c.trace }

// Buffer 接收缓冲
func (c *Conn) Buffer() *Buffer { return &c.buf }

// RemoteAddr 对端地址
func (c *Conn) RemoteAddr() string {
	if c.nc == nil {
		return ""
	}
	return c.nc.RemoteAddr().String()
}

// IsOpen 连接是否仍可用
func (c *Conn) IsOpen() bool { return c.open.Load() }

// Err 最近一次错误
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ErrorOccurred 是否已出错
func (c *Conn) ErrorOccurred() bool { return c.Err() != nil }

// Dropped 因发送队列满而丢弃的消息数
func (c *Conn) Dropped() int64 { return c.dropped.Load() }

// Done 连接关闭时关闭的通道
func (c *Conn) Done() <-chan struct{} { return c.done }

// SetHandler 替换当前回调（例如握手完成后切换到收包处理）
func (c *Conn) SetHandler(h Handler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

func (c *Conn) currentHandler() Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

// Receive 发起一次异步读取。读到数据后追加进缓冲并调用 onData；
// 调用方需在回调里再次调用 Receive 才会继续读。读到 0 字节或出错时以错误状态调用 onData。
func (c *Conn) Receive(onData Handler) {
	if onData != nil {
		c.SetHandler(onData)
	}
	if !c.IsOpen() {
		go c.fail(ErrNotOpen)
		return
	}
	go c.readOnce()
}

func (c *Conn) readOnce() {
	chunk := make([]byte, c.cfg.ReadChunk)
	n, err := c.nc.Read(chunk)
	if n > 0 {
		// 数据与错误同时返回时先交付数据，错误会在下一次读取时再次出现
		c.buf.Write(chunk[:n])
		c.notify()
		return
	}
	if err == nil {
		err = ErrClosed
	}
	if errors.Is(err, net.ErrClosed) || isEOF(err) {
		err = ErrClosed
	}
	c.fail(err)
}

func (c *Conn) notify() {
	if h := c.currentHandler(); h != nil {
		h(c)
	}
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.Close()
	c.notify()
}

// Send 异步发送。连接未打开时关闭连接并返回 false；
// 写入过程中的错误只会关闭连接，不会向外抛出（下一次 Receive 会观察到）。
func (c *Conn) Send(data []byte) bool {
	if !c.IsOpen() {
		c.Close()
		return false
	}
	select {
	case <-c.done:
		return false
	case c.sendCh <- outbound{data: data}:
		return true
	default:
		// 队列满：实时性优先，丢弃本条（下一帧会重发完整状态）
		c.dropped.Add(1)
		return true
	}
}

// SendAndClose 发送完 data 后关闭连接
func (c *Conn) SendAndClose(data []byte) bool {
	if !c.IsOpen() {
		c.Close()
		return false
	}
	select {
	case <-c.done:
		return false
	case c.sendCh <- outbound{data: data, close: true}:
		return true
	default:
		c.Close()
		return false
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.sendCh:
			if c.cfg.WriteTimeout > 0 {
				_ = c.nc.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			}
			if _, err := c.nc.Write(msg.data); err != nil {
				log.Debugw("send failed", "conn", c.id, "trace", c.trace, "err", err)
				c.Close()
				return
			}
			if msg.close {
				c.Close()
				return
			}
		}
	}
}

// Close 关闭连接，可重复调用
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.done)
		if c.nc != nil {
			err = c.nc.Close()
		}
	})
	return err
}
