package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"snakearena/netio"
	"snakearena/protocol"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsSendQueue  = 256
)

// wsConn 浏览器客户端：每个文本帧是一行协议，出站帧与 TCP 字节流内容相同
type wsConn struct {
	id    uint64
	trace string
	ws    *websocket.Conn

	buf       netio.Buffer
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	open      atomic.Bool
	dropped   atomic.Int64
}

func newWSConn(ws *websocket.Conn) *wsConn {
	c := &wsConn{
		id:    netio.NextID(),
		trace: uuid.NewString(),
		ws:    ws,
		send:  make(chan []byte, wsSendQueue),
		done:  make(chan struct{}),
	}
	c.open.Store(true)
	return c
}

func (c *wsConn) ID() uint64         { return c.id }
func (c *wsConn) Trace() string      { return c.trace }
func (c *wsConn) RemoteAddr() string { return c.ws.RemoteAddr().String() }
func (c *wsConn) Dropped() int64     { return c.dropped.Load() }

// Send 将要发送的消息压入队列（非阻塞，满则丢弃本条）
func (c *wsConn) Send(b []byte) bool {
	if !c.open.Load() {
		return false
	}
	select {
	case <-c.done:
		return false
	case c.send <- b:
	default:
		// 为了实时性，丢弃本条（防止阻塞 Tick）
		c.dropped.Add(1)
	}
	return true
}

// Close 关闭底层连接并结束写协程
func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *wsConn) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端帧，按行交给与 TCP 相同的会话逻辑
func (c *wsConn) readPump(s *Server) {
	var err error
	// 读泵退出时注销会话
	defer func() { s.dropConn(c, err) }()

	c.ws.SetReadLimit(protocol.MaxLineBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(wsPongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var payload []byte
		if _, payload, err = c.ws.ReadMessage(); err != nil {
			return
		}
		if n := len(payload); n == 0 || payload[n-1] != '\n' {
			payload = append(payload, '\n')
		}
		c.buf.Write(payload)

		var lines []string
		c.buf.Consume(func(data []byte) int {
			var n int
			lines, n = protocol.SplitLines(data)
			return n
		})
		s.handleLines(c, lines)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：握手后第一帧是玩家名，与 TCP 客户端共享会话表和 id 空间
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := newWSConn(ws)
	Log.Infow("websocket client connected", "conn", c.id, "trace", c.trace, "remote", c.RemoteAddr())

	go c.writePump()
	go c.readPump(s)
}
