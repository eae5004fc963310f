package server

import (
	"strings"
	"sync"
	"testing"

	"snakearena/config"
	"snakearena/netio"
	"snakearena/protocol"
)

// fakeConn 记录发送内容的内存连接
type fakeConn struct {
	id      uint64
	mu      sync.Mutex
	sent    [][]byte
	closed  bool
	dropped int64
}

func newFakeConn() *fakeConn { return &fakeConn{id: netio.NextID()} }

func (c *fakeConn) ID() uint64         { return c.id }
func (c *fakeConn) Trace() string      { return "test" }
func (c *fakeConn) RemoteAddr() string { return "fake" }
func (c *fakeConn) Dropped() int64     { return c.dropped }

func (c *fakeConn) Send(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.sent = append(c.sent, b)
	return true
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	for i, b := range c.sent {
		out[i] = string(b)
	}
	return out
}

func (c *fakeConn) last() string {
	m := c.messages()
	if len(m) == 0 {
		return ""
	}
	return m[len(m)-1]
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func sessionOf(s *Server, id uint64) *Session {
	for _, sess := range s.Sessions.Snapshot() {
		if sess.ID == int(id) {
			return sess
		}
	}
	return nil
}

func newTestServer(t *testing.T, mod func(*config.Settings)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.RespawnRate = 5
	if mod != nil {
		mod(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

// decodeFrame 把一帧拆成实体
func decodeFrame(t *testing.T, frame string) []protocol.Entity {
	t.Helper()
	var out []protocol.Entity
	for _, line := range strings.Split(strings.TrimSuffix(frame, "\n"), "\n") {
		if line == "" {
			continue
		}
		e, err := protocol.Decode(line)
		if err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func findSnake(entities []protocol.Entity, id int) *protocol.Entity {
	for i := range entities {
		if entities[i].Kind == protocol.KindSnake && entities[i].Snake.ID == id {
			return &entities[i]
		}
	}
	return nil
}
