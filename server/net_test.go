package server

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"snakearena/protocol"
)

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTCPHandshakeAndFrames(t *testing.T) {
	s := newTestServer(t, nil)
	if err := s.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// 名字分两次写，服务端需要拼接
	if _, err := conn.Write([]byte("Bo")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := conn.Write([]byte("b\n")); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(conn)
	idLine, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read id: %v", err)
	}
	sizeLine, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read size: %v", err)
	}
	id, size, err := protocol.ParseHandshake(idLine, sizeLine)
	if err != nil || id <= 0 || size != 2000 {
		t.Fatalf("handshake = %d %d %v", id, size, err)
	}

	sawSelf := false
	for i := 0; i < 50 && !sawSelf; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		e, err := protocol.Decode(strings.TrimSuffix(line, "\n"))
		if err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		sawSelf = e.Kind == protocol.KindSnake && e.Snake.ID == id && e.Snake.Name == "Bob"
	}
	if !sawSelf {
		t.Fatalf("own snake never broadcast")
	}

	conn.Close()
	waitFor(t, "session removal", func() bool { return s.Sessions.Len() == 0 })
}

func TestTCPDisconnectBeforeHandshake(t *testing.T) {
	s := newTestServer(t, nil)
	if err := s.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer s.Close()

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()
	time.Sleep(50 * time.Millisecond)
	if s.Sessions.Len() != 0 || s.Metrics.Snapshot()["leaves"].(int64) != 0 {
		t.Fatalf("pre-handshake close created a session")
	}
}

func TestWebSocketGateway(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(http.HandlerFunc(s.HandleWS))
	defer ts.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := ws.WriteMessage(websocket.TextMessage, []byte("Ann")); err != nil {
		t.Fatal(err)
	}
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read handshake: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(msg), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("handshake = %q", msg)
	}
	id, size, err := protocol.ParseHandshake(lines[0], lines[1])
	if err != nil || size != 2000 {
		t.Fatalf("handshake = %d %d %v", id, size, err)
	}

	s.Tick(time.Now())
	_, msg, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if e := findSnake(decodeFrame(t, string(msg)), id); e == nil || e.Snake.Name != "Ann" {
		t.Fatalf("frame = %s", msg)
	}

	ws.Close()
	waitFor(t, "session removal", func() bool { return s.Sessions.Len() == 0 })
}

func TestTCPOversizedLineClosesConnection(t *testing.T) {
	s := newTestServer(t, nil)
	if err := s.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer s.Close()

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if _, err := conn.Write([]byte("Bob\n")); err != nil {
		t.Fatal(err)
	}
	r := bufio.NewReader(conn)
	for i := 0; i < 2; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			t.Fatalf("read handshake: %v", err)
		}
	}
	waitFor(t, "session", func() bool { return s.Sessions.Len() == 1 })

	// 服务端可能在写完之前就关闭连接
	_, _ = conn.Write(bytes.Repeat([]byte("a"), protocol.MaxLineBytes+4096))

	waitFor(t, "session removal", func() bool { return s.Sessions.Len() == 0 })
	if _, err := r.ReadString('\n'); err == nil {
		t.Fatalf("connection still open")
	} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
		t.Fatalf("connection not closed: %v", err)
	}
}
