package netio

import (
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func listenLocal(t *testing.T, onAccept Handler) *Listener {
	t.Helper()
	l, err := Listen("127.0.0.1:0", onAccept)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestListenConnectEcho(t *testing.T) {
	var echo Handler
	echo = func(c *Conn) {
		if c.ErrorOccurred() {
			return
		}
		var out []byte
		c.Buffer().Consume(func(data []byte) int {
			out = append(out, data...)
			return len(data)
		})
		c.Send(out)
		c.Receive(echo)
	}
	l := listenLocal(t, func(c *Conn) { c.Receive(echo) })

	got := make(chan string, 1)
	failed := make(chan error, 1)
	var onData Handler
	onData = func(c *Conn) {
		if c.ErrorOccurred() {
			failed <- c.Err()
			return
		}
		if s := c.Buffer().String(); strings.HasSuffix(s, "\n") {
			got <- s
			c.Close()
			return
		}
		c.Receive(onData)
	}
	Connect("127.0.0.1", l.Port(), func(c *Conn) {
		if c.ErrorOccurred() {
			failed <- c.Err()
			return
		}
		if !c.Send([]byte("hello\n")) {
			failed <- errors.New("send refused")
			return
		}
		c.Receive(onData)
	}, time.Second)

	select {
	case s := <-got:
		if s != "hello\n" {
			t.Fatalf("echo = %q", s)
		}
	case err := <-failed:
		t.Fatalf("client failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for echo")
	}
}

func TestReceiveReportsPeerClose(t *testing.T) {
	errs := make(chan error, 1)
	var onData Handler
	onData = func(c *Conn) {
		if c.ErrorOccurred() {
			errs <- c.Err()
			return
		}
		c.Receive(onData)
	}
	l := listenLocal(t, func(c *Conn) { c.Receive(onData) })

	nc, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = nc.Close()

	select {
	case err := <-errs:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("err = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("peer close not reported")
	}
}

func TestSendOnClosedConn(t *testing.T) {
	accepted := make(chan *Conn, 1)
	l := listenLocal(t, func(c *Conn) { accepted <- c })

	nc, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer nc.Close()

	c := <-accepted
	_ = c.Close()
	if c.Send([]byte("x\n")) {
		t.Fatalf("send on closed connection reported success")
	}
	if c.IsOpen() {
		t.Fatalf("connection still open")
	}
}

func TestSendAndCloseDeliversThenCloses(t *testing.T) {
	l := listenLocal(t, func(c *Conn) { c.SendAndClose([]byte("bye\n")) })

	nc, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer nc.Close()
	_ = nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	b, err := io.ReadAll(nc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "bye\n" {
		t.Fatalf("got %q", b)
	}
}

func TestConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	res := make(chan *Conn, 1)
	Connect("127.0.0.1", port, func(c *Conn) { res <- c }, 500*time.Millisecond)
	select {
	case c := <-res:
		if !c.ErrorOccurred() {
			t.Fatalf("expected connect error")
		}
		if c.Send([]byte("x")) {
			t.Fatalf("send on failed connection reported success")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("connect callback never fired")
	}
}

func TestBufferConsumeKeepsRemainder(t *testing.T) {
	var b Buffer
	b.Write([]byte("abc\nde"))
	b.Consume(func(data []byte) int { return 4 })
	if b.String() != "de" {
		t.Fatalf("remainder = %q", b.String())
	}
	b.Consume(func(data []byte) int { return 0 })
	if b.Len() != 2 {
		t.Fatalf("len = %d", b.Len())
	}
	b.Consume(func(data []byte) int { return len(data) })
	if b.Len() != 0 {
		t.Fatalf("len = %d after full consume", b.Len())
	}
}

func TestConnIDsUnique(t *testing.T) {
	a, b := NextID(), NextID()
	if a == b {
		t.Fatalf("ids collide: %d", a)
	}
}
