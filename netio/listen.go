package netio

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync/atomic"
	"time"
)

// Listener 持续接受连接；每个新连接交给 onAccept
type Listener struct {
	ln      net.Listener
	cfg     *Config
	stopped atomic.Bool
	done    chan struct{}
}

// Listen 在 addr 上监听并开始接受连接，使用默认配置
func Listen(addr string, onAccept Handler) (*Listener, error) {
	return ListenConfig(DefaultConfig(), addr, onAccept)
}

// ListenConfig 绑定失败同步返回错误；之后的 accept 在后台循环，
// 每接受一个连接就重新挂起下一次 accept。accept 出错时以错误连接回调一次并停止循环。
func ListenConfig(cfg *Config, addr string, onAccept Handler) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	l := &Listener{ln: ln, cfg: cfg, done: make(chan struct{})}
	go l.acceptLoop(onAccept)
	log.Infow("listening", "addr", ln.Addr().String())
	return l, nil
}

func (l *Listener) acceptLoop(onAccept Handler) {
	defer close(l.done)
	for {
		nc, err := l.ln.Accept()
		if err != nil {
			if l.stopped.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Errorw("accept failed, listener stopped", "err", err)
			go onAccept(failedConn(err, onAccept))
			return
		}
		c := newConn(nc, l.cfg, onAccept)
		log.Debugw("accepted", "conn", c.id, "trace", c.trace, "addr", c.RemoteAddr())
		go onAccept(c)
	}
}

// Addr 实际监听地址（端口为 0 时可取得分配的端口）
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Port 实际监听端口
func (l *Listener) Port() int {
	if a, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}

// Close 停止接受新连接（已建立的连接不受影响）
func (l *Listener) Close() error {
	if !l.stopped.CompareAndSwap(false, true) {
		return nil
	}
	err := l.ln.Close()
	<-l.done
	return err
}

// Connect 异步连接 host:port；超时或失败时以错误连接回调 onConnect
func Connect(host string, port int, onConnect Handler, timeout time.Duration) {
	cfg := DefaultConfig()
	if timeout > 0 {
		cfg.ConnectTimeout = timeout
	}
	ConnectConfig(cfg, host, port, onConnect)
}

// ConnectConfig 同 Connect，使用给定配置
func ConnectConfig(cfg *Config, host string, port int, onConnect Handler) {
	go func() {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		d := net.Dialer{Timeout: cfg.ConnectTimeout}
		nc, err := d.Dial("tcp", addr)
		if err != nil {
			onConnect(failedConn(fmt.Errorf("connect %s: %w", addr, err), onConnect))
			return
		}
		onConnect(newConn(nc, cfg, onConnect))
	}()
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
