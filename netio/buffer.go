package netio

import "sync"

// Buffer 连接私有的可增长接收缓冲，读写都在自身锁内完成
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

// Write 追加收到的字节
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.data = append(b.data, p...)
	b.mu.Unlock()
	return len(p), nil
}

// Consume 在锁内把当前缓冲交给 fn，fn 返回已处理的字节数，这些字节随后被移除
func (b *Buffer) Consume(fn func(data []byte) int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := fn(b.data)
	if n <= 0 {
		return
	}
	if n >= len(b.data) {
		b.data = b.data[:0]
		return
	}
	b.data = append(b.data[:0], b.data[n:]...)
}

// Len 当前积压字节数
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// String 当前内容的拷贝
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}
