package world

import "github.com/sasha-s/go-deadlock"

// Timers 以蛇 id 为键的倒计时表（dying / growing / turning 各一张）。
// 不在表中即表示"不处于该状态"。锁序上它总是最内层。
type Timers struct {
	mu    deadlock.Mutex
	ticks map[int]int
}

// NewTimers 创建空表
func NewTimers() *Timers {
	return &Timers{ticks: make(map[int]int)}
}

// Start 仅在不存在时设置计数，返回是否新建
func (t *Timers) Start(id, n int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ticks[id]; ok {
		return false
	}
	t.ticks[id] = n
	return true
}

// Extend 不存在则设置为 n，存在则累加 n
func (t *Timers) Extend(id, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks[id] += n
}

// Set 覆盖计数
func (t *Timers) Set(id, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks[id] = n
}

// Has 是否处于该状态
func (t *Timers) Has(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ticks[id]
	return ok
}

// Remaining 剩余帧数
func (t *Timers) Remaining(id int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.ticks[id]
	return n, ok
}

// Remove 删除条目
func (t *Timers) Remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ticks, id)
}

// Len 条目数
func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ticks)
}

// Advance 所有条目减一；减到 0 及以下的条目被移除。
// 返回每个条目减一后的剩余值（已移除的为 <= 0），调用方在锁外处理状态转换。
func (t *Timers) Advance() map[int]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]int, len(t.ticks))
	for id, n := range t.ticks {
		n--
		out[id] = n
		if n <= 0 {
			delete(t.ticks, id)
		} else {
			t.ticks[id] = n
		}
	}
	return out
}
