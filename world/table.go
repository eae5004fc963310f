package world

import (
	"sort"

	"github.com/sasha-s/go-deadlock"
)

// Table 一类实体的受保护集合（id -> 实体）。
// 所有"读后改"的操作都必须在 Update/View 的回调内完成，回调返回前不得泄露 map。
type Table[T any] struct {
	mu    deadlock.RWMutex
	items map[int]*T
}

// NewTable 创建空集合
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[int]*T)}
}

// Update 持写锁执行 fn
func (t *Table[T]) Update(fn func(items map[int]*T)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.items)
}

// View 持读锁执行 fn；fn 不得修改集合或其中的实体
func (t *Table[T]) View(fn func(items map[int]*T)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn(t.items)
}

// Len 当前条目数
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// SortedIDs 按 id 升序返回 items 的键，广播时保证稳定顺序
func SortedIDs[T any](items map[int]*T) []int {
	ids := make([]int, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
