package server

import (
	"sort"
	"sync"
)

// SessionRegistry 玩家 id -> 会话。
// 它是锁序上的叶子：持有 registry 锁时不得再获取世界的任何锁。
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[int]*Session
}

// NewSessionRegistry 创建空表
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[int]*Session)}
}

// Add 登记会话；id 已存在时返回 false
func (m *SessionRegistry) Add(s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return false
	}
	m.sessions[s.ID] = s
	return true
}

// Remove 注销会话，返回被移除的会话
func (m *SessionRegistry) Remove(id int) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	return s, ok
}

// Has 会话是否存在
func (m *SessionRegistry) Has(id int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[id]
	return ok
}

// Snapshot 按 id 升序返回当前会话列表，广播在锁外遍历它
func (m *SessionRegistry) Snapshot() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len 在线会话数
func (m *SessionRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
