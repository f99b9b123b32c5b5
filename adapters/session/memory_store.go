package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

type memoryEntry struct {
	data      map[string]string
	expiresAt time.Time // 零值表示不過期
}

// MemoryStore 是存放在行程記憶體中的 IStore 實作
// 每次保存都會重新計算存活時間，與 Redis Store 的 TTL 行為一致
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type MemoryStoreOption func(*MemoryStore)

// WithMemoryStoreClock 替換取得目前時間的函數
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore 建立一個新的 MemoryStore，ttl 為 0 時 session 不會過期
func NewMemoryStore(ttl time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

// Load 回傳 session 資料的副本，不存在或已過期時回傳空 map
func (s *MemoryStore) Load(_ context.Context, name string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[name]
	if !ok {
		return map[string]string{}, nil
	}
	if s.expired(entry, s.now()) {
		delete(s.entries, name)
		return map[string]string{}, nil
	}
	return maps.Clone(entry.data), nil
}

// Save 以副本覆蓋 session 資料，資料為空時直接刪除
func (s *MemoryStore) Save(_ context.Context, name string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	if len(data) == 0 {
		delete(s.entries, name)
		return nil
	}
	entry := memoryEntry{data: maps.Clone(data)}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.entries[name] = entry
	return nil
}

// Len 回傳目前保存的 session 數量，包含尚未清除的過期 session
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

// sweep 每經過一個 ttl 才掃描一次全部的 session，呼叫前需持有鎖
func (s *MemoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for name, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, name)
		}
	}
	s.lastSweep = now
}
