package cache

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"
)

type memoryItem struct {
	raw       []byte
	expiresAt time.Time
}

// Memory is an in-process Cache. Values round-trip through JSON like they do
// in Redis, so callers see the same decoding behaviour.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	item, ok := m.items[key]
	if ok && !item.expiresAt.IsZero() && m.now().After(item.expiresAt) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(item.raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	item := memoryItem{raw: raw}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = item
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *Memory) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// Len is the number of stored keys, expired or not
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
