package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value      string
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory Store with TTL support. It backs
// tests and keeps profile state working when Redis is unreachable; contents
// do not survive a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryItem
	sets map[string]map[string]struct{}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryItem),
		sets: make(map[string]map[string]struct{}),
	}
}

// Set stores a key-value pair with TTL. A zero TTL means no expiration.
func (m *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}
	m.data[key] = item
	return nil
}

// Get retrieves a value by key.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		return "", ErrNotFound
	}
	return item.value, nil
}

// Delete removes keys.
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.sets, k)
	}
	return nil
}

// SAdd adds members to a set.
func (m *MemoryStore) SAdd(ctx context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, mem := range members {
		set[mem] = struct{}{}
	}
	return nil
}

// SRem removes members from a set.
func (m *MemoryStore) SRem(ctx context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[key]
	if !ok {
		return nil
	}
	for _, mem := range members {
		delete(set, mem)
	}
	return nil
}

// SMembers returns all members of a set.
func (m *MemoryStore) SMembers(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.sets[key]
	out := make([]string, 0, len(set))
	for mem := range set {
		out = append(out, mem)
	}
	return out, nil
}

// SCard returns the cardinality of a set.
func (m *MemoryStore) SCard(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.sets[key])), nil
}
