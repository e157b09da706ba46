package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
	updatedAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]memoryItem
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]map[string]memoryItem),
		now:   time.Now,
	}
}

// Get returns a copy of the stored value. An expired entry is evicted.
func (m *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.items[namespace][key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if item.expired(m.now()) {
		m.evict(namespace, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), item.value...), nil
}

// evict removes key if it is still expired once the write lock is held.
func (m *MemoryStore) evict(namespace, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item, ok := m.items[namespace][key]; ok && item.expired(m.now()) {
		m.remove(namespace, key)
	}
}

// remove deletes key and drops the namespace once it is empty. Callers hold
// the write lock.
func (m *MemoryStore) remove(namespace, key string) {
	ns := m.items[namespace]
	delete(ns, key)
	if len(ns) == 0 {
		delete(m.items, namespace)
	}
}

func (m *MemoryStore) Set(_ context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	item := memoryItem{value: append([]byte(nil), value...), updatedAt: now}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}

	ns, ok := m.items[namespace]
	if !ok {
		ns = make(map[string]memoryItem)
		m.items[namespace] = ns
	}
	ns[key] = item
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[namespace][key]
	if !ok {
		return ErrNotFound
	}
	m.remove(namespace, key)
	if item.expired(m.now()) {
		return ErrNotFound
	}
	return nil
}

// List returns live entries ordered by key. Expired entries are dropped.
func (m *MemoryStore) List(_ context.Context, namespace string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entries := []Entry{}
	for key, item := range m.items[namespace] {
		if item.expired(now) {
			m.remove(namespace, key)
			continue
		}
		entries = append(entries, Entry{
			Key:       key,
			Value:     append([]byte(nil), item.value...),
			UpdatedAt: item.updatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (m *MemoryStore) Close() error { return nil }
