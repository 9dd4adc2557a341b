package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries предел числа записей кэша в памяти по умолчанию
const DefaultMaxEntries = 1000

type memoryEntry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache кэш в памяти процесса, используется без REDIS_ADDR.
// Устаревшие записи вычищаются при каждой записи; при переполнении
// вытесняется самая старая запись.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache создает кэш в памяти; ttl <= 0 отключает устаревание,
// maxEntries <= 0 означает DefaultMaxEntries
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get возвращает значение, если оно есть и не устарело
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set сохраняет значение
func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	now := m.now()
	entry := memoryEntry{value: value, storedAt: now}
	if m.ttl > 0 {
		entry.expiresAt = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now)
	if _, exists := m.data[key]; !exists {
		for len(m.data) >= m.maxEntries {
			m.evictOldest()
		}
	}
	m.data[key] = entry
	return nil
}

// sweep удаляет устаревшие записи; вызывается под m.mu
func (m *MemoryCache) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
		}
	}
}

// evictOldest удаляет самую раннюю запись; вызывается под m.mu
func (m *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, entry := range m.data {
		if !found || entry.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = key, entry.storedAt, true
		}
	}
	if found {
		delete(m.data, oldestKey)
	}
}

// Len возвращает число записей
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
