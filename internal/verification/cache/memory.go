package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"fnsgate/internal/verification/inn"
	"fnsgate/internal/verification/models"
	"fnsgate/pkg/platform/sentinel"
)

type entry struct {
	key        inn.INN
	result     models.Result
	insertedAt time.Time
}

// Memory is a capacity-bounded LRU cache with per-entry TTL. Expiry is lazy:
// an expired entry is treated as a miss on Get and removed on the spot.
// Get and Put are safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	entries  map[inn.INN]*list.Element
	now      func() time.Time
}

// NewMemory creates a memory cache holding at most capacity entries, each
// fresh for ttl after insertion.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return NewMemoryWithClock(capacity, ttl, time.Now)
}

// NewMemoryWithClock lets tests control the clock used for expiry checks.
func NewMemoryWithClock(capacity int, ttl time.Duration, now func() time.Time) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		entries:  make(map[inn.INN]*list.Element, capacity),
		now:      now,
	}
}

// Get returns the cached result for key, refreshing its recency. A hit on an
// entry older than the TTL counts as a miss and evicts it.
func (m *Memory) Get(_ context.Context, key inn.INN) (models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return models.Result{}, sentinel.ErrNotFound
	}

	ent := elem.Value.(*entry)
	if m.now().Sub(ent.insertedAt) >= m.ttl {
		m.order.Remove(elem)
		delete(m.entries, key)
		return models.Result{}, sentinel.ErrNotFound
	}

	m.order.MoveToFront(elem)
	return ent.result.Clone(), nil
}

// Put inserts or overwrites the result for key, stamping insertion time. When
// the cache is full the least-recently-used entry is evicted first.
func (m *Memory) Put(_ context.Context, key inn.INN, result models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		ent := elem.Value.(*entry)
		ent.result = result.Clone()
		ent.insertedAt = m.now()
		m.order.MoveToFront(elem)
		return nil
	}

	if m.order.Len() >= m.capacity {
		oldest := m.order.Back()
		if oldest != nil {
			m.order.Remove(oldest)
			delete(m.entries, oldest.Value.(*entry).key)
		}
	}

	m.entries[key] = m.order.PushFront(&entry{
		key:        key,
		result:     result.Clone(),
		insertedAt: m.now(),
	})
	return nil
}

// Len reports the current number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
