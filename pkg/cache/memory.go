package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	key       string
	value     V
	size      int
	expiresAt time.Time
}

func (e *memoryEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process LRU cache. Entries expire lazily on access and are
// evicted least recently used first once either the entry or byte budget is
// exceeded.
type Memory[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	lru     *list.List
	bytes   int
	opts    memoryOptions[V]
	closed  bool
	nowFunc func() time.Time
}

// MemoryOption configures Memory.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL time.Duration
	maxEntries int
	maxBytes   int
}

type memoryOptions[V any] struct {
	memoryConfig
	sizeOf func(V) int
}

// WithDefaultTTL sets the TTL used when Set is called with zero.
// Default: 5 minutes.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.defaultTTL = d }
}

// WithMaxEntries caps the number of entries. Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) { c.maxEntries = n }
}

// WithMaxBytes caps the total size of stored values. It only applies to
// caches of []byte or string. Zero means unlimited.
func WithMaxBytes(n int) MemoryOption {
	return func(c *memoryConfig) { c.maxBytes = n }
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions[V]{
		memoryConfig: memoryConfig{defaultTTL: 5 * time.Minute},
		sizeOf:       sizeOf[V],
	}
	for _, opt := range opts {
		opt(&o.memoryConfig)
	}
	return &Memory[V]{
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		opts:    o,
		nowFunc: time.Now,
	}
}

func sizeOf[V any](v V) int {
	switch x := any(v).(type) {
	case []byte:
		return len(x)
	case string:
		return len(x)
	}
	return 0
}

// Get implements Cache.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}
	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := elem.Value.(*memoryEntry[V])
	if e.expired(m.nowFunc()) {
		m.remove(elem)
		return zero, ErrNotFound
	}
	m.lru.MoveToFront(elem)
	return e.value, nil
}

// Set implements Cache. Values larger than the byte budget are not stored.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	size := m.opts.sizeOf(value)
	if m.opts.maxBytes > 0 && size > m.opts.maxBytes {
		return nil
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.nowFunc().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	m.items[key] = m.lru.PushFront(&memoryEntry[V]{
		key:       key,
		value:     value,
		size:      size,
		expiresAt: expiresAt,
	})
	m.bytes += size

	for m.overBudget() {
		m.remove(m.lru.Back())
	}
	return nil
}

// Delete implements Cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close drops all entries. Further calls return ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.items = make(map[string]*list.Element)
	m.lru.Init()
	m.bytes = 0
	return nil
}

func (m *Memory[V]) overBudget() bool {
	if m.lru.Len() == 0 {
		return false
	}
	if m.opts.maxEntries > 0 && m.lru.Len() > m.opts.maxEntries {
		return true
	}
	return m.opts.maxBytes > 0 && m.bytes > m.opts.maxBytes
}

// remove must be called with mu held.
func (m *Memory[V]) remove(elem *list.Element) {
	e := m.lru.Remove(elem).(*memoryEntry[V])
	delete(m.items, e.key)
	m.bytes -= e.size
}

var _ Cache[[]byte] = (*Memory[[]byte])(nil)
