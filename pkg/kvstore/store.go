package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Entry is a single key/value write.
type Entry struct {
	Key   string
	Value []byte
}

// BatchWriter is implemented by stores that can apply several writes atomically.
type BatchWriter interface {
	SetBatch(ctx context.Context, entries []Entry) error
}

type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// SetBatch stores all entries under one lock.
func (m *Memory) SetBatch(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range entries {
		m.values[entry.Key] = append([]byte(nil), entry.Value...)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Cache buffers writes on top of a parent store until Commit.
type Cache struct {
	parent Store
	writes map[string][]byte
	order  []string
}

// NewCache wraps parent in a write overlay.
func NewCache(parent Store) *Cache {
	return &Cache{
		parent: parent,
		writes: map[string][]byte{},
	}
}

// Get reads from the overlay first, then from the parent store.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if value, ok := c.writes[key]; ok {
		return append([]byte(nil), value...), nil
	}
	return c.parent.Get(ctx, key)
}

// Set records the write in the overlay only.
func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	if _, seen := c.writes[key]; !seen {
		c.order = append(c.order, key)
	}
	c.writes[key] = append([]byte(nil), value...)
	return nil
}

// Dirty reports whether the overlay holds uncommitted writes.
func (c *Cache) Dirty() bool {
	return len(c.order) > 0
}

// Commit flushes buffered writes to the parent store in write order.
func (c *Cache) Commit(ctx context.Context) error {
	if len(c.order) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, Entry{Key: key, Value: c.writes[key]})
	}

	if batcher, ok := c.parent.(BatchWriter); ok {
		if err := batcher.SetBatch(ctx, entries); err != nil {
			return fmt.Errorf("failed to commit cache: %w", err)
		}
	} else {
		for _, entry := range entries {
			if err := c.parent.Set(ctx, entry.Key, entry.Value); err != nil {
				return fmt.Errorf("failed to commit key %s: %w", entry.Key, err)
			}
		}
	}

	c.Discard()
	return nil
}

// Discard drops every buffered write.
func (c *Cache) Discard() {
	c.writes = map[string][]byte{}
	c.order = nil
}

// Item is a JSON encoded value stored under a fixed key.
type Item[T any] struct {
	key string
}

// NewItem creates an Item bound to key.
func NewItem[T any](key string) Item[T] {
	return Item[T]{key: key}
}

// Key returns the storage key.
func (item Item[T]) Key() string {
	return item.key
}

// Load decodes the stored value. A missing key returns an error wrapping ErrNotFound.
func (item Item[T]) Load(ctx context.Context, store Store) (T, error) {
	var value T
	raw, err := store.Get(ctx, item.key)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s: %w", item.key, err)
	}
	return value, nil
}

// MayLoad is Load that reports a missing key as ok=false instead of an error.
func (item Item[T]) MayLoad(ctx context.Context, store Store) (T, bool, error) {
	value, err := item.Load(ctx, store)
	if errors.Is(err, ErrNotFound) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Save encodes and stores value.
func (item Item[T]) Save(ctx context.Context, store Store, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", item.key, err)
	}
	return store.Set(ctx, item.key, raw)
}
