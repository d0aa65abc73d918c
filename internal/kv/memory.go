package kv

import "sync"

// MemoryBucket is a non-persistent bucket held entirely in memory.
type MemoryBucket struct {
	mu     sync.RWMutex
	name   string
	values map[string]any
}

// NewMemoryBucket creates a new in-memory bucket.
func NewMemoryBucket(name string) *MemoryBucket {
	return &MemoryBucket{
		name:   name,
		values: make(map[string]any),
	}
}

// Name returns the bucket name.
func (b *MemoryBucket) Name() string {
	return b.name
}

// IsPersistent returns false (memory buckets are lost on restart).
func (b *MemoryBucket) IsPersistent() bool {
	return false
}

// Store saves a value with the given key.
func (b *MemoryBucket) Store(key string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
	return nil
}

// Get retrieves a value by key. Returns nil if the key doesn't exist.
func (b *MemoryBucket) Get(key string) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.values[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Exists returns true if the key exists.
func (b *MemoryBucket) Exists(key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.values[key]
	return ok, nil
}

// Delete removes a key from the bucket. Returns true if the key existed.
func (b *MemoryBucket) Delete(key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.values[key]
	delete(b.values, key)
	return ok, nil
}

// Keys returns all keys in the bucket.
func (b *MemoryBucket) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.values))
	for key := range b.values {
		keys = append(keys, key)
	}
	return keys, nil
}

// Clear removes all keys from the bucket.
func (b *MemoryBucket) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = make(map[string]any)
	return nil
}
