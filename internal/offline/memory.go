package offline

import (
	"context"
	"sort"
	"sync"
)

// Ensure MemoryStorage implements Storage
var _ Storage = (*MemoryStorage)(nil)

// MemoryStorage keeps buckets in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	buckets map[string]*memoryBucket
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{buckets: make(map[string]*memoryBucket)}
}

func (s *MemoryStorage) Open(_ context.Context, name string) (Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[name]
	if !ok {
		b = &memoryBucket{entries: make(map[string]Entry)}
		s.buckets[name] = b
	}
	return b, nil
}

func (s *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStorage) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[name]
	delete(s.buckets, name)
	return ok, nil
}

type memoryBucket struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func (b *memoryBucket) Match(_ context.Context, key string) (*Entry, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	e.Header = e.Header.Clone()
	e.Body = append([]byte(nil), e.Body...)
	return &e, true, nil
}

func (b *memoryBucket) Put(_ context.Context, key string, entry *Entry) error {
	e := *entry
	e.Header = entry.Header.Clone()
	e.Body = append([]byte(nil), entry.Body...)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = e
	return nil
}
