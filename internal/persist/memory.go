package persist

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the meta record and run history in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	meta  map[string]int
	runs  []RunRecord
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{meta: map[string]int{}}
}

func (s *MemoryStore) Load(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMeta(s.meta), nil
}

func (s *MemoryStore) Save(_ context.Context, meta map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = copyMeta(meta)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Record(_ context.Context, r RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

func (s *MemoryStore) Runs(_ context.Context) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.runs), nil
}
