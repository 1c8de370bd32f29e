package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Compactor is implemented by stores that leave holes on Remove.
type Compactor interface {
	Compact()
}

// PtrComponentStore is a generic typed store for ECS components. Entries keep
// insertion order so every pass over a store visits entities in the order they
// were spawned. Remove leaves a hole; Compact squeezes holes out and must not
// be called while an Each is running.
type PtrComponentStore[T any] struct {
	index map[EntityID]int
	ids   []EntityID
	items []*T
	holes int
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		index: make(map[EntityID]int, 128),
		ids:   make([]EntityID, 0, 128),
		items: make([]*T, 0, 128),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.items[i] = c
		return
	}
	s.index[id] = len(s.items)
	s.ids = append(s.ids, id)
	s.items = append(s.items, c)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	s.ids[i] = 0
	s.items[i] = nil
	s.holes++
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.index)
}

// Each visits entries in insertion order. Entries appended by fn are not
// visited; entries removed by fn are skipped.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	n := len(s.items)
	for i := 0; i < n; i++ {
		c := s.items[i]
		if c == nil {
			continue
		}
		fn(s.ids[i], c)
	}
}

func (s *PtrComponentStore[T]) Compact() {
	if s.holes == 0 {
		return
	}
	j := 0
	for i, c := range s.items {
		if c == nil {
			continue
		}
		s.items[j] = c
		s.ids[j] = s.ids[i]
		s.index[s.ids[j]] = j
		j++
	}
	clear(s.items[j:])
	s.items = s.items[:j]
	s.ids = s.ids[:j]
	s.holes = 0
}
