package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pos struct{ X, Y float64 }
type tag struct{ Name string }

func has[T any](s *PtrComponentStore[T], id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	require.False(t, a.IsZero())
	assert.True(t, p.Alive(a))

	p.Destroy(a)
	assert.False(t, p.Alive(a))

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index is recycled")
	assert.NotEqual(t, a.Generation(), b.Generation())
	assert.False(t, p.Alive(a), "stale id stays dead")

	p.Destroy(a)
	assert.True(t, p.Alive(b), "destroying a stale id is a no-op")
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[tag]()
	w.Registry().Register(s)

	var ids []EntityID
	for _, n := range []string{"a", "b", "c", "d"} {
		id := w.CreateEntity()
		s.Set(id, &tag{Name: n})
		ids = append(ids, id)
	}
	w.MarkForDestruction(ids[1])
	w.FlushDestroyQueue()

	var got []string
	s.Each(func(_ EntityID, c *tag) { got = append(got, c.Name) })
	assert.Equal(t, []string{"a", "c", "d"}, got)
	assert.Equal(t, 3, s.Len())

	c, ok := s.Get(ids[3])
	require.True(t, ok)
	assert.Equal(t, "d", c.Name)
}

func TestEachSkipsAppendedAndRemoved(t *testing.T) {
	s := NewPtrComponentStore[tag]()
	p := NewEntityPool()
	first := p.Create()
	second := p.Create()
	s.Set(first, &tag{Name: "first"})
	s.Set(second, &tag{Name: "second"})

	var visited []string
	s.Each(func(id EntityID, c *tag) {
		visited = append(visited, c.Name)
		if id == first {
			s.Remove(second)
			s.Set(p.Create(), &tag{Name: "spawned"})
		}
	})
	assert.Equal(t, []string{"first"}, visited)

	s.Compact()
	visited = visited[:0]
	s.Each(func(_ EntityID, c *tag) { visited = append(visited, c.Name) })
	assert.Equal(t, []string{"first", "spawned"}, visited)
}

func TestMarkForDestructionIsIdempotent(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[pos]()
	w.Registry().Register(s)
	id := w.CreateEntity()
	s.Set(id, &pos{})

	assert.True(t, w.MarkForDestruction(id))
	assert.False(t, w.MarkForDestruction(id))
	assert.False(t, w.Live(id))
	assert.True(t, has(s, id), "components stay until the flush")
	assert.Equal(t, 1, w.Pending())

	w.FlushDestroyQueue()
	assert.Zero(t, w.Pending())
	assert.False(t, has(s, id))
	assert.False(t, w.MarkForDestruction(id))
}

func TestEach2(t *testing.T) {
	p := NewEntityPool()
	ps := NewPtrComponentStore[pos]()
	ts := NewPtrComponentStore[tag]()
	a, b, c := p.Create(), p.Create(), p.Create()
	ps.Set(a, &pos{X: 1})
	ps.Set(b, &pos{X: 2})
	ps.Set(c, &pos{X: 3})
	ts.Set(c, &tag{Name: "c"})
	ts.Set(a, &tag{Name: "a"})

	var names []string
	Each2(ps, ts, func(_ EntityID, _ *pos, t *tag) { names = append(names, t.Name) })
	assert.Equal(t, []string{"a", "c"}, names)
}
