package ecs

// Each2 iterates, in sa's insertion order, over entities that have both
// component A and B.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	sa.Each(func(id EntityID, a *A) {
		if b, ok := sb.Get(id); ok {
			fn(id, a, b)
		}
	})
}
