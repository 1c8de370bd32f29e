package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	marked       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		marked:       make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

// Live reports whether id is allocated and not queued for destruction.
func (w *World) Live(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	_, dead := w.marked[id]
	return !dead
}

// MarkForDestruction queues an entity for end-of-tick cleanup. It returns
// false when the entity was already queued or is not alive, so callers can
// tie one-shot side effects to the first successful mark.
func (w *World) MarkForDestruction(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	if _, ok := w.marked[id]; ok {
		return false
	}
	w.marked[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
	return true
}

// Pending returns the number of entities queued for destruction.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities, clears their components and
// compacts the stores. Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() {
	if len(w.destroyQueue) == 0 {
		return
	}
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.marked)
	w.registry.Compact()
}
