package ecs

// Registry lists every component store of a world so that destroying an
// entity strips all of its components in one call.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll drops id from every store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Compact closes the holes left by RemoveAll in stores that keep insertion
// order.
func (r *Registry) Compact() {
	for _, s := range r.stores {
		if c, ok := s.(Compactor); ok {
			c.Compact()
		}
	}
}
