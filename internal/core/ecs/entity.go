package ecs

// EntityID packs a slot index (low 32 bits) and the slot's generation (high
// 32 bits). Destroying an entity bumps its slot's generation, so ids held
// past destruction stop resolving. Slots start at generation 1, which keeps
// the zero id dead forever.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool hands out ids. Freed slots are reused last-in first-out.
type EntityPool struct {
	gens []uint32 // current generation per slot
	free []uint32 // released slots
}

func NewEntityPool() *EntityPool {
	return &EntityPool{gens: make([]uint32, 0, 256)}
}

func (p *EntityPool) Create() EntityID {
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return NewEntityID(slot, p.gens[slot])
	}
	slot := uint32(len(p.gens))
	p.gens = append(p.gens, 1)
	return NewEntityID(slot, 1)
}

func (p *EntityPool) Alive(id EntityID) bool {
	slot := int(id.Index())
	return slot < len(p.gens) && p.gens[slot] == id.Generation()
}

// Destroy releases id's slot. Stale ids are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	slot := id.Index()
	p.gens[slot]++
	p.free = append(p.free, slot)
}
