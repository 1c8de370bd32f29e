package system

import (
	"cmp"
	"slices"
	"time"
)

// Runner ticks its systems once per simulation step, ordered by Phase.
// Within a phase, registration order wins.
type Runner struct {
	systems []System
	dirty   bool
}

func NewRunner() *Runner { return &Runner{} }

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.dirty = true
}

// Tick runs one full pass, Input through Cleanup.
func (r *Runner) Tick(dt time.Duration) {
	for _, s := range r.ordered() {
		s.Update(dt)
	}
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	for _, s := range r.ordered() {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Len returns the number of registered systems.
func (r *Runner) Len() int { return len(r.systems) }

func (r *Runner) ordered() []System {
	if r.dirty {
		slices.SortStableFunc(r.systems, func(a, b System) int {
			return cmp.Compare(a.Phase(), b.Phase())
		})
		r.dirty = false
	}
	return r.systems
}
