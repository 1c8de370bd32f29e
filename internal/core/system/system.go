package system

import "time"

// Phase orders systems inside one simulation step.
type Phase int

const (
	PhaseInput      Phase = iota // edge-triggered input
	PhasePreUpdate               // clock, spawn director
	PhaseUpdate                  // player, enemies, projectiles, effects
	PhasePostUpdate              // kill rewards, pickups, level-ups
	PhaseOutput                  // HUD snapshot
	PhasePersist                 // meta save
	PhaseCleanup                 // destroy queued entities
)

var phaseNames = [...]string{"input", "pre-update", "update", "post-update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is one stage of the per-tick pass.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
