package system

import (
	"time"

	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// ClockSystem advances run time and derives the wave. Phase 1 (PreUpdate),
// registered before SpawnSystem.
type ClockSystem struct {
	world *world.World
}

func NewClockSystem(w *world.World) *ClockSystem {
	return &ClockSystem{world: w}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *ClockSystem) Update(dt time.Duration) {
	w := s.world
	if w.GameOver {
		return
	}
	w.Elapsed += dt.Seconds()
	w.Wave = data.WaveAt(w.Elapsed)
}
