package system

import (
	"time"

	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// HUDSystem publishes a HUD snapshot whenever it differs from the last one.
// Phase 4 (Output).
type HUDSystem struct {
	world   *world.World
	publish func(world.HUD)
	last    world.HUD
	sent    bool
}

func NewHUDSystem(w *world.World, publish func(world.HUD)) *HUDSystem {
	return &HUDSystem{world: w, publish: publish}
}

func (s *HUDSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *HUDSystem) Update(_ time.Duration) {
	if s.publish == nil {
		return
	}
	h := s.world.Snapshot()
	if s.sent && h == s.last {
		return
	}
	s.last, s.sent = h, true
	s.publish(h)
}
