package system

import (
	"time"

	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end and
// makes entities spawned this tick eligible for the next one.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	world *world.World
}

func NewCleanupSystem(w *world.World) *CleanupSystem {
	return &CleanupSystem{world: w}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.ECS.FlushDestroyQueue()
	s.world.ClearFresh()
}
