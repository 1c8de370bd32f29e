package system

import (
	"time"

	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// EffectSystem expires visual effects. Phase 2 (Update).
type EffectSystem struct {
	world *world.World
}

func NewEffectSystem(w *world.World) *EffectSystem {
	return &EffectSystem{world: w}
}

func (s *EffectSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EffectSystem) Update(d time.Duration) {
	w := s.world
	dt := d.Seconds()
	ecs.Each2(w.Effects, w.Bodies, func(id ecs.EntityID, e *world.Effect, b *world.Body) {
		if b.Fresh || !w.Live(id) {
			return
		}
		e.Timer -= dt
		if e.Timer <= 0 {
			w.Destroy(id)
		}
	})
}
