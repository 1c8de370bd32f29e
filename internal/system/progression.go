package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/core/event"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// ProgressionSystem drains the tick's events: it counts kills, drops loot,
// grants experience, banks gold, heals, and detects death. Phase 3
// (PostUpdate).
type ProgressionSystem struct {
	world *world.World
	log   *zap.Logger
}

func NewProgressionSystem(w *world.World, log *zap.Logger) *ProgressionSystem {
	s := &ProgressionSystem{world: w, log: log}
	event.Subscribe(w.Bus, s.onEnemyKilled)
	event.Subscribe(w.Bus, s.onPickupCollected)
	return s
}

func (s *ProgressionSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ProgressionSystem) Update(_ time.Duration) {
	w := s.world
	w.Bus.Drain()
	if p := w.Player; p != nil && p.Dead() && !w.GameOver {
		w.GameOver = true
		event.Emit(w.Bus, event.PlayerDied{Elapsed: w.Elapsed})
		w.Bus.Drain()
		s.log.Info("player died",
			zap.String("class", p.Class.ID),
			zap.Int("level", p.Level),
			zap.Int("kills", w.Kills),
			zap.String("time", world.FormatClock(w.Elapsed)),
		)
	}
}

func (s *ProgressionSystem) onEnemyKilled(ev event.EnemyKilled) {
	w := s.world
	w.Kills++
	w.SpawnPickup(world.PickupXP, ev.XP, ev.Pos)
	if w.Rng.Float64() < world.GoldDropChance {
		w.SpawnPickup(world.PickupGold, int(math.Ceil(float64(ev.XP)*2)), ev.Pos)
	}
	if w.Rng.Float64() < world.HealthDropChance {
		w.SpawnPickup(world.PickupHealth, world.HealthOrbAmount, ev.Pos)
	}
}

func (s *ProgressionSystem) onPickupCollected(ev event.PickupCollected) {
	w := s.world
	p := w.Player
	switch world.PickupKind(ev.Kind) {
	case world.PickupXP:
		gained := p.GainXP(float64(ev.Value), w.Meta.XPMultiplier(w.Catalog))
		for i := 0; i < gained; i++ {
			w.PendingLevelUps++
			event.Emit(w.Bus, event.LevelReached{Level: p.Level - gained + i + 1})
		}
		if gained > 0 {
			s.log.Debug("level up", zap.Int("level", p.Level), zap.Int("pending", w.PendingLevelUps))
		}
	case world.PickupGold:
		w.Gold += ev.Value
		w.Meta.Gold += ev.Value
		w.MetaDirty = true
	case world.PickupHealth:
		p.Heal(float64(ev.Value))
	}
}
