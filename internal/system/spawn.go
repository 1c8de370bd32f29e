package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// Spawn ring around the player, in world units.
const (
	SpawnMinRadius = 15.0
	SpawnMaxRadius = 20.0
)

// SpawnSystem is the wave-indexed spawn director. Phase 1 (PreUpdate).
// Enemies it creates take part in this tick's update pass.
type SpawnSystem struct {
	world *world.World
	log   *zap.Logger
}

func NewSpawnSystem(w *world.World, log *zap.Logger) *SpawnSystem {
	return &SpawnSystem{world: w, log: log}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *SpawnSystem) Update(dt time.Duration) {
	w := s.world
	if w.GameOver || w.Player == nil {
		return
	}
	w.SpawnTimer -= dt.Seconds()
	if w.SpawnTimer > 0 {
		return
	}
	w.SpawnTimer = w.Tuning.SpawnInterval(w.Wave)
	n := w.Tuning.SpawnCount(w.Wave)
	for i := 0; i < n; i++ {
		def := PickArchetype(w, w.Catalog.Enemies.Eligible(w.Wave))
		pos := w.RandomRingPoint(w.Player.Pos, SpawnMinRadius, SpawnMaxRadius)
		id := w.SpawnEnemy(def, pos)
		if b, ok := w.Bodies.Get(id); ok {
			b.Fresh = false
		}
	}
	s.log.Debug("spawned enemies", zap.Int("count", n), zap.Int("wave", w.Wave))
}

// PickArchetype rolls an archetype from the eligible list (weakest first):
// half the time the weakest, 30% the second weakest, otherwise any.
func PickArchetype(w *world.World, eligible []*data.ArchetypeDef) *data.ArchetypeDef {
	roll := w.Rng.Float64()
	switch {
	case roll < 0.5:
		return eligible[0]
	case roll < 0.8:
		return eligible[min(1, len(eligible)-1)]
	default:
		return eligible[w.Rng.Intn(len(eligible))]
	}
}
