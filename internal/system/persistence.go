package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// MetaSaver persists the meta progression record.
type MetaSaver interface {
	Save(ctx context.Context, meta map[string]int) error
}

// PersistenceSystem writes the meta record back whenever the run changed it
// (gold pickups). Saves are synchronous and best-effort: a failure is logged
// and the record stays dirty for the next tick. Phase 5 (Persist).
type PersistenceSystem struct {
	world   *world.World
	store   MetaSaver
	log     *zap.Logger
	timeout time.Duration
}

func NewPersistenceSystem(w *world.World, store MetaSaver, log *zap.Logger) *PersistenceSystem {
	return &PersistenceSystem{world: w, store: store, log: log, timeout: 2 * time.Second}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	if !s.world.MetaDirty || s.store == nil {
		return
	}
	if err := SaveMeta(s.store, *s.world.Meta, s.timeout); err != nil {
		s.log.Warn("save meta progress", zap.Error(err))
		return
	}
	s.world.MetaDirty = false
}

// SaveMeta writes a full copy of meta with a bounded wait.
func SaveMeta(store MetaSaver, meta world.Meta, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return store.Save(ctx, meta.ToMap())
}
