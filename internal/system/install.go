// Package system holds the per-tick simulation systems of a run.
package system

import (
	"go.uber.org/zap"

	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// Deps are the collaborators the systems of one run need.
type Deps struct {
	Store MetaSaver       // nil disables saving
	OnHUD func(world.HUD) // nil disables HUD publishing
	Log   *zap.Logger
}

// Install registers every system for w on r, in tick order.
func Install(r *coresys.Runner, w *world.World, deps Deps) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	r.Register(NewInputSystem(w, log))
	r.Register(NewClockSystem(w))
	r.Register(NewSpawnSystem(w, log))
	r.Register(NewPlayerSystem(w))
	r.Register(NewEnemySystem(w))
	r.Register(NewProjectileSystem(w))
	r.Register(NewEffectSystem(w))
	r.Register(NewProgressionSystem(w, log))
	r.Register(NewHUDSystem(w, deps.OnHUD))
	r.Register(NewPersistenceSystem(w, deps.Store, log))
	r.Register(NewCleanupSystem(w))
}
