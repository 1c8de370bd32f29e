package system

import (
	"math"
	"time"

	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/event"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// EnemySystem moves enemies, fires ranged attacks and applies contact damage.
// Phase 2 (Update), after PlayerSystem.
type EnemySystem struct {
	world *world.World
}

func NewEnemySystem(w *world.World) *EnemySystem {
	return &EnemySystem{world: w}
}

func (s *EnemySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EnemySystem) Update(d time.Duration) {
	w := s.world
	p := w.Player
	if p == nil || w.GameOver {
		return
	}
	dt := d.Seconds()
	ecs.Each2(w.Enemies, w.Bodies, func(id ecs.EntityID, e *world.Enemy, b *world.Body) {
		if b.Fresh || !w.Live(id) {
			return
		}
		toPlayer := p.Pos.Sub(b.Pos)
		dist := toPlayer.Len()

		if e.Def.Ranged && dist > world.StandoffMin && dist < world.StandoffMax {
			e.RangedTimer -= dt
			if e.RangedTimer <= 0 {
				e.RangedTimer = world.RangedCooldown
				w.SpawnProjectile(b.Pos, world.Projectile{
					Hostile: true,
					Weapon:  e.Def.ID,
					Dir:     toPlayer.Normalize(),
					Speed:   world.EnemyProjectileSpeed,
					Damage:  e.Damage,
					Range:   world.EnemyProjectileRange,
				})
			}
		} else if dist > world.HoldDistance {
			b.Pos = b.Pos.Add(toPlayer.Normalize().Scale(e.Speed))
		}

		e.DamageTimer -= dt
		if dist < world.ContactRange && e.DamageTimer <= 0 {
			hurtPlayer(w, e.Damage)
			e.DamageTimer = world.ContactCooldown
		}

		b.Animate(dt, world.EnemyFrameTime)
		b.FacingLeft = p.Pos.X < b.Pos.X
		e.Flash = math.Max(0, e.Flash-dt)
	})
}

// hurtPlayer applies a hit to the player and reports it on the bus.
func hurtPlayer(w *world.World, amount float64) {
	if lost := w.Player.TakeDamage(amount); lost > 0 {
		event.Emit(w.Bus, event.PlayerDamaged{Amount: lost, HP: w.Player.HP})
	}
}
