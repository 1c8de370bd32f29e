package system

import (
	"time"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// ProjectileSystem advances projectiles, steers homing ones and resolves hits.
// A projectile is removed exactly once: on its first hit or once it has
// outrun its range, never both. Phase 2 (Update), after EnemySystem.
type ProjectileSystem struct {
	world *world.World
}

func NewProjectileSystem(w *world.World) *ProjectileSystem {
	return &ProjectileSystem{world: w}
}

func (s *ProjectileSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ProjectileSystem) Update(_ time.Duration) {
	w := s.world
	if w.Player == nil || w.GameOver {
		return
	}
	ecs.Each2(w.Projectiles, w.Bodies, func(id ecs.EntityID, pr *world.Projectile, b *world.Body) {
		if b.Fresh || !w.Live(id) {
			return
		}
		if pr.Homing && pr.Traveled > combat.HomingMinTravel {
			if _, target, ok := w.NearestEnemy(b.Pos, combat.HomingCapture); ok {
				pr.Dir = combat.Homing(pr.Dir, target.Sub(b.Pos), combat.HomingBlend)
			}
		}

		b.Pos = b.Pos.Add(pr.Dir.Scale(pr.Speed))
		pr.Traveled += pr.Speed

		if pr.Hostile {
			if b.Pos.Dist(w.Player.Pos) < world.ProjectileHitRadius {
				if w.Destroy(id) {
					hurtPlayer(w, pr.Damage)
				}
				return
			}
		} else if s.hitEnemy(id, pr, b) {
			return
		}

		if pr.Traveled > pr.Range {
			w.Destroy(id)
		}
	})
}

// hitEnemy damages the first live enemy within the hit radius, in spawn
// order, and removes the projectile. It reports whether a hit happened.
func (s *ProjectileSystem) hitEnemy(id ecs.EntityID, pr *world.Projectile, b *world.Body) bool {
	w := s.world
	hit := false
	ecs.Each2(w.Enemies, w.Bodies, func(eid ecs.EntityID, e *world.Enemy, eb *world.Body) {
		if hit || !w.Live(eid) || eb.Pos.Dist(b.Pos) >= world.ProjectileHitRadius {
			return
		}
		hit = true
		if w.Destroy(id) {
			w.DamageEnemy(eid, e, pr.Damage)
		}
	})
	return hit
}
