package system

import (
	"time"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/event"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// PlayerSystem moves the player, runs its weapon, counts its timers down and
// handles pickups. Phase 2 (Update), registered first.
type PlayerSystem struct {
	world *world.World
}

func NewPlayerSystem(w *world.World) *PlayerSystem {
	return &PlayerSystem{world: w}
}

func (s *PlayerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PlayerSystem) Update(d time.Duration) {
	w := s.world
	p := w.Player
	if p == nil || w.GameOver {
		return
	}
	dt := d.Seconds()
	in := &w.Input

	move := in.Move.Normalize()
	p.Moving = !move.IsZero()
	if p.Moving {
		p.Pos = p.Pos.Add(move.Scale(p.EffectiveSpeed()))
	}
	p.Pos = w.ClampToBounds(p.Pos)

	switch {
	case in.HasAim:
		p.Aim = combat.Aim(p.Pos, in.Pointer)
	case p.Moving:
		p.Aim = move
	}
	p.FacingLeft = p.Aim.X < 0
	p.Animate(dt)

	p.WeaponTimer -= dt
	if p.WeaponTimer <= 0 {
		s.attack()
	}

	p.TickTimers(dt)
	s.collectPickups()
}

// attack resolves one swing or volley of the weapon in hand.
func (s *PlayerSystem) attack() {
	w := s.world
	p := w.Player
	wpn := w.Catalog.MustWeapon(p.WeaponID())
	p.WeaponTimer = p.WeaponCooldown(wpn)

	if wpn.IsMelee() {
		s.melee(wpn)
		return
	}
	s.volley(wpn)
}

func (s *PlayerSystem) melee(wpn *data.WeaponDef) {
	w := s.world
	p := w.Player
	reach := combat.MeleeRange(wpn.Range, p.WeaponLevel(wpn.ID))
	ecs.Each2(w.Enemies, w.Bodies, func(id ecs.EntityID, e *world.Enemy, b *world.Body) {
		if !w.Live(id) || !combat.InArc(p.Pos, p.Aim, b.Pos, reach, wpn.Arc) {
			return
		}
		crit := combat.RollCrit(w.Rng, p.CritChance())
		w.DamageEnemy(id, e, p.HitDamage(wpn, crit))
	})
	w.SpawnEffect(p.Pos, world.Effect{
		Kind:   world.EffectSlash,
		Dir:    p.Aim,
		Arc:    wpn.Arc,
		Radius: reach,
		Timer:  world.SlashEffectTime,
	})
}

// volley spawns the projectiles of one attack. Damage, including one crit
// roll, is fixed here and copied into every projectile.
func (s *PlayerSystem) volley(wpn *data.WeaponDef) {
	w := s.world
	p := w.Player
	level := p.WeaponLevel(wpn.ID)
	crit := combat.RollCrit(w.Rng, p.CritChance())
	dmg := p.HitDamage(wpn, crit)
	n := combat.ProjectileCount(wpn.Projectiles, level)
	for _, off := range combat.SpreadAngles(n, wpn.Spread) {
		dir := p.Aim.Rotate(off)
		w.SpawnProjectile(p.Pos.Add(dir.Scale(world.ProjectileMuzzle)), world.Projectile{
			Weapon: wpn.ID,
			Dir:    dir,
			Speed:  wpn.Speed,
			Damage: dmg,
			Range:  wpn.Range,
			Homing: wpn.Homing,
		})
	}
}

// collectPickups pulls pickups inside the magnet radius and collects those
// inside the collection radius. Both checks use the distance before the pull.
func (s *PlayerSystem) collectPickups() {
	w := s.world
	p := w.Player
	ecs.Each2(w.Pickups, w.Bodies, func(id ecs.EntityID, pk *world.Pickup, b *world.Body) {
		if !w.Live(id) {
			return
		}
		dist := p.Pos.Dist(b.Pos)
		if dist < p.PickupRange {
			b.Pos = b.Pos.Add(p.Pos.Sub(b.Pos).Normalize().Scale(world.MagnetPull))
		}
		if dist < world.CollectRadius && w.Destroy(id) {
			event.Emit(w.Bus, event.PickupCollected{EntityID: id, Kind: int(pk.Kind), Value: pk.Value})
		}
	})
}
