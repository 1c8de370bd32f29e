package world

import (
	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
)

type SpriteKind int

const (
	SpritePlayer SpriteKind = iota
	SpriteEnemy
	SpriteProjectile
	SpriteEnemyProjectile
	SpritePickup
	SpriteEffect
)

// Sprite is the read-only render view of one live entity.
type Sprite struct {
	Kind       SpriteKind
	ID         string // class, archetype, weapon, pickup or effect name
	Pos        combat.Vec2
	Dir        combat.Vec2
	Radius     float64
	FacingLeft bool
	Frame      int
	Flash      bool
}

// Sprites lists every live entity in draw order: pickups, effects, enemies,
// projectiles, then the player on top.
func (w *World) Sprites() []Sprite {
	out := make([]Sprite, 0, w.Bodies.Len()+1)
	ecs.Each2(w.Pickups, w.Bodies, func(_ ecs.EntityID, p *Pickup, b *Body) {
		out = append(out, Sprite{Kind: SpritePickup, ID: p.Kind.String(), Pos: b.Pos, Radius: b.Radius})
	})
	ecs.Each2(w.Effects, w.Bodies, func(_ ecs.EntityID, e *Effect, b *Body) {
		id := "slash"
		if e.Kind == EffectLightning {
			id = "lightning"
		}
		out = append(out, Sprite{Kind: SpriteEffect, ID: id, Pos: b.Pos, Dir: e.Dir, Radius: e.Radius})
	})
	ecs.Each2(w.Enemies, w.Bodies, func(_ ecs.EntityID, e *Enemy, b *Body) {
		out = append(out, Sprite{
			Kind: SpriteEnemy, ID: e.Def.ID, Pos: b.Pos, Radius: b.Radius,
			FacingLeft: b.FacingLeft, Frame: b.Frame, Flash: e.Flash > 0,
		})
	})
	ecs.Each2(w.Projectiles, w.Bodies, func(_ ecs.EntityID, p *Projectile, b *Body) {
		kind := SpriteProjectile
		if p.Hostile {
			kind = SpriteEnemyProjectile
		}
		out = append(out, Sprite{Kind: kind, ID: p.Weapon, Pos: b.Pos, Dir: p.Dir, Radius: b.Radius})
	})
	if p := w.Player; p != nil {
		out = append(out, Sprite{
			Kind: SpritePlayer, ID: p.Class.ID, Pos: p.Pos, Dir: p.Aim, Radius: 0.5,
			FacingLeft: p.FacingLeft, Frame: p.SpriteFrame(), Flash: p.Invincible > 0,
		})
	}
	return out
}
