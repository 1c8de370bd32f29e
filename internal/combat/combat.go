// Package combat holds the pure math of the simulation: damage, mitigation,
// melee arcs, projectile spread and homing. Nothing here touches the world.
package combat

import (
	"math"
	"math/rand"
)

const (
	// MaxArmor and MaxCrit cap the player's armor fraction and crit chance.
	MaxArmor = 0.8
	MaxCrit  = 0.8

	LevelDamageStep = 0.2  // damage bonus per weapon level above 1
	LevelRangeStep  = 0.15 // melee range bonus per weapon level above 1
	SpecialDamage   = 1.5
	CritMultiplier  = 2.0

	HomingMinTravel = 2.0
	HomingCapture   = 6.0
	HomingBlend     = 0.03

	AimDeadzone   = 0.1
	DefaultSpread = 0.2
)

// DamageInput is everything that feeds one damage roll.
type DamageInput struct {
	Base        float64 // player base damage
	WeaponMult  float64
	PlayerMult  float64
	WeaponLevel int
	FormMult    float64 // 1 outside shapeshift forms
	Special     bool    // damage-boosting special active
	Crit        bool
}

// LevelScale is the weapon-level damage factor.
func LevelScale(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + LevelDamageStep*float64(level-1)
}

// Damage computes the final damage of one hit.
func Damage(in DamageInput) float64 {
	form := in.FormMult
	if form == 0 {
		form = 1
	}
	d := in.Base * in.WeaponMult * in.PlayerMult * LevelScale(in.WeaponLevel) * form
	if in.Special {
		d *= SpecialDamage
	}
	if in.Crit {
		d *= CritMultiplier
	}
	return d
}

// CritChance folds a form bonus into the player's crit stat.
func CritChance(playerCrit, formBonus float64) float64 {
	return math.Max(0, playerCrit+formBonus)
}

// RollCrit rolls one independent crit check.
func RollCrit(rng *rand.Rand, chance float64) bool {
	return rng.Float64() < chance
}

// ClampArmor and ClampCrit apply the stat caps.
func ClampArmor(a float64) float64 { return clamp(a, 0, MaxArmor) }
func ClampCrit(c float64) float64  { return clamp(c, 0, MaxCrit) }

// Mitigate scales incoming damage by the (capped) armor fraction.
func Mitigate(damage, armor float64) float64 {
	return damage * (1 - ClampArmor(armor))
}

// MeleeRange is the effective reach of a melee weapon at a level.
func MeleeRange(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return base * (1 + LevelRangeStep*float64(level-1))
}

// AngleDiff returns |a-b| wrapped into [0, π].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// InArc reports whether target lies within reach of origin and within half of
// arc of the aim direction. Both bounds are inclusive.
func InArc(origin, aim, target Vec2, reach, arc float64) bool {
	to := target.Sub(origin)
	if to.Len() > reach {
		return false
	}
	if to.IsZero() {
		return true
	}
	return AngleDiff(aim.Angle(), to.Angle()) <= arc/2
}

// Homing blends dir toward toTarget and renormalizes. A zero target bearing
// leaves dir unchanged.
func Homing(dir, toTarget Vec2, blend float64) Vec2 {
	t := toTarget.Normalize()
	if t.IsZero() {
		return dir
	}
	n := dir.Lerp(t, blend).Normalize()
	if n.IsZero() {
		return dir
	}
	return n
}

// ProjectileCount is how many projectiles one volley fires at a level.
func ProjectileCount(base, level int) int {
	if level < 1 {
		level = 1
	}
	return base + (level-1)/2
}

// SpreadAngles returns the angular offset of each projectile in a volley,
// evenly spaced and centered on the aim. A single projectile gets no offset.
func SpreadAngles(n int, spread float64) []float64 {
	out := make([]float64, n)
	if n <= 1 {
		return out
	}
	mid := float64(n-1) / 2
	for i := range out {
		out[i] = (float64(i) - mid) * spread
	}
	return out
}

// Aim returns the unit direction from a position to the pointer, or the
// rightward default when the pointer sits on the position.
func Aim(from, pointer Vec2) Vec2 {
	d := pointer.Sub(from)
	if d.Len() <= AimDeadzone {
		return Vec2{X: 1}
	}
	return d.Normalize()
}
