package world

import (
	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
)

// Enemy behaviour constants, in world units and seconds.
const (
	ContactRange         = 0.8
	ContactCooldown      = 1.0
	HoldDistance         = 0.5
	StandoffMin          = 4.0
	StandoffMax          = 8.0
	RangedCooldown       = 2.0
	EnemyFrameTime       = 0.2
	FlashTime            = 0.1
	EnemyProjectileSpeed = 0.1
	EnemyProjectileRange = 12.0
)

// Projectile, pickup and effect constants.
const (
	ProjectileHitRadius = 0.5
	ProjectileMuzzle    = 0.5
	CollectRadius       = 0.5
	MagnetPull          = 0.2
	HealthOrbAmount     = 20
	GoldDropChance      = 0.3
	HealthDropChance    = 0.1
	SlashEffectTime     = 0.15
)

// Body is the spatial part every non-player entity has. Fresh marks an
// entity created during the current update pass; systems skip it until the
// next tick.
type Body struct {
	Pos        combat.Vec2
	Radius     float64
	FacingLeft bool
	Frame      int
	animTimer  float64
	Fresh      bool
}

// Animate advances a looping 4-frame cycle.
func (b *Body) Animate(dt, frameTime float64) {
	b.animTimer += dt
	if b.animTimer > frameTime {
		b.animTimer = 0
		b.Frame = (b.Frame + 1) % AnimFrames
	}
}

// Enemy holds per-unit state. HP and Damage are scaled once at spawn.
type Enemy struct {
	Def         *data.ArchetypeDef
	HP          float64
	MaxHP       float64
	Damage      float64
	Speed       float64
	DamageTimer float64
	RangedTimer float64
	Flash       float64
}

// Projectile is a moving hit. Hostile projectiles belong to enemies and test
// only the player; the rest test only enemies.
type Projectile struct {
	Hostile  bool
	Weapon   string
	Dir      combat.Vec2
	Speed    float64
	Damage   float64
	Range    float64
	Homing   bool
	Traveled float64
}

type PickupKind int

const (
	PickupXP PickupKind = iota
	PickupGold
	PickupHealth
)

func (k PickupKind) String() string {
	switch k {
	case PickupXP:
		return "xp"
	case PickupGold:
		return "gold"
	case PickupHealth:
		return "health"
	}
	return "unknown"
}

type Pickup struct {
	Kind  PickupKind
	Value int
}

type EffectKind int

const (
	EffectSlash EffectKind = iota
	EffectLightning
)

// Effect is a short-lived visual with no gameplay interaction.
type Effect struct {
	Kind   EffectKind
	Dir    combat.Vec2
	Arc    float64
	Radius float64
	Timer  float64
}
