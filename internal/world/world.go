// Package world holds the simulation state of one run: the player, the ECS
// stores of enemies, projectiles, pickups and effects, and the run counters.
// A World is created at run start and discarded at run end.
package world

import (
	"math"
	"math/rand"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/event"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
)

const DefaultSize = 100.0

// World is the single owner of all mutable simulation state. Accessed only
// from the goroutine that ticks it.
type World struct {
	ECS         *ecs.World
	Bodies      *ecs.PtrComponentStore[Body]
	Enemies     *ecs.PtrComponentStore[Enemy]
	Projectiles *ecs.PtrComponentStore[Projectile]
	Pickups     *ecs.PtrComponentStore[Pickup]
	Effects     *ecs.PtrComponentStore[Effect]

	Player  *Player
	Catalog *data.Catalog
	Tuning  data.Tuning
	Meta    *Meta
	Bus     *event.Bus
	Rng     *rand.Rand
	Input   Input

	Size    float64
	Elapsed float64
	Wave    int
	Kills   int
	Gold    int // gold picked up this run

	SpawnTimer      float64
	PendingLevelUps int
	GameOver        bool
	MetaDirty       bool
}

// Options configures a new World.
type Options struct {
	Catalog *data.Catalog
	Tuning  data.Tuning
	Meta    *Meta
	Rng     *rand.Rand
	Size    float64
	ClassID string
}

// New creates a run's world with the player at the center.
func New(opts Options) *World {
	if opts.Tuning == nil {
		opts.Tuning = data.DefaultTuning{}
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Meta == nil {
		opts.Meta = &Meta{}
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(1))
	}
	w := &World{
		ECS:         ecs.NewWorld(),
		Bodies:      ecs.NewPtrComponentStore[Body](),
		Enemies:     ecs.NewPtrComponentStore[Enemy](),
		Projectiles: ecs.NewPtrComponentStore[Projectile](),
		Pickups:     ecs.NewPtrComponentStore[Pickup](),
		Effects:     ecs.NewPtrComponentStore[Effect](),
		Catalog:     opts.Catalog,
		Tuning:      opts.Tuning,
		Meta:        opts.Meta,
		Bus:         event.NewBus(),
		Rng:         opts.Rng,
		Size:        opts.Size,
		Wave:        1,
	}
	reg := w.ECS.Registry()
	reg.Register(w.Bodies)
	reg.Register(w.Enemies)
	reg.Register(w.Projectiles)
	reg.Register(w.Pickups)
	reg.Register(w.Effects)

	if opts.ClassID != "" {
		center := combat.V(w.Size/2, w.Size/2)
		w.Player = NewPlayer(opts.Catalog, opts.ClassID, *w.Meta, center)
	}
	return w
}

// ClampToBounds keeps a position inside the playable area.
func (w *World) ClampToBounds(p combat.Vec2) combat.Vec2 {
	return p.Clamp(1, w.Size-1)
}

// SpawnEnemy creates an enemy of archetype def at pos, scaled for the
// current wave.
func (w *World) SpawnEnemy(def *data.ArchetypeDef, pos combat.Vec2) ecs.EntityID {
	id := w.ECS.CreateEntity()
	hp := def.HP * w.Tuning.EnemyHPScale(w.Wave)
	w.Bodies.Set(id, &Body{Pos: pos, Radius: def.Size / 2, Fresh: true})
	w.Enemies.Set(id, &Enemy{
		Def:    def,
		HP:     hp,
		MaxHP:  hp,
		Damage: def.Damage * w.Tuning.EnemyDamageScale(w.Wave),
		Speed:  def.Speed,
	})
	return id
}

// SpawnProjectile creates a projectile entity; the component is copied.
func (w *World) SpawnProjectile(pos combat.Vec2, p Projectile) ecs.EntityID {
	id := w.ECS.CreateEntity()
	radius := 0.15
	if p.Hostile {
		radius = 0.125
	}
	w.Bodies.Set(id, &Body{Pos: pos, Radius: radius, Fresh: true})
	w.Projectiles.Set(id, &p)
	return id
}

// SpawnPickup drops a pickup at pos.
func (w *World) SpawnPickup(kind PickupKind, value int, pos combat.Vec2) ecs.EntityID {
	id := w.ECS.CreateEntity()
	w.Bodies.Set(id, &Body{Pos: pos, Radius: 0.2, Fresh: true})
	w.Pickups.Set(id, &Pickup{Kind: kind, Value: value})
	return id
}

// SpawnEffect adds a visual-only effect.
func (w *World) SpawnEffect(pos combat.Vec2, e Effect) ecs.EntityID {
	id := w.ECS.CreateEntity()
	w.Bodies.Set(id, &Body{Pos: pos, Radius: e.Radius, Fresh: true})
	w.Effects.Set(id, &e)
	return id
}

// Destroy queues an entity for removal at the end of the tick. It reports
// false if the entity was already gone or queued.
func (w *World) Destroy(id ecs.EntityID) bool {
	return w.ECS.MarkForDestruction(id)
}

// Live reports whether an entity exists and is not queued for removal.
func (w *World) Live(id ecs.EntityID) bool {
	return w.ECS.Live(id)
}

// DamageEnemy applies amount to an enemy. The first call that takes it to
// zero queues it for removal and emits EnemyKilled; it returns true then.
func (w *World) DamageEnemy(id ecs.EntityID, e *Enemy, amount float64) bool {
	if !w.Live(id) {
		return false
	}
	e.HP -= amount
	e.Flash = FlashTime
	if e.HP > 0 {
		return false
	}
	if !w.Destroy(id) {
		return false
	}
	b, _ := w.Bodies.Get(id)
	event.Emit(w.Bus, event.EnemyKilled{EntityID: id, Archetype: e.Def.ID, Pos: b.Pos, XP: e.Def.XP})
	return true
}

// NearestEnemy returns the closest live enemy within maxDist of pos.
func (w *World) NearestEnemy(pos combat.Vec2, maxDist float64) (ecs.EntityID, combat.Vec2, bool) {
	var (
		bestID  ecs.EntityID
		bestPos combat.Vec2
		found   bool
	)
	best := maxDist
	ecs.Each2(w.Enemies, w.Bodies, func(id ecs.EntityID, _ *Enemy, b *Body) {
		if !w.Live(id) {
			return
		}
		if d := b.Pos.Dist(pos); d < best {
			best, bestID, bestPos, found = d, id, b.Pos, true
		}
	})
	return bestID, bestPos, found
}

// ClearFresh makes every entity eligible for updates on the next tick.
func (w *World) ClearFresh() {
	w.Bodies.Each(func(_ ecs.EntityID, b *Body) { b.Fresh = false })
}

// EnemyCount returns the number of live enemies.
func (w *World) EnemyCount() int {
	n := 0
	w.Enemies.Each(func(id ecs.EntityID, _ *Enemy) {
		if w.Live(id) {
			n++
		}
	})
	return n
}

// RandomRingPoint returns a uniformly random point around center at a
// distance in [minR, maxR].
func (w *World) RandomRingPoint(center combat.Vec2, minR, maxR float64) combat.Vec2 {
	angle := w.Rng.Float64() * 2 * math.Pi
	r := minR + w.Rng.Float64()*(maxR-minR)
	return center.Add(combat.FromAngle(angle).Scale(r))
}
