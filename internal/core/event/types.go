package event

import (
	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
)

// EnemyKilled fires once per enemy whose hit points reached zero.
type EnemyKilled struct {
	EntityID  ecs.EntityID
	Archetype string
	Pos       combat.Vec2
	XP        int
}

// PickupCollected fires once per pickup the player collected.
type PickupCollected struct {
	EntityID ecs.EntityID
	Kind     int
	Value    int
}

type PlayerDamaged struct {
	Amount float64
	HP     float64
}

type LevelReached struct {
	Level int
}

type PlayerDied struct {
	Elapsed float64
}
