package data

import (
	"fmt"
	"math"
)

type WeaponType string

const (
	WeaponMelee      WeaponType = "melee"
	WeaponProjectile WeaponType = "projectile"
)

// Defaults for projectile weapons.
const (
	DefaultSpread          = 0.2
	DefaultProjectileSpeed = 0.2 // world units per tick
)

// WeaponDef holds a weapon template. Damage multiplies the wielder's base
// damage. Arc is stored in fractions of π in YAML and radians after load.
type WeaponDef struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Type        WeaponType `yaml:"type"`
	Damage      float64    `yaml:"damage"`
	Cooldown    float64    `yaml:"cooldown"`
	Range       float64    `yaml:"range"`
	Arc         float64    `yaml:"arc"`
	Projectiles int        `yaml:"projectiles"`
	Spread      float64    `yaml:"spread"`
	Homing      bool       `yaml:"homing"`
	Speed       float64    `yaml:"speed"`
}

func (w *WeaponDef) IsMelee() bool { return w.Type == WeaponMelee }

type weaponListFile struct {
	Weapons []WeaponDef `yaml:"weapons"`
}

// WeaponTable holds weapon templates indexed by id.
type WeaponTable struct {
	weapons map[string]*WeaponDef
}

func newWeaponTable(f weaponListFile) (*WeaponTable, error) {
	t := &WeaponTable{weapons: make(map[string]*WeaponDef, len(f.Weapons))}
	for i := range f.Weapons {
		w := &f.Weapons[i]
		if _, dup := t.weapons[w.ID]; dup {
			return nil, fmt.Errorf("duplicate weapon %q", w.ID)
		}
		if w.Cooldown <= 0 || w.Range <= 0 {
			return nil, fmt.Errorf("weapon %q: cooldown and range must be positive", w.ID)
		}
		switch w.Type {
		case WeaponMelee:
			if w.Arc <= 0 || w.Arc > 2 {
				return nil, fmt.Errorf("weapon %q: arc %.2fπ out of range", w.ID, w.Arc)
			}
			w.Arc *= math.Pi
		case WeaponProjectile:
			if w.Projectiles <= 0 {
				w.Projectiles = 1
			}
			if w.Spread == 0 {
				w.Spread = DefaultSpread
			}
			if w.Speed == 0 {
				w.Speed = DefaultProjectileSpeed
			}
		default:
			return nil, fmt.Errorf("weapon %q: unknown type %q", w.ID, w.Type)
		}
		t.weapons[w.ID] = w
	}
	return t, nil
}

func (t *WeaponTable) Get(id string) (*WeaponDef, bool) {
	w, ok := t.weapons[id]
	return w, ok
}

func (t *WeaponTable) Count() int { return len(t.weapons) }
