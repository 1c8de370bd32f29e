package world

import "github.com/tylerhaar7/Pixel-Survivors/internal/data"

// Meta is the permanent progression record: one level per meta upgrade plus
// the banked gold. It is read-only while a run is in progress, except for
// gold picked up during the run, which is banked immediately.
type Meta struct {
	MaxHP  int
	Damage int
	Speed  int
	XPGain int
	Gold   int
}

// Level returns the level of a meta upgrade by id.
func (m *Meta) Level(id string) int {
	switch id {
	case data.MetaMaxHP:
		return m.MaxHP
	case data.MetaDamage:
		return m.Damage
	case data.MetaSpeed:
		return m.Speed
	case data.MetaXPGain:
		return m.XPGain
	case data.GoldKey:
		return m.Gold
	}
	return 0
}

// SetLevel sets a meta upgrade level by id. Unknown ids are ignored.
func (m *Meta) SetLevel(id string, v int) {
	switch id {
	case data.MetaMaxHP:
		m.MaxHP = v
	case data.MetaDamage:
		m.Damage = v
	case data.MetaSpeed:
		m.Speed = v
	case data.MetaXPGain:
		m.XPGain = v
	case data.GoldKey:
		m.Gold = v
	}
}

var metaKeys = [...]string{data.MetaMaxHP, data.MetaDamage, data.MetaSpeed, data.MetaXPGain, data.GoldKey}

// ToMap flattens the record into the opaque key→integer form stores persist.
func (m Meta) ToMap() map[string]int {
	out := make(map[string]int, len(metaKeys))
	for _, k := range metaKeys {
		out[k] = m.Level(k)
	}
	return out
}

// MetaFromMap rebuilds a record. Missing keys are zero, negative values are
// clamped to zero and unknown keys are dropped.
func MetaFromMap(in map[string]int) Meta {
	var m Meta
	for _, k := range metaKeys {
		v := in[k]
		if v < 0 {
			v = 0
		}
		m.SetLevel(k, v)
	}
	return m
}

// bonus returns level × per-level bonus of a meta upgrade.
func (m *Meta) bonus(cat *data.Catalog, id string) float64 {
	def, ok := cat.Upgrades.Meta(id)
	if !ok {
		return 0
	}
	return float64(m.Level(id)) * def.Bonus
}

// XPMultiplier is the experience gain factor granted by the xp-gain upgrade.
func (m *Meta) XPMultiplier(cat *data.Catalog) float64 {
	return 1 + m.bonus(cat, data.MetaXPGain)
}
