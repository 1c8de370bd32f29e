package world

import (
	"fmt"
	"math"
)

// HUD is the read-only status snapshot shown during a run. Values are
// rounded for display so that equal snapshots mean an unchanged screen.
type HUD struct {
	HP            int
	MaxHP         int
	HPFraction    float64
	XPFraction    float64
	Level         int
	Kills         int
	Gold          int
	Wave          int
	Time          string // m:ss
	Class         string
	Form          string // empty for classes without forms
	FormCooldown  bool
	SpecialReady  bool
	SpecialActive bool
	Enemies       int
}

// FormatClock renders elapsed seconds as minutes:seconds.
func FormatClock(elapsed float64) string {
	total := int(math.Max(0, elapsed))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Snapshot builds the HUD view of the world.
func (w *World) Snapshot() HUD {
	p := w.Player
	if p == nil {
		return HUD{}
	}
	h := HUD{
		HP:            int(math.Ceil(math.Max(0, p.HP))),
		MaxHP:         int(math.Round(p.EffectiveMaxHP())),
		HPFraction:    math.Round(p.HPFraction()*100) / 100,
		XPFraction:    math.Round(p.XPFraction()*100) / 100,
		Level:         p.Level,
		Kills:         w.Kills,
		Gold:          w.Gold,
		Wave:          w.Wave,
		Time:          FormatClock(w.Elapsed),
		Class:         p.Class.Name,
		SpecialReady:  p.Class.Special != ShapeshiftSpecial && p.SpecialTimer <= 0,
		SpecialActive: p.SpecialActive > 0,
		Enemies:       w.EnemyCount(),
	}
	if p.Form != nil {
		h.Form = p.Form.Name
		h.FormCooldown = p.ShapeshiftTimer > 0
	}
	return h
}
