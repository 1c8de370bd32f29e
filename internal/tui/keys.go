package tui

import (
	"time"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
)

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
)

var dirVectors = [...]combat.Vec2{
	dirUp:    {X: 0, Y: -1},
	dirDown:  {X: 0, Y: 1},
	dirLeft:  {X: -1, Y: 0},
	dirRight: {X: 1, Y: 0},
}

// heldKeys emulates key-up events, which terminals do not report: a
// direction counts as held for a short window after each press or repeat.
type heldKeys struct {
	hold time.Duration
	last [len(dirVectors)]time.Time
}

func newHeldKeys(hold time.Duration) *heldKeys {
	return &heldKeys{hold: hold}
}

func (h *heldKeys) press(d direction, now time.Time) {
	h.last[d] = now
	// Reversing cancels the opposite direction at once.
	switch d {
	case dirUp:
		h.last[dirDown] = time.Time{}
	case dirDown:
		h.last[dirUp] = time.Time{}
	case dirLeft:
		h.last[dirRight] = time.Time{}
	case dirRight:
		h.last[dirLeft] = time.Time{}
	}
}

func (h *heldKeys) reset() {
	h.last = [len(dirVectors)]time.Time{}
}

// vector sums the held directions; the player system normalizes it.
func (h *heldKeys) vector(now time.Time) combat.Vec2 {
	var v combat.Vec2
	for d, t := range h.last {
		if !t.IsZero() && now.Sub(t) < h.hold {
			v = v.Add(dirVectors[d])
		}
	}
	return v
}
