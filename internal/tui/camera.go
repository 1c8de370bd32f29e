package tui

import (
	"math"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
)

// camera maps world units to terminal cells. One world unit is two columns
// wide and one row high, which keeps circles round on most fonts.
type camera struct {
	center combat.Vec2
	w, h   int
}

func (c camera) toScreen(p combat.Vec2) (int, int, bool) {
	x := int(math.Floor((p.X-c.center.X)*2)) + c.w/2
	y := int(math.Floor(p.Y-c.center.Y)) + c.h/2
	return x, y, x >= 0 && x < c.w && y >= 0 && y < c.h
}

// toWorld returns the world position at the middle of a cell.
func (c camera) toWorld(x, y int) combat.Vec2 {
	return combat.Vec2{
		X: c.center.X + (float64(x-c.w/2)+0.5)/2,
		Y: c.center.Y + float64(y-c.h/2) + 0.5,
	}
}
