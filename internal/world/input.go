package world

import "github.com/tylerhaar7/Pixel-Survivors/internal/combat"

// Input is one tick's worth of player intent. Move and Pointer are held
// state; the remaining fields are edge events consumed by the tick that
// reads them.
type Input struct {
	Move    combat.Vec2 // raw direction, normalized by the player system
	Pointer combat.Vec2 // aim target in world coordinates
	HasAim  bool        // Pointer is meaningful

	TogglePause bool
	FormKey     int // 1-based form key, 0 for none
	CycleForm   bool
	Special     bool
}

// ClearEdges drops the edge-triggered fields after they were handled.
func (in *Input) ClearEdges() {
	in.TogglePause = false
	in.FormKey = 0
	in.CycleForm = false
	in.Special = false
}
