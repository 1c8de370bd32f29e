package game

// Phase is the session state machine:
//
//	Menu -> Playing <-> Paused
//	Playing -> LevelUp -> Playing
//	Playing -> GameOver -> Menu
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhasePaused
	PhaseLevelUp
	PhaseGameOver
)

var phaseNames = [...]string{"menu", "playing", "paused", "levelup", "gameover"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// InRun reports whether a run's world exists in this phase.
func (p Phase) InRun() bool {
	return p == PhasePlaying || p == PhasePaused || p == PhaseLevelUp
}
