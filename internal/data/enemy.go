package data

import (
	"fmt"
	"sort"
)

// ArchetypeDef holds the base stats of an enemy type.
type ArchetypeDef struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	HP      float64 `yaml:"hp"`
	Damage  float64 `yaml:"damage"`
	Speed   float64 `yaml:"speed"` // world units per tick
	XP      int     `yaml:"xp"`
	Size    float64 `yaml:"size"`
	MinWave int     `yaml:"min_wave"`
	Ranged  bool    `yaml:"ranged"`
	Glyph   string  `yaml:"glyph"`
	Color   string  `yaml:"color"`
}

type enemyListFile struct {
	Enemies []ArchetypeDef `yaml:"enemies"`
}

// EnemyTable holds archetypes ordered weakest first (file order, which must
// not decrease in min_wave).
type EnemyTable struct {
	byID  map[string]*ArchetypeDef
	order []*ArchetypeDef
}

func newEnemyTable(f enemyListFile) (*EnemyTable, error) {
	t := &EnemyTable{byID: make(map[string]*ArchetypeDef, len(f.Enemies))}
	for i := range f.Enemies {
		a := &f.Enemies[i]
		if _, dup := t.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate enemy %q", a.ID)
		}
		if a.HP <= 0 {
			return nil, fmt.Errorf("enemy %q: hp must be positive", a.ID)
		}
		if a.MinWave < 1 {
			a.MinWave = 1
		}
		if a.Size == 0 {
			a.Size = 1
		}
		t.byID[a.ID] = a
		t.order = append(t.order, a)
	}
	if !sort.SliceIsSorted(t.order, func(i, j int) bool { return t.order[i].MinWave < t.order[j].MinWave }) {
		return nil, fmt.Errorf("enemies must be listed by ascending min_wave")
	}
	if len(t.order) == 0 || t.order[0].MinWave != 1 {
		return nil, fmt.Errorf("at least one enemy must spawn from wave 1")
	}
	return t, nil
}

func (t *EnemyTable) Get(id string) (*ArchetypeDef, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Eligible returns the archetypes available at a wave, weakest first.
func (t *EnemyTable) Eligible(wave int) []*ArchetypeDef {
	n := 0
	for n < len(t.order) && t.order[n].MinWave <= wave {
		n++
	}
	return t.order[:n]
}

func (t *EnemyTable) All() []*ArchetypeDef { return t.order }

func (t *EnemyTable) Count() int { return len(t.order) }
