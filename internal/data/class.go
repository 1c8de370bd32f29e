package data

import "fmt"

// ClassDef holds the starting stats of a playable class.
type ClassDef struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	MaxHP       float64 `yaml:"max_hp"`
	Speed       float64 `yaml:"speed"` // world units per tick
	Damage      float64 `yaml:"damage"`
	Weapon      string  `yaml:"weapon"`
	Special     string  `yaml:"special"`
	Glyph       string  `yaml:"glyph"`
	Color       string  `yaml:"color"`
}

// FormDef is a druid shapeshift form. Modifiers multiply the class stats.
type FormDef struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Key       int     `yaml:"key"` // number key that selects the form
	HPMod     float64 `yaml:"hp_mod"`
	SpeedMod  float64 `yaml:"speed_mod"`
	DamageMod float64 `yaml:"damage_mod"`
	CritBonus float64 `yaml:"crit_bonus"`
	Weapon    string  `yaml:"weapon"`
}

// SpecialDef is a class special ability. Unused fields stay zero.
type SpecialDef struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Cooldown   float64 `yaml:"cooldown"`
	Duration   float64 `yaml:"duration"`
	Radius     float64 `yaml:"radius"`
	DamageMult float64 `yaml:"damage_mult"`
	EffectTime float64 `yaml:"effect_time"`
}

type classListFile struct {
	Classes  []ClassDef   `yaml:"classes"`
	Forms    []FormDef    `yaml:"forms"`
	Specials []SpecialDef `yaml:"specials"`
}

// ClassTable holds classes, druid forms and specials in file order.
type ClassTable struct {
	classes  map[string]*ClassDef
	forms    map[string]*FormDef
	specials map[string]*SpecialDef
	order    []string
	forder   []string
}

func newClassTable(f classListFile) (*ClassTable, error) {
	t := &ClassTable{
		classes:  make(map[string]*ClassDef, len(f.Classes)),
		forms:    make(map[string]*FormDef, len(f.Forms)),
		specials: make(map[string]*SpecialDef, len(f.Specials)),
	}
	for i := range f.Classes {
		c := &f.Classes[i]
		if _, dup := t.classes[c.ID]; dup {
			return nil, fmt.Errorf("duplicate class %q", c.ID)
		}
		if c.MaxHP <= 0 || c.Speed <= 0 || c.Damage <= 0 {
			return nil, fmt.Errorf("class %q: stats must be positive", c.ID)
		}
		t.classes[c.ID] = c
		t.order = append(t.order, c.ID)
	}
	for i := range f.Forms {
		fm := &f.Forms[i]
		if _, dup := t.forms[fm.ID]; dup {
			return nil, fmt.Errorf("duplicate form %q", fm.ID)
		}
		t.forms[fm.ID] = fm
		t.forder = append(t.forder, fm.ID)
	}
	for i := range f.Specials {
		s := &f.Specials[i]
		t.specials[s.ID] = s
	}
	return t, nil
}

func (t *ClassTable) Class(id string) (*ClassDef, bool) {
	c, ok := t.classes[id]
	return c, ok
}

func (t *ClassTable) Form(id string) (*FormDef, bool) {
	f, ok := t.forms[id]
	return f, ok
}

func (t *ClassTable) Special(id string) (*SpecialDef, bool) {
	s, ok := t.specials[id]
	return s, ok
}

// Classes returns class ids in file order.
func (t *ClassTable) Classes() []string { return t.order }

// Forms returns form ids in file order. The first form is the default.
func (t *ClassTable) Forms() []string { return t.forder }

// FormByKey returns the form bound to a number key.
func (t *ClassTable) FormByKey(key int) (*FormDef, bool) {
	for _, id := range t.forder {
		if f := t.forms[id]; f.Key == key {
			return f, true
		}
	}
	return nil, false
}

func (t *ClassTable) Count() int { return len(t.classes) }
