package data

import "fmt"

// Stat names an upgradable player stat.
type Stat string

const (
	StatMaxHP           Stat = "max_hp"
	StatDamageMult      Stat = "damage_mult"
	StatSpeedMult       Stat = "speed_mult"
	StatAttackSpeedMult Stat = "attack_speed_mult"
	StatPickupRange     Stat = "pickup_range"
	StatRegen           Stat = "regen"
	StatArmor           Stat = "armor"
	StatCrit            Stat = "crit"
)

var knownStats = map[Stat]bool{
	StatMaxHP: true, StatDamageMult: true, StatSpeedMult: true, StatAttackSpeedMult: true,
	StatPickupRange: true, StatRegen: true, StatArmor: true, StatCrit: true,
}

// UpgradeDef is an in-run level-up choice.
type UpgradeDef struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Stat        Stat    `yaml:"stat"`
	Amount      float64 `yaml:"amount"`
}

// MetaDef is a permanent upgrade bought between runs. Cost grows linearly
// with the current level: BaseCost + CostPerLevel*level.
type MetaDef struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Description  string  `yaml:"description"`
	Bonus        float64 `yaml:"bonus"`
	BaseCost     int     `yaml:"base_cost"`
	CostPerLevel int     `yaml:"cost_per_level"`
}

// Meta upgrade ids read by the simulation. GoldKey names the currency entry
// of the persisted record.
const (
	MetaMaxHP  = "maxHp"
	MetaDamage = "damage"
	MetaSpeed  = "speed"
	MetaXPGain = "xpGain"
	GoldKey    = "gold"
)

type upgradeListFile struct {
	Upgrades []UpgradeDef `yaml:"upgrades"`
	Meta     []MetaDef    `yaml:"meta"`
}

// UpgradeTable holds level-up upgrades and meta upgrades in file order.
type UpgradeTable struct {
	upgrades []*UpgradeDef
	byID     map[string]*UpgradeDef
	meta     []*MetaDef
	metaByID map[string]*MetaDef
}

func newUpgradeTable(f upgradeListFile) (*UpgradeTable, error) {
	t := &UpgradeTable{
		byID:     make(map[string]*UpgradeDef, len(f.Upgrades)),
		metaByID: make(map[string]*MetaDef, len(f.Meta)),
	}
	for i := range f.Upgrades {
		u := &f.Upgrades[i]
		if !knownStats[u.Stat] {
			return nil, fmt.Errorf("upgrade %q: unknown stat %q", u.ID, u.Stat)
		}
		if _, dup := t.byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate upgrade %q", u.ID)
		}
		t.byID[u.ID] = u
		t.upgrades = append(t.upgrades, u)
	}
	for i := range f.Meta {
		m := &f.Meta[i]
		if m.ID == GoldKey {
			return nil, fmt.Errorf("meta upgrade id %q is reserved", GoldKey)
		}
		if _, dup := t.metaByID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate meta upgrade %q", m.ID)
		}
		t.metaByID[m.ID] = m
		t.meta = append(t.meta, m)
	}
	return t, nil
}

func (t *UpgradeTable) Get(id string) (*UpgradeDef, bool) {
	u, ok := t.byID[id]
	return u, ok
}

func (t *UpgradeTable) Meta(id string) (*MetaDef, bool) {
	m, ok := t.metaByID[id]
	return m, ok
}

// Pool returns the level-up upgrade pool in file order.
func (t *UpgradeTable) Pool() []*UpgradeDef { return t.upgrades }

// MetaList returns the meta upgrades in file order.
func (t *UpgradeTable) MetaList() []*MetaDef { return t.meta }

func (t *UpgradeTable) Count() int { return len(t.upgrades) }
