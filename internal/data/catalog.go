package data

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed yaml/*.yaml
var embedded embed.FS

// Catalog bundles every static table the simulation reads.
type Catalog struct {
	Classes  *ClassTable
	Weapons  *WeaponTable
	Enemies  *EnemyTable
	Upgrades *UpgradeTable
}

// LoadCatalog loads the tables from dir, or from the built-in copies when
// dir is empty.
func LoadCatalog(dir string) (*Catalog, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "yaml")
		if err != nil {
			return nil, err
		}
		return LoadCatalogFS(sub)
	}
	return LoadCatalogFS(os.DirFS(dir))
}

// Default returns the built-in catalog. It panics if the embedded tables are
// broken, which only a bad build can cause.
func Default() *Catalog {
	c, err := LoadCatalog("")
	if err != nil {
		panic(fmt.Sprintf("data: embedded catalog: %v", err))
	}
	return c
}

// LoadCatalogFS loads and cross-checks classes.yaml, weapons.yaml,
// enemies.yaml and upgrades.yaml from fsys.
func LoadCatalogFS(fsys fs.FS) (*Catalog, error) {
	var cf classListFile
	if err := readYAML(fsys, "classes.yaml", &cf); err != nil {
		return nil, err
	}
	var wf weaponListFile
	if err := readYAML(fsys, "weapons.yaml", &wf); err != nil {
		return nil, err
	}
	var ef enemyListFile
	if err := readYAML(fsys, "enemies.yaml", &ef); err != nil {
		return nil, err
	}
	var uf upgradeListFile
	if err := readYAML(fsys, "upgrades.yaml", &uf); err != nil {
		return nil, err
	}

	c := &Catalog{}
	var err error
	if c.Classes, err = newClassTable(cf); err != nil {
		return nil, fmt.Errorf("classes.yaml: %w", err)
	}
	if c.Weapons, err = newWeaponTable(wf); err != nil {
		return nil, fmt.Errorf("weapons.yaml: %w", err)
	}
	if c.Enemies, err = newEnemyTable(ef); err != nil {
		return nil, fmt.Errorf("enemies.yaml: %w", err)
	}
	if c.Upgrades, err = newUpgradeTable(uf); err != nil {
		return nil, fmt.Errorf("upgrades.yaml: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readYAML(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// validate checks every cross-table reference so that the Must lookups made
// during a run cannot fail on shipped data.
func (c *Catalog) validate() error {
	if c.Classes.Count() == 0 {
		return fmt.Errorf("no classes defined")
	}
	for _, id := range c.Classes.Classes() {
		cl := c.MustClass(id)
		if _, ok := c.Weapons.Get(cl.Weapon); !ok {
			return fmt.Errorf("class %q: unknown weapon %q", id, cl.Weapon)
		}
		if cl.Special != "" {
			if _, ok := c.Classes.Special(cl.Special); !ok {
				return fmt.Errorf("class %q: unknown special %q", id, cl.Special)
			}
		}
	}
	for _, id := range c.Classes.Forms() {
		f, _ := c.Classes.Form(id)
		if _, ok := c.Weapons.Get(f.Weapon); !ok {
			return fmt.Errorf("form %q: unknown weapon %q", id, f.Weapon)
		}
		if f.HPMod <= 0 || f.SpeedMod <= 0 || f.DamageMod <= 0 {
			return fmt.Errorf("form %q: modifiers must be positive", id)
		}
	}
	if n := len(c.Upgrades.Pool()); n < OfferSize {
		return fmt.Errorf("upgrade pool has %d entries, need at least %d", n, OfferSize)
	}
	return nil
}

// OfferSize is the number of upgrades offered per level-up.
const OfferSize = 3

// MustClass returns a class or panics. Unknown ids are a programming error.
func (c *Catalog) MustClass(id string) *ClassDef {
	cl, ok := c.Classes.Class(id)
	if !ok {
		panic(fmt.Sprintf("data: unknown class %q", id))
	}
	return cl
}

// MustForm returns a druid form or panics.
func (c *Catalog) MustForm(id string) *FormDef {
	f, ok := c.Classes.Form(id)
	if !ok {
		panic(fmt.Sprintf("data: unknown form %q", id))
	}
	return f
}

// MustWeapon returns a weapon or panics.
func (c *Catalog) MustWeapon(id string) *WeaponDef {
	w, ok := c.Weapons.Get(id)
	if !ok {
		panic(fmt.Sprintf("data: unknown weapon %q", id))
	}
	return w
}

// MustArchetype returns an enemy archetype or panics.
func (c *Catalog) MustArchetype(id string) *ArchetypeDef {
	a, ok := c.Enemies.Get(id)
	if !ok {
		panic(fmt.Sprintf("data: unknown enemy %q", id))
	}
	return a
}

// MustSpecial returns a special ability or panics.
func (c *Catalog) MustSpecial(id string) *SpecialDef {
	s, ok := c.Classes.Special(id)
	if !ok {
		panic(fmt.Sprintf("data: unknown special %q", id))
	}
	return s
}
