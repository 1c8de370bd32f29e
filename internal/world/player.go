package world

import (
	"math"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
)

const (
	BasePickupRange   = 2.0
	InvincibleTime    = 0.5
	StartXPToLevel    = 10
	XPGrowth          = 1.5
	PlayerFrameTime   = 0.15
	AnimFrames        = 4
	ShapeshiftSpecial = "shapeshift"
	BerserkerSpecial  = "berserkerRage"
	AncestralSpecial  = "ancestralWrath"
)

// Combatant is the hit-point block shared by anything that can be hurt.
type Combatant struct {
	HP         float64
	MaxHP      float64
	Armor      float64
	Invincible float64 // seconds left in the post-hit window
}

// Player is the run's character. Class is fixed at creation; Form is set only
// for classes whose special is shapeshifting.
type Player struct {
	Combatant

	Class *data.ClassDef
	Form  *data.FormDef

	Pos        combat.Vec2
	Aim        combat.Vec2
	FacingLeft bool
	Moving     bool
	Frame      int
	animTimer  float64

	BaseSpeed  float64
	BaseDamage float64

	DamageMult      float64
	SpeedMult       float64
	AttackSpeedMult float64
	PickupRange     float64
	Regen           float64
	Crit            float64

	XP        float64
	Level     int
	XPToLevel int

	WeaponLevels map[string]int

	WeaponTimer     float64
	ShapeshiftTimer float64
	SpecialTimer    float64
	SpecialActive   float64
}

// NewPlayer builds a fresh character of class classID with the permanent
// bonuses of meta baked in.
func NewPlayer(cat *data.Catalog, classID string, meta Meta, pos combat.Vec2) *Player {
	cl := cat.MustClass(classID)
	maxHP := cl.MaxHP + meta.bonus(cat, data.MetaMaxHP)
	p := &Player{
		Combatant:       Combatant{HP: maxHP, MaxHP: maxHP},
		Class:           cl,
		Pos:             pos,
		Aim:             combat.V(1, 0),
		BaseSpeed:       cl.Speed * (1 + meta.bonus(cat, data.MetaSpeed)),
		BaseDamage:      cl.Damage * (1 + meta.bonus(cat, data.MetaDamage)),
		DamageMult:      1,
		SpeedMult:       1,
		AttackSpeedMult: 1,
		PickupRange:     BasePickupRange,
		Level:           1,
		XPToLevel:       StartXPToLevel,
		WeaponLevels:    map[string]int{cl.Weapon: 1},
	}
	if cl.Special == ShapeshiftSpecial {
		p.Form = cat.MustForm(cat.Classes.Forms()[0])
	}
	return p
}

func (p *Player) Shapeshifter() bool { return p.Form != nil }

func (p *Player) hpMod() float64 {
	if p.Form == nil {
		return 1
	}
	return p.Form.HPMod
}

// EffectiveMaxHP is the hit-point cap in the current form.
func (p *Player) EffectiveMaxHP() float64 { return p.MaxHP * p.hpMod() }

// EffectiveSpeed is world units moved per tick at full input.
func (p *Player) EffectiveSpeed() float64 {
	s := p.BaseSpeed * p.SpeedMult
	if p.Form != nil {
		s *= p.Form.SpeedMod
	}
	return s
}

// FormDamage is the form's damage modifier, 1 outside shapeshift forms.
func (p *Player) FormDamage() float64 {
	if p.Form == nil {
		return 1
	}
	return p.Form.DamageMod
}

// CritChance is the crit probability of the next hit, form bonus included.
func (p *Player) CritChance() float64 {
	bonus := 0.0
	if p.Form != nil {
		bonus = p.Form.CritBonus
	}
	return combat.CritChance(p.Crit, bonus)
}

// WeaponID is the weapon currently in hand.
func (p *Player) WeaponID() string {
	if p.Form != nil {
		return p.Form.Weapon
	}
	return p.Class.Weapon
}

// WeaponLevel returns the level of a weapon, 1 if never upgraded.
func (p *Player) WeaponLevel(id string) int {
	if l := p.WeaponLevels[id]; l > 0 {
		return l
	}
	return 1
}

// HitDamage computes the damage of one hit with weapon w.
func (p *Player) HitDamage(w *data.WeaponDef, crit bool) float64 {
	return combat.Damage(combat.DamageInput{
		Base:        p.BaseDamage,
		WeaponMult:  w.Damage,
		PlayerMult:  p.DamageMult,
		WeaponLevel: p.WeaponLevel(w.ID),
		FormMult:    p.FormDamage(),
		Special:     p.SpecialActive > 0,
		Crit:        crit,
	})
}

// WeaponCooldown is the time between attacks with weapon w.
func (p *Player) WeaponCooldown(w *data.WeaponDef) float64 {
	return w.Cooldown / p.AttackSpeedMult
}

// TakeDamage applies an incoming hit. While the invincibility window is open
// the hit is dropped; otherwise armor mitigates it and the window reopens.
// It returns the hit points actually lost.
func (p *Player) TakeDamage(amount float64) float64 {
	if p.Invincible > 0 || amount <= 0 {
		return 0
	}
	dmg := combat.Mitigate(amount, p.Armor)
	p.HP -= dmg
	p.Invincible = InvincibleTime
	return dmg
}

func (p *Player) Dead() bool { return p.HP <= 0 }

// Heal restores hit points up to the effective cap.
func (p *Player) Heal(amount float64) {
	p.HP = math.Min(p.EffectiveMaxHP(), p.HP+amount)
}

// TickTimers counts every cooldown and window down by dt and applies regen.
func (p *Player) TickTimers(dt float64) {
	p.Invincible = math.Max(0, p.Invincible-dt)
	p.ShapeshiftTimer = math.Max(0, p.ShapeshiftTimer-dt)
	p.SpecialTimer = math.Max(0, p.SpecialTimer-dt)
	p.SpecialActive = math.Max(0, p.SpecialActive-dt)
	if p.Regen > 0 && p.HP > 0 && p.HP < p.EffectiveMaxHP() {
		p.Heal(p.Regen * dt)
	}
}

// Animate advances the walk cycle: frames 0-1 idle, 2-3 moving.
func (p *Player) Animate(dt float64) {
	p.animTimer += dt
	if p.animTimer > PlayerFrameTime {
		p.animTimer = 0
		p.Frame = (p.Frame + 1) % AnimFrames
	}
}

// SpriteFrame maps the cycle counter onto the idle or moving frame pair.
func (p *Player) SpriteFrame() int {
	f := p.Frame % 2
	if p.Moving {
		return 2 + f
	}
	return f
}

// GainXP scales amount by the meta multiplier, adds it and resolves every
// threshold crossed. It returns the number of levels gained.
func (p *Player) GainXP(amount, multiplier float64) int {
	p.XP += amount * multiplier
	gained := 0
	for p.XP >= float64(p.XPToLevel) {
		p.XP -= float64(p.XPToLevel)
		p.Level++
		p.XPToLevel = int(math.Floor(float64(p.XPToLevel) * XPGrowth))
		gained++
	}
	return gained
}

// ApplyUpgrade adds a level-up upgrade's amount to its stat.
func (p *Player) ApplyUpgrade(u *data.UpgradeDef) {
	switch u.Stat {
	case data.StatMaxHP:
		p.MaxHP += u.Amount
		p.HP += u.Amount
	case data.StatDamageMult:
		p.DamageMult += u.Amount
	case data.StatSpeedMult:
		p.SpeedMult += u.Amount
	case data.StatAttackSpeedMult:
		p.AttackSpeedMult += u.Amount
	case data.StatPickupRange:
		p.PickupRange += u.Amount
	case data.StatRegen:
		p.Regen += u.Amount
	case data.StatArmor:
		p.Armor = combat.ClampArmor(p.Armor + u.Amount)
	case data.StatCrit:
		p.Crit = combat.ClampCrit(p.Crit + u.Amount)
	}
}

// Shapeshift switches to form f if the shapeshift cooldown allows, keeping
// the hit-point fraction. It reports whether the form changed.
func (p *Player) Shapeshift(f *data.FormDef, cooldown float64) bool {
	if p.Form == nil || f == nil || f.ID == p.Form.ID || p.ShapeshiftTimer > 0 {
		return false
	}
	pct := p.HP / p.EffectiveMaxHP()
	p.Form = f
	p.HP = pct * p.EffectiveMaxHP()
	p.ShapeshiftTimer = cooldown
	return true
}

// HPFraction is hit points over the effective cap, clamped to [0, 1].
func (p *Player) HPFraction() float64 {
	return math.Max(0, math.Min(1, p.HP/p.EffectiveMaxHP()))
}

// XPFraction is progress toward the next level.
func (p *Player) XPFraction() float64 {
	return math.Min(1, p.XP/float64(p.XPToLevel))
}
