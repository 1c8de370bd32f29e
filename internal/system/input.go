package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// InputSystem applies the tick's edge-triggered input: shapeshift keys, the
// form cycle key and the class special. Held movement and aim are read by
// PlayerSystem. Phase 0 (Input).
type InputSystem struct {
	world *world.World
	log   *zap.Logger
}

func NewInputSystem(w *world.World, log *zap.Logger) *InputSystem {
	return &InputSystem{world: w, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	w := s.world
	p := w.Player
	if p == nil || w.GameOver {
		return
	}
	in := &w.Input
	if p.Shapeshifter() {
		if in.FormKey > 0 {
			if f, ok := w.Catalog.Classes.FormByKey(in.FormKey); ok {
				s.shapeshift(f)
			}
		}
		if in.CycleForm {
			s.shapeshift(nextForm(w.Catalog, p.Form.ID))
		}
	}
	if in.Special && p.SpecialTimer <= 0 {
		s.useSpecial()
	}
	in.ClearEdges()
}

func nextForm(cat *data.Catalog, current string) *data.FormDef {
	forms := cat.Classes.Forms()
	for i, id := range forms {
		if id == current {
			return cat.MustForm(forms[(i+1)%len(forms)])
		}
	}
	return cat.MustForm(forms[0])
}

func (s *InputSystem) shapeshift(f *data.FormDef) {
	p := s.world.Player
	cd := s.world.Catalog.MustSpecial(world.ShapeshiftSpecial).Cooldown
	if p.Shapeshift(f, cd) {
		s.log.Debug("shapeshift", zap.String("form", f.ID))
	}
}

// useSpecial fires the class special. Shapeshifters have none.
func (s *InputSystem) useSpecial() {
	w := s.world
	p := w.Player
	switch p.Class.Special {
	case world.BerserkerSpecial:
		sp := w.Catalog.MustSpecial(p.Class.Special)
		p.SpecialActive = sp.Duration
		p.SpecialTimer = sp.Cooldown
	case world.AncestralSpecial:
		sp := w.Catalog.MustSpecial(p.Class.Special)
		p.SpecialTimer = sp.Cooldown
		dmg := p.BaseDamage * sp.DamageMult
		ecs.Each2(w.Enemies, w.Bodies, func(id ecs.EntityID, e *world.Enemy, b *world.Body) {
			if w.Live(id) && b.Pos.Dist(p.Pos) < sp.Radius {
				w.DamageEnemy(id, e, dmg)
			}
		})
		w.SpawnEffect(p.Pos, world.Effect{Kind: world.EffectLightning, Dir: combat.V(1, 0), Radius: sp.Radius, Timer: sp.EffectTime})
	default:
		return
	}
	s.log.Debug("special used", zap.String("special", p.Class.Special))
}
