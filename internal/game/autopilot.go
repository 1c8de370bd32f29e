package game

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/persist"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// Autopilot tuning, in world units.
const (
	botDanger    = 6.0
	botLoot      = 10.0
	botAimRange  = 15.0
	botWallGuard = 5.0
)

var botPreference = []string{"damage", "attackSpeed", "maxHp", "armor", "regen", "speed", "crit", "pickupRange"}

// Autopilot plays a run without a human: it kites away from nearby enemies
// and hostile shots, collects loot when nothing is close and aims at the
// nearest enemy.
type Autopilot struct{}

// Input decides one tick of input for the player in w.
func (Autopilot) Input(w *world.World) world.Input {
	var in world.Input
	p := w.Player
	if p == nil {
		return in
	}

	var push combat.Vec2
	ecs.Each2(w.Enemies, w.Bodies, func(id ecs.EntityID, _ *world.Enemy, b *world.Body) {
		push = push.Add(repel(p.Pos, b.Pos, botDanger))
	})
	ecs.Each2(w.Projectiles, w.Bodies, func(_ ecs.EntityID, pr *world.Projectile, b *world.Body) {
		if pr.Hostile {
			push = push.Add(repel(p.Pos, b.Pos, botDanger/2))
		}
	})
	if p.Pos.X < botWallGuard {
		push.X += 1
	}
	if p.Pos.X > w.Size-botWallGuard {
		push.X -= 1
	}
	if p.Pos.Y < botWallGuard {
		push.Y += 1
	}
	if p.Pos.Y > w.Size-botWallGuard {
		push.Y -= 1
	}

	if push.IsZero() {
		if loot, ok := nearestPickup(w, botLoot); ok {
			push = loot.Sub(p.Pos)
		}
	}
	in.Move = push.Normalize()

	if _, target, ok := w.NearestEnemy(p.Pos, botAimRange); ok {
		in.Pointer, in.HasAim = target, true
		in.Special = p.SpecialTimer <= 0 && target.Dist(p.Pos) < 5
	}
	return in
}

func repel(from, threat combat.Vec2, radius float64) combat.Vec2 {
	away := from.Sub(threat)
	d := away.Len()
	if d >= radius || d == 0 {
		return combat.Vec2{}
	}
	return away.Normalize().Scale((radius - d) / radius)
}

func nearestPickup(w *world.World, maxDist float64) (combat.Vec2, bool) {
	var (
		best  = maxDist
		pos   combat.Vec2
		found bool
	)
	ecs.Each2(w.Pickups, w.Bodies, func(id ecs.EntityID, _ *world.Pickup, b *world.Body) {
		if d := b.Pos.Dist(w.Player.Pos); w.Live(id) && d < best {
			best, pos, found = d, b.Pos, true
		}
	})
	return pos, found
}

// Choose picks an upgrade from offers by a fixed preference order.
func (Autopilot) Choose(offers []*data.UpgradeDef) string {
	best, bestRank := "", len(botPreference)
	for _, u := range offers {
		rank := slices.Index(botPreference, u.ID)
		if rank < 0 {
			rank = len(botPreference)
		}
		if best == "" || rank < bestRank {
			best, bestRank = u.ID, rank
		}
	}
	return best
}

// RunHeadless plays one run as classID with the autopilot for at most length
// of simulated time, ticking by dt, and returns its summary. A run still
// alive when time is up, or when ctx is done, is ended as a game over.
func RunHeadless(ctx context.Context, s *Session, classID string, length, dt time.Duration) (persist.RunRecord, error) {
	if err := s.StartRun(classID); err != nil {
		return persist.RunRecord{}, err
	}
	var bot Autopilot
	var simulated time.Duration
	for s.Phase().InRun() && simulated < length && ctx.Err() == nil {
		switch s.Phase() {
		case PhaseLevelUp:
			s.ChooseUpgrade(bot.Choose(s.Offers()))
		case PhasePaused:
			s.TogglePause()
		case PhasePlaying:
			s.Tick(dt, bot.Input(s.World()))
			simulated += dt
		}
	}
	s.EndRun()
	rec := *s.LastRun()
	s.log.Info("headless run finished",
		zap.String("class", rec.Class),
		zap.Int("level", rec.Level),
		zap.Int("kills", rec.Kills),
		zap.Int("wave", rec.Wave),
		zap.String("time", world.FormatClock(rec.Seconds)),
	)
	return rec, nil
}
