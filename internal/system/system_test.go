package system

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/core/ecs"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

const tick = time.Second / 60

type fakeSaver struct {
	saved []map[string]int
	err   error
}

func (f *fakeSaver) Save(_ context.Context, m map[string]int) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, m)
	return nil
}

func has[T any](s *ecs.PtrComponentStore[T], id ecs.EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

func newWorld(t *testing.T, class string) *world.World {
	t.Helper()
	return world.New(world.Options{
		Catalog: data.Default(),
		Rng:     rand.New(rand.NewSource(3)),
		ClassID: class,
	})
}

func newRun(t *testing.T, class string, deps Deps) (*world.World, *coresys.Runner) {
	t.Helper()
	w := newWorld(t, class)
	r := coresys.NewRunner()
	Install(r, w, deps)
	return w, r
}

// spawnActive creates an enemy that already takes part in the update pass.
func spawnActive(w *world.World, id string, pos combat.Vec2) ecs.EntityID {
	eid := w.SpawnEnemy(w.Catalog.MustArchetype(id), pos)
	b, _ := w.Bodies.Get(eid)
	b.Fresh = false
	return eid
}

func TestProjectileRemovedOnceWhenHitAndRangeCoincide(t *testing.T) {
	w := newWorld(t, "shaman")
	eid := spawnActive(w, "skeleton", combat.V(20, 20))
	e, _ := w.Enemies.Get(eid)
	startHP := e.HP

	pid := w.SpawnProjectile(combat.V(19.7, 20), world.Projectile{
		Dir: combat.V(1, 0), Speed: 0.2, Damage: 7, Range: 0.1,
	})
	w.ClearFresh()

	ps := NewProjectileSystem(w)
	ps.Update(tick)

	assert.InDelta(t, startHP-7, e.HP, 1e-9, "damage applied once")
	assert.Equal(t, 1, w.ECS.Pending(), "projectile queued once")
	assert.False(t, w.Live(pid))

	w.ECS.FlushDestroyQueue()
	assert.False(t, has(w.Projectiles, pid))

	ps.Update(tick)
	assert.InDelta(t, startHP-7, e.HP, 1e-9, "never evaluated after removal")
}

func TestProjectileExpiresPastRange(t *testing.T) {
	w := newWorld(t, "shaman")
	pid := w.SpawnProjectile(combat.V(10, 10), world.Projectile{Dir: combat.V(0, 1), Speed: 0.2, Range: 0.5})
	w.ClearFresh()
	ps := NewProjectileSystem(w)

	ps.Update(tick)
	ps.Update(tick)
	assert.True(t, w.Live(pid))
	ps.Update(tick)
	assert.False(t, w.Live(pid))
}

func TestHostileProjectileHitsPlayerOnly(t *testing.T) {
	w := newWorld(t, "warrior")
	spawnActive(w, "imp", combat.V(49.8, 50))
	start := w.Player.HP
	pid := w.SpawnProjectile(combat.V(49.7, 50), world.Projectile{
		Hostile: true, Dir: combat.V(1, 0), Speed: 0.1, Damage: 15, Range: 12,
	})
	w.ClearFresh()

	NewProjectileSystem(w).Update(tick)
	assert.False(t, w.Live(pid))
	assert.InDelta(t, start-15, w.Player.HP, 1e-9)
	assert.Equal(t, 1, w.EnemyCount(), "hostile shots ignore enemies")
}

func TestHomingSteersTowardNearestEnemy(t *testing.T) {
	w := newWorld(t, "druid")
	spawnActive(w, "zombie", combat.V(28, 22))
	pid := w.SpawnProjectile(combat.V(25, 20), world.Projectile{
		Dir: combat.V(1, 0), Speed: 0.2, Range: 10, Homing: true, Traveled: 2.5,
	})
	w.ClearFresh()

	NewProjectileSystem(w).Update(tick)
	pr, ok := w.Projectiles.Get(pid)
	require.True(t, ok)
	assert.Greater(t, pr.Dir.Y, 0.0)
	assert.InDelta(t, 1, pr.Dir.Len(), 1e-9)
}

func TestHomingWaitsForTravelAndCaptureRange(t *testing.T) {
	w := newWorld(t, "druid")
	spawnActive(w, "zombie", combat.V(28, 22))
	early := w.SpawnProjectile(combat.V(25, 20), world.Projectile{
		Dir: combat.V(1, 0), Speed: 0.2, Range: 10, Homing: true, Traveled: 1.5,
	})
	// Nearest enemy is about 6.7 away.
	far := w.SpawnProjectile(combat.V(22, 19), world.Projectile{
		Dir: combat.V(1, 0), Speed: 0.2, Range: 10, Homing: true, Traveled: 3,
	})
	w.ClearFresh()

	NewProjectileSystem(w).Update(tick)
	for _, id := range []ecs.EntityID{early, far} {
		pr, ok := w.Projectiles.Get(id)
		require.True(t, ok)
		assert.Equal(t, combat.V(1, 0), pr.Dir)
	}
}

func TestSpawnDirectorAtWaveTen(t *testing.T) {
	w := newWorld(t, "warrior")
	w.Wave = 10
	s := NewSpawnSystem(w, zap.NewNop())

	for batch := 0; batch < 50; batch++ {
		before := w.Enemies.Len()
		w.SpawnTimer = 0
		s.Update(tick)
		assert.Equal(t, 3, w.Enemies.Len()-before)
		assert.InDelta(t, 1.0, w.SpawnTimer, 1e-9)
	}
	w.Enemies.Each(func(_ ecs.EntityID, e *world.Enemy) {
		assert.LessOrEqual(t, e.Def.MinWave, 10)
	})
	ecs.Each2(w.Enemies, w.Bodies, func(_ ecs.EntityID, _ *world.Enemy, b *world.Body) {
		d := b.Pos.Dist(w.Player.Pos)
		assert.GreaterOrEqual(t, d, SpawnMinRadius-1e-9)
		assert.LessOrEqual(t, d, SpawnMaxRadius+1e-9)
		assert.False(t, b.Fresh)
	})
}

func TestSpawnTimerWaitsForInterval(t *testing.T) {
	w := newWorld(t, "warrior")
	s := NewSpawnSystem(w, zap.NewNop())
	s.Update(tick)
	assert.Equal(t, 1, w.Enemies.Len(), "first batch on the first tick")
	s.Update(tick)
	assert.Equal(t, 1, w.Enemies.Len())
}

func TestPickArchetypeSingleEligible(t *testing.T) {
	w := newWorld(t, "warrior")
	imp := w.Catalog.MustArchetype("imp")
	for i := 0; i < 100; i++ {
		assert.Same(t, imp, PickArchetype(w, []*data.ArchetypeDef{imp}))
	}
}

func TestPickArchetypeDistribution(t *testing.T) {
	w := newWorld(t, "warrior")
	eligible := w.Catalog.Enemies.Eligible(10)
	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[PickArchetype(w, eligible).ID]++
	}
	// weakest: 0.5 + 0.2/5, second: 0.3 + 0.2/5
	assert.InDelta(t, 0.54*n, counts["imp"], 0.02*n)
	assert.InDelta(t, 0.34*n, counts["skeleton"], 0.02*n)
	assert.InDelta(t, 0.04*n, counts["lich"], 0.01*n)
}

func TestMeleeSwingKillsAndDrops(t *testing.T) {
	w, r := newRun(t, "warrior", Deps{})
	eid := spawnActive(w, "imp", combat.V(51, 50))

	r.Tick(tick)
	assert.False(t, w.Live(eid))
	assert.Equal(t, 1, w.Kills)

	xpOrbs := 0
	w.Pickups.Each(func(_ ecs.EntityID, p *world.Pickup) {
		if p.Kind == world.PickupXP {
			xpOrbs++
			assert.Equal(t, 1, p.Value)
		}
	})
	assert.Equal(t, 1, xpOrbs)
	assert.Equal(t, 1, w.Effects.Len(), "slash effect")
	assert.InDelta(t, 0.8, w.Player.WeaponTimer, 1e-9)
}

func TestMeleeMissesBehind(t *testing.T) {
	w := newWorld(t, "warrior")
	eid := spawnActive(w, "skeleton", combat.V(48.5, 50))
	NewPlayerSystem(w).Update(tick)
	e, _ := w.Enemies.Get(eid)
	assert.InDelta(t, 20, e.HP, 1e-9)
}

func TestProjectilesSpawnedThisTickWaitForNextTick(t *testing.T) {
	w, r := newRun(t, "shaman", Deps{})
	r.Tick(tick)
	require.Equal(t, 1, w.Projectiles.Len())

	var pid ecs.EntityID
	w.Projectiles.Each(func(id ecs.EntityID, p *world.Projectile) {
		pid = id
		assert.Zero(t, p.Traveled)
	})
	b, _ := w.Bodies.Get(pid)
	assert.InDelta(t, 50.5, b.Pos.X, 1e-9)

	r.Tick(tick)
	p, _ := w.Projectiles.Get(pid)
	assert.InDelta(t, 0.2, p.Traveled, 1e-9)
}

func TestVolleySpread(t *testing.T) {
	w := newWorld(t, "druid")
	NewPlayerSystem(w).Update(tick)
	require.Equal(t, 3, w.Projectiles.Len())
	var angles []float64
	w.Projectiles.Each(func(_ ecs.EntityID, p *world.Projectile) {
		angles = append(angles, p.Dir.Angle())
		assert.InDelta(t, 8, p.Damage, 1e-9)
	})
	assert.InDelta(t, -0.3, angles[0], 1e-9)
	assert.InDelta(t, 0, angles[1], 1e-9)
	assert.InDelta(t, 0.3, angles[2], 1e-9)
}

func TestEnemyContactDamageCooldown(t *testing.T) {
	w := newWorld(t, "warrior")
	spawnActive(w, "imp", combat.V(50.5, 50))
	es := NewEnemySystem(w)
	start := w.Player.HP

	es.Update(tick)
	assert.InDelta(t, start-5, w.Player.HP, 1e-9)

	w.Player.Invincible = 0
	es.Update(tick)
	assert.InDelta(t, start-5, w.Player.HP, 1e-9, "1s contact cooldown")
}

func TestRangedEnemyHoldsAndFires(t *testing.T) {
	w := newWorld(t, "warrior")
	eid := spawnActive(w, "lich", combat.V(56, 50))
	NewEnemySystem(w).Update(tick)

	b, _ := w.Bodies.Get(eid)
	assert.Equal(t, combat.V(56, 50), b.Pos, "holds inside the band")
	require.Equal(t, 1, w.Projectiles.Len())
	w.Projectiles.Each(func(_ ecs.EntityID, p *world.Projectile) {
		assert.True(t, p.Hostile)
		assert.InDelta(t, -1, p.Dir.X, 1e-9)
		assert.InDelta(t, 15, p.Damage, 1e-9)
	})
}

func TestRangedEnemyAdvancesOutsideBand(t *testing.T) {
	w := newWorld(t, "warrior")
	eid := spawnActive(w, "lich", combat.V(60, 50))
	NewEnemySystem(w).Update(tick)
	b, _ := w.Bodies.Get(eid)
	assert.InDelta(t, 59.97, b.Pos.X, 1e-9)
	assert.Zero(t, w.Projectiles.Len())
}

func TestPickupMagnetAndGoldBanking(t *testing.T) {
	saver := &fakeSaver{}
	w, r := newRun(t, "warrior", Deps{Store: saver})
	w.Meta.Gold = 10
	far := w.SpawnPickup(world.PickupGold, 4, combat.V(51.5, 50))
	near := w.SpawnPickup(world.PickupGold, 6, combat.V(50.2, 50))
	w.ClearFresh()

	r.Tick(tick)
	assert.False(t, has(w.Pickups, near))
	fb, ok := w.Bodies.Get(far)
	require.True(t, ok)
	assert.InDelta(t, 51.3, fb.Pos.X, 1e-9, "pulled toward the player")

	assert.Equal(t, 6, w.Gold)
	assert.Equal(t, 16, w.Meta.Gold)
	assert.False(t, w.MetaDirty)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, 16, saver.saved[0][data.GoldKey])
}

func TestFailedSaveStaysDirty(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	w := newWorld(t, "warrior")
	w.MetaDirty = true
	NewPersistenceSystem(w, saver, zap.NewNop()).Update(tick)
	assert.True(t, w.MetaDirty)
}

func TestLargeXPQueuesLevelUps(t *testing.T) {
	w, r := newRun(t, "warrior", Deps{})
	w.SpawnPickup(world.PickupXP, 25, combat.V(50, 50))
	w.ClearFresh()
	r.Tick(tick)
	assert.Equal(t, 2, w.PendingLevelUps)
	assert.Equal(t, 3, w.Player.Level)
	assert.Equal(t, 22, w.Player.XPToLevel)
}

func TestDeathEndsRun(t *testing.T) {
	w, r := newRun(t, "shaman", Deps{})
	spawnActive(w, "demonKnight", combat.V(50.3, 50))
	w.Player.HP = 1
	r.Tick(tick)
	assert.True(t, w.GameOver)

	elapsed := w.Elapsed
	r.Tick(tick)
	assert.Equal(t, elapsed, w.Elapsed, "clock stops after game over")
}

func TestHUDPublishedOnChange(t *testing.T) {
	var got []world.HUD
	w, r := newRun(t, "warrior", Deps{OnHUD: func(h world.HUD) { got = append(got, h) }})
	r.Tick(tick)
	require.Len(t, got, 1)
	assert.Equal(t, "0:00", got[0].Time)

	r.Tick(tick)
	assert.Len(t, got, 1, "unchanged snapshot is not republished")

	w.Kills = 5
	r.Tick(tick)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[1].Kills)
}

func TestBerserkerRage(t *testing.T) {
	w := newWorld(t, "warrior")
	w.Input.Special = true
	in := NewInputSystem(w, zap.NewNop())
	in.Update(tick)
	assert.InDelta(t, 5, w.Player.SpecialActive, 1e-9)
	assert.InDelta(t, 30, w.Player.SpecialTimer, 1e-9)
	assert.False(t, w.Input.Special, "edge consumed")

	w.Input.Special = true
	in.Update(tick)
	assert.InDelta(t, 5, w.Player.SpecialActive, 1e-9, "on cooldown")
}

func TestAncestralWrath(t *testing.T) {
	w := newWorld(t, "shaman")
	near := spawnActive(w, "zombie", combat.V(53, 50))
	far := spawnActive(w, "zombie", combat.V(56, 50))
	w.Input.Special = true
	NewInputSystem(w, zap.NewNop()).Update(tick)

	ne, _ := w.Enemies.Get(near)
	fe, _ := w.Enemies.Get(far)
	assert.InDelta(t, 40-54, ne.HP, 1e-9)
	assert.InDelta(t, 40, fe.HP, 1e-9)
	assert.False(t, w.Live(near))
	assert.Equal(t, 1, w.Effects.Len())
}

func TestShapeshiftInput(t *testing.T) {
	w := newWorld(t, "druid")
	in := NewInputSystem(w, zap.NewNop())

	w.Input.FormKey = 2
	in.Update(tick)
	assert.Equal(t, "bear", w.Player.Form.ID)

	w.Player.ShapeshiftTimer = 0
	w.Input.CycleForm = true
	in.Update(tick)
	assert.Equal(t, "wolf", w.Player.Form.ID)

	w.Input.Special = true
	in.Update(tick)
	assert.Zero(t, w.Player.SpecialTimer, "druids have no special")
}

func TestCleanupFlushesAndClearsFresh(t *testing.T) {
	w := newWorld(t, "warrior")
	id := w.SpawnPickup(world.PickupXP, 1, combat.V(10, 10))
	other := w.SpawnPickup(world.PickupXP, 1, combat.V(12, 10))
	w.Destroy(id)
	NewCleanupSystem(w).Update(tick)
	assert.False(t, has(w.Bodies, id))
	b, _ := w.Bodies.Get(other)
	assert.False(t, b.Fresh)
}
