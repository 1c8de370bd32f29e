package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/persist"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

const tick = time.Second / 60

type brokenStore struct{ persist.MemoryStore }

func (*brokenStore) Load(context.Context) (map[string]int, error) {
	return nil, errors.New("disk on fire")
}

func newSession(t *testing.T, store *persist.MemoryStore) *Session {
	t.Helper()
	opts := Options{Rng: rand.New(rand.NewSource(11))}
	if store != nil {
		opts.Store = store
		opts.History = store
	}
	return NewSession(context.Background(), opts)
}

func TestMetaRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore()
	want := map[string]int{"maxHp": 2, "damage": 1, "speed": 0, "xpGain": 3, "gold": 500}
	require.NoError(t, store.Save(ctx, want))

	s := newSession(t, store)
	assert.Equal(t, world.Meta{MaxHP: 2, Damage: 1, XPGain: 3, Gold: 500}, s.Meta())
	assert.Equal(t, want, s.Meta().ToMap())

	require.NoError(t, s.StartRun("warrior"))
	p := s.World().Player
	assert.InDelta(t, 140, p.MaxHP, 1e-9)
	assert.InDelta(t, 15*1.05, p.BaseDamage, 1e-9)
	assert.InDelta(t, 0.08, p.BaseSpeed, 1e-9)
}

func TestLoadFailureStartsFresh(t *testing.T) {
	s := NewSession(context.Background(), Options{Store: &brokenStore{}})
	assert.Equal(t, world.Meta{}, s.Meta())
	assert.Equal(t, PhaseMenu, s.Phase())
}

func TestStartRunValidation(t *testing.T) {
	s := newSession(t, nil)
	assert.Error(t, s.StartRun("paladin"))
	assert.Equal(t, PhaseMenu, s.Phase())
	assert.Nil(t, s.Sprites())

	require.NoError(t, s.StartRun("druid"))
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Error(t, s.StartRun("warrior"), "already in a run")
	assert.Equal(t, "Human", s.HUD().Form)
}

func TestPauseFreezesSimulation(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.StartRun("warrior"))
	s.Tick(tick, world.Input{})
	elapsed := s.World().Elapsed

	s.Tick(tick, world.Input{TogglePause: true})
	assert.Equal(t, PhasePaused, s.Phase())
	assert.Equal(t, elapsed, s.World().Elapsed)

	s.Tick(tick, world.Input{Move: combat.V(1, 0)})
	assert.Equal(t, elapsed, s.World().Elapsed)

	s.TogglePause()
	s.Tick(tick, world.Input{})
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Greater(t, s.World().Elapsed, elapsed)
}

func TestLevelUpOffers(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.StartRun("warrior"))
	w := s.World()
	w.SpawnPickup(world.PickupXP, 25, w.Player.Pos)
	w.ClearFresh()

	s.Tick(tick, world.Input{})
	require.Equal(t, PhaseLevelUp, s.Phase())
	offers := s.Offers()
	require.Len(t, offers, 3)
	ids := map[string]bool{}
	for _, u := range offers {
		ids[u.ID] = true
	}
	assert.Len(t, ids, 3, "offers are distinct")

	elapsed := w.Elapsed
	s.Tick(tick, world.Input{})
	assert.Equal(t, elapsed, w.Elapsed, "frozen while choosing")

	assert.False(t, s.ChooseUpgrade("not-an-upgrade"))
	require.True(t, s.ChooseUpgrade(offers[0].ID))
	assert.Equal(t, PhaseLevelUp, s.Phase(), "second pending level-up")
	assert.Len(t, s.Offers(), 3)

	require.True(t, s.ChooseUpgrade(s.Offers()[1].ID))
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Nil(t, s.Offers())
	assert.Zero(t, w.PendingLevelUps)
}

func TestChooseMaxHPUpgradeHeals(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.StartRun("shaman"))
	w := s.World()
	w.Player.HP = 50
	w.PendingLevelUps = 1
	maxHP, ok := s.Catalog().Upgrades.Get("maxHp")
	require.True(t, ok)
	s.phase = PhaseLevelUp
	s.offers = []*data.UpgradeDef{maxHP}

	require.True(t, s.ChooseUpgrade("maxHp"))
	assert.InDelta(t, 100, w.Player.MaxHP, 1e-9)
	assert.InDelta(t, 70, w.Player.HP, 1e-9)
}

func TestBuyMeta(t *testing.T) {
	store := persist.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), map[string]int{"gold": 100}))
	s := newSession(t, store)

	cost, ok := s.MetaCost("maxHp")
	require.True(t, ok)
	assert.Equal(t, 50, cost)

	require.True(t, s.BuyMeta("maxHp"))
	assert.Equal(t, 50, s.Meta().Gold)
	assert.Equal(t, 1, s.Meta().MaxHP)
	saved, _ := store.Load(context.Background())
	assert.Equal(t, 50, saved["gold"])
	assert.Equal(t, 1, saved["maxHp"])

	cost, _ = s.MetaCost("maxHp")
	assert.Equal(t, 75, cost)
	assert.False(t, s.BuyMeta("maxHp"), "75 > 50 gold")
	assert.Equal(t, 50, s.Meta().Gold)
	assert.False(t, s.BuyMeta("luck"))

	require.NoError(t, s.StartRun("warrior"))
	s.meta.Gold = 1000
	assert.False(t, s.BuyMeta("damage"), "shop closed during a run")
}

func TestGameOverRecordsRun(t *testing.T) {
	store := persist.NewMemoryStore()
	s := newSession(t, store)
	require.NoError(t, s.StartRun("shaman"))
	w := s.World()
	w.Kills = 12
	w.Player.HP = 0

	s.Tick(tick, world.Input{})
	require.Equal(t, PhaseGameOver, s.Phase())
	rec := s.LastRun()
	require.NotNil(t, rec)
	assert.Equal(t, "shaman", rec.Class)
	assert.Equal(t, 12, rec.Kills)

	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec.ID, runs[0].ID)

	s.Tick(tick, world.Input{})
	assert.Equal(t, PhaseGameOver, s.Phase())

	s.QuitToMenu()
	assert.Equal(t, PhaseMenu, s.Phase())
	assert.Nil(t, s.World())
	assert.Equal(t, HUD{}, s.HUD())
}

func TestGoldPersistsDuringRun(t *testing.T) {
	store := persist.NewMemoryStore()
	s := newSession(t, store)
	require.NoError(t, s.StartRun("warrior"))
	w := s.World()
	w.SpawnPickup(world.PickupGold, 7, w.Player.Pos)
	w.ClearFresh()

	s.Tick(tick, world.Input{})
	assert.Equal(t, 7, s.Meta().Gold)
	saved, _ := store.Load(context.Background())
	assert.Equal(t, 7, saved["gold"])
}

func TestQuitToMenuOnlyWhenPausedOrOver(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.StartRun("warrior"))
	s.QuitToMenu()
	assert.Equal(t, PhasePlaying, s.Phase())
	s.TogglePause()
	s.QuitToMenu()
	assert.Equal(t, PhaseMenu, s.Phase())
}

func TestHUDCallback(t *testing.T) {
	s := newSession(t, nil)
	var got []HUD
	s.OnHUD(func(h HUD) { got = append(got, h) })
	require.NoError(t, s.StartRun("warrior"))
	s.Tick(tick, world.Input{})
	require.NotEmpty(t, got)
	assert.Equal(t, "Warrior", got[0].Class)
	assert.Equal(t, 120, got[0].HP)
}

func TestFormatNumber(t *testing.T) {
	s := newSession(t, nil)
	assert.Equal(t, "1,234,567", s.FormatNumber(1234567))
	assert.Equal(t, "12", s.FormatNumber(12))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "levelup", PhaseLevelUp.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.True(t, PhasePaused.InRun())
	assert.False(t, PhaseGameOver.InRun())
}

func TestRunHeadless(t *testing.T) {
	store := persist.NewMemoryStore()
	s := newSession(t, store)
	rec, err := RunHeadless(context.Background(), s, "warrior", 20*time.Second, tick)
	require.NoError(t, err)

	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.Equal(t, "warrior", rec.Class)
	assert.Greater(t, rec.Seconds, 0.0)
	assert.LessOrEqual(t, rec.Seconds, 20.0+tick.Seconds())
	runs, _ := store.Runs(context.Background())
	assert.Len(t, runs, 1)
}

func TestRunHeadlessUnknownClass(t *testing.T) {
	_, err := RunHeadless(context.Background(), newSession(t, nil), "bard", time.Second, tick)
	assert.Error(t, err)
}

func TestAutopilotKitesAndAims(t *testing.T) {
	w := world.New(world.Options{Catalog: data.Default(), ClassID: "warrior"})
	w.SpawnEnemy(w.Catalog.MustArchetype("imp"), combat.V(52, 50))

	in := Autopilot{}.Input(w)
	assert.Less(t, in.Move.X, 0.0, "moves away from the threat")
	assert.True(t, in.HasAim)
	assert.Equal(t, combat.V(52, 50), in.Pointer)
}

func TestAutopilotChoose(t *testing.T) {
	cat := data.Default()
	regen, _ := cat.Upgrades.Get("regen")
	dmg, _ := cat.Upgrades.Get("damage")
	crit, _ := cat.Upgrades.Get("crit")
	assert.Equal(t, "damage", Autopilot{}.Choose([]*data.UpgradeDef{regen, crit, dmg}))
	assert.Equal(t, "regen", Autopilot{}.Choose([]*data.UpgradeDef{crit, regen}))
}
