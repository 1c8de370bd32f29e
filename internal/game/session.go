// Package game drives one player's session: the menu and meta shop, runs of
// the simulation, level-up offers and the end-of-run summary. All methods
// must be called from the goroutine that ticks the session.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tylerhaar7/Pixel-Survivors/internal/core/event"
	coresys "github.com/tylerhaar7/Pixel-Survivors/internal/core/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/persist"
	"github.com/tylerhaar7/Pixel-Survivors/internal/system"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

// HUD is the in-run status snapshot.
type HUD = world.HUD

const saveTimeout = 2 * time.Second

// Options configures a Session.
type Options struct {
	Catalog   *data.Catalog
	Tuning    data.Tuning
	Store     persist.MetaStore // nil keeps meta progress in memory only
	History   persist.History   // nil disables run history
	Rng       *rand.Rand
	WorldSize float64
	Profile   string
	Locale    string
	Log       *zap.Logger
}

// Session owns the meta record and, while a run is active, its world and
// system runner.
type Session struct {
	opts    Options
	log     *zap.Logger
	printer *message.Printer

	phase  Phase
	meta   world.Meta
	world  *world.World
	runner *coresys.Runner
	offers []*data.UpgradeDef
	onHUD  func(HUD)
	last   *persist.RunRecord
}

// NewSession loads the meta record from opts.Store. A missing or unreadable
// record starts from zero; read failures are logged, not returned.
func NewSession(ctx context.Context, opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = data.Default()
	}
	if opts.Tuning == nil {
		opts.Tuning = data.DefaultTuning{}
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Profile == "" {
		opts.Profile = "default"
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	s := &Session{
		opts:    opts,
		log:     opts.Log,
		printer: message.NewPrinter(language.Make(opts.Locale)),
	}
	if opts.Store != nil {
		loadCtx, cancel := context.WithTimeout(ctx, saveTimeout)
		defer cancel()
		m, err := opts.Store.Load(loadCtx)
		if err != nil {
			s.log.Warn("load meta progress, starting fresh", zap.Error(err))
		} else {
			s.meta = world.MetaFromMap(m)
		}
	}
	s.log.Info("session ready",
		zap.String("profile", opts.Profile),
		zap.Int("gold", s.meta.Gold),
		zap.Int("max_hp", s.meta.MaxHP),
		zap.Int("damage", s.meta.Damage),
		zap.Int("speed", s.meta.Speed),
		zap.Int("xp_gain", s.meta.XPGain),
	)
	return s
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Catalog() *data.Catalog { return s.opts.Catalog }
func (s *Session) Meta() world.Meta { return s.meta }
func (s *Session) LastRun() *persist.RunRecord { return s.last }

// World exposes the active run's world, nil outside a run.
func (s *Session) World() *world.World { return s.world }

// OnHUD sets the callback invoked whenever the HUD snapshot changes.
func (s *Session) OnHUD(fn func(HUD)) { s.onHUD = fn }

func (s *Session) publish(h HUD) {
	if s.onHUD != nil {
		s.onHUD(h)
	}
}

// HUD returns the current snapshot, zero outside a run.
func (s *Session) HUD() HUD {
	if s.world == nil {
		return HUD{}
	}
	return s.world.Snapshot()
}

// Sprites returns the render view of the active run, nil outside a run.
func (s *Session) Sprites() []world.Sprite {
	if s.world == nil {
		return nil
	}
	return s.world.Sprites()
}

// Offers returns the level-up choices while in PhaseLevelUp.
func (s *Session) Offers() []*data.UpgradeDef {
	if s.phase != PhaseLevelUp {
		return nil
	}
	return s.offers
}

// FormatNumber renders n with the locale's digit grouping.
func (s *Session) FormatNumber(n int) string {
	return s.printer.Sprintf("%d", n)
}

// StartRun begins a run as classID. Valid from the menu and the game-over
// screen.
func (s *Session) StartRun(classID string) error {
	if s.phase != PhaseMenu && s.phase != PhaseGameOver {
		return fmt.Errorf("start run: not allowed in phase %s", s.phase)
	}
	if _, ok := s.opts.Catalog.Classes.Class(classID); !ok {
		return fmt.Errorf("start run: unknown class %q", classID)
	}
	s.world = world.New(world.Options{
		Catalog: s.opts.Catalog,
		Tuning:  s.opts.Tuning,
		Meta:    &s.meta,
		Rng:     s.opts.Rng,
		Size:    s.opts.WorldSize,
		ClassID: classID,
	})
	s.runner = coresys.NewRunner()
	deps := system.Deps{OnHUD: s.publish, Log: s.log}
	if s.opts.Store != nil {
		deps.Store = s.opts.Store
	}
	system.Install(s.runner, s.world, deps)
	event.Subscribe(s.world.Bus, func(ev event.LevelReached) {
		s.log.Info("level reached", zap.Int("level", ev.Level))
	})
	event.Subscribe(s.world.Bus, func(ev event.PlayerDamaged) {
		s.log.Debug("player hit", zap.Float64("amount", ev.Amount), zap.Float64("hp", ev.HP))
	})
	s.offers = nil
	s.last = nil
	s.phase = PhasePlaying
	s.log.Info("run started", zap.String("class", classID), zap.Int("systems", s.runner.Len()))
	return nil
}

// TogglePause flips between Playing and Paused; other phases ignore it.
func (s *Session) TogglePause() {
	switch s.phase {
	case PhasePlaying:
		s.phase = PhasePaused
	case PhasePaused:
		s.phase = PhasePlaying
	}
}

// Tick advances the run by dt with this tick's input. The simulation only
// moves while Playing; a pause request in the input is honoured first.
func (s *Session) Tick(dt time.Duration, in world.Input) {
	if in.TogglePause {
		s.TogglePause()
		in.TogglePause = false
	}
	if s.phase != PhasePlaying {
		return
	}
	s.world.Input = in
	s.runner.Tick(dt)

	switch {
	case s.world.GameOver:
		s.finish()
	case s.world.PendingLevelUps > 0:
		s.rollOffers()
		s.phase = PhaseLevelUp
	}
}

func (s *Session) rollOffers() {
	pool := append([]*data.UpgradeDef(nil), s.opts.Catalog.Upgrades.Pool()...)
	s.opts.Rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	s.offers = pool[:min(data.OfferSize, len(pool))]
}

// ChooseUpgrade applies one of the current offers. Another offer follows
// while level-ups are pending. It reports false if id is not on offer.
func (s *Session) ChooseUpgrade(id string) bool {
	if s.phase != PhaseLevelUp {
		return false
	}
	for _, u := range s.offers {
		if u.ID != id {
			continue
		}
		s.world.Player.ApplyUpgrade(u)
		s.world.PendingLevelUps--
		s.log.Debug("upgrade chosen", zap.String("upgrade", id), zap.Int("pending", s.world.PendingLevelUps))
		if s.world.PendingLevelUps > 0 {
			s.rollOffers()
		} else {
			s.offers = nil
			s.phase = PhasePlaying
		}
		return true
	}
	return false
}

// MetaCost is the price of the next level of a meta upgrade.
func (s *Session) MetaCost(id string) (int, bool) {
	def, ok := s.opts.Catalog.Upgrades.Meta(id)
	if !ok {
		return 0, false
	}
	return s.opts.Tuning.MetaCost(def, s.meta.Level(id)), true
}

// BuyMeta buys one level of a meta upgrade with banked gold and saves the
// record. It is a no-op returning false during a run, for unknown ids and
// when gold is short.
func (s *Session) BuyMeta(id string) bool {
	if s.phase.InRun() {
		return false
	}
	cost, ok := s.MetaCost(id)
	if !ok || s.meta.Gold < cost {
		return false
	}
	s.meta.Gold -= cost
	s.meta.SetLevel(id, s.meta.Level(id)+1)
	s.log.Info("meta upgrade bought",
		zap.String("upgrade", id),
		zap.Int("level", s.meta.Level(id)),
		zap.Int("cost", cost),
		zap.Int("gold", s.meta.Gold),
	)
	s.save()
	return true
}

func (s *Session) save() {
	if s.opts.Store == nil {
		return
	}
	if err := system.SaveMeta(s.opts.Store, s.meta, saveTimeout); err != nil {
		s.log.Warn("save meta progress", zap.Error(err))
	}
}

// EndRun ends the active run as if the player had died.
func (s *Session) EndRun() {
	if s.phase.InRun() {
		s.finish()
	}
}

// QuitToMenu abandons a paused run or leaves the game-over screen.
func (s *Session) QuitToMenu() {
	switch s.phase {
	case PhasePaused, PhaseGameOver:
	default:
		return
	}
	if s.world != nil && s.world.MetaDirty {
		s.save()
	}
	s.world, s.runner, s.offers = nil, nil, nil
	s.phase = PhaseMenu
}

// finish records the run summary and enters GameOver.
func (s *Session) finish() {
	w := s.world
	w.GameOver = true
	if w.MetaDirty {
		s.save()
		w.MetaDirty = false
	}
	p := w.Player
	rec := persist.NewRunRecord(s.opts.Profile, p.Class.ID, p.Level, w.Kills, w.Gold, w.Wave, w.Elapsed)
	s.last = &rec
	s.phase = PhaseGameOver
	s.offers = nil
	s.log.Info("run ended",
		zap.String("run", rec.ID),
		zap.String("class", rec.Class),
		zap.Int("level", rec.Level),
		zap.Int("kills", rec.Kills),
		zap.Int("gold", rec.Gold),
		zap.String("time", world.FormatClock(rec.Seconds)),
	)
	if s.opts.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.opts.History.Record(ctx, rec); err != nil {
		s.log.Warn("record run", zap.Error(err))
	}
}
