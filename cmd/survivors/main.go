package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tylerhaar7/Pixel-Survivors/internal/config"
	"github.com/tylerhaar7/Pixel-Survivors/internal/data"
	"github.com/tylerhaar7/Pixel-Survivors/internal/game"
	"github.com/tylerhaar7/Pixel-Survivors/internal/persist"
	"github.com/tylerhaar7/Pixel-Survivors/internal/scripting"
	"github.com/tylerhaar7/Pixel-Survivors/internal/tui"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Headless output helpers ───────────────────────────────────────

func printSection(title string) {
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", max(3, 44-len(title))))
}

func printStat(label, value string) {
	dots := max(3, 40-len(label)-len(value))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dots), value)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main ──────────────────────────────────────────────────────────

func run() error {
	cfgPath := flag.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	mode := flag.String("mode", "", "override ui.mode: tui or headless")
	class := flag.String("class", "warrior", "class played by the headless autopilot")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *mode != "" {
		cfg.UI.Mode = *mode
	}
	headless := cfg.UI.Mode == "headless"

	// 2. Init logger
	log, err := newLogger(cfg.Logging, headless)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Load catalogs
	cat, err := data.LoadCatalog(cfg.Game.DataDir)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	log.Info("catalogs loaded",
		zap.Int("classes", cat.Classes.Count()),
		zap.Int("weapons", cat.Weapons.Count()),
		zap.Int("enemies", cat.Enemies.Count()),
		zap.Int("upgrades", cat.Upgrades.Count()),
	)

	// 4. Load tuning scripts
	engine, err := scripting.NewEngine(cfg.Game.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	// 5. Open the meta store
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := persist.Open(openCtx, cfg.Persist, cfg.Game.Profile, log)
	cancel()
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer store.Close()

	// 6. Create the session
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := game.Options{
		Catalog:   cat,
		Tuning:    engine,
		Store:     store,
		Rng:       rand.New(rand.NewSource(seed)),
		WorldSize: cfg.Game.WorldSize,
		Profile:   cfg.Game.Profile,
		Locale:    cfg.UI.Locale,
		Log:       log,
	}
	if cfg.Persist.History {
		opts.History = store
	}
	session := game.NewSession(ctx, opts)

	// 7. Hand over to the frontend
	if headless {
		return runHeadless(ctx, session, cfg, *class, seed)
	}
	return runTUI(ctx, session, cfg, log)
}

func runTUI(ctx context.Context, session *game.Session, cfg *config.Config, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	app := tui.New(screen, session, tui.Options{
		TickRate: cfg.Game.TickRate,
		KeyHold:  cfg.UI.KeyHold,
		Log:      log,
	})
	return app.Run(ctx)
}

func runHeadless(ctx context.Context, session *game.Session, cfg *config.Config, class string, seed int64) error {
	length := time.Duration(cfg.UI.HeadlessSeconds) * time.Second
	printSection("Autopilot")
	printStat("Class", class)
	printStat("Seed", fmt.Sprint(seed))
	printStat("Length", length.String())

	rec, err := game.RunHeadless(ctx, session, class, length, cfg.Game.TickRate)
	if err != nil {
		return fmt.Errorf("headless run: %w", err)
	}

	printSection("Result")
	printStat("Time", world.FormatClock(rec.Seconds))
	printStat("Wave", fmt.Sprint(rec.Wave))
	printStat("Level", fmt.Sprint(rec.Level))
	printStat("Kills", session.FormatNumber(rec.Kills))
	printStat("Gold", session.FormatNumber(rec.Gold))
	printStat("Banked gold", session.FormatNumber(session.Meta().Gold))
	printOK("run " + rec.ID + " recorded")
	return nil
}

// newLogger builds the zap logger. The terminal belongs to tcell in TUI mode,
// so logs go to the configured file or nowhere.
func newLogger(cfg config.LoggingConfig, headless bool) (*zap.Logger, error) {
	if cfg.File == "" && !headless {
		return zap.NewNop(), nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		if cfg.Format != "json" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	return zapCfg.Build()
}
