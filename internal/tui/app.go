// Package tui is the terminal frontend: it turns tcell key and mouse events
// into simulation input and menu commands, ticks the session at a fixed rate
// and draws the arena, HUD and menus.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/combat"
	"github.com/tylerhaar7/Pixel-Survivors/internal/game"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

type menuView int

const (
	viewMain menuView = iota
	viewClass
	viewShop
)

var mainMenuItems = []string{"Start run", "Upgrade shop", "Quit"}

// Options configures the frontend.
type Options struct {
	TickRate time.Duration
	KeyHold  time.Duration
	Log      *zap.Logger
}

// App owns the screen and forwards everything to a game.Session. Only the
// goroutine in Run touches the session.
type App struct {
	screen  tcell.Screen
	session *game.Session
	opts    Options
	log     *zap.Logger

	held    *heldKeys
	edges   world.Input
	pointer combat.Vec2
	hasAim  bool
	cam     camera

	view      menuView
	cursor    int
	lastClass string
	quit      bool
}

func New(screen tcell.Screen, session *game.Session, opts Options) *App {
	if opts.TickRate <= 0 {
		opts.TickRate = time.Second / 60
	}
	if opts.KeyHold <= 0 {
		opts.KeyHold = 150 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &App{
		screen:  screen,
		session: session,
		opts:    opts,
		log:     opts.Log,
		held:    newHeldKeys(opts.KeyHold),
	}
}

// Run polls events on a helper goroutine and drives the session from a
// ticker until the player quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.opts.TickRate)
	defer ticker.Stop()

	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			a.handle(ev, time.Now())
			if a.quit {
				a.log.Info("quit requested")
				return nil
			}
		case now := <-ticker.C:
			a.step(now)
			a.Draw()
		}
	}
}

// step ticks the session once with the input gathered since the last tick.
func (a *App) step(now time.Time) {
	in := a.edges
	a.edges = world.Input{}
	if a.session.Phase() != game.PhasePlaying {
		return
	}
	in.Move = a.held.vector(now)
	in.Pointer, in.HasAim = a.pointer, a.hasAim
	a.session.Tick(a.opts.TickRate, in)
}

func (a *App) handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		if a.session.Phase() == game.PhasePlaying {
			x, y := ev.Position()
			a.pointer, a.hasAim = a.cam.toWorld(x, y), true
		}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			a.quit = true
			return
		}
		switch a.session.Phase() {
		case game.PhaseMenu:
			a.menuKey(ev)
		case game.PhasePlaying:
			a.playKey(ev, now)
		case game.PhasePaused:
			a.pausedKey(ev)
		case game.PhaseLevelUp:
			a.levelUpKey(ev)
		case game.PhaseGameOver:
			a.gameOverKey(ev)
		}
	}
}

func (a *App) playKey(ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyUp:
		a.held.press(dirUp, now)
	case tcell.KeyDown:
		a.held.press(dirDown, now)
	case tcell.KeyLeft:
		a.held.press(dirLeft, now)
	case tcell.KeyRight:
		a.held.press(dirRight, now)
	case tcell.KeyEscape:
		a.edges.TogglePause = true
	case tcell.KeyTab:
		a.edges.CycleForm = true
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'w', 'W':
			a.held.press(dirUp, now)
		case 's', 'S':
			a.held.press(dirDown, now)
		case 'a', 'A':
			a.held.press(dirLeft, now)
		case 'd', 'D':
			a.held.press(dirRight, now)
		case 'p', 'P':
			a.edges.TogglePause = true
		case ' ':
			a.edges.Special = true
		case '1', '2', '3', '4':
			a.edges.FormKey = int(r - '0')
		}
	}
}

func (a *App) pausedKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'p', ev.Rune() == 'P':
		a.held.reset()
		a.session.TogglePause()
	case ev.Rune() == 'q', ev.Rune() == 'Q':
		a.session.QuitToMenu()
		a.openView(viewMain)
	}
}

func (a *App) levelUpKey(ev *tcell.EventKey) {
	offers := a.session.Offers()
	if ev.Key() != tcell.KeyRune {
		return
	}
	if i := int(ev.Rune() - '1'); i >= 0 && i < len(offers) {
		a.session.ChooseUpgrade(offers[i].ID)
		a.held.reset()
	}
}

func (a *App) gameOverKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEnter:
		a.session.QuitToMenu()
		a.openView(viewMain)
	case ev.Rune() == 'r', ev.Rune() == 'R':
		a.startRun(a.lastClass)
	}
}

func (a *App) openView(v menuView) {
	a.view, a.cursor = v, 0
}

func (a *App) menuKey(ev *tcell.EventKey) {
	n := a.menuLen()
	switch ev.Key() {
	case tcell.KeyUp:
		a.cursor = (a.cursor + n - 1) % n
		return
	case tcell.KeyDown:
		a.cursor = (a.cursor + 1) % n
		return
	case tcell.KeyEscape:
		if a.view == viewMain {
			a.quit = true
		}
		a.openView(viewMain)
		return
	case tcell.KeyEnter:
		a.menuSelect(a.cursor)
		return
	}
	if r := ev.Rune(); ev.Key() == tcell.KeyRune && r >= '1' && r <= '9' {
		if i := int(r - '1'); i < n {
			a.cursor = i
			a.menuSelect(i)
		}
	}
}

func (a *App) menuLen() int {
	cat := a.session.Catalog()
	switch a.view {
	case viewClass:
		return cat.Classes.Count()
	case viewShop:
		return len(cat.Upgrades.MetaList())
	}
	return len(mainMenuItems)
}

func (a *App) menuSelect(i int) {
	cat := a.session.Catalog()
	switch a.view {
	case viewMain:
		switch i {
		case 0:
			a.openView(viewClass)
		case 1:
			a.openView(viewShop)
		default:
			a.quit = true
		}
	case viewClass:
		a.startRun(cat.Classes.Classes()[i])
	case viewShop:
		a.session.BuyMeta(cat.Upgrades.MetaList()[i].ID)
	}
}

func (a *App) startRun(classID string) {
	if classID == "" {
		return
	}
	if err := a.session.StartRun(classID); err != nil {
		a.log.Warn("start run", zap.Error(err))
		return
	}
	a.lastClass = classID
	a.held.reset()
	a.edges = world.Input{}
	a.hasAim = false
	a.openView(viewMain)
}
