package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/tylerhaar7/Pixel-Survivors/internal/game"
	"github.com/tylerhaar7/Pixel-Survivors/internal/world"
)

const hudRows = 2

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	styleSelect = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGold)
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleHP     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleXP     = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
)

// drawText writes text from (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
	return x
}

func drawCentered(s tcell.Screen, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	drawText(s, (w-runewidth.StringWidth(text))/2, y, text, style)
}

// bar renders a fraction as a fixed-width gauge.
func bar(frac float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, frac)) * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func colorOf(hex string) tcell.Color {
	if c := tcell.GetColor(hex); c != tcell.ColorDefault {
		return c
	}
	return tcell.ColorWhite
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

// drawWorld renders the arena around the player and every sprite.
func (a *App) drawWorld() {
	sprites := a.session.Sprites()
	w := a.session.World()
	sw, sh := a.screen.Size()
	a.cam.w, a.cam.h = sw, sh-hudRows
	if w != nil && w.Player != nil {
		a.cam.center = w.Player.Pos
	}

	for y := 0; y < a.cam.h; y++ {
		for x := 0; x < a.cam.w; x++ {
			p := a.cam.toWorld(x, y)
			if p.X < 0 || p.Y < 0 || p.X > w.Size || p.Y > w.Size {
				a.screen.SetContent(x, y, '░', nil, styleWall)
			}
		}
	}

	for _, sp := range sprites {
		switch sp.Kind {
		case world.SpriteEffect:
			a.drawEffect(sp)
		default:
			a.drawSprite(sp)
		}
	}
}

func (a *App) drawSprite(sp world.Sprite) {
	x, y, ok := a.cam.toScreen(sp.Pos)
	if !ok {
		return
	}
	cat := a.session.Catalog()
	var (
		ch    rune
		style tcell.Style
	)
	switch sp.Kind {
	case world.SpritePlayer:
		cl := cat.MustClass(sp.ID)
		ch, style = firstRune(cl.Glyph, '@'), tcell.StyleDefault.Foreground(colorOf(cl.Color)).Bold(true)
		if sp.Flash {
			style = style.Reverse(true)
		}
	case world.SpriteEnemy:
		def := cat.MustArchetype(sp.ID)
		ch, style = firstRune(def.Glyph, 'e'), tcell.StyleDefault.Foreground(colorOf(def.Color))
		if sp.Flash {
			style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
		}
	case world.SpriteProjectile:
		ch, style = '•', tcell.StyleDefault.Foreground(tcell.ColorAqua)
	case world.SpriteEnemyProjectile:
		ch, style = '*', tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	case world.SpritePickup:
		switch sp.ID {
		case "gold":
			ch, style = '$', tcell.StyleDefault.Foreground(tcell.ColorGold)
		case "health":
			ch, style = '+', tcell.StyleDefault.Foreground(tcell.ColorRed)
		default:
			ch, style = '◆', tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
		}
	default:
		return
	}
	a.screen.SetContent(x, y, ch, nil, style)
}

// drawEffect sketches a slash arc or a lightning ring.
func (a *App) drawEffect(sp world.Sprite) {
	if sp.ID == "lightning" {
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		for i := 0; i < 48; i++ {
			ang := float64(i) / 48 * 2 * math.Pi
			p := sp.Pos.Add(sp.Dir.Rotate(ang).Scale(sp.Radius))
			if x, y, ok := a.cam.toScreen(p); ok {
				a.screen.SetContent(x, y, '~', nil, style)
			}
		}
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	for i := -4; i <= 4; i++ {
		ang := float64(i) / 8 * math.Pi * 0.6
		p := sp.Pos.Add(sp.Dir.Rotate(ang).Scale(sp.Radius))
		if x, y, ok := a.cam.toScreen(p); ok {
			a.screen.SetContent(x, y, '/', nil, style)
		}
	}
}

func (a *App) drawHUD() {
	h := a.session.HUD()
	_, sh := a.screen.Size()
	y := sh - hudRows

	x := drawText(a.screen, 0, y, h.Class+" ", styleTitle)
	if h.Form != "" {
		form := "(" + h.Form + ") "
		if h.FormCooldown {
			x = drawText(a.screen, x, y, form, styleDim)
		} else {
			x = drawText(a.screen, x, y, form, styleText)
		}
	}
	x = drawText(a.screen, x, y, fmt.Sprintf("HP %d/%d ", h.HP, h.MaxHP), styleText)
	x = drawText(a.screen, x, y, bar(h.HPFraction, 10), styleHP)
	x = drawText(a.screen, x, y, fmt.Sprintf("  Lv %d ", h.Level), styleText)
	drawText(a.screen, x, y, bar(h.XPFraction, 10), styleXP)

	status := fmt.Sprintf("Wave %d  %s  Kills %s  Gold %s  Enemies %d",
		h.Wave, h.Time, a.session.FormatNumber(h.Kills), a.session.FormatNumber(h.Gold), h.Enemies)
	switch {
	case h.SpecialActive:
		status += "  SPECIAL ACTIVE"
	case h.SpecialReady:
		status += "  [Space] special ready"
	}
	drawText(a.screen, 0, y+1, status, styleText)
}

func (a *App) drawMainMenu() {
	_, sh := a.screen.Size()
	top := sh/2 - 5
	drawCentered(a.screen, top, "PIXEL SURVIVORS", styleTitle)
	drawCentered(a.screen, top+1, "Gold "+a.session.FormatNumber(a.session.Meta().Gold), styleDim)
	for i, item := range mainMenuItems {
		style := styleText
		if i == a.cursor {
			style = styleSelect
		}
		drawCentered(a.screen, top+3+i, " "+item+" ", style)
	}
	drawCentered(a.screen, top+4+len(mainMenuItems), "Up/Down, Enter", styleDim)
}

func (a *App) drawClassSelect() {
	cat := a.session.Catalog()
	_, sh := a.screen.Size()
	top := sh/2 - 6
	drawCentered(a.screen, top, "CHOOSE YOUR CLASS", styleTitle)
	for i, id := range cat.Classes.Classes() {
		cl := cat.MustClass(id)
		style := styleText
		if i == a.cursor {
			style = styleSelect
		}
		drawCentered(a.screen, top+2+i*2, fmt.Sprintf(" %d) %s ", i+1, cl.Name), style)
		drawCentered(a.screen, top+3+i*2, cl.Description, styleDim)
	}
	drawCentered(a.screen, top+3+cat.Classes.Count()*2, "Enter start, Esc back", styleDim)
}

func (a *App) drawShop() {
	cat := a.session.Catalog()
	meta := a.session.Meta()
	_, sh := a.screen.Size()
	top := sh/2 - 5
	drawCentered(a.screen, top, "UPGRADE SHOP", styleTitle)
	drawCentered(a.screen, top+1, "Gold "+a.session.FormatNumber(meta.Gold), styleText)
	for i, def := range cat.Upgrades.MetaList() {
		cost, _ := a.session.MetaCost(def.ID)
		line := fmt.Sprintf(" %d) %s: %s  Lv %d  %sg ", i+1, def.Name, def.Description,
			meta.Level(def.ID), a.session.FormatNumber(cost))
		style := styleText
		switch {
		case i == a.cursor:
			style = styleSelect
		case meta.Gold < cost:
			style = styleDim
		}
		drawCentered(a.screen, top+3+i, line, style)
	}
	drawCentered(a.screen, top+4+len(cat.Upgrades.MetaList()), "Enter or 1-4 buy, Esc back", styleDim)
}

func (a *App) drawLevelUp() {
	_, sh := a.screen.Size()
	top := sh/2 - 4
	drawCentered(a.screen, top, " LEVEL UP! ", styleTitle)
	for i, u := range a.session.Offers() {
		drawCentered(a.screen, top+2+i, fmt.Sprintf(" %d) %s: %s ", i+1, u.Name, u.Description), styleText)
	}
}

func (a *App) drawPaused() {
	_, sh := a.screen.Size()
	drawCentered(a.screen, sh/2-1, " PAUSED ", styleTitle)
	drawCentered(a.screen, sh/2+1, " Esc resume, Q quit to menu ", styleText)
}

func (a *App) drawGameOver() {
	_, sh := a.screen.Size()
	top := sh/2 - 4
	drawCentered(a.screen, top, " GAME OVER ", styleTitle)
	if rec := a.session.LastRun(); rec != nil {
		drawCentered(a.screen, top+2, fmt.Sprintf("Time %s  Level %d  Wave %d", world.FormatClock(rec.Seconds), rec.Level, rec.Wave), styleText)
		drawCentered(a.screen, top+3, fmt.Sprintf("Kills %s  Gold %s",
			a.session.FormatNumber(rec.Kills), a.session.FormatNumber(rec.Gold)), styleText)
	}
	drawCentered(a.screen, top+5, "Enter menu, R retry", styleDim)
}

// Draw renders the current phase.
func (a *App) Draw() {
	a.screen.Clear()
	switch a.session.Phase() {
	case game.PhaseMenu:
		switch a.view {
		case viewClass:
			a.drawClassSelect()
		case viewShop:
			a.drawShop()
		default:
			a.drawMainMenu()
		}
	case game.PhasePlaying:
		a.drawWorld()
		a.drawHUD()
	case game.PhasePaused:
		a.drawWorld()
		a.drawHUD()
		a.drawPaused()
	case game.PhaseLevelUp:
		a.drawWorld()
		a.drawHUD()
		a.drawLevelUp()
	case game.PhaseGameOver:
		a.drawGameOver()
	}
	a.screen.Show()
}
