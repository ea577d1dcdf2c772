package flappy

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	PlayerChar     = '▶'
	PlayerBodyChar = '●'
	PlayerDeadChar = '▼'
	PipeChar       = '█'
	PipeCapTop     = '▄'
	PipeCapBottom  = '▀'
	GroundChar     = '▒'
	GroundAltChar  = '░'
	CoinChar       = '●'
	ShieldChar     = '◆'
	BoostChar      = '»'
	FadingChar     = '·'
)

// viewport maps world units to screen cells.
type viewport struct {
	sx, sy float64
	w, h   int
}

func newViewport(world core.Box, dst *core.Screen) viewport {
	v := viewport{w: dst.Width(), h: dst.Height(), sx: 1, sy: 1}
	if v.w > 0 && world.W > 0 {
		v.sx = world.W / float64(v.w)
	}
	if v.h > 0 && world.H > 0 {
		v.sy = world.H / float64(v.h)
	}
	return v
}

func (v viewport) col(x float64) int { return int(math.Floor(x / v.sx)) }
func (v viewport) row(y float64) int { return int(math.Floor(y / v.sy)) }

// cells returns the cell rectangle covering b, at least one cell in size.
func (v viewport) cells(b core.Box) core.Rect {
	x0, y0 := v.col(b.X), v.row(b.Y)
	x1 := core.Max(x0+1, int(math.Ceil(b.Right()/v.sx)))
	y1 := core.Max(y0+1, int(math.Ceil(b.Bottom()/v.sy)))
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// Render draws the current session into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}
	snap := g.session.Snapshot()

	switch snap.State {
	case StateMenu:
		g.drawMenu(dst, snap)
	case StateShop:
		g.drawShop(dst, snap)
	case StateLeaderboard:
		drawLeaderboard(dst, snap)
	default:
		drawWorld(dst, snap)
		drawHUD(dst, snap)
		switch snap.State {
		case StatePause:
			drawCenteredMessage(dst, (dst.Height()-5)/2, "PAUSED", "P or space to resume")
		case StateGameOver:
			drawGameOver(dst, snap)
		}
	}
}

func drawWorld(dst *core.Screen, snap Snapshot) {
	world := core.NewBox(0, 0, snap.World.Width, snap.World.Height)
	v := newViewport(world, dst)
	groundRow := v.row(snap.World.Height - snap.World.GroundHeight)

	for _, o := range snap.Obstacles {
		drawObstacle(dst, v, o, groundRow)
	}
	for _, p := range snap.Pickups {
		drawPickup(dst, v, p)
	}
	drawPlayer(dst, v, snap)

	// Ground scrolls with the obstacles.
	shift := v.col(snap.GroundOffset)
	for y := groundRow; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			r := GroundChar
			if (x+shift+y)%4 < 2 {
				r = GroundAltChar
			}
			dst.SetColored(x, y, r, core.ColorGround)
		}
	}
	dst.DrawHLine(0, groundRow, dst.Width(), '▔', core.ColorEdge)
}

func drawObstacle(dst *core.Screen, v viewport, o ObstaclePair, groundRow int) {
	upper := v.cells(o.Upper())
	lower := v.cells(o.Lower())
	if lower.Bottom() > groundRow {
		lower.H = groundRow - lower.Y
	}

	dst.DrawRect(upper, PipeChar, core.ColorObstacle)
	dst.DrawHLine(upper.X, upper.Bottom()-1, upper.W, PipeCapTop, core.ColorEdge)
	if lower.H > 0 {
		dst.DrawRect(lower, PipeChar, core.ColorObstacle)
		dst.DrawHLine(lower.X, lower.Y, lower.W, PipeCapBottom, core.ColorEdge)
	}
}

func drawPickup(dst *core.Screen, v viewport, p Pickup) {
	x, y := v.col(p.X), v.row(p.Y)
	if p.Collected {
		if p.Alpha > 0.5 {
			dst.SetColored(x, y, FadingChar, core.ColorMuted)
		}
		return
	}
	switch p.Kind {
	case PickupCoin:
		dst.SetColored(x, y, CoinChar, core.ColorCoin)
	case PickupShield:
		dst.SetColored(x, y, ShieldChar, core.ColorShield)
	case PickupSpeedBoost:
		dst.SetColored(x, y, BoostChar, core.ColorBoosted)
	}
}

func drawPlayer(dst *core.Screen, v viewport, snap Snapshot) {
	p := snap.Player
	fx := snap.Effects
	r := v.cells(core.CenteredBox(p.X, p.Y, p.W, p.H))
	y := v.row(p.Y)

	color := core.ColorPlayer
	switch {
	case fx.Flash:
		color = core.ColorFlash
	case fx.Alpha < 1:
		color = core.ColorMuted
	case fx.Boosted:
		color = core.ColorBoosted
	}

	nose := PlayerChar
	if p.Rotation >= math.Pi/4 {
		nose = PlayerDeadChar
	}
	for x := r.X; x < r.Right()-1; x++ {
		dst.SetColored(x, y, PlayerBodyChar, color)
	}
	dst.SetColored(r.Right()-1, y, nose, color)

	if fx.ShieldActive {
		left, right := '(', ')'
		if fx.ShieldPulse > 1 {
			left, right = '[', ']'
		}
		dst.SetColored(r.X-1, y, left, core.ColorShield)
		dst.SetColored(r.Right(), y, right, core.ColorShield)
	}
}

func drawHUD(dst *core.Screen, snap Snapshot) {
	dst.DrawTextColored(1, 0, fmt.Sprintf(" Score: %d ", snap.Score), core.ColorSelected)

	right := fmt.Sprintf(" %s  Coins: %d ", strings.ToUpper(snap.Profile.Name), snap.Coins)
	dst.DrawTextColored(dst.Width()-len([]rune(right))-1, 0, right, core.ColorAccent)

	var status []string
	if snap.Effects.ShieldActive {
		status = append(status, "SHIELD")
	}
	if snap.Effects.BoostActive {
		status = append(status, "BOOST")
	}
	if len(status) > 0 {
		dst.DrawTextColored(1, 1, " "+strings.Join(status, " ")+" ", core.ColorShield)
	}
}

func drawGameOver(dst *core.Screen, snap Snapshot) {
	title := "GAME OVER"
	if snap.NewBest {
		title = "NEW BEST!"
	}
	sub := fmt.Sprintf("Score: %d  Best: %d  Coins +%d", snap.Score, snap.Best, snap.CoinsEarned)

	// The panel slides up from the bottom edge.
	final := (dst.Height() - 5) / 2
	y := dst.Height() - int(float64(dst.Height()-final)*snap.IntroProgress)
	drawCenteredMessage(dst, y, title, sub)

	if snap.IntroProgress >= 1 {
		hint := "R menu"
		if snap.CanContinue {
			hint = "C continue (ad)  " + hint
		}
		dst.DrawTextCentered(y+5, hint, core.ColorMuted)
	}
}

// drawCenteredMessage draws a message box centered horizontally with its top at y.
func drawCenteredMessage(dst *core.Screen, y int, title, subtitle string) {
	w := dst.Width()
	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2

	dst.DrawRect(core.NewRect(boxX, y, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, y, boxW, boxH))
	dst.DrawTextCentered(y+1, title, core.ColorTitle)
	dst.DrawTextCentered(y+3, subtitle, core.ColorText)
}

func (g *Game) drawMenu(dst *core.Screen, snap Snapshot) {
	top := core.Max(1, dst.Height()/2-7)
	dst.DrawTextCentered(top, "F L A P P Y", core.ColorTitle)
	dst.DrawTextCentered(top+1, "▶●●", core.ColorAccent)

	var tiers []string
	for _, p := range snap.Profiles {
		label := p.Title
		if label == "" {
			label = p.Name
		}
		switch {
		case p.Active:
			label = "<" + label + ">"
		case !p.Unlocked:
			label += " (locked)"
		}
		tiers = append(tiers, label)
	}
	dst.DrawTextCentered(top+3, strings.Join(tiers, "  "), core.ColorTier)

	items := [menuCount]string{"Play", "Shop", "Leaderboard"}
	for i, it := range items {
		c := core.ColorText
		if i == g.menu {
			it = "> " + it + " <"
			c = core.ColorSelected
		}
		dst.DrawTextCentered(top+5+i, it, c)
	}

	dst.DrawTextCentered(top+9, fmt.Sprintf("Best: %d   Coins: %d", snap.Best, snap.Coins), core.ColorAccent)
	dst.DrawTextCentered(top+11, "↑/↓ select  ←/→ difficulty  enter confirm  space play  q quit", core.ColorMuted)
}

func (g *Game) drawShop(dst *core.Screen, snap Snapshot) {
	top := core.Max(1, dst.Height()/2-len(snap.Shop)-3)
	dst.DrawTextCentered(top, "SHOP", core.ColorTitle)
	dst.DrawTextCentered(top+1, fmt.Sprintf("Coins: %d", snap.Coins), core.ColorAccent)

	for i, it := range snap.Shop {
		status := fmt.Sprintf("%d", it.Price)
		c := core.ColorLocked
		switch {
		case it.Owned:
			status = "owned"
			c = core.ColorMuted
		case it.Affordable:
			c = core.ColorAffordable
		}
		line := fmt.Sprintf("%-18s %8s", it.Title, status)
		if i == g.shop {
			line = "> " + line + " <"
		} else {
			line = "  " + line + "  "
		}
		dst.DrawTextCentered(top+3+i, line, c)
	}
	dst.DrawTextCentered(top+4+len(snap.Shop), "enter buy  esc back", core.ColorMuted)
}

func drawLeaderboard(dst *core.Screen, snap Snapshot) {
	title := "LEADERBOARD"
	if snap.Profile.Name != "" {
		title += " - " + strings.ToUpper(snap.Profile.Name)
	}
	dst.DrawTextCentered(1, title, core.ColorTitle)

	if len(snap.Leaderboard) == 0 {
		dst.DrawTextCentered(3, "No scores yet", core.ColorMuted)
	}
	for i, e := range snap.Leaderboard {
		if 3+i >= dst.Height()-2 {
			break
		}
		line := fmt.Sprintf("%2d. %-16s %6d  %s", i+1, e.Player, e.Score, e.CreatedAt.Format("2006-01-02"))
		dst.DrawTextCentered(3+i, line, core.ColorText)
	}
	dst.DrawTextCentered(dst.Height()-1, "esc back", core.ColorMuted)
}
