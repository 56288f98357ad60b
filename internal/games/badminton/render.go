package badminton

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-badminton/internal/core"
)

// Visual characters for rendering
const (
	BodyChar        = '█'
	HeadChar        = '▄'
	RacketIdleChar  = '│'
	RacketRightChar = '╱'
	RacketLeftChar  = '╲'
	ShuttleChar     = '●'
	NetChar         = '┃'
	NetTopChar      = '┳'
	GroundChar      = '▀'
	BaselineChar    = '╨'
	OffscreenChar   = '^'
)

// hudRows is the number of rows reserved above the court.
const hudRows = 2

// viewport maps world coordinates onto screen cells.
type viewport struct {
	sx, sy float64
	top    int
	w, h   int
}

func newViewport(dst *core.Screen, worldW, worldH float64) viewport {
	rows := max(dst.Height()-hudRows, 1)
	return viewport{
		sx:  float64(dst.Width()) / worldW,
		sy:  float64(rows) / worldH,
		top: hudRows,
		w:   dst.Width(),
		h:   dst.Height(),
	}
}

func (v viewport) x(wx float64) int {
	return int(math.Floor(wx * v.sx))
}

func (v viewport) y(wy float64) int {
	return v.top + int(math.Floor(wy*v.sy))
}

// rect converts a world box to cells, at least one cell in each direction.
func (v viewport) rect(r core.FRect) core.Rect {
	x0, y0 := v.x(r.X), v.y(r.Y)
	x1, y1 := max(v.x(r.Right()), x0+1), max(v.y(r.Bottom()), y0+1)
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// Render draws the current game state to the screen.
func (g *match) Render(dst *core.Screen) {
	dst.Clear()

	if g.session == nil {
		msg := "no session"
		if g.err != nil {
			msg = g.err.Error()
		}
		dst.DrawTextCentered(dst.Height()/2, msg, core.ColorRed)
		return
	}

	snap := g.session.Snapshot()
	court := g.cfg.Court
	v := newViewport(dst, court.Width, court.Height)

	g.drawCourt(dst, v)
	for _, p := range snap.Players {
		drawPlayer(dst, v, p)
	}
	drawShuttle(dst, v, snap)
	g.drawHUD(dst, snap)

	switch {
	case g.err != nil:
		drawCenteredMessage(dst, "SIMULATION HALTED", g.err.Error(), core.ColorRed)
	case snap.MatchOver && g.lastMatch != nil:
		g.drawMatchOver(dst, g.lastMatch)
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorWhite)
	case g.pointTimer > 0 && g.lastPoint != nil:
		text := fmt.Sprintf("Point %s (%s)  %s", strings.ToUpper(g.lastPoint.Winner.String()), g.lastPoint.Cause, g.lastPoint.Score)
		dst.DrawTextCentered(hudRows+1, text, core.ColorServe)
	case snap.Phase == PhaseAwaitingServe && snap.Server == core.Player1 && !g.demo:
		dst.DrawTextCentered(hudRows+1, "Your serve: press SPACE", core.ColorServe)
	}
}

func (g *match) drawCourt(dst *core.Screen, v viewport) {
	court := g.cfg.Court
	groundRow := v.y(court.GroundY)

	left, right := v.x(court.Margin), v.x(court.Margin+court.CourtWidth())
	dst.DrawHLine(0, groundRow, v.w, GroundChar, core.ColorCourt)
	dst.DrawHLine(left, groundRow, right-left+1, GroundChar, core.ColorBrightGreen)
	dst.SetColored(left, groundRow, BaselineChar, core.ColorLines)
	dst.SetColored(right, groundRow, BaselineChar, core.ColorLines)

	netX := v.x(court.NetX())
	netTop := v.y(court.NetTop())
	dst.DrawVLine(netX, netTop, max(groundRow-netTop, 1), NetChar, core.ColorNet)
	dst.SetColored(netX, netTop, NetTopChar, core.ColorLines)
}

func drawPlayer(dst *core.Screen, v viewport, p PlayerView) {
	color := core.ColorCPU
	if p.IsHuman {
		color = core.ColorHuman
	}

	body := v.rect(core.FRect{X: p.Pos.X - p.Width/2, Y: p.Pos.Y, W: p.Width, H: p.Height})
	dst.DrawRect(body, BodyChar, color)
	dst.DrawHLine(body.X, body.Y, body.W, HeadChar, color)

	racket := v.rect(p.Racket)
	r := RacketIdleChar
	if p.Swinging {
		r = RacketRightChar
		if p.Facing == FacingLeft {
			r = RacketLeftChar
		}
	}
	dst.DrawVLine(racket.X, racket.Y, racket.H, r, core.ColorLines)
}

func drawShuttle(dst *core.Screen, v viewport, snap Snapshot) {
	sh := snap.Shuttle
	x, y := v.x(sh.Pos.X), v.y(sh.Pos.Y)
	color := core.ColorShuttle
	if !sh.InPlay {
		color = core.ColorServe
	}
	if y < hudRows {
		dst.SetColored(x, hudRows, OffscreenChar, color)
		return
	}
	dst.SetColored(x, y, ShuttleChar, color)
}

func (g *match) drawHUD(dst *core.Screen, snap Snapshot) {
	left, right := "PLAYER", "CPU"
	if g.demo {
		left = "CPU L"
		right = "CPU R"
	}
	score := fmt.Sprintf("%s %2d : %-2d %s", left, snap.Score.Points[0], snap.Score.Points[1], right)
	dst.DrawTextCentered(0, score, core.ColorWhite)

	serveMark := "◀ serve"
	x := 1
	if snap.Server == core.Player2 {
		serveMark = "serve ▶"
		x = dst.Width() - len([]rune(serveMark)) - 1
	}
	if snap.Phase == PhaseAwaitingServe {
		dst.DrawTextColored(x, 0, serveMark, core.ColorServe)
	}

	if snap.Score.Deuce(g.cfg.Rules) {
		dst.DrawTextCentered(1, fmt.Sprintf("DEUCE - Win by %d", g.cfg.Rules.WinMargin), core.ColorYellow)
	}

	if !g.demo {
		dst.DrawTextColored(1, 1, snap.Rank.String(), core.ColorCyan)
		dst.DrawTextColored(dst.Width()-22, 1, powerBar(snap.Players[0].PreparePower, g.cfg.Player.MaxPreparePower), core.ColorYellow)
	}
}

// powerBar renders prepare power as a ten-cell gauge.
func powerBar(power, maxPower float64) string {
	const cells = 10
	n := 0
	if maxPower > 0 {
		n = core.Clamp(int(math.Round(power/maxPower*cells)), 0, cells)
	}
	return "power " + strings.Repeat("▮", n) + strings.Repeat("▯", cells-n)
}

func (g *match) drawMatchOver(dst *core.Screen, m *MatchEnded) {
	title := "CPU WINS!"
	if m.Winner == core.Player1 {
		title = "YOU WIN!"
	}
	if g.demo {
		title = strings.ToUpper(m.Winner.String()) + " SIDE WINS"
	}

	sub := fmt.Sprintf("%s  |  Press R for a rematch", m.Score)
	if !g.demo {
		gain := fmt.Sprintf("+%d", m.Rank.Awarded)
		if m.Rank.RankedUp() {
			gain += "  RANK UP: " + m.Rank.To.Name()
		}
		sub = fmt.Sprintf("%s  |  %s  |  %s  |  R: rematch", m.Score, m.Rank.To, gain)
	}
	drawCenteredMessage(dst, title, sub, core.ColorWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), c)

	titleX := boxX + (boxW-len([]rune(title)))/2
	dst.DrawTextColored(titleX, boxY+1, title, c)

	subtitleX := boxX + (boxW-len([]rune(subtitle)))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
