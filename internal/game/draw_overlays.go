package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

// hudFace is the fixed-width face used by every overlay.
var hudFace = text.NewGoXFace(basicfont.Face7x13)

const (
	hudLineH = 14
	hudCharW = 7
	gaugeW   = 160
	gaugeH   = 8
)

func drawText(dst *ebiten.Image, s string, x, y int, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	text.Draw(dst, s, hudFace, op)
}

// fraction clamps v/limit to [0, 1]. A non-positive limit reads as empty.
func fraction(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	f := v / limit
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func drawGauge(dst *ebiten.Image, x, y int, label string, frac float64, col color.RGBA) {
	drawText(dst, label, x, y, color.RGBA{R: 200, G: 210, B: 220, A: 255})
	bx := float32(x + 8*hudCharW)
	by := float32(y + 3)
	vector.FillRect(dst, bx, by, gaugeW, gaugeH, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	vector.FillRect(dst, bx, by, float32(frac)*gaugeW, gaugeH, col, false)
	vector.StrokeRect(dst, bx, by, gaugeW, gaugeH, 1.0, color.RGBA{R: 70, G: 90, B: 120, A: 255}, false)
}

// drawGauges shows the player's speed, rubber and brake reserve in the top
// left of the arena.
func (g *Game) drawGauges(screen *ebiten.Image) {
	p, err := g.sim.SnapshotOf(g.playerID)
	if err != nil {
		return
	}
	t := g.sim.Tuning()
	x := g.offX + 8
	y := g.offY + 6

	drawGauge(screen, x, y, "speed", fraction(p.Speed, t.MaxSpeed), cycleColor(p.ID))
	y += hudLineH
	// Rubber fills as it is used up.
	drawGauge(screen, x, y, "rubber", fraction(p.Rubber, t.MaxRubber), color.RGBA{R: 255, G: 80, B: 60, A: 255})
	y += hudLineH
	drawGauge(screen, x, y, "brakes", fraction(p.Brakes, t.MaxBrakes), color.RGBA{R: 80, G: 200, B: 255, A: 255})
	y += hudLineH

	status := p.State.String()
	if p.AI {
		status += " [auto]"
	}
	if p.WallAccel {
		status += fmt.Sprintf(" grind +%.2f", p.WallAccelAmount)
	}
	drawText(screen, status, x, y, color.RGBA{R: 200, G: 210, B: 220, A: 255})
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	state := "RUN"
	if g.sim.Paused() {
		state = "PAUSED  [=] step"
	}
	alive := 0
	for _, c := range g.snaps {
		if c.State == sim.StateAlive {
			alive++
		}
	}

	lines := []string{
		fmt.Sprintf("T=%d  %s  alive %d/%d", g.sim.Tick(), state, alive, len(g.snaps)),
		"ASDF turn left   JKL; turn right",
		"Space brake  B boost  ` autopilot",
		"P pause  Z respawn  X respawn AI",
		"Tab inspect  C copy report  H hide",
	}

	const padX, padY = 6, 4
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*hudCharW + padX*2)
	boxH := float32(len(lines)*hudLineH + padY*2)
	bx := float32(g.offX + 4)
	by := float32(g.offY+g.fieldSize) - boxH - 4

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 14, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 90, B: 130, A: 180}, false)

	for i, line := range lines {
		drawText(screen, line, int(bx)+padX, int(by)+padY+i*hudLineH, color.White)
	}
}
