package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

// view maps arena coordinates onto the square viewport. North (-Z) is up.
type view struct {
	arena float64 // arena half-size
	scale float64 // pixels per arena unit
	cx    float64
	cy    float64
}

func newView(arenaSize, fieldPx, offX, offY float64) view {
	return view{
		arena: arenaSize,
		scale: fieldPx / (2 * arenaSize),
		cx:    offX + fieldPx/2,
		cy:    offY + fieldPx/2,
	}
}

func (v view) toScreen(p sim.Point) (float32, float32) {
	return float32(v.cx + p.X*v.scale), float32(v.cy + p.Z*v.scale)
}

// cyclePalette is indexed by cycle ID.
var cyclePalette = []color.RGBA{
	{R: 255, G: 200, B: 40, A: 255},  // amber
	{R: 40, G: 200, B: 255, A: 255},  // cyan
	{R: 255, G: 70, B: 70, A: 255},   // red
	{R: 90, G: 255, B: 110, A: 255},  // green
	{R: 200, G: 90, B: 255, A: 255},  // violet
	{R: 255, G: 130, B: 30, A: 255},  // orange
	{R: 240, G: 240, B: 240, A: 255}, // white
	{R: 255, G: 100, B: 200, A: 255}, // pink
}

func cycleColor(id int) color.RGBA {
	if id < 0 {
		id = -id
	}
	return cyclePalette[id%len(cyclePalette)]
}

// wallColor blends base toward white by flash and fades it with the trail
// height.
func wallColor(base color.RGBA, flash, height float64) color.RGBA {
	flash = math.Max(0, math.Min(1, flash))
	height = math.Max(0, math.Min(1, height))
	mix := func(c uint8) uint8 {
		return uint8(float64(c) + (255-float64(c))*flash)
	}
	return color.RGBA{
		R: mix(base.R),
		G: mix(base.G),
		B: mix(base.B),
		A: uint8(60 + 195*height),
	}
}

func (g *Game) drawArena(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	fs := float32(g.fieldSize)

	vector.FillRect(screen, ox, oy, fs, fs, color.RGBA{R: 10, G: 14, B: 22, A: 255}, false)

	// Floor grid, one line per 60 arena units.
	gridCol := color.RGBA{R: 26, G: 40, B: 60, A: 255}
	for u := -g.view.arena; u <= g.view.arena; u += 60 {
		x0, y0 := g.view.toScreen(sim.Point{X: u, Z: -g.view.arena})
		x1, y1 := g.view.toScreen(sim.Point{X: u, Z: g.view.arena})
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.0, gridCol, false)
		x0, y0 = g.view.toScreen(sim.Point{X: -g.view.arena, Z: u})
		x1, y1 = g.view.toScreen(sim.Point{X: g.view.arena, Z: u})
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.0, gridCol, false)
	}

	// Rim.
	rim := g.sim.Rim()
	rimCol := color.RGBA{R: 120, G: 170, B: 230, A: 255}
	for i := 0; i+1 < len(rim); i++ {
		x0, y0 := g.view.toScreen(rim[i])
		x1, y1 := g.view.toScreen(rim[i+1])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2.0, rimCol, true)
	}
}

func (g *Game) drawTrails(screen *ebiten.Image) {
	for _, c := range g.snaps {
		base := cycleColor(c.ID)
		width := float32(1 + 2*c.TrailHeight)
		for _, w := range c.Walls {
			x0, y0 := g.view.toScreen(w.A)
			x1, y1 := g.view.toScreen(w.B)
			vector.StrokeLine(screen, x0, y0, x1, y1, width, wallColor(base, w.Flash, c.TrailHeight), true)
		}
	}
}

func (g *Game) drawCycles(screen *ebiten.Image) {
	for _, c := range g.snaps {
		if c.State != sim.StateAlive {
			continue
		}
		x, y := g.view.toScreen(c.Pos)
		col := cycleColor(c.ID)
		vector.FillCircle(screen, x, y, 4, col, true)

		// Nose marker in the direction of travel.
		f := c.Heading.Forward()
		nx, ny := g.view.toScreen(c.Pos.Add(f.Scale(6 / g.view.scale)))
		vector.StrokeLine(screen, x, y, nx, ny, 2.0, col, true)

		if c.ID == g.inspector.selected {
			vector.StrokeCircle(screen, x, y, 9, 1.0, color.RGBA{R: 255, G: 255, B: 255, A: 200}, true)
		}
	}
}
