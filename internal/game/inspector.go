package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

const (
	inspW       = 300
	inspPad     = 6
	inspTicks   = 180 // status line lifetime
	reportTicks = 300 // event history included in copied reports
)

// Inspector tracks the selected cycle and the last clipboard status.
type Inspector struct {
	selected    int
	status      string
	statusTicks int
}

func (in *Inspector) tick() {
	if in.statusTicks > 0 {
		in.statusTicks--
		if in.statusTicks == 0 {
			in.status = ""
		}
	}
}

func (in *Inspector) setStatus(msg string) {
	in.status = msg
	in.statusTicks = inspTicks
}

func snapshotIDs(snaps []sim.CycleSnapshot) []int {
	ids := make([]int, len(snaps))
	for i, c := range snaps {
		ids[i] = c.ID
	}
	return ids
}

// nextSelection returns the ID after cur in roster order, wrapping around.
// An unknown cur selects the first cycle; an empty roster keeps cur.
func nextSelection(ids []int, cur int) int {
	if len(ids) == 0 {
		return cur
	}
	for i, id := range ids {
		if id == cur {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

func (g *Game) copyInspectorReport() {
	report, err := g.sim.DebugReport(g.inspector.selected, reportTicks)
	if err != nil {
		g.inspector.setStatus("no cycle selected")
		return
	}
	if clipboard.Unsupported {
		g.inspector.setStatus("clipboard unavailable")
		g.log.Info().Int("cycle", g.inspector.selected).Msg("debug report\n" + report)
		return
	}
	if err := clipboard.WriteAll(report); err != nil {
		g.inspector.setStatus("copy failed")
		g.log.Warn().Err(err).Msg("clipboard write")
		return
	}
	g.inspector.setStatus(fmt.Sprintf("report copied (%d lines)", strings.Count(report, "\n")))
}

// inspectorLines is the curated view of one cycle.
func inspectorLines(c sim.CycleSnapshot, t sim.Tuning) []string {
	driver := "human"
	if c.AI {
		driver = "ai"
	}
	lines := []string{
		fmt.Sprintf("[ %s #%d %s ]", c.Name, c.ID, driver),
		fmt.Sprintf("state: %-10s heading: %s", c.State, c.Heading),
		fmt.Sprintf("pos: (%.1f, %.1f)", c.Pos.X, c.Pos.Z),
		fmt.Sprintf("speed: %.2f / target %.2f", c.Speed, c.TargetSpeed),
		fmt.Sprintf("rubber: %.2f / %.1f  max %.2f", c.Rubber, t.MaxRubber, c.MaxRubber),
		fmt.Sprintf("brakes: %.2f / %.1f", c.Brakes, t.MaxBrakes),
		fmt.Sprintf("stop: %.3f  queued: %d", c.StopDistance, c.QueuedTurns),
		fmt.Sprintf("trail: %d walls  %.0f units", len(c.Walls), c.TrailLength),
		fmt.Sprintf("dist: %.0f  turns: %d  hits: %d", c.Distance, c.Turns, c.Collisions),
	}
	var flags []string
	if c.Braking {
		flags = append(flags, "brake")
	}
	if c.Boosting {
		flags = append(flags, "boost")
	}
	if c.WallAccel {
		flags = append(flags, fmt.Sprintf("grind+%.2f", c.WallAccelAmount))
	}
	if c.Collision {
		flags = append(flags, "contact")
	}
	if c.Stopped {
		flags = append(flags, "stopped")
	}
	if len(flags) > 0 {
		lines = append(lines, strings.Join(flags, " "))
	}
	if c.AI {
		lines = append(lines, fmt.Sprintf("ai timer: %.2f  winding: %d", c.AITimer, c.WindingOrder))
	}
	return lines
}

// drawInspector renders the selected cycle's panel in the bottom right of
// the arena.
func (g *Game) drawInspector(screen *ebiten.Image) {
	var lines []string
	for _, c := range g.snaps {
		if c.ID == g.inspector.selected {
			lines = inspectorLines(c, g.sim.Tuning())
			break
		}
	}
	if g.inspector.status != "" {
		lines = append(lines, "> "+g.inspector.status)
	}
	if len(lines) == 0 {
		return
	}

	h := float32(len(lines)*hudLineH + inspPad*2)
	px := float32(g.offX+g.fieldSize) - inspW - 4
	py := float32(g.offY+g.fieldSize) - h - 4

	vector.FillRect(screen, px, py, inspW, h, color.RGBA{R: 10, G: 12, B: 20, A: 230}, false)
	vector.StrokeRect(screen, px, py, inspW, h, 1.0, color.RGBA{R: 55, G: 80, B: 120, A: 255}, false)

	titleCol := cycleColor(g.inspector.selected)
	for i, l := range lines {
		col := color.RGBA{R: 210, G: 215, B: 225, A: 255}
		if i == 0 {
			col = titleCol
		}
		drawText(screen, l, int(px)+inspPad, int(py)+inspPad+i*hudLineH, col)
	}
}
