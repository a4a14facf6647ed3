package sim

import (
	"fmt"
	"sort"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// ArenaReport is a snapshot of the arena at one tick.
type ArenaReport struct {
	Tick int

	Alive      int
	Dead       int // crashed, trail still standing
	Collapsing int

	Colliding   int // cycles with a wall inside their stop probe
	WallAccel   int // cycles riding a wall
	Braking     int
	AvgSpeed    float64 // over live cycles
	AvgRubber   float64 // over live cycles
	TotalWalls  int
	TotalLength float64
}

// SimReporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []ArenaReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a report from a roster snapshot.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(tick int, cycles []CycleSnapshot) {
	rpt := ArenaReport{Tick: tick}
	for _, c := range cycles {
		rpt.TotalWalls += len(c.Walls)
		rpt.TotalLength += c.TrailLength

		switch c.State {
		case StateDead:
			rpt.Dead++
			continue
		case StateCollapsing:
			rpt.Collapsing++
			continue
		case StateAlive:
		default:
			continue
		}

		rpt.Alive++
		rpt.AvgSpeed += c.Speed
		rpt.AvgRubber += c.Rubber
		if c.Collision {
			rpt.Colliding++
		}
		if c.WallAccel {
			rpt.WallAccel++
		}
		if c.Braking {
			rpt.Braking++
		}
	}
	if rpt.Alive > 0 {
		rpt.AvgSpeed /= float64(rpt.Alive)
		rpt.AvgRubber /= float64(rpt.Alive)
	}
	r.history = append(r.history, rpt)
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *ArenaReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgAlive     float64
	AvgColliding float64
	AvgWallAccel float64
	AvgSpeed     float64
	AvgRubber    float64
	PeakLength   float64
}

// WindowSummary averages the reports inside the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []ArenaReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    window[len(window)-1].Tick,
		ToTick:      window[0].Tick,
		SampleCount: len(window),
	}
	for _, rpt := range window {
		wr.AvgAlive += float64(rpt.Alive)
		wr.AvgColliding += float64(rpt.Colliding)
		wr.AvgWallAccel += float64(rpt.WallAccel)
		wr.AvgSpeed += rpt.AvgSpeed
		wr.AvgRubber += rpt.AvgRubber
		if rpt.TotalLength > wr.PeakLength {
			wr.PeakLength = rpt.TotalLength
		}
	}
	wr.AvgAlive /= n
	wr.AvgColliding /= n
	wr.AvgWallAccel /= n
	wr.AvgSpeed /= n
	wr.AvgRubber /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Arena Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  alive=%.1f  colliding=%.1f  wall_accel=%.1f\n",
		wr.AvgAlive, wr.AvgColliding, wr.AvgWallAccel)
	fmt.Fprintf(&sb, "  speed=%.2f  rubber=%.2f  peak_trail=%.0f\n",
		wr.AvgSpeed, wr.AvgRubber, wr.PeakLength)
	return sb.String()
}

// CycleGrade summarises one cycle's run.
type CycleGrade struct {
	ID       int
	Name     string
	AI       bool
	Survived bool

	Crashes    int
	Turns      int
	Collisions int
	Distance   float64
	MaxRubber  float64
}

// GradeCycles builds one grade per cycle ID, most distance first. Crashes
// come from log; the other totals from the latest instance of each cycle.
func GradeCycles(cycles []CycleSnapshot, log *SimLog) []CycleGrade {
	grades := make([]CycleGrade, 0, len(cycles))
	for _, c := range cycles {
		grades = append(grades, CycleGrade{
			ID:         c.ID,
			Name:       c.Name,
			AI:         c.AI,
			Survived:   c.State == StateAlive,
			Crashes:    log.Count(EventCrash, c.ID),
			Turns:      c.Turns,
			Collisions: c.Collisions,
			Distance:   c.Distance,
			MaxRubber:  c.MaxRubber,
		})
	}
	sort.SliceStable(grades, func(i, j int) bool {
		return grades[i].Distance > grades[j].Distance
	})
	return grades
}

// FormatGrades returns a human-readable per-cycle table.
func FormatGrades(grades []CycleGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Cycle Results ===\n")
	for _, g := range grades {
		status := "alive"
		if !g.Survived {
			status = "down"
		}
		driver := "human"
		if g.AI {
			driver = "ai"
		}
		fmt.Fprintf(&sb, "  %-4s %-5s [%s]  dist=%.0f  turns=%d  contacts=%d  crashes=%d  max_rubber=%.2f\n",
			g.Name, driver, status, g.Distance, g.Turns, g.Collisions, g.Crashes, g.MaxRubber)
	}
	return sb.String()
}
