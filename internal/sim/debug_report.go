package sim

import (
	"fmt"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
)

// lineString converts a contiguous point chain to an XY linestring. The
// arena's Z axis maps to Y. A chain with fewer than two distinct points,
// such as a trail on its spawn tick, is the empty linestring.
func lineString(pts []Point) (geom.LineString, error) {
	coords := make([]float64, 0, len(pts)*2)
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		coords = append(coords, p.X, p.Z)
	}
	if len(coords) < 4 {
		return geom.LineString{}, nil
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("trail linestring: %w", err)
	}
	return ls, nil
}

// trailPoints flattens a contiguous wall list into its vertex chain.
func trailPoints(walls []Wall) []Point {
	if len(walls) == 0 {
		return nil
	}
	pts := make([]Point, 0, len(walls)+1)
	pts = append(pts, walls[0].A)
	for _, w := range walls {
		pts = append(pts, w.B)
	}
	return pts
}

// TrailGeometry returns a cycle's trail as a linestring.
func (s *Sim) TrailGeometry(id int) (geom.LineString, error) {
	c, err := s.lookup(id)
	if err != nil {
		return geom.LineString{}, err
	}
	return lineString(trailPoints(c.trail.walls))
}

// TrailWKT returns a cycle's trail in Well-Known Text.
func (s *Sim) TrailWKT(id int) (string, error) {
	ls, err := s.TrailGeometry(id)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}

// RimWKT returns the arena boundary in Well-Known Text.
func (s *Sim) RimWKT() (string, error) {
	ls, err := lineString(s.rim)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}

// DebugReport dumps one cycle's state plus its recent events, suitable for
// pasting into a bug report.
func (s *Sim) DebugReport(id int, lastTicks int) (string, error) {
	c, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := s.tick
	fromTick := max(toTick-lastTicks+1, 0)

	snap := c.snapshot()
	ls, err := lineString(trailPoints(snap.Walls))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Light Cycles debug report ---\n")
	fmt.Fprintf(&b, "tick=%d elapsed=%.2fs tick_range=[%d..%d] roster=%d\n",
		s.tick, s.elapsed, fromTick, toTick, len(s.roster))
	fmt.Fprintf(&b, "cycle=%s id=%d ai=%v state=%s\n\n", snap.Name, snap.ID, snap.AI, snap.State)

	fmt.Fprintf(&b, "pos=(%.3f, %.3f) heading=%s winding=%d queued=%d\n",
		snap.Pos.X, snap.Pos.Z, snap.Heading, snap.WindingOrder, snap.QueuedTurns)
	fmt.Fprintf(&b, "speed=%.3f target=%.3f velocity=%.3f brakes=%.2f rubber=%.3f stop=%.4f\n",
		snap.Speed, snap.TargetSpeed, snap.Velocity, snap.Brakes, snap.Rubber, snap.StopDistance)
	fmt.Fprintf(&b, "flags: braking=%v boosting=%v wall_accel=%v(x%.3f) collision=%v stopped=%v\n",
		snap.Braking, snap.Boosting, snap.WallAccel, snap.WallAccelAmount, snap.Collision, snap.Stopped)
	fmt.Fprintf(&b, "trail: walls=%d net=%.2f euclid=%.2f height=%.2f\n",
		len(snap.Walls), snap.TrailLength, ls.Length(), snap.TrailHeight)
	if c.left.hit || c.right.hit {
		fmt.Fprintf(&b, "side probes: left=%s right=%s\n", probeLabel(c.left), probeLabel(c.right))
	}
	fmt.Fprintf(&b, "wkt: %s\n\n", ls.AsText())

	b.WriteString("events:\n")
	n := 0
	for _, e := range s.simLog.FilterTickRange(fromTick, toTick) {
		if e.Cycle != id {
			continue
		}
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
		n++
	}
	if n == 0 {
		b.WriteString("  (none)\n")
	}
	return b.String(), nil
}

func probeLabel(p sideProbe) string {
	if !p.hit {
		return "-"
	}
	if p.owner == nil {
		return fmt.Sprintf("rim@%.1f", p.dist)
	}
	return fmt.Sprintf("%s@%.1f", p.owner.name, p.dist)
}
