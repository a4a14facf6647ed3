package sim

// CollisionResult is the nearest wall crossed by a probe. Owner is nil when
// the wall is part of the arena rim, in which case WallIndex is -1.
type CollisionResult struct {
	Dist      float64
	Point     Point
	WallIndex int
	Owner     *Cycle
}

// Rim reports whether the hit wall belongs to the arena rim.
func (r CollisionResult) Rim() bool {
	return r.Owner == nil
}

// Detector answers probe queries against every trail in a roster plus the
// static arena rim. It never mutates the cycles it scans.
type Detector struct {
	rim   []Point
	index *segmentIndex // nil: plain linear scan
}

// NewDetector builds a detector for the given rim polygon. broadphase is
// BroadphaseScan or BroadphaseRTree; anything else falls back to scanning.
func NewDetector(rim []Point, broadphase string) *Detector {
	d := &Detector{rim: rim}
	if broadphase == BroadphaseRTree {
		d.index = newSegmentIndex()
	}
	return d
}

// Detect tests the probe a→b against every wall of every cycle in roster
// (including the querying cycle's own trail) and, if includeRim, the rim.
// Hits are ranked by Distance from origin; on equal distance the first hit
// in roster/trail order wins.
func (d *Detector) Detect(roster []*Cycle, origin, a, b Point, includeRim bool) (CollisionResult, bool) {
	var best CollisionResult
	found := false

	consider := func(c *Cycle, i int, w Segment) {
		p, ok := Intersect(a, b, w.A, w.B)
		if !ok {
			return
		}
		dist := Distance(origin, p)
		if !found || dist < best.Dist {
			best = CollisionResult{Dist: dist, Point: p, WallIndex: i, Owner: c}
			found = true
		}
	}

	if d.index != nil {
		d.index.sync(roster)
		d.index.visit(roster, a, b, func(c *Cycle, i int) {
			consider(c, i, c.trail.walls[i].Segment)
		})
	} else {
		for _, c := range roster {
			for i := range c.trail.walls {
				consider(c, i, c.trail.walls[i].Segment)
			}
		}
	}

	if includeRim {
		for w := 1; w < len(d.rim); w++ {
			p, ok := Intersect(a, b, d.rim[w-1], d.rim[w])
			if !ok {
				continue
			}
			dist := Distance(origin, p)
			if !found || dist < best.Dist {
				best = CollisionResult{Dist: dist, Point: p, WallIndex: -1}
				found = true
			}
		}
	}

	return best, found
}
