package sim

import "math"

// Point is a position on the arena floor. Height is constant and never
// takes part in collision, so only X and Z are stored.
type Point struct {
	X float64
	Z float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Z: p.Z + q.Z}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Z: p.Z - q.Z}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Z: p.Z * k}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Z) && !math.IsInf(p.X, 0) && !math.IsInf(p.Z, 0)
}

// cross is the scalar 2D cross product a × b.
func cross(a, b Point) float64 {
	return a.X*b.Z - a.Z*b.X
}

// Segment is one straight wall piece or one rim edge.
type Segment struct {
	A Point
	B Point
}

// Length is the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.B.X-s.A.X, s.B.Z-s.A.Z)
}

// Intersect reports whether the open segment p→p2 crosses the open segment
// q→q2 and where. Parallel and collinear segments never intersect, and
// touching an endpoint (t or u exactly 0 or 1) is not a crossing.
func Intersect(p, p2, q, q2 Point) (Point, bool) {
	r := p2.Sub(p)
	s := q2.Sub(q)

	denom := cross(r, s)
	if denom == 0 {
		return Point{}, false
	}

	qp := q.Sub(p)
	t := cross(qp, s) / denom
	u := cross(qp, r) / denom
	if !(t > 0 && t < 1 && u > 0 && u < 1) {
		return Point{}, false
	}
	return p.Add(r.Scale(t)), true
}

// Distance ranks collisions by the absolute sum of the coordinate deltas.
// It is deliberately not Euclidean: stopping distances and rubber tuning
// were balanced against this metric.
func Distance(p1, p2 Point) float64 {
	return math.Abs((p2.X - p1.X) + (p2.Z - p1.Z))
}

// Heading is one of the four cardinal directions a cycle can face.
type Heading uint8

const (
	HeadingEast  Heading = iota // +X
	HeadingNorth                // -Z
	HeadingWest                 // -X
	HeadingSouth                // +Z
)

var headingVectors = [4]Point{
	HeadingEast:  {X: 1},
	HeadingNorth: {Z: -1},
	HeadingWest:  {X: -1},
	HeadingSouth: {Z: 1},
}

// Forward returns the unit vector for h.
func (h Heading) Forward() Point {
	return headingVectors[h%4]
}

// Left returns the heading after a 90° left turn.
func (h Heading) Left() Heading {
	return (h + 1) % 4
}

// Right returns the heading after a 90° right turn.
func (h Heading) Right() Heading {
	return (h + 3) % 4
}

func (h Heading) String() string {
	switch h % 4 {
	case HeadingEast:
		return "east"
	case HeadingNorth:
		return "north"
	case HeadingWest:
		return "west"
	default:
		return "south"
	}
}

// rimPoints returns the closed square bounding an arena of half-size n.
func rimPoints(n float64) []Point {
	return []Point{
		{X: n, Z: n},
		{X: -n, Z: n},
		{X: -n, Z: -n},
		{X: n, Z: -n},
		{X: n, Z: n},
	}
}
