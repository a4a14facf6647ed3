package sim

import (
	"iter"
	"math"
)

// Wall is one committed piece of a trail. Flash is the renderer's hit
// highlight (1 = freshly hit, fades to 0).
type Wall struct {
	Segment
	Flash float64
}

// WallTrail is the ordered wall sequence left behind by one cycle. The last
// wall is the only one that still grows; every earlier wall is final except
// that the oldest is shortened from its rear once the trail exceeds its
// maximum length.
type WallTrail struct {
	walls     []Wall
	netLength float64

	// base is the sequence number of walls[0]. Sequence numbers never repeat,
	// which lets the broadphase index track walls across trims.
	base uint64

	// Height is the visual wall height: 1 while standing, shrinking to 0 as
	// the trail collapses after a crash.
	Height float64
}

// NewWallTrail returns an empty standing trail.
func NewWallTrail() *WallTrail {
	return &WallTrail{Height: 1}
}

// Begin starts a new growing wall at origin.
func (t *WallTrail) Begin(origin Point) {
	t.walls = append(t.walls, Wall{Segment: Segment{A: origin, B: origin}})
}

// Current returns the growing wall, or nil for an empty trail.
func (t *WallTrail) Current() *Wall {
	if len(t.walls) == 0 {
		return nil
	}
	return &t.walls[len(t.walls)-1]
}

// History yields the finalized walls, oldest first. The growing wall is not
// included.
func (t *WallTrail) History() iter.Seq2[int, Wall] {
	return func(yield func(int, Wall) bool) {
		for i := 0; i < len(t.walls)-1; i++ {
			if !yield(i, t.walls[i]) {
				return
			}
		}
	}
}

// Len is the number of walls including the growing one.
func (t *WallTrail) Len() int {
	return len(t.walls)
}

// At returns wall i (0 = oldest).
func (t *WallTrail) At(i int) Wall {
	return t.walls[i]
}

// NetLength is the running total of wall length.
func (t *WallTrail) NetLength() float64 {
	return t.netLength
}

// Walls returns a copy of every wall, oldest first.
func (t *WallTrail) Walls() []Wall {
	out := make([]Wall, len(t.walls))
	copy(out, t.walls)
	return out
}

// Extend moves the growing wall's far end to tip and adds delta to the net
// length. delta is the signed frame displacement that produced tip.
func (t *WallTrail) Extend(tip Point, delta float64) {
	cur := t.Current()
	if cur == nil {
		return
	}
	cur.B = tip
	t.netLength += delta
}

// Trim shortens the trail from the rear until its net length is at most
// maxLen. Walls shortened to nothing are dropped and the remaining excess
// carries over to the next oldest wall. It returns how many walls were
// dropped.
func (t *WallTrail) Trim(maxLen float64) int {
	dropped := 0
	for t.netLength > maxLen && len(t.walls) > 0 {
		excess := t.netLength - maxLen
		oldest := &t.walls[0]
		l := oldest.Length()

		if len(t.walls) > 1 && l <= excess {
			t.walls = t.walls[1:]
			t.base++
			t.netLength -= l
			dropped++
			continue
		}

		cut := math.Min(excess, l)
		oldest.A = towards(oldest.A, oldest.B, cut)
		t.netLength -= cut
		break
	}
	if len(t.walls) == 0 {
		t.netLength = 0
	}
	return dropped
}

// towards moves a toward b by d, stopping at b.
func towards(a, b Point, d float64) Point {
	l := math.Hypot(b.X-a.X, b.Z-a.Z)
	if l == 0 || d >= l {
		return b
	}
	return a.Add(b.Sub(a).Scale(d / l))
}

// Light marks wall i as freshly hit.
func (t *WallTrail) Light(i int) {
	if i < 0 || i >= len(t.walls) {
		return
	}
	t.walls[i].Flash = 1
}

// FadeFlash dims every lit wall by rate.
func (t *WallTrail) FadeFlash(rate float64) {
	for i := range t.walls {
		if t.walls[i].Flash > 0 {
			t.walls[i].Flash = math.Max(0, t.walls[i].Flash-rate)
		}
	}
}

// Collapse lowers the trail by rate and reports whether it has reached the
// ground. A collapsed trail is emptied.
func (t *WallTrail) Collapse(rate float64) bool {
	t.Height -= rate
	if t.Height > 0 {
		return false
	}
	t.Height = 0
	t.base += uint64(len(t.walls))
	t.walls = nil
	t.netLength = 0
	return true
}

// seqRange returns the sequence numbers of the first wall and one past the
// last wall.
func (t *WallTrail) seqRange() (first, end uint64) {
	return t.base, t.base + uint64(len(t.walls))
}
