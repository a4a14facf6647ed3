package sim

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// boxPad keeps axis-aligned walls from producing zero-width boxes, which
// rtreego rejects.
const boxPad = 1e-3

// indexedWall is a finalized wall stored in the R-tree. Its box is taken when
// the wall is finalized; later rear trims only shrink the wall, so the stored
// box stays a superset of the live geometry.
type indexedWall struct {
	owner  *Cycle
	seq    uint64
	bounds rtreego.Rect
}

func (w *indexedWall) Bounds() rtreego.Rect {
	return w.bounds
}

type indexedTrail struct {
	next    uint64 // first sequence number not yet indexed
	entries []*indexedWall
}

// segmentIndex is a broadphase over finalized walls. Growing walls change
// every tick and are always tested directly.
type segmentIndex struct {
	tree   *rtreego.Rtree
	trails map[*Cycle]*indexedTrail
}

func newSegmentIndex() *segmentIndex {
	return &segmentIndex{
		tree:   rtreego.NewTree(2, 8, 32),
		trails: make(map[*Cycle]*indexedTrail),
	}
}

func segmentBox(s Segment) (rtreego.Rect, error) {
	minX, maxX := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
	minZ, maxZ := math.Min(s.A.Z, s.B.Z), math.Max(s.A.Z, s.B.Z)
	return rtreego.NewRect(
		rtreego.Point{minX - boxPad, minZ - boxPad},
		[]float64{maxX - minX + 2*boxPad, maxZ - minZ + 2*boxPad},
	)
}

// sync brings the tree in line with the roster: trails that left the roster
// are dropped, trimmed walls are removed and newly finalized walls inserted.
func (x *segmentIndex) sync(roster []*Cycle) {
	present := make(map[*Cycle]struct{}, len(roster))
	for _, c := range roster {
		present[c] = struct{}{}
	}
	for c, it := range x.trails {
		if _, ok := present[c]; ok {
			continue
		}
		for _, e := range it.entries {
			x.tree.Delete(e)
		}
		delete(x.trails, c)
	}

	for _, c := range roster {
		first, end := c.trail.seqRange()
		it := x.trails[c]
		if it == nil {
			it = &indexedTrail{next: first}
			x.trails[c] = it
		}

		drop := 0
		for drop < len(it.entries) && it.entries[drop].seq < first {
			x.tree.Delete(it.entries[drop])
			drop++
		}
		it.entries = it.entries[drop:]

		if it.next < first {
			it.next = first
		}
		// end-1 is the growing wall; everything before it is final.
		for ; end > 0 && it.next < end-1; it.next++ {
			w := c.trail.walls[it.next-first]
			box, err := segmentBox(w.Segment)
			if err != nil {
				continue
			}
			e := &indexedWall{owner: c, seq: it.next, bounds: box}
			x.tree.Insert(e)
			it.entries = append(it.entries, e)
		}
	}
}

type wallRef struct {
	order int
	idx   int
	owner *Cycle
}

// visit calls fn for every wall whose box touches the probe, plus every
// growing wall, in the same roster/trail order a linear scan would use.
func (x *segmentIndex) visit(roster []*Cycle, a, b Point, fn func(c *Cycle, i int)) {
	order := make(map[*Cycle]int, len(roster))
	for i, c := range roster {
		order[c] = i
	}

	var refs []wallRef
	if box, err := segmentBox(Segment{A: a, B: b}); err == nil {
		for _, s := range x.tree.SearchIntersect(box) {
			e := s.(*indexedWall)
			first, end := e.owner.trail.seqRange()
			if e.seq < first || e.seq >= end {
				continue
			}
			refs = append(refs, wallRef{order: order[e.owner], idx: int(e.seq - first), owner: e.owner})
		}
	}
	for i, c := range roster {
		if n := c.trail.Len(); n > 0 {
			refs = append(refs, wallRef{order: i, idx: n - 1, owner: c})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].order != refs[j].order {
			return refs[i].order < refs[j].order
		}
		return refs[i].idx < refs[j].idx
	})
	for _, r := range refs {
		fn(r.owner, r.idx)
	}
}
