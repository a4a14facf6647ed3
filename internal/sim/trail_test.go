package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// polyTrail builds a trail whose walls follow pts; the last wall is the
// growing one.
func polyTrail(pts ...Point) *WallTrail {
	tr := NewWallTrail()
	tr.Begin(pts[0])
	for i := 1; i < len(pts); i++ {
		tr.Extend(pts[i], Segment{A: pts[i-1], B: pts[i]}.Length())
		if i < len(pts)-1 {
			tr.Begin(pts[i])
		}
	}
	return tr
}

func sumLengths(tr *WallTrail) float64 {
	total := 0.0
	for _, w := range tr.Walls() {
		total += w.Length()
	}
	return total
}

func TestWallTrail_CurrentAndHistory(t *testing.T) {
	tr := polyTrail(Point{0, 0}, Point{10, 0}, Point{10, 5})
	require.Equal(t, 2, tr.Len())

	cur := tr.Current()
	require.NotNil(t, cur)
	assert.Equal(t, Point{10, 0}, cur.A)
	assert.Equal(t, Point{10, 5}, cur.B)

	var finalized []Wall
	for _, w := range tr.History() {
		finalized = append(finalized, w)
	}
	require.Len(t, finalized, 1)
	assert.Equal(t, Point{0, 0}, finalized[0].A)
	assert.InDelta(t, 15.0, tr.NetLength(), 1e-9)
}

func TestWallTrail_EmptyCurrentIsNil(t *testing.T) {
	assert.Nil(t, NewWallTrail().Current())
}

func TestWallTrail_TrimPartial(t *testing.T) {
	tr := polyTrail(Point{0, 0}, Point{10, 0}, Point{10, 10})
	dropped := tr.Trim(16)

	assert.Equal(t, 0, dropped)
	assert.InDelta(t, 16.0, tr.NetLength(), 1e-9)
	assert.InDelta(t, 4.0, tr.At(0).A.X, 1e-9, "oldest wall shortened from its rear")
	assert.InDelta(t, sumLengths(tr), tr.NetLength(), 1e-9)
}

func TestWallTrail_TrimCarriesExcess(t *testing.T) {
	tr := polyTrail(Point{0, 0}, Point{4, 0}, Point{4, 4}, Point{10, 4})
	require.InDelta(t, 14.0, tr.NetLength(), 1e-9)

	dropped := tr.Trim(7)

	assert.Equal(t, 1, dropped)
	require.Equal(t, 2, tr.Len())
	assert.Equal(t, Point{4, 3}, tr.At(0).A, "excess carried into the next wall")
	assert.InDelta(t, 7.0, tr.NetLength(), 1e-9)
	assert.InDelta(t, sumLengths(tr), tr.NetLength(), 1e-9)
}

func TestWallTrail_TrimNeverRemovesCurrent(t *testing.T) {
	tr := polyTrail(Point{0, 0}, Point{10, 0})
	tr.Trim(0)
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, tr.At(0).A, tr.At(0).B)
	assert.InDelta(t, 0.0, tr.NetLength(), 1e-9)
}

func TestWallTrail_FlashFades(t *testing.T) {
	tr := polyTrail(Point{0, 0}, Point{10, 0}, Point{10, 10})
	tr.Light(0)
	tr.Light(7) // out of range: ignored
	assert.Equal(t, 1.0, tr.At(0).Flash)

	tr.FadeFlash(0.3)
	assert.InDelta(t, 0.7, tr.At(0).Flash, 1e-9)
	for i := 0; i < 10; i++ {
		tr.FadeFlash(0.3)
	}
	assert.Equal(t, 0.0, tr.At(0).Flash)
	assert.Equal(t, 0.0, tr.At(1).Flash)
}

func TestWallTrail_Collapse(t *testing.T) {
	tr := polyTrail(Point{0, 0}, Point{10, 0}, Point{10, 10})
	first, end := tr.seqRange()
	require.Equal(t, uint64(0), first)
	require.Equal(t, uint64(2), end)

	assert.False(t, tr.Collapse(0.6))
	assert.InDelta(t, 0.4, tr.Height, 1e-9)
	assert.True(t, tr.Collapse(0.6))
	assert.Equal(t, 0.0, tr.Height)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0.0, tr.NetLength())

	first, end = tr.seqRange()
	assert.Equal(t, uint64(2), first, "sequence numbers never repeat")
	assert.Equal(t, first, end)
}

func TestWallTrail_BoundHoldsOverLongRun(t *testing.T) {
	ts := NewTestSim(
		WithRunSeed(11),
		WithTuning(func(tu *Tuning) { tu.MaxTailLength = 120 }),
		WithRandomAI(1, 2, 3, 4),
		WithAutoRespawn(),
	)
	require.NoError(t, ts.Err)

	maxStep := ts.Sim.Tuning().MaxSpeed * ts.Sim.Tuning().MaxFrameDelta * ts.Sim.Tuning().ReferenceFPS
	for i := 0; i < 3000; i++ {
		ts.RunTicks(1)
		require.NoError(t, ts.Err)
		for _, c := range ts.Sim.roster {
			if c.trail.NetLength() > 120+maxStep {
				t.Fatalf("T=%d %s trail %.3f exceeds bound", ts.CurrentTick(), c.name, c.trail.NetLength())
			}
			if d := sumLengths(c.trail) - c.trail.NetLength(); d > 1e-6 || d < -1e-6 {
				t.Fatalf("T=%d %s net length drifted by %g", ts.CurrentTick(), c.name, d)
			}
		}
	}
}
