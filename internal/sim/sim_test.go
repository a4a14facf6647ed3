package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_PauseGatesSimulation(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)
	ts.RunTicks(5)
	before, _ := ts.Cycle(1)

	ts.Sim.TogglePause()
	require.True(t, ts.Sim.Paused())
	for i := 0; i < 10; i++ {
		require.NoError(t, ts.Sim.Step(HarnessDelta))
	}

	after, _ := ts.Cycle(1)
	assert.Equal(t, before.Pos, after.Pos)
	assert.Equal(t, 5, ts.Sim.Tick())
}

func TestStep_FrameAdvanceWhilePaused(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)
	ts.Sim.TogglePause()

	require.NoError(t, ts.Sim.FrameAdvance(HarnessDelta))

	c, _ := ts.Cycle(1)
	assert.Equal(t, 1, ts.Sim.Tick())
	assert.Greater(t, c.Pos.X, 0.0)
	assert.True(t, ts.Sim.Paused())
}

func TestStep_UnpauseClearsQueuedTurns(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)

	ts.Sim.TogglePause()
	require.NoError(t, ts.Sim.Turn(1, TurnLeft))
	require.NoError(t, ts.Sim.Turn(1, TurnLeft))
	c, _ := ts.Cycle(1)
	require.Equal(t, 2, c.QueuedTurns)

	ts.Sim.TogglePause()
	c, _ = ts.Cycle(1)
	assert.Equal(t, 0, c.QueuedTurns)

	ts.RunTicks(10)
	c, _ = ts.Cycle(1)
	assert.Equal(t, HeadingEast, c.Heading)
}

func TestStep_ClampsFrameDelta(t *testing.T) {
	a := New(DefaultTuning())
	b := New(DefaultTuning())
	for _, s := range []*Sim{a, b} {
		require.NoError(t, s.Spawn(SpawnRequest{ID: 1, Pos: Point{-300, 0}, Heading: HeadingEast}))
	}

	require.NoError(t, a.Step(5))
	require.NoError(t, b.Step(DefaultTuning().MaxFrameDelta))

	ca, _ := a.SnapshotOf(1)
	cb, _ := b.SnapshotOf(1)
	assert.Equal(t, cb.Pos, ca.Pos)
	assert.Equal(t, b.Elapsed(), a.Elapsed())
}

func TestStep_NonPositiveDeltaIsNoop(t *testing.T) {
	s := New(DefaultTuning())
	require.NoError(t, s.Spawn(SpawnRequest{ID: 1, Pos: Point{0, 0}, Heading: HeadingEast}))
	require.NoError(t, s.Step(0))
	require.NoError(t, s.Step(-1))
	assert.Equal(t, 0, s.Tick())
}

func TestStep_EventsArePerTick(t *testing.T) {
	s := New(DefaultTuning())
	require.NoError(t, s.Spawn(SpawnRequest{ID: 1, Pos: Point{0, 0}, Heading: HeadingEast}))
	require.NoError(t, s.Turn(1, TurnRight))

	var turnTick int
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Step(HarnessDelta))
		for _, e := range s.Events() {
			if e.Kind == EventTurn {
				turnTick = e.Tick
				assert.Equal(t, "right", e.Value)
				assert.Equal(t, 1, e.Cycle)
			}
		}
	}
	assert.Equal(t, 2, turnTick)

	require.NoError(t, s.Step(HarnessDelta))
	assert.Empty(t, s.Events())
}

func TestDeterminism_IdenticalRuns(t *testing.T) {
	run := func() (*TestSim, []CycleSnapshot) {
		ts := NewTestSim(
			WithRunSeed(1234),
			WithHuman(0, 0, 0, HeadingNorth),
			WithRandomAI(1, 2, 3, 4, 5),
			WithAutoRespawn(),
		)
		require.NoError(t, ts.Err)
		for i := 0; i < 40; i++ {
			ts.RunTicks(25)
			cmd := TurnLeft
			if i%3 == 0 {
				cmd = TurnRight
			}
			require.NoError(t, ts.Sim.Turn(0, cmd))
		}
		require.NoError(t, ts.Err)
		return ts, ts.Sim.Snapshot()
	}

	tsA, a := run()
	tsB, b := run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Pos, b[i].Pos, "cycle %s", a[i].Name)
		assert.Equal(t, a[i].Rubber, b[i].Rubber, "cycle %s", a[i].Name)
		assert.Equal(t, a[i].Walls, b[i].Walls, "cycle %s", a[i].Name)
	}
	assert.Equal(t, tsA.SimLog.Format(), tsB.SimLog.Format())
}

func TestSimLog_FiltersAndSummary(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast), WithAI(2, 0, 100, HeadingWest), WithVerbose(true))
	require.NoError(t, ts.Err)
	require.NoError(t, ts.Sim.Turn(1, TurnLeft))
	ts.RunTicks(30)

	assert.Len(t, ts.SimLog.Filter(EventSpawn), 2)
	assert.True(t, ts.SimLog.HasEntry(EventTurn, "left"))
	last, ok := ts.SimLog.LastOf(EventSpawn)
	require.True(t, ok)
	assert.Equal(t, 2, last.Cycle)
	assert.NotEmpty(t, ts.SimLog.FilterCycle(1))
	assert.Len(t, ts.SimLog.FilterTickRange(0, 0), 2, "both spawns land before the first tick")
	assert.Positive(t, ts.SimLog.Count(EventMotion, 1), "verbose log records motion")

	sum := ts.SimLog.Summary(ts.CurrentTick(), ts.Sim.Snapshot())
	assert.Contains(t, sum, "Alive: 2/2")
	assert.True(t, strings.HasPrefix(sum, "--- Summary at T=030 ---"))
}
