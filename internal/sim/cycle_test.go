package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycle_SpawnDefaults(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)

	c, ok := ts.Cycle(1)
	require.True(t, ok)
	tu := DefaultTuning()
	assert.Equal(t, "C1", c.Name)
	assert.Equal(t, tu.StartingSpeed, c.Speed)
	assert.Equal(t, tu.RubberMinDistance, c.StopDistance)
	assert.Equal(t, StateAlive, c.State)
	assert.Equal(t, 1.0, c.TrailHeight)
	require.Len(t, c.Walls, 1)
}

func TestCycle_FirstAITimerStaysPositive(t *testing.T) {
	ts := NewTestSim(WithAI(3, 0, 0, HeadingEast), WithAI(40, 0, 200, HeadingEast))
	require.NoError(t, ts.Err)

	low, ok := ts.Cycle(3)
	require.True(t, ok)
	assert.InDelta(t, 3.3, low.AITimer, 1e-9)

	high, ok := ts.Cycle(40)
	require.True(t, ok)
	assert.Equal(t, aiTimerMin, high.AITimer)
}

func TestCycle_HumanTurnStartsNewWall(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)
	require.NoError(t, ts.Sim.Turn(1, TurnLeft))

	ts.RunTicks(3)
	require.NoError(t, ts.Err)

	c, _ := ts.Cycle(1)
	assert.Equal(t, HeadingNorth, c.Heading)
	assert.Equal(t, 1, c.WindingOrder)
	require.Len(t, c.Walls, 2)
	assert.Equal(t, c.Walls[0].B, c.Walls[1].A, "walls stay contiguous")
	assert.Less(t, c.Pos.Z, 0.0, "moving toward -Z")
	assert.Equal(t, 1, ts.SimLog.Count(EventTurn, 1))
}

func TestCycle_TurnDelayGatesQueue(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)
	require.NoError(t, ts.Sim.Turn(1, TurnLeft))
	require.NoError(t, ts.Sim.Turn(1, TurnLeft))

	// TurnDelay/speed is about 0.024s: the first tick is too early.
	ts.RunTicks(1)
	c, _ := ts.Cycle(1)
	assert.Equal(t, 2, c.QueuedTurns)

	ts.RunTicks(1)
	c, _ = ts.Cycle(1)
	assert.Equal(t, 1, c.QueuedTurns, "one command per eligible tick")

	ts.RunTicks(10)
	c, _ = ts.Cycle(1)
	assert.Equal(t, 0, c.QueuedTurns)
	assert.Equal(t, HeadingWest, c.Heading)
}

func TestCycle_BrakesAutoRelease(t *testing.T) {
	ts := NewTestSim(WithHuman(1, -300, 0, HeadingEast))
	require.NoError(t, ts.Err)
	require.NoError(t, ts.Sim.SetBraking(1, true))

	ts.RunTicks(1)
	c, _ := ts.Cycle(1)
	assert.InDelta(t, 0.05, c.Brakes, 1e-12)
	assert.True(t, c.Braking)

	released := ts.RunUntil(func(ts *TestSim) bool {
		c, _ := ts.Cycle(1)
		return !c.Braking
	}, 200)
	require.NotEqual(t, -1, released, "brake never released")
	assert.InDelta(t, 100, released, 1, "5 / 0.05 ticks to reach the cap")
	c, _ = ts.Cycle(1)
	assert.InDelta(t, 5.0, c.Brakes, 1e-9)

	ts.RunTicks(1)
	c, _ = ts.Cycle(1)
	assert.Less(t, c.Brakes, 5.0, "brakes restore once released")
}

func TestCycle_BoostRaisesSpeed(t *testing.T) {
	ts := NewTestSim(
		WithHuman(1, -300, -100, HeadingEast),
		WithHuman(2, -300, 100, HeadingEast),
	)
	require.NoError(t, ts.Err)
	require.NoError(t, ts.Sim.SetBoosting(1, true))

	ts.RunTicks(60)
	boosted, _ := ts.Cycle(1)
	plain, _ := ts.Cycle(2)
	assert.Greater(t, boosted.Speed, plain.Speed)
	assert.LessOrEqual(t, boosted.Speed, DefaultTuning().MaxSpeed)
}

func TestCycle_WallAccelBesideTrail(t *testing.T) {
	ts := NewTestSim(
		WithHuman(2, 0, 10, HeadingEast),
		WithHuman(1, -20, 0, HeadingEast),
	)
	require.NoError(t, ts.Err)

	ts.RunTicks(60)
	require.NoError(t, ts.Err)

	c, _ := ts.Cycle(1)
	require.Greater(t, c.Pos.X, 0.0, "cycle 1 is alongside cycle 2's trail")
	assert.True(t, c.WallAccel)
	// Side gap is 10 of a 15 range: (15-10) * (1.5-1)/100 + 1.
	assert.InDelta(t, 1.025, c.WallAccelAmount, 1e-9)

	lead, _ := ts.Cycle(2)
	assert.False(t, lead.WallAccel)
}

func TestCycle_RubberFillsThenSingleCrash(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 200, 0, HeadingEast))
	require.NoError(t, ts.Err)

	prev := -1.0
	colliding := false
	stoppedBeforeCrash := false
	crashTick := ts.RunUntil(func(ts *TestSim) bool {
		c, _ := ts.Cycle(1)
		if c.State != StateAlive {
			return true
		}
		if c.Collision {
			colliding = true
			if c.Rubber < prev {
				t.Fatalf("T=%d rubber decreased under contact: %.4f -> %.4f", ts.CurrentTick(), prev, c.Rubber)
			}
			prev = c.Rubber
			stoppedBeforeCrash = stoppedBeforeCrash || c.Stopped
		} else if colliding {
			t.Fatalf("T=%d contact lost while parked at the rim", ts.CurrentTick())
		}
		if c.Pos.X >= 390 {
			t.Fatalf("T=%d cycle passed the rim at x=%.3f", ts.CurrentTick(), c.Pos.X)
		}
		return false
	}, 2000)
	require.NoError(t, ts.Err)
	require.NotEqual(t, -1, crashTick, "cycle never crashed\n%s", ts.SimLog.Format())

	assert.True(t, stoppedBeforeCrash, "dig settles before rubber runs out")
	c, _ := ts.Cycle(1)
	assert.Equal(t, StateDead, c.State)
	assert.InDelta(t, 390-DefaultTuning().RubberMinDistance, c.Pos.X, 0.01)
	assert.Equal(t, 0.0, c.Speed)

	// Crashing again changes nothing.
	ts.Sim.crash(ts.Sim.slots[1])
	ts.RunTicks(10)
	assert.Equal(t, 1, ts.SimLog.Count(EventCrash, 1))
}

func TestCycle_RubberRestoresWithoutContact(t *testing.T) {
	ts := NewTestSim(WithHuman(1, 0, 0, HeadingEast))
	require.NoError(t, ts.Err)
	ts.Sim.slots[1].rubber = 1

	ts.RunTicks(10)
	c, _ := ts.Cycle(1)
	assert.InDelta(t, 1-10*DefaultTuning().RubberRestoreFactor, c.Rubber, 1e-9)
}

func TestCycle_NonFiniteStateIsAnError(t *testing.T) {
	s := New(DefaultTuning())
	require.NoError(t, s.Spawn(SpawnRequest{ID: 1, Pos: Point{0, 0}, Heading: HeadingEast}))
	s.slots[1].pos = Point{X: math.NaN()}

	err := s.Step(HarnessDelta)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))
}
