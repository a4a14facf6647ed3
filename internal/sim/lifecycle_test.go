package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crashAtRim drives a lone human cycle into the east rim and returns the
// harness at the crash tick.
func crashAtRim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	opts = append([]SimOption{WithHuman(1, 200, 0, HeadingEast)}, opts...)
	ts := NewTestSim(opts...)
	require.NoError(t, ts.Err)

	tick := ts.RunUntil(func(ts *TestSim) bool {
		c, _ := ts.Cycle(1)
		return c.State == StateDead
	}, 2000)
	require.NoError(t, ts.Err)
	require.NotEqual(t, -1, tick, "cycle never crashed")
	return ts
}

func TestLifecycle_CollapseAfterDelay(t *testing.T) {
	ts := crashAtRim(t)
	crashed := ts.CurrentTick()

	collapsing := ts.RunUntil(func(ts *TestSim) bool {
		c, _ := ts.Cycle(1)
		return c.State == StateCollapsing
	}, 500)
	require.NotEqual(t, -1, collapsing)
	// 1.5s at 60 ticks per second.
	assert.InDelta(t, 90, collapsing-crashed, 1)

	c, _ := ts.Cycle(1)
	assert.NotEmpty(t, c.Walls, "walls stand until fully collapsed")

	removed := ts.RunUntil(func(ts *TestSim) bool {
		c, _ := ts.Cycle(1)
		return c.State == StateRespawnEligible
	}, 500)
	require.NotEqual(t, -1, removed)
	// Height 1 at 0.04 per reference frame.
	assert.InDelta(t, 25, removed-collapsing, 1)

	assert.Empty(t, ts.Sim.Snapshot(), "collapsed cycle left the roster")
	assert.Equal(t, []int{1}, ts.Sim.Respawnable(false))
	assert.Empty(t, ts.Sim.Respawnable(true))
	assert.Equal(t, 1, ts.SimLog.Count(EventCollapse, 1))
	assert.Equal(t, 1, ts.SimLog.Count(EventRemoved, 1))
}

func TestLifecycle_DeadTrailStillBlocks(t *testing.T) {
	ts := crashAtRim(t)

	err := ts.Sim.Spawn(SpawnRequest{ID: 2, Pos: Point{300, -100}, Heading: HeadingSouth})
	assert.True(t, errors.Is(err, ErrSpawnBlocked), "the crashed cycle's trail is still solid")
}

func TestLifecycle_RespawnKeepsIdentity(t *testing.T) {
	ts := crashAtRim(t)
	require.NoError(t, ts.Sim.Turn(1, TurnLeft), "turns to a dead cycle are dropped, not errors")

	err := ts.Sim.Respawn(1, Point{0, 0}, HeadingWest)
	assert.True(t, errors.Is(err, ErrNotRespawnable), "cannot respawn while the trail stands")

	ts.RunUntil(func(ts *TestSim) bool {
		c, _ := ts.Cycle(1)
		return c.State == StateRespawnEligible
	}, 500)
	require.NoError(t, ts.Sim.SetAI(1, true))

	require.NoError(t, ts.Sim.Respawn(1, Point{0, 0}, HeadingWest))
	c, _ := ts.Cycle(1)
	assert.Equal(t, StateAlive, c.State)
	assert.Equal(t, "C1", c.Name)
	assert.False(t, c.AI, "a human cycle respawns under human control")
	assert.Equal(t, 0.0, c.Rubber)
	assert.Equal(t, 1.0, c.TrailHeight)
	assert.Equal(t, 2, ts.SimLog.Count(EventSpawn, 1))
}

func TestLifecycle_AutoRespawnBringsAIBack(t *testing.T) {
	ts := NewTestSim(WithAI(1, 200, 0, HeadingEast), WithAutoRespawn())
	require.NoError(t, ts.Err)
	ts.Sim.crash(ts.Sim.slots[1])

	back := ts.RunUntil(func(ts *TestSim) bool {
		return ts.SimLog.Count(EventSpawn, 1) == 2
	}, 600)
	require.NotEqual(t, -1, back, "AI never respawned\n%s", ts.SimLog.Format())
	c, _ := ts.Cycle(1)
	assert.Equal(t, StateAlive, c.State)
	assert.True(t, c.AI)
}

func TestLifecycle_RespawnNextAIIgnoresHumans(t *testing.T) {
	cases := []struct {
		name      string
		autopilot bool
	}{
		{"driving", false},
		{"on autopilot", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := crashAtRim(t)
			require.NoError(t, ts.Sim.SetAI(1, tc.autopilot))
			tick := ts.RunUntil(func(ts *TestSim) bool {
				c, _ := ts.Cycle(1)
				return c.State == StateRespawnEligible
			}, 500)
			require.NotEqual(t, -1, tick)

			assert.Empty(t, ts.Sim.Respawnable(true))
			assert.Equal(t, []int{1}, ts.Sim.Respawnable(false))

			_, ok, err := ts.Sim.RespawnNextAI(HeadingEast)
			require.NoError(t, err)
			assert.False(t, ok)
			c, _ := ts.Cycle(1)
			assert.Equal(t, StateRespawnEligible, c.State, "player stays down")
		})
	}
}
