package game

import (
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	s := sim.New(sim.DefaultTuning(), sim.WithSeed(3))
	require.NoError(t, s.Spawn(sim.SpawnRequest{ID: 1, Pos: sim.Point{X: 0, Z: 0}, Heading: sim.HeadingEast}))
	require.NoError(t, s.Spawn(sim.SpawnRequest{ID: 2, Pos: sim.Point{X: 0, Z: 100}, Heading: sim.HeadingEast, AI: true}))
	return New(s, Options{Width: 1280, Height: 960, PlayerID: 1, Logger: zerolog.Nop()})
}

func TestGame_LayoutFitsArena(t *testing.T) {
	g := newTestGame(t)

	w, h := g.Layout(0, 0)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 960, h)
	assert.Equal(t, 912, g.FieldSize())
	assert.Equal(t, 1, g.inspector.selected, "player starts selected")
}

func TestGame_SimTickFeedsEvents(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.sim.Turn(1, sim.TurnLeft))

	for i := 0; i < 5; i++ {
		require.NoError(t, g.simTick(1.0/60))
	}

	var spawns, turns int
	for _, e := range g.feed.Recent() {
		switch e.Kind {
		case sim.EventSpawn:
			spawns++
		case sim.EventTurn:
			if e.Cycle == 1 {
				turns++
				assert.Equal(t, "left", e.Value)
			}
		}
	}
	assert.Equal(t, 2, spawns, "spawns before the first tick reach the feed")
	assert.Equal(t, 1, turns)
	assert.Len(t, g.snaps, 2)
	assert.Equal(t, len(g.sim.SimLog().Entries()), g.logCursor)
}

func TestGame_SimTickHonoursPause(t *testing.T) {
	g := newTestGame(t)
	g.sim.TogglePause()

	require.NoError(t, g.simTick(1.0/60))

	assert.Equal(t, 0, g.sim.Tick())
}

func TestEventFeed_RingBuffer(t *testing.T) {
	f := NewEventFeed()
	for i := 0; i < feedCapacity+10; i++ {
		f.Add(sim.Event{Tick: i, Kind: sim.EventTurn})
	}
	f.Add(sim.Event{Tick: 999, Kind: sim.EventMotion})

	got := f.Recent()
	require.Len(t, got, feedCapacity)
	assert.Equal(t, 10, got[0].Tick)
	assert.Equal(t, feedCapacity+9, got[len(got)-1].Tick, "motion samples are not shown")
}

func TestFeedLine(t *testing.T) {
	assert.Equal(t, "   42 C3 crashed (digging)",
		feedLine(sim.Event{Tick: 42, Kind: sim.EventCrash, Name: "C3", Value: "digging"}))
	assert.Equal(t, "    7 C1 turn right",
		feedLine(sim.Event{Tick: 7, Kind: sim.EventTurn, Name: "C1", Value: "right"}))
}

func TestNextSelection(t *testing.T) {
	cases := []struct {
		name string
		ids  []int
		cur  int
		want int
	}{
		{"advances", []int{1, 4, 2}, 1, 4},
		{"wraps", []int{1, 4, 2}, 2, 1},
		{"unknown picks first", []int{1, 4, 2}, 9, 1},
		{"empty keeps current", nil, 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextSelection(tc.ids, tc.cur))
		})
	}
}

func TestView_MapsArenaOntoField(t *testing.T) {
	v := newView(390, 780, 24, 24)

	x, y := v.toScreen(sim.Point{X: -390, Z: -390})
	assert.Equal(t, float32(24), x)
	assert.Equal(t, float32(24), y)

	x, y = v.toScreen(sim.Point{X: 0, Z: 0})
	assert.Equal(t, float32(414), x)
	assert.Equal(t, float32(414), y)

	x, y = v.toScreen(sim.Point{X: 390, Z: 390})
	assert.Equal(t, float32(804), x)
	assert.Equal(t, float32(804), y)
}

func TestWallColor(t *testing.T) {
	base := color.RGBA{R: 40, G: 200, B: 255, A: 255}

	standing := wallColor(base, 0, 1)
	assert.Equal(t, color.RGBA{R: 40, G: 200, B: 255, A: 255}, standing)

	lit := wallColor(base, 1, 1)
	assert.Equal(t, uint8(255), lit.R)
	assert.Equal(t, uint8(255), lit.G)

	flat := wallColor(base, 0, 0)
	assert.Equal(t, uint8(60), flat.A)

	assert.Equal(t, wallColor(base, 1, 1), wallColor(base, 3, 2), "inputs are clamped")
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 0.5, fraction(2.5, 5))
	assert.Equal(t, 1.0, fraction(9, 5))
	assert.Equal(t, 0.0, fraction(-1, 5))
	assert.Equal(t, 0.0, fraction(1, 0))
}

func TestInspectorLines(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.simTick(1.0/60))

	ai, err := g.sim.SnapshotOf(2)
	require.NoError(t, err)
	lines := inspectorLines(ai, g.sim.Tuning())
	assert.Equal(t, "[ C2 #2 ai ]", lines[0])
	assert.Contains(t, lines[len(lines)-1], "ai timer:")

	human, err := g.sim.SnapshotOf(1)
	require.NoError(t, err)
	for _, l := range inspectorLines(human, g.sim.Tuning()) {
		assert.NotContains(t, l, "ai timer")
	}
}

func TestInspector_StatusExpires(t *testing.T) {
	var in Inspector
	in.setStatus("report copied")
	for i := 0; i < inspTicks-1; i++ {
		in.tick()
	}
	assert.Equal(t, "report copied", in.status)
	in.tick()
	assert.Empty(t, in.status)
}
