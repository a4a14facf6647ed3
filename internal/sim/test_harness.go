package sim

import (
	"fmt"
	"slices"
)

// HarnessDelta is the fixed frame time the headless harness steps with.
const HarnessDelta = 1.0 / 60

// TestSim is a headless arena harness used by tests and the headless report.
// It mirrors the game loop without any ebiten dependency and supports
// deterministic seeding and structured logging.
type TestSim struct {
	Sim      *Sim
	SimLog   *SimLog
	Reporter *SimReporter

	// Err holds the first spawn or step error; the harness stops advancing
	// once it is set.
	Err error

	tuning      Tuning
	seed        int64
	spawns      []SpawnRequest
	randomAI    []int
	autoRespawn bool
	reportEvery int
	tick        int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // tuning, seed, verbose: applied before the Sim exists
	simOptCycle                      // spawns: applied after the Sim is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithRunSeed sets the RNG seed for deterministic runs.
func WithRunSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithTuning edits the default tuning.
func WithTuning(edit func(*Tuning)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		edit(&ts.tuning)
	}}
}

// WithBroadphase selects the collision broadphase.
func WithBroadphase(name string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tuning.Broadphase = name
	}}
}

// WithVerbose enables per-tick motion samples in SimLog.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithAutoRespawn brings collapsed AI cycles back at random spawn points.
func WithAutoRespawn() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.autoRespawn = true
	}}
}

// WithReportEvery collects an ArenaReport every n ticks.
func WithReportEvery(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.reportEvery = n
	}}
}

// WithHuman adds a player-driven cycle at (x, z).
func WithHuman(id int, x, z float64, h Heading) SimOption {
	return SimOption{simOptCycle, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, SpawnRequest{ID: id, Pos: Point{X: x, Z: z}, Heading: h})
	}}
}

// WithAI adds an AI cycle at (x, z).
func WithAI(id int, x, z float64, h Heading) SimOption {
	return SimOption{simOptCycle, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, SpawnRequest{ID: id, Pos: Point{X: x, Z: z}, Heading: h, AI: true})
	}}
}

// WithRandomAI adds AI cycles at searched spawn points, one per ID.
func WithRandomAI(ids ...int) SimOption {
	return SimOption{simOptCycle, func(ts *TestSim) {
		ts.randomAI = append(ts.randomAI, ids...)
	}}
}

// NewTestSim constructs a TestSim from the given options in two ordered passes:
//  1. Infrastructure (tuning, seed, verbose)
//  2. Cycles, explicit positions first, then random AI spawns
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		SimLog: NewSimLog(false),
		tuning: DefaultTuning(),
		seed:   1,
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.Reporter = NewSimReporter(0)
	ts.Sim = New(ts.tuning, WithSeed(ts.seed), WithSimLog(ts.SimLog))

	for _, o := range opts {
		if o.kind == simOptCycle {
			o.fn(ts)
		}
	}
	for _, req := range ts.spawns {
		if err := ts.Sim.Spawn(req); err != nil {
			ts.fail(err)
		}
	}
	for i, id := range ts.randomAI {
		h := Heading(i % 4)
		if _, err := ts.Sim.SpawnRandom(id, "", h, true); err != nil {
			ts.fail(err)
		}
	}
	return ts
}

func (ts *TestSim) fail(err error) {
	if ts.Err == nil {
		ts.Err = err
	}
}

// RunTicks advances the simulation n ticks at HarnessDelta.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n && ts.Err == nil; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks && ts.Err == nil; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.tick
		}
	}
	return -1
}

// runOneTick mirrors Game.Update for the headless harness.
func (ts *TestSim) runOneTick() {
	if err := ts.Sim.FrameAdvance(HarnessDelta); err != nil {
		ts.fail(err)
		return
	}
	ts.tick = ts.Sim.Tick()

	if ts.autoRespawn {
		if _, _, err := ts.Sim.RespawnNextAI(Heading(ts.tick % 4)); err != nil {
			ts.SimLog.AddVerbose(Event{Tick: ts.tick, Kind: EventSpawn, Cycle: -1, Name: "--", Value: err.Error()})
		}
	}

	snaps := ts.Sim.Snapshot()
	for _, c := range snaps {
		if c.State != StateAlive {
			continue
		}
		ts.SimLog.AddVerbose(Event{
			Tick:  ts.tick,
			Kind:  EventMotion,
			Cycle: c.ID,
			Name:  c.Name,
			Value: fmt.Sprintf("(%.1f,%.1f) %s v=%.2f r=%.2f", c.Pos.X, c.Pos.Z, c.Heading, c.Speed, c.Rubber),
			Num:   c.Speed,
		})
	}
	if ts.reportEvery > 0 && ts.tick%ts.reportEvery == 0 {
		ts.Reporter.Collect(ts.tick, snaps)
	}
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.tick
}

// Cycle returns the snapshot of id; ok is false for an unknown ID.
func (ts *TestSim) Cycle(id int) (CycleSnapshot, bool) {
	snap, err := ts.Sim.SnapshotOf(id)
	return snap, err == nil
}

// Grades summarises every cycle ever spawned, by ID.
func (ts *TestSim) Grades() []CycleGrade {
	ids := make([]int, 0, len(ts.Sim.slots))
	for id := range ts.Sim.slots {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	snaps := make([]CycleSnapshot, 0, len(ids))
	for _, id := range ids {
		snaps = append(snaps, ts.Sim.slots[id].snapshot())
	}
	return GradeCycles(snaps, ts.SimLog)
}
