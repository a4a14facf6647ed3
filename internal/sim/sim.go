// Package sim is the light-cycle simulation core: trail geometry, collision
// probes, the per-cycle speed/rubber state machine and AI steering. It has
// no rendering or audio dependencies.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

var (
	// ErrNonFinite is returned by Step when a cycle's position or speed
	// becomes NaN or infinite. It is a logic fault, never clamped away.
	ErrNonFinite = errors.New("non-finite cycle state")
	// ErrUnknownCycle is returned for inputs addressed to an ID never spawned.
	ErrUnknownCycle = errors.New("unknown cycle")
	// ErrNotRespawnable is returned when spawning an ID whose previous
	// instance has not finished collapsing.
	ErrNotRespawnable = errors.New("cycle is not respawn eligible")
	// ErrSpawnBlocked is returned when a requested spawn point would
	// immediately collide.
	ErrSpawnBlocked = errors.New("spawn point blocked")
	// ErrNoSpawnPoint is returned when the random spawn search gives up.
	ErrNoSpawnPoint = errors.New("no collision-free spawn point found")
)

// Sim owns every cycle, the arena rim and the simulation clock. It is not
// safe for concurrent use; one goroutine drives Step and the inputs.
type Sim struct {
	tuning   Tuning
	rng      *rand.Rand
	log      zerolog.Logger
	simLog   *SimLog
	metrics  *telemetry
	detector *Detector
	rim      []Point

	slots  map[int]*Cycle // latest instance per ID
	roster []*Cycle       // cycles whose trails are still in play, in update order

	tick       int
	elapsed    float64
	frameScale float64
	paused     bool
	events     []Event
}

// Option configures a Sim at construction.
type Option func(*Sim)

// WithSeed seeds the simulation RNG (AI coin flips, timers, spawn search).
func WithSeed(seed int64) Option {
	return func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
	}
}

// WithLogger routes diagnostic logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sim) {
		s.log = l
	}
}

// WithSimLog records simulation events into sl.
func WithSimLog(sl *SimLog) Option {
	return func(s *Sim) {
		s.simLog = sl
	}
}

// New builds an empty arena. Cycles enter through Spawn or SpawnRandom.
func New(t Tuning, opts ...Option) *Sim {
	s := &Sim{
		tuning: t,
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- default seed
		log:    zerolog.Nop(),
		simLog: NewSimLog(false),
		slots:  make(map[int]*Cycle),
		rim:    rimPoints(t.ArenaSize),
	}
	for _, o := range opts {
		o(s)
	}
	s.detector = NewDetector(s.rim, t.Broadphase)
	s.metrics = newTelemetry(s.log)
	return s
}

// Tuning returns the active constants.
func (s *Sim) Tuning() Tuning { return s.tuning }

// Tick returns the number of ticks simulated.
func (s *Sim) Tick() int { return s.tick }

// Elapsed returns simulated seconds.
func (s *Sim) Elapsed() float64 { return s.elapsed }

// Rim returns the arena boundary polygon.
func (s *Sim) Rim() []Point { return s.rim }

// SimLog returns the event record.
func (s *Sim) SimLog() *SimLog { return s.simLog }

// Paused reports whether Step is gated.
func (s *Sim) Paused() bool { return s.paused }

// TogglePause flips the pause gate. Resuming drops turns queued while paused.
func (s *Sim) TogglePause() {
	s.paused = !s.paused
	if s.paused {
		return
	}
	for _, c := range s.roster {
		c.turnQueue = nil
	}
}

// Step advances the arena by dt seconds unless paused.
func (s *Sim) Step(dt float64) error {
	if s.paused {
		return nil
	}
	return s.FrameAdvance(dt)
}

// FrameAdvance advances exactly one tick regardless of the pause gate. dt is
// clamped to MaxFrameDelta; motion is scaled by dt*ReferenceFPS rather than
// sub-stepped.
func (s *Sim) FrameAdvance(dt float64) error {
	if dt <= 0 {
		return nil
	}
	if dt > s.tuning.MaxFrameDelta {
		dt = s.tuning.MaxFrameDelta
	}

	s.tick++
	s.elapsed += dt
	s.frameScale = dt * s.tuning.ReferenceFPS
	s.events = s.events[:0]

	for _, c := range s.roster {
		if c.state == StateAlive {
			if err := s.updateCycle(c); err != nil {
				return err
			}
			continue
		}
		s.updateDead(c)
	}

	kept := s.roster[:0]
	for _, c := range s.roster {
		if c.state != StateRespawnEligible {
			kept = append(kept, c)
		}
	}
	clear(s.roster[len(kept):])
	s.roster = kept

	s.metrics.tick()
	return nil
}

// detect probes a→b against the current roster, ranking hits from origin.
func (s *Sim) detect(origin, a, b Point, includeRim bool) (CollisionResult, bool) {
	return s.detector.Detect(s.roster, origin, a, b, includeRim)
}

// Probe runs a detector query on behalf of the environment.
func (s *Sim) Probe(a, b Point, includeRim bool) (CollisionResult, bool) {
	return s.detect(a, a, b, includeRim)
}

func (s *Sim) lookup(id int) (*Cycle, error) {
	c, ok := s.slots[id]
	if !ok {
		return nil, fmt.Errorf("cycle %d: %w", id, ErrUnknownCycle)
	}
	return c, nil
}

// Cycle returns the latest instance for id.
func (s *Sim) Cycle(id int) (*Cycle, bool) {
	c, ok := s.slots[id]
	return c, ok
}

// Turn queues a turn for a live cycle. Turns addressed to dead cycles are
// dropped.
func (s *Sim) Turn(id int, cmd TurnCommand) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	if c.state == StateAlive {
		c.enqueue(cmd)
	}
	return nil
}

// SetBraking engages or releases the brake.
func (s *Sim) SetBraking(id int, on bool) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	c.braking = on
	return nil
}

// SetBoosting engages or releases the boost.
func (s *Sim) SetBoosting(id int, on bool) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	c.boosting = on
	return nil
}

// SetAI hands a cycle to (or takes it back from) the autonomous driver.
func (s *Sim) SetAI(id int, on bool) error {
	c, err := s.lookup(id)
	if err != nil {
		return err
	}
	c.ai = on
	return nil
}
