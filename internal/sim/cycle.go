package sim

import (
	"fmt"
	"math"
)

// CycleState is the crash/respawn lifecycle.
type CycleState uint8

const (
	StateAlive CycleState = iota
	StateDead
	StateCollapsing
	StateRespawnEligible
)

func (s CycleState) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDead:
		return "dead"
	case StateCollapsing:
		return "collapsing"
	default:
		return "respawn_eligible"
	}
}

// sideProbe caches one wall-acceleration probe for the AI.
type sideProbe struct {
	hit   bool
	dist  float64
	owner *Cycle // nil for the rim
}

// Cycle is one light cycle's simulation state. It holds plain data only;
// presentation layers read it through CycleSnapshot.
type Cycle struct {
	id    int
	name  string
	human bool // roster ordering; fixed at spawn
	ai    bool // steering mode; the human cycle may switch to AI

	pos     Point
	heading Heading

	speed        float64
	targetSpeed  float64
	lastSpeed    float64
	friction     float64
	velocity     float64
	brakes       float64
	rubber       float64
	stopDistance float64

	braking          bool
	boosting         bool
	wallAccel        bool
	wallAccelAmount  float64
	collision        bool
	stopped          bool
	collisionHandled bool
	turned           bool

	turnQueue    []TurnCommand
	lastTurnTime float64
	windingOrder int
	forceTurn    int
	aiTimer      float64
	left, right  sideProbe

	state  CycleState
	diedAt float64
	trail  *WallTrail

	// Running totals for reports.
	distance   float64
	turns      int
	collisions int
	maxRubber  float64
}

func newCycle(req SpawnRequest, t Tuning, now float64) *Cycle {
	c := &Cycle{
		id:              req.ID,
		name:            req.Name,
		human:           !req.AI,
		ai:              req.AI,
		pos:             req.Pos,
		heading:         req.Heading,
		speed:           t.StartingSpeed,
		targetSpeed:     t.RegularSpeed,
		lastSpeed:       t.StartingSpeed,
		friction:        frictionSpawn,
		stopDistance:    t.RubberMinDistance,
		wallAccelAmount: 1,
		lastTurnTime:    now,
		aiTimer:         math.Max(aiTimerMin, 3.8-float64(req.ID)/6),
		state:           StateAlive,
		trail:           NewWallTrail(),
	}
	if c.name == "" {
		c.name = fmt.Sprintf("C%d", req.ID)
	}
	c.trail.Begin(c.pos)
	return c
}

// ID returns the cycle's identity, stable across respawns.
func (c *Cycle) ID() int { return c.id }

// Name returns the display label.
func (c *Cycle) Name() string { return c.name }

// Pos returns the current position.
func (c *Cycle) Pos() Point { return c.pos }

// Alive reports whether the cycle is still driving.
func (c *Cycle) Alive() bool { return c.state == StateAlive }

// Trail returns the cycle's wall trail.
func (c *Cycle) Trail() *WallTrail { return c.trail }

// tail is the start of the growing wall; forward probes begin here so the
// cycle's own growing wall is collinear with the probe and never reported.
func (c *Cycle) tail() Point {
	if cur := c.trail.Current(); cur != nil {
		return cur.A
	}
	return c.pos
}

// updateCycle runs one tick for a live cycle. The step order matters: later
// steps consume flags set by earlier ones within the same tick.
func (s *Sim) updateCycle(c *Cycle) error {
	s.executeTurn(c)
	s.updateBrakes(c)
	s.updateSpeed(c)
	s.checkWalls(c)
	s.checkWallAccel(c)
	s.steer(c)
	if s.updateRubber(c) {
		return nil
	}
	s.advance(c)

	if !c.pos.finite() || math.IsNaN(c.speed) {
		return fmt.Errorf("cycle %s at tick %d: %w", c.name, s.tick, ErrNonFinite)
	}
	return nil
}

func (s *Sim) executeTurn(c *Cycle) {
	if len(c.turnQueue) == 0 {
		return
	}
	if s.elapsed-c.lastTurnTime <= s.tuning.TurnDelay/c.speed {
		return
	}
	cmd := c.turnQueue[0]
	c.turnQueue = c.turnQueue[1:]
	c.apply(cmd)
	c.lastTurnTime = s.elapsed
	s.emit(EventTurn, c, cmd.String(), float64(c.windingOrder))
}

func (s *Sim) updateBrakes(c *Cycle) {
	t := s.tuning
	if c.braking {
		c.brakes = math.Min(t.MaxBrakes, c.brakes+t.BrakeUseFactor)
		if c.brakes >= t.MaxBrakes {
			c.braking = false
		}
	} else if c.brakes > 0 {
		c.brakes = math.Max(0, c.brakes-t.BrakeRestoreFactor)
	}
}

func (s *Sim) updateSpeed(c *Cycle) {
	t := s.tuning
	switch {
	case c.braking:
		c.targetSpeed = t.constrainSpeed(c.speed * t.BrakeFactor)
		c.friction = frictionBrake
	case c.boosting:
		c.targetSpeed = t.constrainSpeed(c.speed * t.BoostFactor)
		c.friction = frictionBoost
	case c.wallAccel:
		c.targetSpeed = math.Max(t.RegularSpeed+wallAccelFloor, c.speed*c.wallAccelAmount)
		c.friction = frictionBoost
	default:
		c.targetSpeed = t.RegularSpeed
		if c.speed > c.lastSpeed {
			c.friction = frictionAccel
		} else {
			c.friction = frictionCoast
		}
		c.lastSpeed = c.speed
	}

	if c.turned {
		c.trail.Begin(c.pos)
		c.collisionHandled = false
		c.friction = frictionTurn
		c.targetSpeed = t.constrainSpeed(c.speed * t.TurnSpeedFactor)
		c.turned = false
	}

	c.speed += (c.targetSpeed - c.speed) * c.friction
}

func (s *Sim) checkWalls(c *Cycle) {
	t := s.tuning
	reach := c.pos.Add(c.heading.Forward().Scale(c.speed*2 + t.RubberMinDistance))
	hit, ok := s.detect(c.pos, c.tail(), reach, true)
	if !ok {
		c.stopped = false
		c.collision = false
		c.collisionHandled = false
		return
	}

	if !c.collision {
		c.collisions++
		s.emit(EventCollision, c, hitLabel(hit), hit.Dist)
	}
	c.collision = true

	if !c.collisionHandled {
		s.settleStopDistance(c, hit)
		if !hit.Rim() {
			hit.Owner.trail.Light(hit.WallIndex)
		}
		c.collisionHandled = true
	}

	if !c.stopped {
		s.dig(c, hit)
	}
}

// settleStopDistance picks how far short of the wall the cycle should come
// to rest. Far from its own tail the cycle keeps the rubber minimum; close to
// it the stop distance shrinks, and shrinks harder when a wall also closes in
// from behind.
func (s *Sim) settleStopDistance(c *Cycle, hit CollisionResult) {
	t := s.tuning
	tailToWall := Distance(c.tail(), hit.Point)

	if tailToWall-stopMargin > t.RubberMinDistance {
		if !c.wallAccel || c.wallAccelAmount < wallAccelHold {
			c.stopDistance = t.RubberMinDistance
		}
		return
	}

	c.stopDistance *= 1 - t.RubberMinAdjust

	behind := c.pos.Add(c.heading.Forward().Scale(-(c.speed + t.RubberMinDistance)))
	if _, ok := s.detect(c.pos, c.tail(), behind, true); ok {
		c.stopDistance = tailToWall * (1 - t.RubberMinAdjust)
	}

	if c.stopDistance < minStopDistance {
		c.stopDistance = minStopDistance
	}
}

// dig slows the cycle in proportion to the remaining gap to its stop
// distance instead of halting it outright.
func (s *Sim) dig(c *Cycle, hit CollisionResult) {
	gap := Distance(c.pos, hit.Point) - c.stopDistance
	c.velocity = gap * s.tuning.DigFactor
	if gap < s.tuning.DigEpsilon {
		c.velocity = 0
		c.stopped = true
	}
}

func (s *Sim) checkWallAccel(c *Cycle) {
	r := s.tuning.WallAccelRange
	leftHit, leftOK := s.detect(c.pos, c.pos, c.pos.Add(c.heading.Left().Forward().Scale(r)), true)
	rightHit, rightOK := s.detect(c.pos, c.pos, c.pos.Add(c.heading.Right().Forward().Scale(r)), true)

	c.wallAccel = false
	c.left = sideProbe{}
	c.right = sideProbe{}
	dist := math.Inf(1)

	if leftOK {
		if !leftHit.Rim() {
			c.wallAccel = true
		}
		c.left = sideProbe{hit: true, dist: leftHit.Dist, owner: leftHit.Owner}
		dist = leftHit.Dist
	}
	if rightOK {
		if !rightHit.Rim() {
			c.wallAccel = true
		}
		c.right = sideProbe{hit: true, dist: rightHit.Dist, owner: rightHit.Owner}
		dist = math.Min(dist, rightHit.Dist)
	}

	c.wallAccelAmount = 1
	if leftOK || rightOK {
		c.wallAccelAmount = (r-dist)*((s.tuning.WallAccelFactor-1)/100) + 1
	}
}

// updateRubber fills rubber while in contact and drains it otherwise. It
// reports whether the cycle crashed.
func (s *Sim) updateRubber(c *Cycle) bool {
	t := s.tuning
	c.trail.FadeFlash(t.FlashFade)

	if c.collision {
		c.rubber = math.Min(t.MaxRubber, c.rubber+c.speed*t.RubberUseFactor)
		c.maxRubber = math.Max(c.maxRubber, c.rubber)
		if c.rubber >= t.MaxRubber {
			s.crash(c)
			return true
		}
		return false
	}
	if c.rubber > 0 {
		c.rubber = math.Max(0, c.rubber-t.RubberRestoreFactor)
	}
	return false
}

func (s *Sim) advance(c *Cycle) {
	if c.stopped {
		return
	}
	if !c.collision {
		c.velocity = c.speed
	}
	d := c.velocity * s.frameScale
	c.pos = c.pos.Add(c.heading.Forward().Scale(d))
	c.trail.Extend(c.pos, d)
	c.trail.Trim(s.tuning.MaxTailLength)
	c.distance += d
}

func hitLabel(hit CollisionResult) string {
	if hit.Rim() {
		return "rim"
	}
	return fmt.Sprintf("%s#%d", hit.Owner.name, hit.WallIndex)
}
