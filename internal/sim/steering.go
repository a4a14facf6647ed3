package sim

import "math"

// TurnCommand is one queued steering intent.
type TurnCommand uint8

const (
	TurnLeft TurnCommand = iota + 1
	TurnRight
)

func (t TurnCommand) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "none"
	}
}

// enqueue appends a turn. Rapid presses queue up and execute in order.
func (c *Cycle) enqueue(cmds ...TurnCommand) {
	c.turnQueue = append(c.turnQueue, cmds...)
}

// apply rotates the cycle. A left turn winds the counter up, a right turn
// winds it down.
func (c *Cycle) apply(cmd TurnCommand) {
	switch cmd {
	case TurnLeft:
		c.heading = c.heading.Left()
		c.windingOrder++
	case TurnRight:
		c.heading = c.heading.Right()
		c.windingOrder--
	default:
		return
	}
	c.turned = true
	c.turns++
}

// steer runs the autonomous driver for AI cycles: a short forward probe, or
// the wandering timer, triggers a decision.
func (s *Sim) steer(c *Cycle) {
	if !c.ai {
		return
	}

	reach := s.tuning.WallAccelRange - aiProbeInset
	if c.forceTurn != 0 {
		reach = s.tuning.WallAccelRange - aiForcedInset
	}
	ahead := c.pos.Add(c.heading.Forward().Scale(reach))
	if _, ok := s.detect(c.pos, c.tail(), ahead, true); ok {
		s.decide(c)
		return
	}

	if s.elapsed-c.lastTurnTime > c.aiTimer {
		s.decide(c)
		c.aiTimer = s.rollAITimer()
	}
}

// decide queues the AI's next turn(s). A cycle that has wound tightly one
// way is forced to unwind; otherwise it turns away from the closer side wall,
// or flips a coin when nothing is nearby.
func (s *Sim) decide(c *Cycle) {
	if s.elapsed-c.lastTurnTime <= aiMinTurnGap {
		return
	}

	if !c.left.hit && !c.right.hit {
		c.forceTurn = 0
		c.windingOrder = 0
	}

	switch {
	case c.windingOrder > windingLimit:
		c.enqueue(TurnRight, TurnRight)
		c.windingOrder = windingLimit
		c.forceTurn = -1
	case c.windingOrder < -windingLimit:
		c.enqueue(TurnLeft, TurnLeft)
		c.windingOrder = -windingLimit
		c.forceTurn = 1
	case c.left.hit && c.right.hit:
		if c.left.dist > c.right.dist {
			c.enqueue(TurnLeft)
		} else {
			c.enqueue(TurnRight)
		}
	case c.left.hit:
		c.enqueue(TurnRight)
	case c.right.hit:
		c.enqueue(TurnLeft)
	default:
		if s.rng.Float64() > 0.5 {
			c.enqueue(TurnLeft)
		} else {
			c.enqueue(TurnRight)
		}
	}
}

// rollAITimer draws the next wandering interval from a clamped normal
// distribution.
func (s *Sim) rollAITimer() float64 {
	v := aiTimerMean + math.Sqrt(aiTimerVar)*s.rng.NormFloat64()
	return math.Max(aiTimerMin, math.Min(v, aiTimerMax))
}
