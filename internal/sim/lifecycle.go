package sim

// crash freezes a live cycle in place. Its trail stays in the roster and
// keeps blocking other cycles until it has collapsed. Crashing a cycle that
// is already dead does nothing.
func (s *Sim) crash(c *Cycle) {
	if c.state != StateAlive {
		return
	}
	c.speed = 0
	c.targetSpeed = 0
	c.velocity = 0
	c.state = StateDead
	c.diedAt = s.elapsed
	c.turnQueue = nil

	s.emit(EventCrash, c, hitSide(c), c.rubber)
	s.metrics.crash(c.ai)
	s.log.Info().
		Int("cycle", c.id).
		Str("name", c.name).
		Int("tick", s.tick).
		Float64("x", c.pos.X).
		Float64("z", c.pos.Z).
		Msg("cycle crashed")
}

// updateDead advances the post-crash timers: after CollapseDelay the trail
// starts sinking, and once flat it is discarded and the ID may respawn.
func (s *Sim) updateDead(c *Cycle) {
	c.trail.FadeFlash(s.tuning.FlashFade)

	switch c.state {
	case StateDead:
		if s.elapsed-c.diedAt >= s.tuning.CollapseDelay {
			c.state = StateCollapsing
			s.emit(EventCollapse, c, "", c.trail.NetLength())
		}
	case StateCollapsing:
		if c.trail.Collapse(s.tuning.CollapseRate * s.frameScale) {
			c.state = StateRespawnEligible
			s.emit(EventRemoved, c, "", 0)
			s.log.Debug().Int("cycle", c.id).Int("tick", s.tick).Msg("trail collapsed")
		}
	}
}

func hitSide(c *Cycle) string {
	if c.stopped {
		return "stopped"
	}
	return "digging"
}
