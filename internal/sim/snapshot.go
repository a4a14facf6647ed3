package sim

// CycleSnapshot is a read-only copy of one cycle's state for renderers and
// reports.
type CycleSnapshot struct {
	ID      int
	Name    string
	AI      bool
	Human   bool
	State   CycleState
	Pos     Point
	Heading Heading

	Speed        float64
	TargetSpeed  float64
	Velocity     float64
	Brakes       float64
	Rubber       float64
	StopDistance float64

	Braking         bool
	Boosting        bool
	WallAccel       bool
	WallAccelAmount float64
	Collision       bool
	Stopped         bool

	QueuedTurns  int
	WindingOrder int
	AITimer      float64

	Walls       []Wall
	TrailLength float64
	TrailHeight float64

	Distance   float64
	Turns      int
	Collisions int
	MaxRubber  float64
}

// Snapshot returns the state of every cycle in the roster, in update order.
// Cycles that have fully collapsed are not included.
func (s *Sim) Snapshot() []CycleSnapshot {
	out := make([]CycleSnapshot, 0, len(s.roster))
	for _, c := range s.roster {
		out = append(out, c.snapshot())
	}
	return out
}

// SnapshotOf returns the state of the latest instance of id, including a
// cycle that has left the roster.
func (s *Sim) SnapshotOf(id int) (CycleSnapshot, error) {
	c, err := s.lookup(id)
	if err != nil {
		return CycleSnapshot{}, err
	}
	return c.snapshot(), nil
}

func (c *Cycle) snapshot() CycleSnapshot {
	return CycleSnapshot{
		ID:      c.id,
		Name:    c.name,
		AI:      c.ai,
		Human:   c.human,
		State:   c.state,
		Pos:     c.pos,
		Heading: c.heading,

		Speed:        c.speed,
		TargetSpeed:  c.targetSpeed,
		Velocity:     c.velocity,
		Brakes:       c.brakes,
		Rubber:       c.rubber,
		StopDistance: c.stopDistance,

		Braking:         c.braking,
		Boosting:        c.boosting,
		WallAccel:       c.wallAccel,
		WallAccelAmount: c.wallAccelAmount,
		Collision:       c.collision,
		Stopped:         c.stopped,

		QueuedTurns:  len(c.turnQueue),
		WindingOrder: c.windingOrder,
		AITimer:      c.aiTimer,

		Walls:       c.trail.Walls(),
		TrailLength: c.trail.NetLength(),
		TrailHeight: c.trail.Height,

		Distance:   c.distance,
		Turns:      c.turns,
		Collisions: c.collisions,
		MaxRubber:  c.maxRubber,
	}
}
