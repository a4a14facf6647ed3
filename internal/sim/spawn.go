package sim

import (
	"fmt"
	"math"
	"slices"
)

// SpawnRequest asks for a cycle to enter the arena.
type SpawnRequest struct {
	ID      int
	Name    string
	Pos     Point
	Heading Heading
	AI      bool
}

// Spawn places a fresh cycle at req.Pos. The point must be inside the rim and
// a forward probe of SpawnProbeLength must be clear; otherwise
// ErrSpawnBlocked is returned. An ID whose previous instance is still alive
// or collapsing cannot respawn.
func (s *Sim) Spawn(req SpawnRequest) error {
	if prev, ok := s.slots[req.ID]; ok && prev.state != StateRespawnEligible {
		return fmt.Errorf("cycle %d is %s: %w", req.ID, prev.state, ErrNotRespawnable)
	}
	if !s.spawnClear(req.Pos, req.Heading) {
		s.metrics.rejectSpawn()
		return fmt.Errorf("cycle %d at (%.1f,%.1f): %w", req.ID, req.Pos.X, req.Pos.Z, ErrSpawnBlocked)
	}

	c := newCycle(req, s.tuning, s.elapsed)
	s.slots[req.ID] = c
	s.place(c)

	s.emit(EventSpawn, c, req.Heading.String(), 0)
	s.metrics.respawn(c.ai)
	s.log.Info().
		Int("cycle", c.id).
		Str("name", c.name).
		Bool("ai", c.ai).
		Float64("x", c.pos.X).
		Float64("z", c.pos.Z).
		Msg("cycle spawned")
	return nil
}

// SpawnRandom searches for a clear spawn point behind the arena centre
// relative to heading h and spawns there. The search gives up after
// SpawnMaxAttempts candidates.
func (s *Sim) SpawnRandom(id int, name string, h Heading, ai bool) (Point, error) {
	p, err := s.FindSpawn(h)
	if err != nil {
		return Point{}, fmt.Errorf("cycle %d: %w", id, err)
	}
	req := SpawnRequest{ID: id, Name: name, Pos: p, Heading: h, AI: ai}
	if err := s.Spawn(req); err != nil {
		return Point{}, err
	}
	return p, nil
}

// FindSpawn returns a random collision-free point for a cycle facing h. The
// candidate band sits between spawnBackMin and ArenaSize-spawnBackInset units
// behind the centre and spans half the arena across.
func (s *Sim) FindSpawn(h Heading) (Point, error) {
	size := s.tuning.ArenaSize
	fwd := h.Forward()
	side := h.Left().Forward()
	back := math.Max(spawnBackMin, size-spawnBackInset)

	for attempt := 0; attempt < s.tuning.SpawnMaxAttempts; attempt++ {
		along := -(spawnBackMin + s.rng.Float64()*(back-spawnBackMin))
		across := (s.rng.Float64()*size*2 - size) / 2
		p := fwd.Scale(along).Add(side.Scale(across))
		if s.spawnClear(p, h) {
			return p, nil
		}
		s.metrics.rejectSpawn()
		s.log.Debug().Int("attempt", attempt).Float64("x", p.X).Float64("z", p.Z).Msg("spawn candidate rejected")
	}
	return Point{}, ErrNoSpawnPoint
}

func (s *Sim) spawnClear(p Point, h Heading) bool {
	size := s.tuning.ArenaSize
	if math.Abs(p.X) >= size || math.Abs(p.Z) >= size {
		return false
	}
	ahead := p.Add(h.Forward().Scale(s.tuning.SpawnProbeLength))
	_, hit := s.detect(p, p, ahead, true)
	return !hit
}

// place inserts c into the roster: human cycles ahead of AI cycles, each
// group in spawn order.
func (s *Sim) place(c *Cycle) {
	if !c.human {
		s.roster = append(s.roster, c)
		return
	}
	at := 0
	for at < len(s.roster) && s.roster[at].human {
		at++
	}
	s.roster = append(s.roster, nil)
	copy(s.roster[at+1:], s.roster[at:])
	s.roster[at] = c
}

// Respawnable returns the IDs whose cycles may spawn again, in ascending
// order. ai selects computer-driven slots; a human player on autopilot
// still counts as human.
func (s *Sim) Respawnable(ai bool) []int {
	var out []int
	for id, c := range s.slots {
		if c.state == StateRespawnEligible && !c.human == ai {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// RespawnNextAI brings back the lowest-numbered collapsed AI cycle at a
// searched spawn point. ok is false when no AI cycle is waiting.
func (s *Sim) RespawnNextAI(h Heading) (id int, ok bool, err error) {
	ids := s.Respawnable(true)
	if len(ids) == 0 {
		return 0, false, nil
	}
	id = ids[0]
	if _, err := s.RespawnRandom(id, h); err != nil {
		return id, false, err
	}
	return id, true, nil
}

// Respawn brings a collapsed cycle back at pos, keeping its name and
// driver. A human cycle that was switched to AI returns under human control.
func (s *Sim) Respawn(id int, pos Point, h Heading) error {
	prev, err := s.lookup(id)
	if err != nil {
		return err
	}
	return s.Spawn(SpawnRequest{ID: id, Name: prev.name, Pos: pos, Heading: h, AI: !prev.human})
}

// RespawnRandom respawns id at a searched spawn point.
func (s *Sim) RespawnRandom(id int, h Heading) (Point, error) {
	prev, err := s.lookup(id)
	if err != nil {
		return Point{}, err
	}
	if prev.state != StateRespawnEligible {
		return Point{}, fmt.Errorf("cycle %d is %s: %w", id, prev.state, ErrNotRespawnable)
	}
	p, err := s.FindSpawn(h)
	if err != nil {
		return Point{}, fmt.Errorf("cycle %d: %w", id, err)
	}
	if err := s.Respawn(id, p, h); err != nil {
		return Point{}, err
	}
	return p, nil
}
