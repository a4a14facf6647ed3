package sim

import (
	"fmt"
	"strings"
)

// EventKind names a simulation event.
type EventKind string

const (
	EventSpawn     EventKind = "spawn"
	EventTurn      EventKind = "turn"
	EventCollision EventKind = "collision"
	EventCrash     EventKind = "crash"
	EventCollapse  EventKind = "collapse"
	EventRemoved   EventKind = "removed"

	// EventMotion is a per-tick motion sample, recorded only by verbose logs.
	EventMotion EventKind = "motion"
)

// Event is one thing that happened during a tick. Presentation layers use
// these to drive sound and flashes; tests use them through SimLog.
type Event struct {
	Tick  int
	Kind  EventKind
	Cycle int
	Name  string
	Value string  // human-readable detail
	Num   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[T=042] C1   collision   rim
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-10s %s", e.Tick, e.Name, e.Kind, e.Value)
}

// Events returns the events raised by the most recent tick. The slice is
// reused by the next tick.
func (s *Sim) Events() []Event {
	return s.events
}

func (s *Sim) emit(kind EventKind, c *Cycle, value string, num float64) {
	e := Event{Tick: s.tick, Kind: kind, Cycle: c.id, Name: c.name, Value: value, Num: num}
	s.events = append(s.events, e)
	s.simLog.Add(e)
}

// SimLog collects every event of a run. Unlike Events it is unbounded and
// spans ticks.
type SimLog struct {
	entries []Event
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick motion samples
// are also recorded through AddVerbose.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records an entry.
func (sl *SimLog) Add(e Event) {
	sl.entries = append(sl.entries, e)
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(e Event) {
	if !sl.verbose {
		return
	}
	sl.Add(e)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []Event {
	return sl.entries
}

// Filter returns entries of the given kind. An empty kind matches all.
func (sl *SimLog) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range sl.entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterCycle returns entries for one cycle ID.
func (sl *SimLog) FilterCycle(id int) []Event {
	var out []Event
	for _, e := range sl.entries {
		if e.Cycle == id {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries of kind were recorded for cycle id, or for
// any cycle when id is negative.
func (sl *SimLog) Count(kind EventKind, id int) int {
	n := 0
	for _, e := range sl.entries {
		if e.Kind == kind && (id < 0 || e.Cycle == id) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry of kind, or false if none.
func (sl *SimLog) LastOf(kind EventKind) (Event, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].Kind == kind {
			return sl.entries[i], true
		}
	}
	return Event{}, false
}

// HasEntry reports whether an entry matches kind and contains valueSubstr.
func (sl *SimLog) HasEntry(kind EventKind, valueSubstr string) bool {
	for _, e := range sl.entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable state summary.
func (sl *SimLog) Summary(tick int, cycles []CycleSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	alive := 0
	for _, c := range cycles {
		if c.State == StateAlive {
			alive++
		}
		fmt.Fprintf(&sb, "%-4s %-16s pos=(%.1f,%.1f) %-5s speed=%.2f rubber=%.2f walls=%d\n",
			c.Name, c.State, c.Pos.X, c.Pos.Z, c.Heading, c.Speed, c.Rubber, len(c.Walls))
	}
	fmt.Fprintf(&sb, "Alive: %d/%d  crashes=%d  turns=%d\n",
		alive, len(cycles), sl.Count(EventCrash, -1), sl.Count(EventTurn, -1))
	return sb.String()
}
