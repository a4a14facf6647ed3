package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

const (
	logPanelWidth = 320
	feedCapacity  = 60
)

// EventFeed is a ring buffer of simulation events rendered on-screen.
type EventFeed struct {
	entries []sim.Event
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]sim.Event, feedCapacity),
	}
}

// Add appends an event, overwriting the oldest once full. Motion samples
// are dropped.
func (f *EventFeed) Add(e sim.Event) {
	if e.Kind == sim.EventMotion {
		return
	}
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedCapacity
	if f.count < feedCapacity {
		f.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []sim.Event {
	result := make([]sim.Event, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedCapacity) % feedCapacity
		result[i] = f.entries[idx]
	}
	return result
}

func feedLine(e sim.Event) string {
	switch e.Kind {
	case sim.EventCrash:
		return fmt.Sprintf("%5d %s crashed (%s)", e.Tick, e.Name, e.Value)
	case sim.EventSpawn:
		return fmt.Sprintf("%5d %s entered heading %s", e.Tick, e.Name, e.Value)
	case sim.EventCollision:
		return fmt.Sprintf("%5d %s near %s d=%.1f", e.Tick, e.Name, e.Value, e.Num)
	case sim.EventCollapse:
		return fmt.Sprintf("%5d %s trail falling", e.Tick, e.Name)
	case sim.EventRemoved:
		return fmt.Sprintf("%5d %s derezzed", e.Tick, e.Name)
	default:
		return fmt.Sprintf("%5d %s %s %s", e.Tick, e.Name, e.Kind, e.Value)
	}
}

// Draw renders the feed panel on the right side of the screen.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 8, G: 10, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 100, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 18, color.RGBA{R: 16, G: 22, B: 34, A: 255}, false)
	drawText(screen, "ARENA FEED", panelX+8, 2, color.White)

	entries := f.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / hudLineH
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const recent = 3

	y := 22
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), hudLineH, color.RGBA{R: 24, G: 32, B: 48, A: 160}, false)
		}
		// Cycle colour marker.
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, cycleColor(e.Cycle), false)
		drawText(screen, feedLine(e), panelX+12, y, color.RGBA{R: 210, G: 215, B: 225, A: 255})
		y += hudLineH
	}
}
