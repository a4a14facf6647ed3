package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// turnKeys maps the home-row keys onto turn intents: the left hand turns
// left, the right hand turns right.
var turnKeys = []struct {
	key ebiten.Key
	cmd sim.TurnCommand
}{
	{ebiten.KeyA, sim.TurnLeft},
	{ebiten.KeyS, sim.TurnLeft},
	{ebiten.KeyD, sim.TurnLeft},
	{ebiten.KeyF, sim.TurnLeft},
	{ebiten.KeyJ, sim.TurnRight},
	{ebiten.KeyK, sim.TurnRight},
	{ebiten.KeyL, sim.TurnRight},
	{ebiten.KeySemicolon, sim.TurnRight},
}

// Options configures the adapter.
type Options struct {
	Width       int
	Height      int
	PlayerID    int
	AutoRespawn bool
	Logger      zerolog.Logger
}

// Game adapts a *sim.Sim to ebiten: keys become intents, snapshots become
// pixels. It holds no simulation state of its own.
type Game struct {
	sim *sim.Sim
	log zerolog.Logger

	width      int
	height     int
	fieldSize  int // side of the square arena viewport
	offX, offY int
	view       view

	playerID    int
	autoRespawn bool
	respawnTurn int // rotates the heading handed to respawned AI

	feed      *EventFeed
	logCursor int // next SimLog entry to copy into the feed

	showHUD   bool
	inspector Inspector

	// Latest snapshot, taken once per Update and shared by every draw pass.
	snaps []sim.CycleSnapshot
}

// New wraps s for rendering. The player cycle must already be spawned.
func New(s *sim.Sim, opts Options) *Game {
	field := min(opts.Height-2*borderWidth, opts.Width-logPanelWidth-2*borderWidth)
	g := &Game{
		sim:         s,
		log:         opts.Logger,
		width:       opts.Width,
		height:      opts.Height,
		fieldSize:   field,
		offX:        borderWidth,
		offY:        borderWidth,
		playerID:    opts.PlayerID,
		autoRespawn: opts.AutoRespawn,
		feed:        NewEventFeed(),
		showHUD:     true,
		inspector:   Inspector{selected: opts.PlayerID},
	}
	g.view = newView(s.Tuning().ArenaSize, float64(field), float64(g.offX), float64(g.offY))
	g.snaps = s.Snapshot()
	return g
}

// Update runs one ebiten tick: input first, then one simulation step.
func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	return g.simTick(1 / float64(ebiten.TPS()))
}

// simTick advances the arena by dt and refreshes everything drawn from it.
func (g *Game) simTick(dt float64) error {
	// 1. SIMULATE.
	if err := g.sim.Step(dt); err != nil {
		return fmt.Errorf("simulation step: %w", err)
	}

	// 2. RESPAWN: bring collapsed AI back in.
	if g.autoRespawn && !g.sim.Paused() {
		g.respawnAI()
	}

	// 3. FEED: copy new events from the run log.
	entries := g.sim.SimLog().Entries()
	for _, e := range entries[g.logCursor:] {
		g.feed.Add(e)
	}
	g.logCursor = len(entries)

	g.snaps = g.sim.Snapshot()
	g.inspector.tick()
	return nil
}

func (g *Game) handleInput() error {
	for _, tk := range turnKeys {
		if inpututil.IsKeyJustPressed(tk.key) {
			if err := g.sim.Turn(g.playerID, tk.cmd); err != nil {
				return err
			}
		}
	}
	if err := g.sim.SetBraking(g.playerID, ebiten.IsKeyPressed(ebiten.KeySpace)); err != nil {
		return err
	}
	if err := g.sim.SetBoosting(g.playerID, ebiten.IsKeyPressed(ebiten.KeyB)); err != nil {
		return err
	}

	// P: pause/resume. =: single step while paused.
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.sim.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) && g.sim.Paused() {
		if err := g.sim.FrameAdvance(1 / float64(ebiten.TPS())); err != nil {
			return fmt.Errorf("frame advance: %w", err)
		}
	}

	// `: hand the player's cycle to the AI and back.
	if inpututil.IsKeyJustPressed(ebiten.KeyBackquote) {
		if snap, err := g.sim.SnapshotOf(g.playerID); err == nil {
			if err := g.sim.SetAI(g.playerID, !snap.AI); err != nil {
				return err
			}
		}
	}

	// Z: respawn the player. X: respawn the next waiting AI.
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		if _, err := g.sim.RespawnRandom(g.playerID, sim.HeadingNorth); err != nil {
			g.log.Debug().Err(err).Int("cycle", g.playerID).Msg("player respawn refused")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.respawnAI()
	}

	// Tab: inspect the next cycle. C: copy its debug report.
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.inspector.selected = nextSelection(snapshotIDs(g.snaps), g.inspector.selected)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyInspectorReport()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	return nil
}

func (g *Game) respawnAI() {
	h := sim.Heading(g.respawnTurn % 4)
	id, ok, err := g.sim.RespawnNextAI(h)
	if err != nil {
		g.log.Debug().Err(err).Int("cycle", id).Msg("AI respawn deferred")
		return
	}
	if ok {
		g.respawnTurn++
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 6, G: 8, B: 12, A: 255})

	g.drawArena(screen)
	g.drawTrails(screen)
	g.drawCycles(screen)

	logX := g.offX + g.fieldSize + g.offX
	g.feed.Draw(screen, logX, g.height)

	g.drawGauges(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// FieldSize returns the arena viewport side in pixels.
func (g *Game) FieldSize() int {
	return g.fieldSize
}
