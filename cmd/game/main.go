package main

import (
	"flag"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Light-Cycles/internal/config"
	"github.com/Garsondee/Light-Cycles/internal/game"
	"github.com/Garsondee/Light-Cycles/internal/logging"
	"github.com/Garsondee/Light-Cycles/internal/sim"
)

const playerID = 1

func main() {
	configDir := flag.String("config", ".", "directory holding "+config.FileName)
	flag.Parse()

	// Console logging until the config has been read.
	log := logging.New(os.Stderr, nil, "info")
	if err := config.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	var logFile io.Writer
	if path := config.GetString("logFile"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("open log file")
		}
		defer f.Close()
		logFile = f
	}
	log = logging.New(os.Stderr, logFile, config.GetString("logLevel"))

	tuning, err := config.Tuning()
	if err != nil {
		log.Fatal().Err(err).Msg("tuning")
	}

	s := sim.New(tuning,
		sim.WithSeed(config.GetInt64("seed")),
		sim.WithLogger(log),
	)
	if _, err := s.SpawnRandom(playerID, "YOU", sim.HeadingNorth, false); err != nil {
		log.Fatal().Err(err).Msg("spawn player")
	}
	for i := 0; i < config.GetInt("ai.opponents"); i++ {
		id := playerID + 1 + i
		if _, err := s.SpawnRandom(id, "", sim.Heading((i+1)%4), true); err != nil {
			log.Warn().Err(err).Int("cycle", id).Msg("opponent left out")
		}
	}
	log.Info().
		Int("opponents", config.GetInt("ai.opponents")).
		Str("broadphase", tuning.Broadphase).
		Float64("arena", tuning.ArenaSize).
		Msg("arena ready")

	width, height := config.GetInt("window.width"), config.GetInt("window.height")
	ebiten.SetWindowTitle("Light Cycles")
	ebiten.SetWindowSize(width, height)
	g := game.New(s, game.Options{
		Width:       width,
		Height:      height,
		PlayerID:    playerID,
		AutoRespawn: config.GetBool("ai.autoRespawn"),
		Logger:      log,
	})
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("game loop")
	}
}
