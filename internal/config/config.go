package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Garsondee/Light-Cycles/internal/sim"
)

// FileName is the config file looked up in the config directory.
const FileName = "lightcycles.cfg.json"

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// leaves the defaults in place.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("seed", int64(1))

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 960)

	viper.SetDefault("ai.opponents", 3)
	viper.SetDefault("ai.autoRespawn", true)

	viper.SetDefault("collision.broadphase", sim.BroadphaseScan)

	viper.SetDefault("report.runs", 5)
	viper.SetDefault("report.ticks", 3600)
	viper.SetDefault("report.every", 60)

	setTuningDefaults(sim.DefaultTuning())

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func setTuningDefaults(t sim.Tuning) {
	viper.SetDefault("tuning.arenaSize", t.ArenaSize)

	viper.SetDefault("tuning.maxRubber", t.MaxRubber)
	viper.SetDefault("tuning.maxSpeed", t.MaxSpeed)
	viper.SetDefault("tuning.regularSpeed", t.RegularSpeed)
	viper.SetDefault("tuning.startingSpeed", t.StartingSpeed)
	viper.SetDefault("tuning.maxBrakes", t.MaxBrakes)

	viper.SetDefault("tuning.maxTailLength", t.MaxTailLength)
	viper.SetDefault("tuning.turnDelay", t.TurnDelay)

	viper.SetDefault("tuning.wallAccelRange", t.WallAccelRange)
	viper.SetDefault("tuning.wallAccelFactor", t.WallAccelFactor)

	viper.SetDefault("tuning.rubberMinDistance", t.RubberMinDistance)
	viper.SetDefault("tuning.rubberMinAdjust", t.RubberMinAdjust)
	viper.SetDefault("tuning.digFactor", t.DigFactor)
	viper.SetDefault("tuning.digEpsilon", t.DigEpsilon)

	viper.SetDefault("tuning.rubberUseFactor", t.RubberUseFactor)
	viper.SetDefault("tuning.rubberRestoreFactor", t.RubberRestoreFactor)
	viper.SetDefault("tuning.brakeUseFactor", t.BrakeUseFactor)
	viper.SetDefault("tuning.brakeRestoreFactor", t.BrakeRestoreFactor)

	viper.SetDefault("tuning.brakeFactor", t.BrakeFactor)
	viper.SetDefault("tuning.boostFactor", t.BoostFactor)
	viper.SetDefault("tuning.turnSpeedFactor", t.TurnSpeedFactor)

	viper.SetDefault("tuning.collapseDelay", t.CollapseDelay)
	viper.SetDefault("tuning.collapseRate", t.CollapseRate)
	viper.SetDefault("tuning.flashFade", t.FlashFade)

	viper.SetDefault("tuning.spawnProbeLength", t.SpawnProbeLength)
	viper.SetDefault("tuning.spawnMaxAttempts", t.SpawnMaxAttempts)

	viper.SetDefault("tuning.referenceFPS", t.ReferenceFPS)
	viper.SetDefault("tuning.maxFrameDelta", t.MaxFrameDelta)
}

// Tuning decodes the tuning block over the stock values. The broadphase is
// taken from collision.broadphase.
func Tuning() (sim.Tuning, error) {
	t := sim.DefaultTuning()
	if err := viper.UnmarshalKey("tuning", &t); err != nil {
		return sim.Tuning{}, fmt.Errorf("error decoding tuning: %w", err)
	}
	t.Broadphase = viper.GetString("collision.broadphase")

	switch t.Broadphase {
	case sim.BroadphaseScan, sim.BroadphaseRTree:
	default:
		return sim.Tuning{}, fmt.Errorf("unknown collision.broadphase %q", t.Broadphase)
	}
	if t.ArenaSize <= 0 || t.MaxSpeed <= 0 || t.ReferenceFPS <= 0 {
		return sim.Tuning{}, fmt.Errorf("tuning: arenaSize, maxSpeed and referenceFPS must be positive")
	}
	return t, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns an int64 config value.
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
