package sim

import "math"

// Friction constants for the exponential speed approach. Acceleration uses a
// stiff friction for a snappy response, coasting a loose one.
const (
	frictionSpawn = 0.005
	frictionBrake = 0.03
	frictionBoost = 0.05
	frictionAccel = 0.05
	frictionCoast = 0.002
	frictionTurn  = 0.08
)

const (
	// wallAccelFloor is the minimum bonus over regular speed inside a
	// wall-acceleration zone.
	wallAccelFloor = 0.2
	// wallAccelHold keeps the stop distance untouched while a strong
	// wall-acceleration bonus is active.
	wallAccelHold = 1.05
	// stopMargin is subtracted from the tail-to-wall gap before comparing it
	// with the rubber minimum distance.
	stopMargin = 0.9
	// minStopDistance floors the shrinking stop distance.
	minStopDistance = 0.001

	aiProbeInset   = 2.0
	aiForcedInset  = 8.0
	aiMinTurnGap   = 0.1
	aiTimerMean    = 1.5
	aiTimerVar     = 2.0
	aiTimerMin     = 0.5
	aiTimerMax     = 4.0
	windingLimit   = 3
	spawnBackInset = 20.0
	spawnBackMin   = 200.0
)

// Broadphase names accepted by Tuning.Broadphase.
const (
	BroadphaseScan  = "scan"
	BroadphaseRTree = "rtree"
)

// Tuning holds every gameplay constant. Speeds are in arena units per
// reference frame; rates are per tick unless noted.
type Tuning struct {
	ArenaSize float64 `mapstructure:"arenaSize"`

	MaxRubber     float64 `mapstructure:"maxRubber"`
	MaxSpeed      float64 `mapstructure:"maxSpeed"`
	RegularSpeed  float64 `mapstructure:"regularSpeed"`
	StartingSpeed float64 `mapstructure:"startingSpeed"`
	MaxBrakes     float64 `mapstructure:"maxBrakes"`

	MaxTailLength float64 `mapstructure:"maxTailLength"`
	TurnDelay     float64 `mapstructure:"turnDelay"` // seconds, divided by speed

	WallAccelRange  float64 `mapstructure:"wallAccelRange"`
	WallAccelFactor float64 `mapstructure:"wallAccelFactor"`

	RubberMinDistance float64 `mapstructure:"rubberMinDistance"`
	RubberMinAdjust   float64 `mapstructure:"rubberMinAdjust"`
	DigFactor         float64 `mapstructure:"digFactor"`
	DigEpsilon        float64 `mapstructure:"digEpsilon"`

	RubberUseFactor     float64 `mapstructure:"rubberUseFactor"`
	RubberRestoreFactor float64 `mapstructure:"rubberRestoreFactor"`
	BrakeUseFactor      float64 `mapstructure:"brakeUseFactor"`
	BrakeRestoreFactor  float64 `mapstructure:"brakeRestoreFactor"`

	BrakeFactor     float64 `mapstructure:"brakeFactor"`
	BoostFactor     float64 `mapstructure:"boostFactor"`
	TurnSpeedFactor float64 `mapstructure:"turnSpeedFactor"`

	CollapseDelay float64 `mapstructure:"collapseDelay"` // seconds
	CollapseRate  float64 `mapstructure:"collapseRate"`  // height per reference frame
	FlashFade     float64 `mapstructure:"flashFade"`

	SpawnProbeLength float64 `mapstructure:"spawnProbeLength"`
	SpawnMaxAttempts int     `mapstructure:"spawnMaxAttempts"`

	ReferenceFPS  float64 `mapstructure:"referenceFPS"`
	MaxFrameDelta float64 `mapstructure:"maxFrameDelta"` // seconds

	Broadphase string `mapstructure:"broadphase"`
}

// DefaultTuning returns the stock arena.
func DefaultTuning() Tuning {
	const maxSpeed = 5.0
	regular := maxSpeed / 3
	return Tuning{
		ArenaSize: 390,

		MaxRubber:     5,
		MaxSpeed:      maxSpeed,
		RegularSpeed:  regular,
		StartingSpeed: regular / 2,
		MaxBrakes:     5,

		MaxTailLength: 2000,
		TurnDelay:     0.02,

		WallAccelRange:  15,
		WallAccelFactor: 1.5,

		RubberMinDistance: 2.5,
		RubberMinAdjust:   0.5,
		DigFactor:         0.4,
		DigEpsilon:        0.001,

		RubberUseFactor:     0.08,
		RubberRestoreFactor: 0.03,
		BrakeUseFactor:      0.05,
		BrakeRestoreFactor:  0.05,

		BrakeFactor:     0.5,
		BoostFactor:     1.5,
		TurnSpeedFactor: 0.05,

		CollapseDelay: 1.5,
		CollapseRate:  0.04,
		FlashFade:     0.03,

		SpawnProbeLength: 150,
		SpawnMaxAttempts: 64,

		ReferenceFPS:  60,
		MaxFrameDelta: 0.1,

		Broadphase: BroadphaseScan,
	}
}

// constrainSpeed clamps v to [0.7*regular, max].
func (t Tuning) constrainSpeed(v float64) float64 {
	return math.Max(t.RegularSpeed*0.7, math.Min(v, t.MaxSpeed))
}
