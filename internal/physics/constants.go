package physics

import "math"

const (
	GravityAcceleration = -0.015
	JumpInitialVelocity = 0.35
	WalkSpeed           = 0.05
	MouseSensitivity    = 0.002
	EyeHeight           = 1.6

	FieldGroundHeight  = 0.0
	BlocksGroundHeight = 1.0

	FieldPitchLimit  = math.Pi / 2
	BlocksPitchLimit = 1.5
)

// Params holds the fixed per-variant tuning. Values are per frame, tuned for
// a ~60 Hz cadence; nothing is scaled by elapsed time.
type Params struct {
	VerticalPhysics bool
	Gravity         float64
	JumpImpulse     float64
	Speed           float64
	GroundHeight    float64
	MinPitch        float64
	MaxPitch        float64
	Sensitivity     float64
	EyeHeight       float64
}

// FieldParams is the flat-plane variant: no gravity, no jump.
func FieldParams() Params {
	return Params{
		Speed:        WalkSpeed,
		GroundHeight: FieldGroundHeight,
		MinPitch:     -FieldPitchLimit,
		MaxPitch:     FieldPitchLimit,
		Sensitivity:  MouseSensitivity,
		EyeHeight:    EyeHeight,
	}
}

// BlocksParams is the block-grid variant with gravity and jumping.
func BlocksParams() Params {
	return Params{
		VerticalPhysics: true,
		Gravity:         GravityAcceleration,
		JumpImpulse:     JumpInitialVelocity,
		Speed:           WalkSpeed,
		GroundHeight:    BlocksGroundHeight,
		MinPitch:        -BlocksPitchLimit,
		MaxPitch:        BlocksPitchLimit,
		Sensitivity:     MouseSensitivity,
		EyeHeight:       EyeHeight,
	}
}
