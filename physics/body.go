package physics

import (
	"github.com/lixenwraith/kart-pilot/parameter"
)

// Body is the part of the physics integration the speed model drives
type Body interface {
	// Speed returns the current forward speed
	Speed() float64

	// CapSpeed lowers the speed to ceiling if it is above it
	CapSpeed(ceiling float64)

	// InstantSpeedIncreaseTo raises the speed to at least speed in one step
	InstantSpeedIncreaseTo(speed float64)

	// IsGrounded reports wheel contact, airborne karts are never capped
	IsGrounded() bool
}

// SkidState is the requested skid direction
type SkidState int

const (
	SkidNone SkidState = iota
	SkidLeft
	SkidRight
)

// Controls is the per-tick command a controller hands to the kart
type Controls struct {
	Steer  float64 // [-1, 1], positive turns right
	Accel  float64 // [0, 1]
	Brake  bool
	Skid   SkidState
	Nitro  bool
	Rescue bool // Request a rescue at the next safe point
}

// Reset returns the controls to neutral
func (c *Controls) Reset() {
	*c = Controls{}
}

// KartProperties are the static characteristics of a kart
type KartProperties struct {
	WheelBase      float64 `yaml:"wheel_base"`
	MaxSteerAngle  float64 `yaml:"max_steer_angle"`
	EngineMaxSpeed float64 `yaml:"engine_max_speed"`
	EngineAccel    float64 `yaml:"engine_accel"`
	BrakeDecel     float64 `yaml:"brake_decel"`
	Mass           float64 `yaml:"mass"`
	Drag           float64 `yaml:"drag"`
	SkidTurnGain   float64 `yaml:"skid_turn_gain"`
	SkidDrag       float64 `yaml:"skid_drag"`
}

// DefaultKartProperties returns the parameter defaults
func DefaultKartProperties() KartProperties {
	return KartProperties{
		WheelBase:      parameter.KartWheelBase,
		MaxSteerAngle:  parameter.KartMaxSteerAngle,
		EngineMaxSpeed: parameter.KartEngineMaxSpeed,
		EngineAccel:    parameter.KartEngineAccel,
		BrakeDecel:     parameter.KartBrakeDecel,
		Mass:           parameter.KartMass,
		Drag:           parameter.KartDrag,
		SkidTurnGain:   parameter.KartSkidTurnGain,
		SkidDrag:       parameter.KartSkidDrag,
	}
}
