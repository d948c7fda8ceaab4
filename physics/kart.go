package physics

import (
	"math"

	"github.com/lixenwraith/kart-pilot/vmath"
)

// Kart is a kinematic bicycle-model kart on the XZ plane
type Kart struct {
	Props KartProperties

	position vmath.Vec3F
	heading  float64
	speed    float64
	airTime  float64 // Remaining airborne time, grounded when <= 0
	skidTime float64 // Continuous time spent skidding
}

var _ Body = (*Kart)(nil)

func NewKart(props KartProperties, pos vmath.Vec3F, heading float64) *Kart {
	return &Kart{
		Props:    props,
		position: pos,
		heading:  vmath.WrapHeading(heading),
	}
}

func (k *Kart) Position() vmath.Vec3F { return k.position }
func (k *Kart) Heading() float64      { return k.heading }
func (k *Kart) Speed() float64        { return k.speed }
func (k *Kart) IsGrounded() bool      { return k.airTime <= 0 }
func (k *Kart) SkidTime() float64     { return k.skidTime }

// Velocity returns the world-space velocity
func (k *Kart) Velocity() vmath.Vec3F {
	return vmath.V3FScale(vmath.Forward(k.heading), k.speed)
}

func (k *Kart) CapSpeed(ceiling float64) {
	if k.speed > ceiling {
		k.speed = max(0, ceiling)
	}
}

func (k *Kart) InstantSpeedIncreaseTo(speed float64) {
	if speed > k.speed {
		k.speed = speed
	}
}

// SetAirborne lifts the kart off the ground for d seconds (jumps, ramps)
func (k *Kart) SetAirborne(d float64) {
	k.airTime = d
}

// Place teleports the kart at rest, used by rescue and race start
func (k *Kart) Place(pos vmath.Vec3F, heading float64) {
	k.position = pos
	k.heading = vmath.WrapHeading(heading)
	k.speed = 0
	k.airTime = 0
	k.skidTime = 0
}

// SetPosition moves the kart without touching speed, used by wall collision resolution
func (k *Kart) SetPosition(pos vmath.Vec3F) {
	k.position = pos
}

// ScaleSpeed multiplies the current speed, used for impacts
func (k *Kart) ScaleSpeed(f float64) {
	k.speed = max(0, k.speed*f)
}

// Integrate advances the kart by dt: v = v + a*dt; heading += yawRate*dt; p = p + v*dt
// extraForce is the additional engine force from active speed increases
func (k *Kart) Integrate(c *Controls, extraForce, dt float64) {
	if dt <= 0 {
		return
	}
	p := &k.Props
	grounded := k.IsGrounded()
	if !grounded {
		k.airTime -= dt
	}

	skidding := c.Skid != SkidNone && grounded
	if skidding {
		k.skidTime += dt
	} else {
		k.skidTime = 0
	}

	var accel float64
	if grounded {
		if c.Accel > 0 {
			force := p.EngineAccel
			if p.Mass > 0 {
				force += extraForce / p.Mass
			}
			accel += c.Accel * force
		}
		if c.Brake {
			accel -= p.BrakeDecel
		}
	}
	accel -= p.Drag * k.speed
	if skidding {
		accel -= p.SkidDrag * k.speed
	}

	k.speed = max(0, k.speed+accel*dt)

	if grounded && p.WheelBase > 0 {
		steerAngle := c.Steer * p.MaxSteerAngle
		yawRate := k.speed * math.Tan(steerAngle) / p.WheelBase
		if skidding && (c.Skid == SkidRight) == (c.Steer > 0) {
			yawRate *= p.SkidTurnGain
		}
		k.heading = vmath.WrapHeading(k.heading + yawRate*dt)
	}

	k.position = vmath.V3FAdd(k.position, vmath.V3FScale(vmath.Forward(k.heading), k.speed*dt))
}
