package controller

import (
	"github.com/samber/lo"

	"github.com/lixenwraith/kart-pilot/physics"
)

// Player maps discrete actions onto the kart controls
type Player struct {
	base
	skidHeld bool
}

var _ Controller = (*Player)(nil)

// NewPlayer creates a player controller, only env.Stuck is read
func NewPlayer(env Env, name string) *Player {
	return &Player{base: newBase(env, name)}
}

func (p *Player) Kind() Kind { return KindPlayer }

func (p *Player) Reset() {
	p.resetBase()
	p.skidHeld = false
}

func (p *Player) NewLap(int) {}

// Action applies a; value is the analog amount for steering and throttle, any positive value
// presses a button and 0 releases it
func (p *Player) Action(a Action, value float64) {
	c := &p.controls
	pressed := value > 0

	switch a {
	case ActionSteerLeft:
		if pressed {
			c.Steer = -lo.Clamp(value, 0, 1)
		} else if c.Steer < 0 {
			c.Steer = 0
		}
	case ActionSteerRight:
		if pressed {
			c.Steer = lo.Clamp(value, 0, 1)
		} else if c.Steer > 0 {
			c.Steer = 0
		}
	case ActionAccel:
		c.Accel = lo.Clamp(value, 0, 1)
	case ActionBrake:
		c.Brake = pressed
	case ActionSkid:
		p.skidHeld = pressed
	case ActionNitro:
		c.Nitro = pressed
	case ActionRescue:
		c.Rescue = pressed
	}
	p.updateSkid()
}

// Update keeps the skid direction in line with the steering
func (p *Player) Update(float64) {
	p.updateSkid()
}

func (p *Player) updateSkid() {
	c := &p.controls
	switch {
	case !p.skidHeld:
		c.Skid = physics.SkidNone
	case c.Skid != physics.SkidNone:
		// Direction is locked for the whole skid
	case c.Steer > 0:
		c.Skid = physics.SkidRight
	case c.Steer < 0:
		c.Skid = physics.SkidLeft
	}
}
