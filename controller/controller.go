// Package controller drives one kart per tick, either from the AI or from player actions
package controller

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/kart-pilot/maxspeed"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/steering"
	"github.com/lixenwraith/kart-pilot/stuck"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

var ErrInvalidEnv = errors.New("controller: invalid environment")

// Kind tags the controller variant
type Kind int

const (
	KindAI Kind = iota
	KindPlayer
	KindEnd // Takes over a kart after it crosses the finish line
)

func (k Kind) String() string {
	switch k {
	case KindAI:
		return "ai"
	case KindPlayer:
		return "player"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is a discrete player input
type Action int

const (
	ActionSteerLeft Action = iota
	ActionSteerRight
	ActionAccel
	ActionBrake
	ActionSkid
	ActionNitro
	ActionRescue
)

// CrashKind separates wall and terrain contacts from kart-kart contacts
type CrashKind int

const (
	CrashTerrain CrashKind = iota
	CrashKart
)

// Crash is one collision reported by the physics step
type Crash struct {
	Kind CrashKind
	Time float64 // Race time of the contact
}

// Controller is the per-kart driver the race steps every tick
type Controller interface {
	// Update computes the controls for this tick
	Update(dt float64)

	// Reset returns the controller to its race-start state
	Reset()

	// NewLap is called when the kart starts lap, lap 0 being the first
	NewLap(lap int)

	// Crashed is the physics collision callback, it must not move the kart
	Crashed(c Crash)

	// Action feeds a player input, value 0 releases it
	Action(a Action, value float64)

	// Controls returns the controls the physics step reads
	Controls() *physics.Controls

	Kind() Kind
	Name() string

	// IsStuckFlagSet reports the stuck flag raised by terrain crashes
	IsStuckFlagSet() bool

	// ClearStuck lowers the stuck flag once the owner has rescued the kart
	ClearStuck()
}

// Kart is the kart state a controller reads
type Kart interface {
	steering.KartView
	Speed() float64
}

// Env carries the collaborators of one controller
type Env struct {
	Graph track.Graph
	Kart  Kart
	Speed *maxspeed.Model
	Props physics.KartProperties
	Rand  *vmath.FastRand
	Stuck stuck.Config
}

func (e Env) validate() error {
	switch {
	case e.Graph == nil:
		return fmt.Errorf("missing graph: %w", ErrInvalidEnv)
	case e.Kart == nil:
		return fmt.Errorf("missing kart: %w", ErrInvalidEnv)
	case e.Speed == nil:
		return fmt.Errorf("missing speed model: %w", ErrInvalidEnv)
	case e.Rand == nil:
		return fmt.Errorf("missing random source: %w", ErrInvalidEnv)
	}
	return nil
}

// base holds what every variant shares: controls, identity and the stuck detector
type base struct {
	env      Env
	name     string
	controls physics.Controls
	detector *stuck.Detector
}

func newBase(env Env, name string) base {
	return base{
		env:      env,
		name:     name,
		detector: stuck.NewDetector(env.Stuck),
	}
}

func (b *base) Controls() *physics.Controls {
	return &b.controls
}

func (b *base) Name() string {
	return b.name
}

// Crashed feeds terrain contacts to the stuck detector, kart contacts never mean stuck
func (b *base) Crashed(c Crash) {
	if c.Kind != CrashTerrain {
		return
	}
	b.detector.OnCollision(c.Time)
}

func (b *base) IsStuckFlagSet() bool {
	return b.detector.IsStuck()
}

func (b *base) ClearStuck() {
	b.detector.Clear()
	b.controls.Rescue = false
}

func (b *base) resetBase() {
	b.controls.Reset()
	b.detector.Reset()
}
