// Package maxspeed layers slowdowns and speed-ups into one speed ceiling per tick
package maxspeed

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/kart-pilot/physics"
)

var (
	ErrUnknownCategory = errors.New("maxspeed: unknown category")
	ErrInvalidValue    = errors.New("maxspeed: invalid value")
)

// speedDecrease fades the current fraction toward the target at 1/fadeIn per second
type speedDecrease struct {
	target    float64
	current   float64
	fadeIn    float64
	timed     bool
	remaining float64
}

func (d *speedDecrease) reset() {
	*d = speedDecrease{target: 1, current: 1}
}

func (d *speedDecrease) update(dt float64) {
	if d.timed {
		d.remaining -= dt
		if d.remaining <= 0 {
			d.timed = false
			d.target = 1
		}
	}

	if d.fadeIn <= 0 {
		d.current = d.target
		return
	}
	diff := d.target - d.current
	step := dt / d.fadeIn
	if math.Abs(diff) <= step {
		d.current = d.target
	} else {
		d.current += math.Copysign(step, diff)
	}
}

// speedIncrease applies addSpeed fully for duration, then fades it out linearly over fadeOut
type speedIncrease struct {
	addSpeed    float64
	engineForce float64
	remaining   float64
	fadeOut     float64
	current     float64
	force       float64
}

func (s *speedIncrease) reset() {
	*s = speedIncrease{}
}

func (s *speedIncrease) update(dt float64) {
	s.remaining -= dt
	if s.remaining > 0 {
		s.current = s.addSpeed
		s.force = s.engineForce
		return
	}
	if s.fadeOut <= 0 || s.remaining < -s.fadeOut {
		s.current = 0
		s.force = 0
		return
	}
	s.current = s.addSpeed * (1 + s.remaining/s.fadeOut)
	s.force = s.engineForce
}

// Model is one kart's speed envelope
type Model struct {
	body         physics.Body
	baseMaxSpeed float64

	decrease [decreaseCount]speedDecrease
	increase [increaseCount]speedIncrease

	currentMax  float64
	engineForce float64
	minSpeed    float64
}

// New creates a neutral model; body may be nil for a ceiling-only model
func New(body physics.Body, baseMaxSpeed float64) *Model {
	m := &Model{body: body, baseMaxSpeed: baseMaxSpeed}
	m.Reset()
	return m
}

// Reset clears every category to neutral
func (m *Model) Reset() {
	for i := range m.decrease {
		m.decrease[i].reset()
	}
	for i := range m.increase {
		m.increase[i].reset()
	}
	m.minSpeed = 0
	m.engineForce = 0
	m.currentMax = m.baseMaxSpeed
}

// SetSlowdown configures a decrease category
// fraction is the target multiplier in [0, 1]; duration <= 0 keeps it until replaced
func (m *Model) SetSlowdown(cat DecreaseCategory, fraction, fadeIn, duration float64) error {
	if cat < 0 || cat >= decreaseCount {
		return fmt.Errorf("set slowdown %v: %w", cat, ErrUnknownCategory)
	}
	if fraction < 0 || fraction > 1 || fadeIn < 0 {
		return fmt.Errorf("set slowdown %v fraction=%v fade=%v: %w", cat, fraction, fadeIn, ErrInvalidValue)
	}
	d := &m.decrease[cat]
	d.target = fraction
	d.fadeIn = fadeIn
	d.timed = duration > 0
	d.remaining = duration
	return nil
}

// IncreaseMaxSpeed configures an increase category, replacing what it held
func (m *Model) IncreaseMaxSpeed(cat IncreaseCategory, addSpeed, engineForce, duration, fadeOut float64) error {
	if cat < 0 || cat >= increaseCount {
		return fmt.Errorf("increase max speed %v: %w", cat, ErrUnknownCategory)
	}
	if addSpeed < 0 || fadeOut < 0 {
		return fmt.Errorf("increase max speed %v add=%v fade=%v: %w", cat, addSpeed, fadeOut, ErrInvalidValue)
	}
	s := &m.increase[cat]
	s.addSpeed = addSpeed
	s.engineForce = engineForce
	s.remaining = duration
	s.fadeOut = fadeOut
	s.current = addSpeed
	s.force = engineForce
	return nil
}

// InstantSpeedIncrease raises the ceiling like IncreaseMaxSpeed and also pushes the kart's actual
// speed up by speedBoost, never above the new ceiling
func (m *Model) InstantSpeedIncrease(cat IncreaseCategory, addSpeed, speedBoost, engineForce, duration, fadeOut float64) error {
	if err := m.IncreaseMaxSpeed(cat, addSpeed, engineForce, duration, fadeOut); err != nil {
		return err
	}
	// Only refreshes the ceiling, dt=0 advances no timers
	m.Update(0)

	if m.body == nil {
		return nil
	}
	speed := min(m.body.Speed()+speedBoost, m.currentMax)
	m.body.InstantSpeedIncreaseTo(speed)
	return nil
}

// SetMinSpeed keeps the kart at or above speed, 0 disables
func (m *Model) SetMinSpeed(speed float64) {
	m.minSpeed = max(0, speed)
}

// Update advances every category by dt and recomputes the ceiling
// dt=0 only recomputes, e.g. after a configuration change
func (m *Model) Update(dt float64) {
	f := 1.0
	for i := range m.decrease {
		d := &m.decrease[i]
		d.update(dt)
		f = min(f, d.current)
	}

	m.currentMax = m.baseMaxSpeed * f
	m.engineForce = 0
	for i := range m.increase {
		s := &m.increase[i]
		s.update(dt)
		m.currentMax += s.current
		m.engineForce += s.force
	}

	if m.body == nil {
		return
	}
	speed := m.body.Speed()
	if m.minSpeed > 0 && speed < m.minSpeed {
		m.body.InstantSpeedIncreaseTo(min(m.minSpeed, m.currentMax))
	} else if speed > m.currentMax && m.body.IsGrounded() {
		m.body.CapSpeed(m.currentMax)
	}
}

// CurrentMaxSpeed returns the ceiling computed by the last Update
func (m *Model) CurrentMaxSpeed() float64 {
	return m.currentMax
}

// EngineForce returns the summed extra engine force of active increases
func (m *Model) EngineForce() float64 {
	return m.engineForce
}

// BaseMaxSpeed returns the speed before any category applies
func (m *Model) BaseMaxSpeed() float64 {
	return m.baseMaxSpeed
}

// SpeedIncreaseTimeLeft returns the remaining full-strength time of cat, negative while fading or idle
func (m *Model) SpeedIncreaseTimeLeft(cat IncreaseCategory) (float64, error) {
	if cat < 0 || cat >= increaseCount {
		return 0, fmt.Errorf("time left %v: %w", cat, ErrUnknownCategory)
	}
	return m.increase[cat].remaining, nil
}

// SlowdownFraction returns the current (faded) fraction of cat
func (m *Model) SlowdownFraction(cat DecreaseCategory) (float64, error) {
	if cat < 0 || cat >= decreaseCount {
		return 0, fmt.Errorf("slowdown fraction %v: %w", cat, ErrUnknownCategory)
	}
	return m.decrease[cat].current, nil
}

// SpeedIncrease returns the current contribution of cat
func (m *Model) SpeedIncrease(cat IncreaseCategory) (float64, error) {
	if cat < 0 || cat >= increaseCount {
		return 0, fmt.Errorf("speed increase %v: %w", cat, ErrUnknownCategory)
	}
	return m.increase[cat].current, nil
}
