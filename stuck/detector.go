// Package stuck flags a kart as stuck from the density of terrain collisions
// The detector only raises a flag; rescuing the kart is the owner's job and must
// happen outside the physics callback that reported the collision
package stuck

import (
	"github.com/lixenwraith/kart-pilot/parameter"
)

// Config tunes the detector, zero fields take the parameter defaults
type Config struct {
	NumCollision int     `yaml:"num_collision"` // Collisions needed inside Window
	Window       float64 `yaml:"window"`        // Detection window (seconds)
	Debounce     float64 `yaml:"debounce"`      // Reports closer than this to the last event are one contact
	Slack        float64 `yaml:"slack"`         // Retention beyond Window
}

func (c Config) withDefaults() Config {
	if c.NumCollision <= 0 {
		c.NumCollision = parameter.StuckNumCollision
	}
	if c.Window <= 0 {
		c.Window = parameter.StuckCollisionTime
	}
	if c.Debounce <= 0 {
		c.Debounce = parameter.StuckDebounce
	}
	if c.Slack <= 0 {
		c.Slack = parameter.StuckRetentionSlack
	}
	return c
}

// Detector is a sliding time window of collision timestamps
type Detector struct {
	cfg    Config
	events []float64 // Monotonically increasing
	stuck  bool
}

func NewDetector(cfg Config) *Detector {
	cfg = cfg.withDefaults()
	return &Detector{
		cfg:    cfg,
		events: make([]float64, 0, cfg.NumCollision*2),
	}
}

// OnCollision records a terrain collision at time now and re-evaluates the stuck flag
func (d *Detector) OnCollision(now float64) {
	if len(d.events) == 0 {
		d.events = append(d.events, now)
		return
	}

	// Physics reports one contact over several frames
	if now-d.events[len(d.events)-1] < d.cfg.Debounce {
		return
	}

	// Drop events that can no longer contribute, otherwise a collision from long ago
	// would count toward a stuck condition now
	horizon := d.cfg.Window + d.cfg.Slack
	drop := 0
	for drop < len(d.events) && now-d.events[drop] > horizon {
		drop++
	}
	if drop > 0 {
		d.events = append(d.events[:0], d.events[drop:]...)
	}

	d.events = append(d.events, now)

	// The flag latches, only Clear and Reset lower it
	n := len(d.events)
	if n >= d.cfg.NumCollision && now-d.events[n-d.cfg.NumCollision] <= d.cfg.Window {
		d.stuck = true
	}
}

// IsStuck reports whether the flag was raised since the last Clear or Reset
func (d *Detector) IsStuck() bool {
	return d.stuck
}

// Clear drops the flag once the owner has acted on it, keeping the log
func (d *Detector) Clear() {
	d.stuck = false
}

// Reset empties the log and the flag, used on race restart
func (d *Detector) Reset() {
	d.events = d.events[:0]
	d.stuck = false
}

// Events returns a copy of the retained timestamps
func (d *Detector) Events() []float64 {
	out := make([]float64, len(d.events))
	copy(out, d.events)
	return out
}
