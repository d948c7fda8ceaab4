// Package config loads race, kart and difficulty settings from YAML
// Fields omitted from a file keep the parameter defaults, so partial files are safe
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/kart-pilot/controller"
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/stuck"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const maxFileSize = 1 * 1024 * 1024

// Difficulty names shipped by Default
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// TrackConfig describes the generated oval track
type TrackConfig struct {
	Straight   float64 `yaml:"straight"`
	Radius     float64 `yaml:"radius"`
	Width      float64 `yaml:"width"`
	Segments   int     `yaml:"segments"`
	Zippers    []int   `yaml:"zippers"`      // Node ids carrying boost pads
	MaxOffRoad float64 `yaml:"max_off_road"` // Off-road search radius, 0 is unbounded
}

// RaceConfig holds race flow settings
type RaceConfig struct {
	Laps       int         `yaml:"laps"`
	Karts      int         `yaml:"karts"`
	Countdown  float64     `yaml:"countdown"`
	TickRate   int         `yaml:"tick_rate"`
	Seed       uint64      `yaml:"seed"`
	Difficulty string      `yaml:"difficulty"`
	Track      TrackConfig `yaml:"track"`
}

// Config is the root document
type Config struct {
	Race         RaceConfig                         `yaml:"race"`
	Kart         physics.KartProperties             `yaml:"kart"`
	Stuck        stuck.Config                       `yaml:"stuck"` // Zero fields take the detector defaults
	Difficulties map[string]controller.AIProperties `yaml:"difficulties"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Race: RaceConfig{
			Laps:       parameter.RaceDefaultLaps,
			Karts:      4,
			Countdown:  parameter.RaceCountdown,
			TickRate:   parameter.RaceTickRate,
			Seed:       1,
			Difficulty: DifficultyMedium,
			Track: TrackConfig{
				Straight:   40,
				Radius:     15,
				Width:      8,
				Segments:   24,
				Zippers:    []int{25},
				MaxOffRoad: 20,
			},
		},
		Kart: physics.DefaultKartProperties(),
		Difficulties: map[string]controller.AIProperties{
			DifficultyEasy: {
				SkiddingThreshold: parameter.EasySkiddingThreshold,
				TimeFullSteer:     parameter.EasyTimeFullSteer,
				SpeedCap:          parameter.EasySpeedCap,
			},
			DifficultyMedium: {
				SkiddingThreshold: parameter.MediumSkiddingThreshold,
				TimeFullSteer:     parameter.MediumTimeFullSteer,
				SpeedCap:          parameter.MediumSpeedCap,
			},
			DifficultyHard: {
				SkiddingThreshold: parameter.HardSkiddingThreshold,
				TimeFullSteer:     parameter.HardTimeFullSteer,
				SpeedCap:          parameter.HardSpeedCap,
			},
		},
	}
}

// Load reads a YAML file over the defaults
// A difficulty entry present in the file replaces the built-in entry of that name as a whole
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q: %w", ext, ErrInvalidConfig)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d): %w", info.Size(), maxFileSize, ErrInvalidConfig)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %v: %w", err, ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	r := &c.Race
	switch {
	case r.Laps < 1:
		return invalid("race.laps must be at least 1, got %d", r.Laps)
	case r.Karts < 1:
		return invalid("race.karts must be at least 1, got %d", r.Karts)
	case r.Countdown < 0:
		return invalid("race.countdown must be non-negative, got %f", r.Countdown)
	case r.TickRate < 1:
		return invalid("race.tick_rate must be positive, got %d", r.TickRate)
	case r.Track.Width <= 0 || r.Track.Radius <= r.Track.Width/2:
		return invalid("race.track radius %f must exceed half the width %f", r.Track.Radius, r.Track.Width)
	case r.Track.Straight <= 0:
		return invalid("race.track.straight must be positive, got %f", r.Track.Straight)
	case r.Track.Segments < 4:
		return invalid("race.track.segments must be at least 4, got %d", r.Track.Segments)
	case r.Track.MaxOffRoad < 0:
		return invalid("race.track.max_off_road must be non-negative, got %f", r.Track.MaxOffRoad)
	}

	k := &c.Kart
	switch {
	case k.WheelBase <= 0:
		return invalid("kart.wheel_base must be positive, got %f", k.WheelBase)
	case k.MaxSteerAngle <= 0:
		return invalid("kart.max_steer_angle must be positive, got %f", k.MaxSteerAngle)
	case k.EngineMaxSpeed <= 0:
		return invalid("kart.engine_max_speed must be positive, got %f", k.EngineMaxSpeed)
	case k.Mass <= 0:
		return invalid("kart.mass must be positive, got %f", k.Mass)
	case k.Drag < 0 || k.SkidDrag < 0:
		return invalid("kart drag must be non-negative, got %f/%f", k.Drag, k.SkidDrag)
	}

	if c.Stuck.NumCollision < 0 || c.Stuck.Window < 0 || c.Stuck.Debounce < 0 || c.Stuck.Slack < 0 {
		return invalid("stuck settings must be non-negative, got %+v", c.Stuck)
	}

	for name, d := range c.Difficulties {
		switch {
		case d.SkiddingThreshold <= 0:
			return invalid("difficulty %q: skidding_threshold must be positive, got %f", name, d.SkiddingThreshold)
		case d.TimeFullSteer < 0:
			return invalid("difficulty %q: time_full_steer must be non-negative, got %f", name, d.TimeFullSteer)
		case d.SpeedCap <= 0 || d.SpeedCap > 1:
			return invalid("difficulty %q: speed_cap must be in (0, 1], got %f", name, d.SpeedCap)
		}
	}
	if _, err := c.Difficulty(r.Difficulty); err != nil {
		return err
	}
	return nil
}

// Difficulty returns the AI properties registered under name
func (c *Config) Difficulty(name string) (controller.AIProperties, error) {
	d, ok := c.Difficulties[name]
	if !ok {
		return controller.AIProperties{}, invalid("unknown difficulty %q (have %v)", name, c.DifficultyNames())
	}
	return d, nil
}

// DifficultyNames lists the registered difficulties in sorted order
func (c *Config) DifficultyNames() []string {
	names := lo.Keys(c.Difficulties)
	sort.Strings(names)
	return names
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}
