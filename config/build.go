package config

import (
	"fmt"

	"github.com/lixenwraith/kart-pilot/race"
	"github.com/lixenwraith/kart-pilot/track"
)

// BuildTrack generates the oval described by Race.Track with its zippers
func (c *Config) BuildTrack() (*track.QuadGraph, error) {
	tc := c.Race.Track
	b := track.NewBuilder()
	b.AddRing(track.StadiumCenterLine(tc.Straight, tc.Radius, tc.Segments), tc.Width)
	for _, z := range tc.Zippers {
		b.SetZipper(track.Node(z))
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build track: %w", err)
	}
	g.MaxOffRoadDistance = tc.MaxOffRoad
	return g, nil
}

// RaceOptions maps the race section onto race.Options
func (c *Config) RaceOptions() race.Options {
	return race.Options{
		Laps:      c.Race.Laps,
		Countdown: c.Race.Countdown,
		Seed:      c.Race.Seed,
		Props:     c.Kart,
		Stuck:     c.Stuck,
	}
}

// TickDuration returns the fixed simulation step in seconds
func (c *Config) TickDuration() float64 {
	return 1 / float64(c.Race.TickRate)
}
