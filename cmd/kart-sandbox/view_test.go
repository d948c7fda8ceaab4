package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kart-pilot/audio"
	"github.com/lixenwraith/kart-pilot/config"
	"github.com/lixenwraith/kart-pilot/race"
)

func testView(t *testing.T) (*view, *config.Config) {
	t.Helper()
	cfg := config.Default()
	g, err := cfg.BuildTrack()
	require.NoError(t, err)
	return newView(g, 120, 40), cfg
}

func TestViewProjectionRoundTrip(t *testing.T) {
	v, _ := testView(t)
	for _, c := range [][2]int{{1, 1}, {60, 20}, {100, 35}} {
		col, row, ok := v.project(v.world(c[0], c[1]))
		require.True(t, ok)
		assert.Equal(t, c[0], col)
		assert.Equal(t, c[1], row)
	}

	_, _, ok := v.project(v.world(-5, 0))
	assert.False(t, ok)
}

func TestViewRasterizesTrack(t *testing.T) {
	v, _ := testView(t)

	counts := map[cell]int{}
	for _, c := range v.cells {
		counts[c]++
	}
	assert.Greater(t, counts[cellRoad], 100)
	assert.Greater(t, counts[cellStart], 0)
	assert.Greater(t, counts[cellZipper], 0)
	assert.Greater(t, counts[cellGrass], counts[cellRoad], "infield and margins are grass")
}

func TestViewTooSmall(t *testing.T) {
	_, cfg := testView(t)
	g, err := cfg.BuildTrack()
	require.NoError(t, err)

	v := newView(g, 2, 2)
	_, _, ok := v.project(g.Center(0))
	assert.False(t, ok)
	assert.Empty(t, v.cells)
}

func TestCueFor(t *testing.T) {
	player, rival := uuid.New(), uuid.New()

	tests := []struct {
		event race.Event
		want  audio.Cue
		ok    bool
	}{
		{race.Event{Kind: race.EventStart}, audio.CueStart, true},
		{race.Event{Kind: race.EventLap, Kart: player}, audio.CueLap, true},
		{race.Event{Kind: race.EventLap, Kart: rival}, 0, false},
		{race.Event{Kind: race.EventCrash, Kart: player}, audio.CueCrash, true},
		{race.Event{Kind: race.EventZipper, Kart: player}, audio.CueZipper, true},
		{race.Event{Kind: race.EventSkidBonus, Kart: player}, audio.CueSkidBonus, true},
		{race.Event{Kind: race.EventRaceOver}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.event.Kind.String(), func(t *testing.T) {
			got, ok := cueFor(tt.event, player)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHUDLines(t *testing.T) {
	_, cfg := testView(t)
	g, err := cfg.BuildTrack()
	require.NoError(t, err)

	r := race.New(g, cfg.RaceOptions())
	player, err := r.AddPlayer("you")
	require.NoError(t, err)
	r.Start()

	lines := hudLines(r, player)
	require.Len(t, lines, hudRows)
	assert.True(t, strings.HasPrefix(lines[0], "starting in 3.0s"), lines[0])
	assert.Contains(t, lines[1], "pos 1/1")
	assert.Contains(t, lines[1], "lap 1/3")
}

func TestKartGlyph(t *testing.T) {
	assert.Equal(t, '@', kartGlyph(0, true))
	assert.Equal(t, '2', kartGlyph(1, false))
	assert.Equal(t, '*', kartGlyph(12, false))
}
