package stuck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(d *Detector, times ...float64) {
	for _, t := range times {
		d.OnCollision(t)
	}
}

func TestThreeCollisionsInWindowAreStuck(t *testing.T) {
	d := NewDetector(Config{})

	feed(d, 0, 0.5)
	assert.False(t, d.IsStuck())

	d.OnCollision(1.0)
	assert.True(t, d.IsStuck())
}

func TestDebounceMergesReports(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 0.1)

	assert.Equal(t, []float64{0}, d.Events())
	assert.False(t, d.IsStuck())

	// Exactly at the debounce distance counts as a new contact
	d.OnCollision(0.2)
	assert.Equal(t, []float64{0, 0.2}, d.Events())
}

func TestSparseCollisionsAreNotStuck(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 1.0, 2.0)

	// All three retained but spread over 2s
	assert.Len(t, d.Events(), 3)
	assert.False(t, d.IsStuck())
}

func TestOldEventsArePruned(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 0.5, 1.0)
	assert.True(t, d.IsStuck())

	d.Clear()
	d.OnCollision(11.0)
	assert.Equal(t, []float64{11.0}, d.Events())
	assert.False(t, d.IsStuck())
}

func TestFlagHoldsUntilCleared(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 0.5, 1.0)
	assert.True(t, d.IsStuck())

	// A sparse contact before the owner reads the flag must not lower it
	d.OnCollision(2.8)
	assert.Equal(t, []float64{0.5, 1.0, 2.8}, d.Events())
	assert.True(t, d.IsStuck())

	d.Clear()
	assert.False(t, d.IsStuck())
	d.OnCollision(4.0)
	assert.False(t, d.IsStuck())
}

func TestRetentionHorizon(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 2.0, 2.6)

	// 0 is 2.6 old at the last event, beyond 1.0 + 1.5
	assert.Equal(t, []float64{2.0, 2.6}, d.Events())

	for _, e := range d.Events() {
		assert.LessOrEqual(t, 2.6-e, 2.5)
	}
}

func TestRecentBurstAfterOlderEvent(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 1.5, 2.0, 2.4)

	// The oldest retained event is far, but the last three are within the window
	assert.True(t, d.IsStuck())
}

func TestClearAndReset(t *testing.T) {
	d := NewDetector(Config{})
	feed(d, 0, 0.5, 1.0)

	d.Clear()
	assert.False(t, d.IsStuck())
	assert.Len(t, d.Events(), 3)

	d.Reset()
	assert.False(t, d.IsStuck())
	assert.Empty(t, d.Events())
}

func TestCustomConfig(t *testing.T) {
	d := NewDetector(Config{NumCollision: 2, Window: 0.5})
	feed(d, 0, 0.3)
	assert.True(t, d.IsStuck())
}
