package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

func TestTrackerLocalizesFromUnknown(t *testing.T) {
	g := track.NewOval(40, 15, 8, 24)
	plan := ComputePath(g, vmath.NewFastRand(1))
	tr := NewTracker(g)

	assert.Equal(t, track.Unknown, tr.Node())
	assert.Equal(t, track.Node(5), tr.Update(g.Center(5), plan))
	assert.Equal(t, track.Node(5), tr.Node())
}

func TestTrackerFollowsLookahead(t *testing.T) {
	g := track.NewOval(40, 15, 8, 24)
	plan := ComputePath(g, vmath.NewFastRand(1))
	tr := NewTracker(g)
	tr.Reset(5)

	tests := []struct {
		name string
		pos  vmath.Vec3F
		want track.Node
	}{
		{"same node", g.Center(5), 5},
		{"next node", g.Center(6), 6},
		{"inside window", g.Center(14), 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Update(tt.pos, plan))
		})
	}
}

func TestTrackerFallsBackToGlobalSearch(t *testing.T) {
	g := track.NewOval(40, 15, 8, 24)
	plan := ComputePath(g, vmath.NewFastRand(1))
	tr := NewTracker(g)
	tr.Reset(0)

	// Node 30 is beyond the window of node 0 and the kart stands on it, off-road search finds it
	assert.Equal(t, track.Node(30), tr.Update(g.Center(30), plan))
}

func TestTrackerOffRoad(t *testing.T) {
	g := track.NewOval(40, 15, 8, 24)
	plan := ComputePath(g, vmath.NewFastRand(1))
	tr := NewTracker(g)
	tr.Reset(2)

	// Just outside the left edge of the first straight
	pos := vmath.V3FAdd(g.Center(2), vmath.Vec3F{X: -6})
	assert.Equal(t, track.Unknown, g.NearestNode(pos))
	assert.Equal(t, track.Node(2), tr.Update(pos, plan))
}

func TestTrackerKeepsPreviousWhenLost(t *testing.T) {
	g := track.NewOval(40, 15, 8, 24)
	g.MaxOffRoadDistance = 10
	plan := ComputePath(g, vmath.NewFastRand(1))
	tr := NewTracker(g)
	tr.Reset(7)

	assert.Equal(t, track.Node(7), tr.Update(vmath.Vec3F{X: 400, Z: 400}, plan))
	assert.Equal(t, track.Node(7), tr.Node())
}

func TestTrackerRejectsNodeOffThePlan(t *testing.T) {
	b := track.NewBuilder()
	ids := b.AddStrip([]vmath.Vec3F{{Z: 0}, {Z: 4}, {Z: 8}, {Z: 12}}, 4)
	g, err := b.Build()
	require.NoError(t, err)
	require.Len(t, ids, 3)

	plan := ComputePath(g, vmath.NewFastRand(1))
	require.Equal(t, track.Unknown, plan.Next(2))

	tr := NewTracker(g)
	tr.Reset(1)
	assert.Equal(t, track.Node(1), tr.Update(g.Center(2), plan))
}
