package navigation

import (
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

// Tracker keeps the AI's current graph node across ticks
type Tracker struct {
	graph track.Graph
	node  track.Node
}

func NewTracker(g track.Graph) *Tracker {
	return &Tracker{graph: g, node: track.Unknown}
}

// Node returns the current node, Unknown before the first successful localization
func (t *Tracker) Node() track.Node {
	return t.node
}

// Reset forces the current node, e.g. after a rescue or at race start
func (t *Tracker) Reset(n track.Node) {
	t.node = n
}

// Update re-localizes pos
// A known node is reconfirmed against itself and its lookahead window first, otherwise the
// whole graph is searched; failing that the nearest off-road node is used.
// The previous node is kept when nothing is found or when the result is a node the plan
// never routes through, so a transient mismatch cannot pull the AI onto a branch it did not choose
func (t *Tracker) Update(pos vmath.Vec3F, plan *PathPlan) track.Node {
	old := t.node

	var found track.Node
	if old != track.Unknown {
		found = t.searchWindow(pos, old, plan.Lookahead(old))
	} else {
		found = t.graph.NearestNode(pos)
	}

	if found == track.Unknown {
		found = t.graph.NearestOffRoadNode(pos)
	}

	if found == track.Unknown || plan.Next(found) == track.Unknown {
		return old
	}

	t.node = found
	return found
}

func (t *Tracker) searchWindow(pos vmath.Vec3F, current track.Node, window []track.Node) track.Node {
	if t.graph.Contains(current, pos) {
		return current
	}
	for _, n := range window {
		if n == track.Unknown {
			break
		}
		if t.graph.Contains(n, pos) {
			return n
		}
	}
	return track.Unknown
}
