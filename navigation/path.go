package navigation

import (
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

// LookaheadLen is the fixed number of nodes in every lookahead window
const LookaheadLen = parameter.AILookaheadNodes

// PathEntry is the AI's route decision at one node
type PathEntry struct {
	SuccessorChoice int                      // Index into the allowed successor list, -1 if none
	Next            track.Node               // Node reached through SuccessorChoice
	Lookahead       [LookaheadLen]track.Node // Next, Next(Next), ...; may repeat on short loops
}

// PathPlan is the per-lap route through the whole graph, one entry per node
// A plan is immutable once computed; a new lap gets a new plan
type PathPlan struct {
	entries []PathEntry
}

// ComputePath picks one random allowed successor per node and precomputes the lookahead windows
// Allowed successors are the AI edges, or every edge when a node has no AI edge
// (the kart can end up on a hidden shortcut by accident and must still be able to drive on)
func ComputePath(g track.Graph, rng *vmath.FastRand) *PathPlan {
	n := g.NodeCount()
	p := &PathPlan{entries: make([]PathEntry, n)}

	for i := 0; i < n; i++ {
		node := track.Node(i)
		next := g.Successors(node, true)
		if len(next) == 0 {
			next = g.Successors(node, false)
		}

		e := &p.entries[i]
		if len(next) == 0 {
			e.SuccessorChoice = -1
			e.Next = track.Unknown
			continue
		}
		e.SuccessorChoice = rng.Intn(len(next))
		e.Next = next[e.SuccessorChoice]
	}

	for i := 0; i < n; i++ {
		e := &p.entries[i]
		current := track.Node(i)
		for j := 0; j < LookaheadLen; j++ {
			current = p.Next(current)
			e.Lookahead[j] = current
		}
	}

	return p
}

// Len returns the number of nodes the plan covers
func (p *PathPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

func (p *PathPlan) valid(n track.Node) bool {
	return p != nil && n >= 0 && int(n) < len(p.entries)
}

// Next returns the chosen successor of n, Unknown if n is unknown or has no successor
func (p *PathPlan) Next(n track.Node) track.Node {
	if !p.valid(n) {
		return track.Unknown
	}
	return p.entries[n].Next
}

// SuccessorChoice returns the chosen index into n's allowed successor list, -1 if none
func (p *PathPlan) SuccessorChoice(n track.Node) int {
	if !p.valid(n) {
		return -1
	}
	return p.entries[n].SuccessorChoice
}

// Lookahead returns the window of upcoming nodes after n, nil for an unknown node
func (p *PathPlan) Lookahead(n track.Node) []track.Node {
	if !p.valid(n) {
		return nil
	}
	return p.entries[n].Lookahead[:]
}

// Entry returns a copy of the full entry for n
func (p *PathPlan) Entry(n track.Node) (PathEntry, bool) {
	if !p.valid(n) {
		return PathEntry{}, false
	}
	return p.entries[n], true
}

// NodeAhead follows the plan k hops from n, stopping early at a dead end
func (p *PathPlan) NodeAhead(n track.Node, k int) track.Node {
	for i := 0; i < k; i++ {
		next := p.Next(n)
		if next == track.Unknown {
			return n
		}
		n = next
	}
	return n
}
