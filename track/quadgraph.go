package track

import (
	"math"

	"github.com/lixenwraith/kart-pilot/vmath"
)

// HeightTolerance is the max vertical distance between a point and a quad for on-road matches
const HeightTolerance = 5.0

// Edge is a directed successor link
type Edge struct {
	To         Node
	AIExcluded bool // Hidden from the AI, typically the first/last edge of a shortcut
}

type quadNode struct {
	quad   Quad
	center vmath.Vec3F
	edges  []Edge
	zipper bool
}

// QuadGraph is the reference Graph: one quad per node plus directed edges
type QuadGraph struct {
	nodes []quadNode

	// MaxOffRoadDistance bounds NearestOffRoadNode, 0 means unbounded
	MaxOffRoadDistance float64
}

var _ Graph = (*QuadGraph)(nil)

func (g *QuadGraph) valid(n Node) bool {
	return n >= 0 && int(n) < len(g.nodes)
}

func (g *QuadGraph) NodeCount() int {
	return len(g.nodes)
}

func (g *QuadGraph) Successors(n Node, aiOnly bool) []Node {
	if !g.valid(n) {
		return nil
	}
	edges := g.nodes[n].edges
	out := make([]Node, 0, len(edges))
	for _, e := range edges {
		if aiOnly && e.AIExcluded {
			continue
		}
		out = append(out, e.To)
	}
	return out
}

func (g *QuadGraph) Contains(n Node, pos vmath.Vec3F) bool {
	if !g.valid(n) {
		return false
	}
	nd := &g.nodes[n]
	if math.Abs(pos.Y-nd.center.Y) > HeightTolerance {
		return false
	}
	return nd.quad.ContainsXZ(pos)
}

// NearestNode prefers the containing quad closest in height when quads overlap (bridges)
func (g *QuadGraph) NearestNode(pos vmath.Vec3F) Node {
	best := Unknown
	bestDY := math.Inf(1)
	for i := range g.nodes {
		n := Node(i)
		if !g.Contains(n, pos) {
			continue
		}
		dy := math.Abs(pos.Y - g.nodes[i].center.Y)
		if dy < bestDY {
			best = n
			bestDY = dy
		}
	}
	return best
}

func (g *QuadGraph) NearestOffRoadNode(pos vmath.Vec3F) Node {
	best := Unknown
	bestDist := math.Inf(1)
	for i := range g.nodes {
		d := g.nodes[i].quad.DistToCenterLineSq(pos)
		if d < bestDist {
			best = Node(i)
			bestDist = d
		}
	}
	if g.MaxOffRoadDistance > 0 && bestDist > g.MaxOffRoadDistance*g.MaxOffRoadDistance {
		return Unknown
	}
	return best
}

func (g *QuadGraph) AngleToNext(n, next Node) float64 {
	if !g.valid(n) || !g.valid(next) {
		return 0
	}
	return vmath.HeadingOf(vmath.V3FSub(g.nodes[next].center, g.nodes[n].center))
}

func (g *QuadGraph) Center(n Node) vmath.Vec3F {
	if !g.valid(n) {
		return vmath.Vec3F{}
	}
	return g.nodes[n].center
}

// Quad returns the road surface of n
func (g *QuadGraph) Quad(n Node) (Quad, bool) {
	if !g.valid(n) {
		return Quad{}, false
	}
	return g.nodes[n].quad, true
}

// IsZipper reports whether n carries a boost pad
func (g *QuadGraph) IsZipper(n Node) bool {
	return g.valid(n) && g.nodes[n].zipper
}

// Edges returns the raw edge list of n including AI-excluded edges
func (g *QuadGraph) Edges(n Node) []Edge {
	if !g.valid(n) {
		return nil
	}
	return g.nodes[n].edges
}

// Bounds returns the XZ bounding box of all quads
func (g *QuadGraph) Bounds() (minX, minZ, maxX, maxZ float64) {
	minX, minZ = math.Inf(1), math.Inf(1)
	maxX, maxZ = math.Inf(-1), math.Inf(-1)
	for i := range g.nodes {
		for _, p := range g.nodes[i].quad.P {
			minX = min(minX, p.X)
			minZ = min(minZ, p.Z)
			maxX = max(maxX, p.X)
			maxZ = max(maxZ, p.Z)
		}
	}
	return minX, minZ, maxX, maxZ
}
