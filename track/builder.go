package track

import (
	"fmt"
	"math"

	"github.com/lixenwraith/kart-pilot/vmath"
)

// Builder assembles a QuadGraph
type Builder struct {
	nodes []quadNode
	err   error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode appends a quad and returns its node id
func (b *Builder) AddNode(q Quad) Node {
	b.nodes = append(b.nodes, quadNode{quad: q, center: q.Center()})
	return Node(len(b.nodes) - 1)
}

// AddEdge links from→to, first error is kept and reported by Build
func (b *Builder) AddEdge(from, to Node, aiExcluded bool) *Builder {
	if b.err != nil {
		return b
	}
	if from < 0 || int(from) >= len(b.nodes) || to < 0 || int(to) >= len(b.nodes) {
		b.err = fmt.Errorf("edge %d->%d: %w", from, to, ErrInvalidNode)
		return b
	}
	b.nodes[from].edges = append(b.nodes[from].edges, Edge{To: to, AIExcluded: aiExcluded})
	return b
}

// SetZipper marks n as a boost pad
func (b *Builder) SetZipper(n Node) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 || int(n) >= len(b.nodes) {
		b.err = fmt.Errorf("zipper %d: %w", n, ErrInvalidNode)
		return b
	}
	b.nodes[n].zipper = true
	return b
}

// AddStrip appends quads along an open centre line, linking them in order
// Returns the ids of the new nodes
func (b *Builder) AddStrip(center []vmath.Vec3F, width float64) []Node {
	if len(center) < 2 {
		return nil
	}
	lefts, rights := offsets(center, width, false)
	ids := make([]Node, 0, len(center)-1)
	for i := 0; i < len(center)-1; i++ {
		ids = append(ids, b.AddNode(Quad{P: [4]vmath.Vec3F{lefts[i], rights[i], rights[i+1], lefts[i+1]}}))
	}
	for i := 0; i+1 < len(ids); i++ {
		b.AddEdge(ids[i], ids[i+1], false)
	}
	return ids
}

// AddRing appends quads along a closed centre line, the last node links back to the first
func (b *Builder) AddRing(center []vmath.Vec3F, width float64) []Node {
	n := len(center)
	if n < 3 {
		return nil
	}
	lefts, rights := offsets(center, width, true)
	ids := make([]Node, 0, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		ids = append(ids, b.AddNode(Quad{P: [4]vmath.Vec3F{lefts[i], rights[i], rights[j], lefts[j]}}))
	}
	for i := range ids {
		b.AddEdge(ids[i], ids[(i+1)%n], false)
	}
	return ids
}

// Build validates and returns the graph
func (b *Builder) Build() (*QuadGraph, error) {
	if b.err != nil {
		return nil, b.err
	}
	nodes := make([]quadNode, len(b.nodes))
	copy(nodes, b.nodes)
	return &QuadGraph{nodes: nodes}, nil
}

// offsets computes left/right road edges per centre vertex using mitred segment normals
// so neighbouring quads share their edges exactly
func offsets(center []vmath.Vec3F, width float64, closed bool) (lefts, rights []vmath.Vec3F) {
	n := len(center)
	half := width * 0.5
	segRight := func(i int) vmath.Vec3F {
		a := center[i]
		c := center[(i+1)%n]
		return vmath.Right(vmath.HeadingOf(vmath.V3FSub(c, a)))
	}

	lefts = make([]vmath.Vec3F, n)
	rights = make([]vmath.Vec3F, n)
	for i := 0; i < n; i++ {
		var r vmath.Vec3F
		switch {
		case closed:
			r = vmath.V3FAdd(segRight((i-1+n)%n), segRight(i))
		case i == 0:
			r = segRight(0)
		case i == n-1:
			r = segRight(n - 2)
		default:
			r = vmath.V3FAdd(segRight(i-1), segRight(i))
		}
		r = vmath.V3FNormalize(r)
		lefts[i] = vmath.V3FSub(center[i], vmath.V3FScale(r, half))
		rights[i] = vmath.V3FAdd(center[i], vmath.V3FScale(r, half))
	}
	return lefts, rights
}

// StadiumCenterLine samples a closed stadium shape (two straights, two half circles) clockwise
// seen from above, starting at the beginning of the first straight
func StadiumCenterLine(straight, radius float64, segments int) []vmath.Vec3F {
	if segments < 4 {
		segments = 4
	}
	perArc := segments / 2
	straightSteps := max(1, int(math.Round(straight/(math.Pi*radius/float64(perArc)))))
	pts := make([]vmath.Vec3F, 0, 2*(straightSteps+perArc))

	// First straight along +Z at x = -radius
	for i := 0; i < straightSteps; i++ {
		pts = append(pts, vmath.Vec3F{X: -radius, Z: straight * float64(i) / float64(straightSteps)})
	}
	// Far turn around (0, straight)
	for i := 0; i < perArc; i++ {
		a := math.Pi - math.Pi*float64(i)/float64(perArc)
		pts = append(pts, vmath.Vec3F{X: radius * math.Cos(a), Z: straight + radius*math.Sin(a)})
	}
	// Back straight along -Z at x = +radius
	for i := 0; i < straightSteps; i++ {
		pts = append(pts, vmath.Vec3F{X: radius, Z: straight - straight*float64(i)/float64(straightSteps)})
	}
	// Near turn around (0, 0)
	for i := 0; i < perArc; i++ {
		a := -math.Pi * float64(i) / float64(perArc)
		pts = append(pts, vmath.Vec3F{X: radius * math.Cos(a), Z: radius * math.Sin(a)})
	}
	return pts
}

// NewOval builds a closed stadium track with node 0 at the start line
func NewOval(straight, radius, width float64, segments int) *QuadGraph {
	b := NewBuilder()
	b.AddRing(StadiumCenterLine(straight, radius, segments), width)
	g, _ := b.Build()
	return g
}
