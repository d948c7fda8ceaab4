package track

import (
	"github.com/lixenwraith/kart-pilot/vmath"
)

// Quad is the road surface of one node
// Corners are ordered left-start, right-start, right-end, left-end in driving direction
type Quad struct {
	P [4]vmath.Vec3F
}

// Center returns the average of the corners
func (q Quad) Center() vmath.Vec3F {
	var c vmath.Vec3F
	for _, p := range q.P {
		c = vmath.V3FAdd(c, p)
	}
	return vmath.V3FScale(c, 0.25)
}

// StartMid and EndMid bound the centre line of the quad
func (q Quad) StartMid() vmath.Vec3F { return vmath.V3FLerp(q.P[0], q.P[1], 0.5) }
func (q Quad) EndMid() vmath.Vec3F   { return vmath.V3FLerp(q.P[3], q.P[2], 0.5) }

// ContainsXZ tests pos against the quad projected onto the driving plane
// Accepts either winding, points on an edge count as inside
func (q Quad) ContainsXZ(pos vmath.Vec3F) bool {
	var pos0, neg0 bool
	for i := 0; i < 4; i++ {
		a := q.P[i]
		b := q.P[(i+1)%4]
		c := vmath.Cross2XZ(vmath.V3FSub(b, a), vmath.V3FSub(pos, a))
		if c > 0 {
			pos0 = true
		} else if c < 0 {
			neg0 = true
		}
		if pos0 && neg0 {
			return false
		}
	}
	return true
}

// DistToCenterLineSq is the squared XZ distance from pos to the centre segment
func (q Quad) DistToCenterLineSq(pos vmath.Vec3F) float64 {
	a := q.StartMid()
	b := q.EndMid()
	ab := vmath.V3FSub(b, a)
	ab.Y = 0
	ap := vmath.V3FSub(pos, a)
	ap.Y = 0
	lenSq := vmath.V3FMagSq(ab)
	t := 0.0
	if lenSq > 0 {
		t = vmath.V3FDot(ap, ab) / lenSq
	}
	t = max(0, min(1, t))
	return vmath.V3FDistXZSq(vmath.V3FLerp(a, b, t), pos)
}

// HalfWidth approximates half the road width at the quad centre
func (q Quad) HalfWidth() float64 {
	left := vmath.V3FLerp(q.P[0], q.P[3], 0.5)
	right := vmath.V3FLerp(q.P[1], q.P[2], 0.5)
	return vmath.V3FMag(vmath.V3FSub(right, left)) * 0.5
}
