// Package track holds the driveline graph the AI navigates
// The graph is built once per track load and is read-only afterwards, so any number of agents may share it
package track

import (
	"errors"

	"github.com/lixenwraith/kart-pilot/vmath"
)

// Node identifies one segment of the driveline graph
type Node int

// Unknown is the "no known node" sentinel
const Unknown Node = -1

var ErrInvalidNode = errors.New("track: invalid node")

// Graph is the read-only driveline graph consumed by navigation and steering
type Graph interface {
	// NodeCount returns the number of nodes, ids are 0..NodeCount()-1
	NodeCount() int

	// Successors lists the nodes reachable in one hop
	// aiOnly drops edges hidden from the AI (e.g. shortcuts)
	Successors(n Node, aiOnly bool) []Node

	// Contains reports whether pos lies on the road surface of n
	Contains(n Node, pos vmath.Vec3F) bool

	// NearestNode searches all nodes for one whose road surface holds pos, Unknown if none
	NearestNode(pos vmath.Vec3F) Node

	// NearestOffRoadNode returns the node whose centre line is closest to pos, Unknown if none qualifies
	NearestOffRoadNode(pos vmath.Vec3F) Node

	// AngleToNext returns the heading of the driveline from n toward next
	AngleToNext(n, next Node) float64

	// Center returns the centre point of n
	Center(n Node) vmath.Vec3F
}
