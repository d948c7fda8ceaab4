// Package steering turns aim points and headings into steering commands
package steering

import (
	"math"

	"github.com/samber/lo"

	"github.com/lixenwraith/kart-pilot/navigation"
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

// SkidModel selects whether the agent may request skids
type SkidModel int

const (
	SkidAuto  SkidModel = iota // Skid when steering demand exceeds the threshold
	SkidNever                  // Kart skid handling the AI cannot drive, never request skids
)

// Config is the per-agent steering setup
type Config struct {
	WheelBase         float64
	MaxSteerAngle     float64
	SkiddingThreshold float64 // Steering fraction magnitude above which skidding engages
	TimeFullSteer     float64 // Seconds to go from straight to full steer
	SkidModel         SkidModel
}

// KartView is the kart state the solver reads
type KartView interface {
	Position() vmath.Vec3F
	Heading() float64
	VisionObstructed() bool
}

// Solver computes steering for one agent
type Solver struct {
	cfg   Config
	graph track.Graph
	kart  KartView
}

func NewSolver(cfg Config, g track.Graph, k KartView) *Solver {
	return &Solver{cfg: cfg, graph: g, kart: k}
}

// Config returns the solver setup
func (s *Solver) Config() Config {
	return s.cfg
}

// skidSteer is the steer angle that forces skid-assisted turning toward side
func (s *Solver) skidSteer(side float64) float64 {
	v := s.cfg.MaxSteerAngle*s.cfg.SkiddingThreshold + parameter.SkidSteerMargin
	if side < 0 {
		return -v
	}
	return v
}

// SteerTowardPoint returns the steer angle that puts the kart on a circle through target
//
// In kart space the kart sits at the origin facing +z. The turning centre lies on the x axis
// at r where r² = (r-x)² + z², so r = (x²+z²)/(2x) and sin(steer) = wheelBase/r.
// A point with |x| > |z| can only be reached after more than a quarter circle, so no arc
// gets there directly and skid-level steering is forced instead.
func (s *Solver) SteerTowardPoint(target vmath.Vec3F) float64 {
	x, z := vmath.ToLocal(target, s.kart.Position(), s.kart.Heading())

	if math.Abs(x) > math.Abs(z) {
		return s.skidSteer(x)
	}
	if x == 0 {
		return 0
	}

	radius := (x*x + z*z) / (2 * x)
	sinSteer := s.cfg.WheelBase / radius

	// Wheel base too long for this radius
	if sinSteer <= -1 || sinSteer >= 1 {
		return s.skidSteer(sinSteer)
	}

	// Oversteer: the exact angle is only valid for this tick, the kart is corrected again next tick
	return parameter.SteerOvershoot * math.Asin(sinSteer)
}

// SteerTowardAngle returns the steer angle that aligns the kart with the driveline from node to
// its planned successor, plus extra
// Without a planned successor there is no driveline and the current heading is held
func (s *Solver) SteerTowardAngle(plan *navigation.PathPlan, node track.Node, extra float64) float64 {
	steer := 0.0
	if next := plan.Next(node); next != track.Unknown {
		steer = vmath.WrapHeading(s.graph.AngleToNext(node, next) - s.kart.Heading())
	}
	if s.kart.VisionObstructed() {
		steer += extra * parameter.ObstructedExtraAngleScale
	} else {
		steer += extra
	}
	return vmath.NormalizeAngle(steer)
}

// Apply converts angle into the controls' steer fraction and skid request
// Steering slews toward the demand at 1/TimeFullSteer per second, like an analog stick
func (s *Solver) Apply(c *physics.Controls, angle, dt float64) {
	fraction := 0.0
	if s.cfg.MaxSteerAngle > 0 {
		fraction = angle / s.cfg.MaxSteerAngle
	}
	obstructed := s.kart.VisionObstructed()

	// Skid is decided on the unclamped demand
	switch {
	case !s.doSkid(fraction, obstructed):
		c.Skid = physics.SkidNone
	case fraction > 0:
		c.Skid = physics.SkidRight
	default:
		c.Skid = physics.SkidLeft
	}

	limit := 1.0
	if obstructed {
		limit = parameter.ObstructedSteerLimit
	}
	fraction = lo.Clamp(fraction, -limit, limit)

	if s.cfg.TimeFullSteer <= 0 {
		c.Steer = fraction
		return
	}
	maxChange := dt / s.cfg.TimeFullSteer
	old := c.Steer
	if old < fraction {
		c.Steer = min(old+maxChange, fraction)
	} else {
		c.Steer = max(old-maxChange, fraction)
	}
}

func (s *Solver) doSkid(fraction float64, obstructed bool) bool {
	if obstructed || s.cfg.SkidModel == SkidNever {
		return false
	}
	return math.Abs(fraction) > s.cfg.SkiddingThreshold
}
