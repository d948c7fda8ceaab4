package controller

import (
	"log"
	"math"

	"github.com/samber/lo"

	"github.com/lixenwraith/kart-pilot/maxspeed"
	"github.com/lixenwraith/kart-pilot/navigation"
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/steering"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

// AIProperties tune one difficulty level
type AIProperties struct {
	SkiddingThreshold float64 `yaml:"skidding_threshold"`
	TimeFullSteer     float64 `yaml:"time_full_steer"`
	SpeedCap          float64 `yaml:"speed_cap"` // Fraction of base max speed, applied as the AI slowdown
	NoSkid            bool    `yaml:"no_skid"`
}

// EndProperties drive a kart that has finished the race
func EndProperties() AIProperties {
	return AIProperties{
		SkiddingThreshold: parameter.EasySkiddingThreshold,
		TimeFullSteer:     parameter.EasyTimeFullSteer,
		SpeedCap:          parameter.EndSpeedCap,
		NoSkid:            true,
	}
}

// AI follows a randomized path through the track graph
// The End variant shares the implementation with EndProperties and KindEnd
type AI struct {
	base
	kind  Kind
	props AIProperties

	plan    *navigation.PathPlan
	tracker *navigation.Tracker
	solver  *steering.Solver
	lap     int
}

var _ Controller = (*AI)(nil)

// NewAI creates an AI driver and computes its first path
func NewAI(env Env, props AIProperties, name string) (*AI, error) {
	return newAI(env, props, name, KindAI)
}

// NewEnd creates the controller that takes a kart over after it finishes
// The tracker starts from node so the kart keeps following the road it is on
func NewEnd(env Env, name string, node track.Node) (*AI, error) {
	a, err := newAI(env, EndProperties(), name, KindEnd)
	if err != nil {
		return nil, err
	}
	a.tracker.Reset(node)
	return a, nil
}

func newAI(env Env, props AIProperties, name string, kind Kind) (*AI, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}

	skid := steering.SkidAuto
	if props.NoSkid {
		skid = steering.SkidNever
	}
	cfg := steering.Config{
		WheelBase:         env.Props.WheelBase,
		MaxSteerAngle:     env.Props.MaxSteerAngle,
		SkiddingThreshold: props.SkiddingThreshold,
		TimeFullSteer:     props.TimeFullSteer,
		SkidModel:         skid,
	}

	a := &AI{
		base:    newBase(env, name),
		kind:    kind,
		props:   props,
		plan:    navigation.ComputePath(env.Graph, env.Rand),
		tracker: navigation.NewTracker(env.Graph),
		solver:  steering.NewSolver(cfg, env.Graph, env.Kart),
	}
	a.applySpeedCap()
	return a, nil
}

func (a *AI) Kind() Kind { return a.kind }

// Plan returns the current path plan
func (a *AI) Plan() *navigation.PathPlan { return a.plan }

// Node returns the tracked node
func (a *AI) Node() track.Node { return a.tracker.Node() }

// Lap returns the lap last passed to NewLap
func (a *AI) Lap() int { return a.lap }

// Reset clears the per-race state, the plan is kept until the next lap
func (a *AI) Reset() {
	a.resetBase()
	a.tracker.Reset(track.Unknown)
	a.lap = 0
	a.env.Speed.Reset()
	a.applySpeedCap()
}

func (a *AI) applySpeedCap() {
	if err := a.env.Speed.SetSlowdown(maxspeed.DecreaseAI, a.props.SpeedCap, 0, 0); err != nil {
		log.Printf("[AI] %s: speed cap %v rejected: %v", a.name, a.props.SpeedCap, err)
	}
}

// NewLap recomputes the path on every lap after the first
func (a *AI) NewLap(lap int) {
	a.lap = lap
	if lap <= 0 {
		return
	}
	a.plan = navigation.ComputePath(a.env.Graph, a.env.Rand)
	log.Printf("[AI] %s: lap %d, path recomputed", a.name, lap)
}

// Action is ignored, AI karts take no player input
func (a *AI) Action(Action, float64) {}

// Update reads the stuck flag and the tracked position, then steers toward the farthest visible
// lookahead node
func (a *AI) Update(dt float64) {
	c := &a.controls
	c.Rescue = a.detector.IsStuck()

	pos := a.env.Kart.Position()
	node := a.tracker.Update(pos, a.plan)
	if node == track.Unknown {
		// Lost: hold the throttle and straighten out until a node is found
		a.solver.Apply(c, 0, dt)
		c.Accel = 1
		c.Brake = false
		c.Nitro = false
		return
	}

	g := a.env.Graph
	next := a.plan.Next(node)
	onRoad := g.Contains(node, pos)
	target, visible := a.aimPoint(pos, node)

	var angle float64
	if onRoad && visible <= 1 {
		angle = a.solver.SteerTowardAngle(a.plan, next, a.centringAngle(pos, node, next))
	} else {
		angle = a.solver.SteerTowardPoint(target)
	}
	a.solver.Apply(c, angle, dt)
	a.throttle(angle, visible)
}

// aimPoint scans the lookahead for the farthest node centre reachable in a straight line on road
// Returns the aim point and the number of visible lookahead nodes; with none visible it aims at
// the next node
func (a *AI) aimPoint(pos vmath.Vec3F, node track.Node) (vmath.Vec3F, int) {
	g := a.env.Graph
	ahead := a.plan.Lookahead(node)
	target := g.Center(a.plan.Next(node))

	visible := 0
	for i, n := range ahead {
		if n == track.Unknown {
			break
		}
		center := g.Center(n)
		// Samples between pos and ahead[i] lie on node or the lookahead up to i
		if !a.lineOnRoad(pos, center, node, ahead[:i+1]) {
			break
		}
		target = center
		visible = i + 1
	}
	return target, visible
}

func (a *AI) lineOnRoad(from, to vmath.Vec3F, node track.Node, window []track.Node) bool {
	g := a.env.Graph
	dist := math.Sqrt(vmath.V3FDistXZSq(from, to))
	steps := int(dist / parameter.AIVisibilityStep)

	for s := 1; s <= steps; s++ {
		p := vmath.V3FLerp(from, to, float64(s)/float64(steps+1))
		if g.Contains(node, p) {
			continue
		}
		if !lo.ContainsBy(window, func(n track.Node) bool { return g.Contains(n, p) }) {
			return false
		}
	}
	return true
}

// centringAngle steers back toward the centre line of node
func (a *AI) centringAngle(pos vmath.Vec3F, node, next track.Node) float64 {
	g := a.env.Graph
	if next == track.Unknown {
		return 0
	}
	lateral, _ := vmath.ToLocal(pos, g.Center(node), g.AngleToNext(node, next))
	return lo.Clamp(-lateral*parameter.AICentringGain, -a.env.Props.MaxSteerAngle, a.env.Props.MaxSteerAngle)
}

// throttle eases off in sharp turns and brakes when a turn needs a skid the kart may not do
func (a *AI) throttle(angle float64, visible int) {
	c := &a.controls
	demand := 0.0
	if a.env.Props.MaxSteerAngle > 0 {
		demand = math.Abs(angle) / a.env.Props.MaxSteerAngle
	}

	c.Brake = false
	c.Accel = 1
	switch {
	case demand > a.props.SkiddingThreshold && c.Skid == physics.SkidNone:
		// Too sharp to drive without a skid
		c.Accel = 0
		c.Brake = a.env.Kart.Speed() > 0.5*a.env.Speed.CurrentMaxSpeed()
	case demand > parameter.AIBrakeSteerFraction:
		c.Accel = 0.5
	}

	c.Nitro = a.kind == KindAI && demand < 0.1 && visible >= navigation.LookaheadLen/2
}
