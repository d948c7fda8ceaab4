// Package race runs karts, controllers and speed envelopes around a track, one fixed tick at a time
package race

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/lixenwraith/kart-pilot/controller"
	"github.com/lixenwraith/kart-pilot/maxspeed"
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/stuck"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

var (
	ErrUnknownKart = errors.New("race: unknown kart")
	ErrRaceStarted = errors.New("race: already started")
)

// Track is the driveline graph plus the surface details the race needs
type Track interface {
	track.Graph
	IsZipper(n track.Node) bool
	Quad(n track.Node) (track.Quad, bool)
}

// Options configure a race
type Options struct {
	Laps      int
	Countdown float64
	Seed      uint64
	Props     physics.KartProperties
	Stuck     stuck.Config
}

// Race owns every kart and advances them in a fixed order each tick:
// deferred rescues, physics with collision callbacks, controllers, speed envelopes
type Race struct {
	track Track
	opts  Options

	karts []*Kart
	byID  map[uuid.UUID]*Kart

	fsm  *machine[*Race]
	dt   float64 // Step dt, read by phase actions
	time float64 // Race time since the start signal

	finishedCount int
	rescueQueue   []*Kart // Consumed at the start of the next tick
	pending       map[*Kart]bool
	events        []Event
}

func New(t Track, opts Options) *Race {
	if opts.Laps < 1 {
		opts.Laps = parameter.RaceDefaultLaps
	}
	opts.Countdown = max(0, opts.Countdown)

	r := &Race{
		track:   t,
		opts:    opts,
		byID:    make(map[uuid.UUID]*Kart),
		pending: make(map[*Kart]bool),
	}

	r.fsm = newMachine[*Race](PhaseCountdown).
		onEnter(PhaseCountdown, (*Race).resetKarts).
		addTransition(PhaseCountdown, PhaseRacing, func(r *Race, elapsed float64) bool {
			return elapsed >= r.opts.Countdown
		}).
		onEnter(PhaseRacing, (*Race).startRacing).
		onUpdate(PhaseRacing, (*Race).simulate).
		addTransition(PhaseRacing, PhaseFinished, func(r *Race, _ float64) bool {
			return len(r.karts) > 0 && r.finishedCount == len(r.karts)
		}).
		onEnter(PhaseFinished, func(r *Race) {
			r.emit(Event{Kind: EventRaceOver, Time: r.time})
			log.Printf("[RACE] all %d karts finished at %.2fs", len(r.karts), r.time)
		}).
		// Finished karts keep cruising under their end controllers
		onUpdate(PhaseFinished, (*Race).simulate)

	return r
}

// AddAI adds an AI kart on the next grid slot
func (r *Race) AddAI(name string, props controller.AIProperties) (*Kart, error) {
	k, err := r.newKart(name)
	if err != nil {
		return nil, err
	}
	ai, err := controller.NewAI(r.env(k), props, name)
	if err != nil {
		return nil, fmt.Errorf("add ai %q: %w", name, err)
	}
	r.register(k, ai)
	return k, nil
}

// AddPlayer adds a kart driven through Action
func (r *Race) AddPlayer(name string) (*Kart, error) {
	k, err := r.newKart(name)
	if err != nil {
		return nil, err
	}
	r.register(k, controller.NewPlayer(r.env(k), name))
	return k, nil
}

func (r *Race) newKart(name string) (*Kart, error) {
	if r.fsm.phase() != PhaseNone {
		return nil, fmt.Errorf("add kart %q: %w", name, ErrRaceStarted)
	}
	grid := len(r.karts)
	pos, heading := r.gridSlot(grid)
	body := physics.NewKart(r.opts.Props, pos, heading)
	return &Kart{
		ID:       uuid.New(),
		Name:     name,
		body:     body,
		maxSpeed: maxspeed.New(body, r.opts.Props.EngineMaxSpeed),
		rng:      vmath.NewFastRand(r.opts.Seed + uint64(grid) + 1),
		grid:     grid,
		node:     track.Unknown,
		nitro:    parameter.RaceNitroStart,
	}, nil
}

func (r *Race) register(k *Kart, c controller.Controller) {
	k.controller = c
	k.driver = c
	r.karts = append(r.karts, k)
	r.byID[k.ID] = k
}

func (r *Race) env(k *Kart) controller.Env {
	return controller.Env{
		Graph: r.track,
		Kart:  k,
		Speed: k.maxSpeed,
		Props: r.opts.Props,
		Rand:  k.rng,
		Stuck: r.opts.Stuck,
	}
}

// gridSlot places two karts per row, row r sitting r nodes past the start node
func (r *Race) gridSlot(slot int) (vmath.Vec3F, float64) {
	if r.track.NodeCount() == 0 {
		return vmath.Vec3F{}, 0
	}
	row := slot / 2
	node := track.Node(0)
	for i := 0; i < row; i++ {
		succ := r.track.Successors(node, false)
		if len(succ) == 0 {
			break
		}
		node = succ[0]
	}

	heading := r.headingAt(node)
	side := -parameter.RaceGridLateral
	if slot%2 == 1 {
		side = parameter.RaceGridLateral
	}
	pos := vmath.V3FAdd(r.track.Center(node), vmath.V3FScale(vmath.Right(heading), side))
	return pos, heading
}

// headingAt is the driveline heading of n toward its first successor
func (r *Race) headingAt(n track.Node) float64 {
	succ := r.track.Successors(n, false)
	if len(succ) == 0 {
		return 0
	}
	return r.track.AngleToNext(n, succ[0])
}

// Start puts every kart on the grid and begins the countdown
func (r *Race) Start() {
	r.fsm.reset(r)
	log.Printf("[RACE] start: %d karts, %d laps", len(r.karts), r.opts.Laps)
}

// Step advances the race by dt
func (r *Race) Step(dt float64) {
	r.dt = dt
	r.fsm.update(r, dt)
}

func (r *Race) resetKarts() {
	r.time = 0
	r.finishedCount = 0
	r.rescueQueue = r.rescueQueue[:0]
	clear(r.pending)

	for _, k := range r.karts {
		pos, heading := r.gridSlot(k.grid)
		k.body.Place(pos, heading)
		k.controller = k.driver
		k.node = track.Unknown
		k.offRoad = false
		k.lap = 0
		k.checkpoint = false
		k.finished = false
		k.finishTime = 0
		k.rank = 0
		k.nitro = parameter.RaceNitroStart
		k.obstruction = 0
		k.rescues = 0

		// The speed model is reset first so AI controllers can reapply their cap
		k.maxSpeed.Reset()
		k.controller.Reset()
		k.maxSpeed.Update(0)
	}
}

func (r *Race) startRacing() {
	r.emit(Event{Kind: EventStart})
	for _, k := range r.karts {
		k.controller.NewLap(0)
	}
}

// simulate is one racing tick
func (r *Race) simulate() {
	dt := r.dt
	r.time += dt

	r.runRescues()

	for _, k := range r.karts {
		r.integrate(k, dt)
	}
	r.resolveKartContacts()
	for _, k := range r.karts {
		r.updateProgress(k)
	}

	for _, k := range r.karts {
		c := k.controller
		c.Update(dt)
		if c.Controls().Rescue && !r.pending[k] {
			r.pending[k] = true
			r.rescueQueue = append(r.rescueQueue, k)
		}
	}

	for _, k := range r.karts {
		k.maxSpeed.Update(dt)
	}
}

// integrate moves one kart and reports wall contacts to its controller
func (r *Race) integrate(k *Kart, dt float64) {
	c := k.controller.Controls()
	prev := k.body.Position()
	prevSkid := k.body.SkidTime()

	r.applyNitro(k, c, dt)
	k.body.Integrate(c, k.maxSpeed.EngineForce(), dt)
	k.obstruction = max(0, k.obstruction-dt)

	if r.hitsWall(k.body.Position()) {
		k.body.SetPosition(prev)
		k.body.ScaleSpeed(parameter.RaceWallBounce)
		k.controller.Crashed(controller.Crash{Kind: controller.CrashTerrain, Time: r.time})
		r.emit(Event{Kind: EventCrash, Kart: k.ID, Time: r.time})
	}

	if prevSkid > 0 && k.body.SkidTime() == 0 {
		r.skidReleased(k, prevSkid)
	}
}

func (r *Race) applyNitro(k *Kart, c *physics.Controls, dt float64) {
	if !c.Nitro || k.nitro <= 0 {
		return
	}
	k.nitro = max(0, k.nitro-parameter.NitroConsumption*dt)
	if err := k.maxSpeed.IncreaseMaxSpeed(maxspeed.IncreaseNitro, parameter.NitroAddSpeed,
		parameter.NitroEngineForce, parameter.NitroDuration, parameter.NitroFadeOut); err != nil {
		log.Printf("[RACE] %s: nitro: %v", k.Name, err)
	}
}

// skidReleased grants the bonus earned by a long skid
func (r *Race) skidReleased(k *Kart, skidTime float64) {
	var (
		cat   maxspeed.IncreaseCategory
		bonus float64
	)
	switch {
	case skidTime >= parameter.SkidRedBonusTime:
		cat, bonus = maxspeed.IncreaseRedSkidding, parameter.SkidRedBonusSpeed
	case skidTime >= parameter.SkidBonusTime:
		cat, bonus = maxspeed.IncreaseSkidding, parameter.SkidBonusSpeed
	default:
		return
	}
	if err := k.maxSpeed.IncreaseMaxSpeed(cat, bonus, 0, parameter.SkidBonusDuration, parameter.SkidBonusFadeOut); err != nil {
		log.Printf("[RACE] %s: skid bonus: %v", k.Name, err)
		return
	}
	r.emit(Event{Kind: EventSkidBonus, Kart: k.ID, Time: r.time})
}

// hitsWall reports whether pos lies past the wall beside the nearest road
func (r *Race) hitsWall(pos vmath.Vec3F) bool {
	if r.track.NearestNode(pos) != track.Unknown {
		return false
	}
	n := r.track.NearestOffRoadNode(pos)
	if n == track.Unknown {
		return true
	}
	q, ok := r.track.Quad(n)
	if !ok {
		return true
	}
	limit := q.HalfWidth() + parameter.RaceWallMargin
	return q.DistToCenterLineSq(pos) > limit*limit
}

// resolveKartContacts separates overlapping karts
func (r *Race) resolveKartContacts() {
	const minDist = 2 * parameter.RaceKartRadius
	for i, a := range r.karts {
		for _, b := range r.karts[i+1:] {
			pa, pb := a.body.Position(), b.body.Position()
			distSq := vmath.V3FDistXZSq(pa, pb)
			if distSq >= minDist*minDist {
				continue
			}

			dist := math.Sqrt(distSq)
			dir := vmath.Forward(a.body.Heading())
			if dist > 0 {
				dir = vmath.V3FScale(vmath.V3FSub(pb, pa), 1/dist)
				dir.Y = 0
			}
			push := vmath.V3FScale(dir, (minDist-dist)/2)
			a.body.SetPosition(vmath.V3FSub(pa, push))
			b.body.SetPosition(vmath.V3FAdd(pb, push))

			a.controller.Crashed(controller.Crash{Kind: controller.CrashKart, Time: r.time})
			b.controller.Crashed(controller.Crash{Kind: controller.CrashKart, Time: r.time})
		}
	}
}

// updateProgress refreshes the kart's node, terrain slowdown, zippers and laps
func (r *Race) updateProgress(k *Kart) {
	n := r.track.NearestNode(k.body.Position())

	offRoad := n == track.Unknown
	if offRoad != k.offRoad {
		k.offRoad = offRoad
		fraction := 1.0
		if offRoad {
			fraction = parameter.TerrainSlowdownFraction
		}
		if err := k.maxSpeed.SetSlowdown(maxspeed.DecreaseTerrain, fraction, parameter.TerrainSlowdownFadeIn, 0); err != nil {
			log.Printf("[RACE] %s: terrain slowdown: %v", k.Name, err)
		}
	}

	if n == track.Unknown || n == k.node {
		return
	}
	prev := k.node
	k.node = n

	if r.track.IsZipper(n) {
		if err := k.maxSpeed.InstantSpeedIncrease(maxspeed.IncreaseZipper, parameter.ZipperAddSpeed,
			parameter.ZipperSpeedBoost, parameter.ZipperEngineForce, parameter.ZipperDuration, parameter.ZipperFadeOut); err != nil {
			log.Printf("[RACE] %s: zipper: %v", k.Name, err)
		} else {
			r.emit(Event{Kind: EventZipper, Kart: k.ID, Time: r.time})
		}
	}

	// The checkpoint keeps a kart wobbling across the start line from counting laps
	count := r.track.NodeCount()
	if int(n) >= count/3 && int(n) <= 2*count/3 {
		k.checkpoint = true
	}
	if k.checkpoint && r.crossedStart(prev, n) {
		k.checkpoint = false
		r.completeLap(k)
	}
}

// crossedStart reports a forward move over the start line, either onto node 0 from a
// predecessor or from the last third of the lap straight into the first third
func (r *Race) crossedStart(prev, n track.Node) bool {
	if prev == track.Unknown {
		return false
	}
	if n == 0 {
		return r.isPredecessor(prev, 0)
	}
	count := r.track.NodeCount()
	return int(prev) > 2*count/3 && int(n) < count/3
}

func (r *Race) isPredecessor(from, to track.Node) bool {
	for _, s := range r.track.Successors(from, false) {
		if s == to {
			return true
		}
	}
	return false
}

func (r *Race) completeLap(k *Kart) {
	if k.finished {
		return
	}
	k.lap++
	if k.lap >= r.opts.Laps {
		r.finish(k)
		return
	}
	r.emit(Event{Kind: EventLap, Kart: k.ID, Time: r.time, Lap: k.lap})
	k.controller.NewLap(k.lap)
}

// finish ranks the kart and hands it to an end controller
func (r *Race) finish(k *Kart) {
	r.finishedCount++
	k.finished = true
	k.finishTime = r.time
	k.rank = r.finishedCount
	r.emit(Event{Kind: EventFinish, Kart: k.ID, Time: r.time, Lap: k.lap})
	log.Printf("[RACE] %s finished rank %d in %.2fs", k.Name, k.rank, k.finishTime)

	end, err := controller.NewEnd(r.env(k), k.Name, k.node)
	if err != nil {
		log.Printf("[RACE] %s: end controller: %v", k.Name, err)
		return
	}
	k.controller = end
}

// runRescues places every kart queued last tick back on the road
func (r *Race) runRescues() {
	for _, k := range r.rescueQueue {
		n := k.node
		if n == track.Unknown {
			n = r.track.NearestOffRoadNode(k.body.Position())
		}
		if n == track.Unknown {
			n = 0
		}
		k.body.Place(r.track.Center(n), r.headingAt(n))
		k.controller.ClearStuck()
		k.rescues++
		delete(r.pending, k)
		r.emit(Event{Kind: EventRescue, Kart: k.ID, Time: r.time})
		log.Printf("[RACE] %s rescued to node %d at %.2fs", k.Name, n, r.time)
	}
	r.rescueQueue = r.rescueQueue[:0]
}

// Action forwards a player input to the kart's controller
func (r *Race) Action(id uuid.UUID, a controller.Action, value float64) error {
	k, err := r.Kart(id)
	if err != nil {
		return err
	}
	k.controller.Action(a, value)
	return nil
}

// Obstruct blocks the kart's vision for d seconds
func (r *Race) Obstruct(id uuid.UUID, d float64) error {
	k, err := r.Kart(id)
	if err != nil {
		return err
	}
	k.obstruction = max(k.obstruction, d)
	return nil
}

// Kart looks a kart up by id
func (r *Race) Kart(id uuid.UUID) (*Kart, error) {
	k, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("kart %s: %w", id, ErrUnknownKart)
	}
	return k, nil
}

// Karts returns the karts in grid order
func (r *Race) Karts() []*Kart {
	return r.karts
}

// Standings orders karts by rank, then by lap and node for those still racing
func (r *Race) Standings() []*Kart {
	out := make([]*Kart, len(r.karts))
	copy(out, r.karts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.finished != b.finished {
			return a.finished
		}
		if a.finished {
			return a.rank < b.rank
		}
		if a.lap != b.lap {
			return a.lap > b.lap
		}
		return a.node > b.node
	})
	return out
}

func (r *Race) Phase() Phase   { return r.fsm.phase() }
func (r *Race) Time() float64  { return r.time }
func (r *Race) Laps() int      { return r.opts.Laps }
func (r *Race) Finished() bool { return r.fsm.phase() == PhaseFinished }

// Countdown returns the time left before the start signal
func (r *Race) Countdown() float64 {
	if r.fsm.phase() != PhaseCountdown {
		return 0
	}
	return max(0, r.opts.Countdown-r.fsm.timeInPhase())
}

func (r *Race) emit(e Event) {
	r.events = append(r.events, e)
}

// DrainEvents returns and clears the events emitted since the last call
func (r *Race) DrainEvents() []Event {
	out := r.events
	r.events = nil
	return out
}
