package race

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/kart-pilot/controller"
	"github.com/lixenwraith/kart-pilot/maxspeed"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

// Kart is one participant: body, speed envelope and driver
type Kart struct {
	ID   uuid.UUID
	Name string

	body       *physics.Kart
	maxSpeed   *maxspeed.Model
	controller controller.Controller
	driver     controller.Controller // Controller restored on race reset
	rng        *vmath.FastRand

	grid    int        // Starting slot
	node    track.Node // Last on-road node, Unknown before the first fix
	offRoad bool

	lap        int
	checkpoint bool // Passed the middle of the lap since the last start line crossing
	finished   bool
	finishTime float64
	rank       int // 1-based finishing position, 0 while racing

	nitro       float64
	obstruction float64 // Remaining vision obstruction time
	rescues     int
}

var _ controller.Kart = (*Kart)(nil)

func (k *Kart) Position() vmath.Vec3F  { return k.body.Position() }
func (k *Kart) Heading() float64       { return k.body.Heading() }
func (k *Kart) Speed() float64         { return k.body.Speed() }
func (k *Kart) VisionObstructed() bool { return k.obstruction > 0 }

// Body returns the physics body
func (k *Kart) Body() *physics.Kart { return k.body }

// MaxSpeed returns the kart's speed envelope
func (k *Kart) MaxSpeed() *maxspeed.Model { return k.maxSpeed }

// Controller returns the active driver
func (k *Kart) Controller() controller.Controller { return k.controller }

// Node returns the last on-road node
func (k *Kart) Node() track.Node { return k.node }

// Lap returns the current lap, 0 being the first
func (k *Kart) Lap() int { return k.lap }

func (k *Kart) Finished() bool      { return k.finished }
func (k *Kart) FinishTime() float64 { return k.finishTime }
func (k *Kart) Rank() int           { return k.rank }
func (k *Kart) Nitro() float64      { return k.nitro }
func (k *Kart) OffRoad() bool       { return k.offRoad }
func (k *Kart) Rescues() int        { return k.rescues }
