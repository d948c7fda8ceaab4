package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kart-pilot/maxspeed"
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/physics"
	"github.com/lixenwraith/kart-pilot/track"
	"github.com/lixenwraith/kart-pilot/vmath"
)

const tick = 1.0 / 60

type fakeKart struct {
	pos        vmath.Vec3F
	heading    float64
	speed      float64
	obstructed bool
}

func (k *fakeKart) Position() vmath.Vec3F  { return k.pos }
func (k *fakeKart) Heading() float64       { return k.heading }
func (k *fakeKart) VisionObstructed() bool { return k.obstructed }
func (k *fakeKart) Speed() float64         { return k.speed }

func mediumProps() AIProperties {
	return AIProperties{
		SkiddingThreshold: parameter.MediumSkiddingThreshold,
		TimeFullSteer:     parameter.MediumTimeFullSteer,
		SpeedCap:          parameter.MediumSpeedCap,
	}
}

func newEnv(g track.Graph, k *fakeKart) Env {
	return Env{
		Graph: g,
		Kart:  k,
		Speed: maxspeed.New(nil, parameter.KartEngineMaxSpeed),
		Props: physics.DefaultKartProperties(),
		Rand:  vmath.NewFastRand(7),
	}
}

func newOvalAI(t *testing.T, k *fakeKart) (*AI, Env) {
	t.Helper()
	env := newEnv(track.NewOval(40, 15, 8, 24), k)
	a, err := NewAI(env, mediumProps(), "ai-1")
	require.NoError(t, err)
	return a, env
}

func TestNewAIValidatesEnv(t *testing.T) {
	k := &fakeKart{}
	g := track.NewOval(40, 15, 8, 24)

	tests := []struct {
		name   string
		mutate func(*Env)
	}{
		{"graph", func(e *Env) { e.Graph = nil }},
		{"kart", func(e *Env) { e.Kart = nil }},
		{"speed", func(e *Env) { e.Speed = nil }},
		{"rand", func(e *Env) { e.Rand = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(g, k)
			tt.mutate(&env)
			_, err := NewAI(env, mediumProps(), "broken")
			assert.True(t, errors.Is(err, ErrInvalidEnv))
		})
	}
}

func TestAIAppliesSpeedCap(t *testing.T) {
	a, env := newOvalAI(t, &fakeKart{})
	assert.Equal(t, KindAI, a.Kind())
	assert.Equal(t, "ai-1", a.Name())

	env.Speed.Update(0)
	assert.InDelta(t, parameter.KartEngineMaxSpeed*parameter.MediumSpeedCap, env.Speed.CurrentMaxSpeed(), 1e-9)
}

func TestAIDrivesStraight(t *testing.T) {
	k := &fakeKart{pos: vmath.Vec3F{X: -15, Z: 5}}
	a, _ := newOvalAI(t, k)

	a.Update(tick)
	c := a.Controls()

	assert.Equal(t, track.Node(1), a.Node())
	assert.GreaterOrEqual(t, c.Steer, 0.0)
	assert.LessOrEqual(t, c.Steer, tick/parameter.MediumTimeFullSteer+1e-9)
	assert.Equal(t, 1.0, c.Accel)
	assert.False(t, c.Brake)
	assert.False(t, c.Rescue)
}

func TestAICorrectsHeading(t *testing.T) {
	// Turned right of the straight, every visible aim point lies to the left
	k := &fakeKart{pos: vmath.Vec3F{X: -15, Z: 5}, heading: 0.5}
	a, _ := newOvalAI(t, k)

	for i := 0; i < 5; i++ {
		a.Update(tick)
	}
	assert.Less(t, a.Controls().Steer, 0.0)
}

func TestAIStuckRaisesRescue(t *testing.T) {
	k := &fakeKart{pos: vmath.Vec3F{X: -15, Z: 5}}
	a, _ := newOvalAI(t, k)

	a.Crashed(Crash{Kind: CrashKart, Time: 0})
	a.Crashed(Crash{Kind: CrashKart, Time: 0.5})
	a.Crashed(Crash{Kind: CrashKart, Time: 1.0})
	assert.False(t, a.IsStuckFlagSet(), "kart contacts never mean stuck")

	a.Crashed(Crash{Kind: CrashTerrain, Time: 2.0})
	a.Crashed(Crash{Kind: CrashTerrain, Time: 2.5})
	assert.False(t, a.IsStuckFlagSet())
	a.Crashed(Crash{Kind: CrashTerrain, Time: 3.0})
	require.True(t, a.IsStuckFlagSet())

	a.Update(tick)
	assert.True(t, a.Controls().Rescue)

	a.ClearStuck()
	assert.False(t, a.IsStuckFlagSet())
	assert.False(t, a.Controls().Rescue)
}

func TestAINewLapRecomputesPath(t *testing.T) {
	a, _ := newOvalAI(t, &fakeKart{})
	first := a.Plan()

	a.NewLap(0)
	assert.Same(t, first, a.Plan())

	a.NewLap(1)
	assert.NotSame(t, first, a.Plan())
	assert.Equal(t, 1, a.Lap())
	assert.Equal(t, first.Len(), a.Plan().Len())
}

func TestAIReset(t *testing.T) {
	k := &fakeKart{pos: vmath.Vec3F{X: -15, Z: 5}}
	a, env := newOvalAI(t, k)

	a.Update(tick)
	a.NewLap(2)
	a.Crashed(Crash{Kind: CrashTerrain, Time: 0})
	require.NoError(t, env.Speed.SetSlowdown(maxspeed.DecreaseTerrain, 0.2, 0, 0))

	a.Reset()
	assert.Equal(t, physics.Controls{}, *a.Controls())
	assert.Equal(t, track.Unknown, a.Node())
	assert.Zero(t, a.Lap())
	assert.False(t, a.IsStuckFlagSet())

	env.Speed.Update(0)
	assert.InDelta(t, parameter.KartEngineMaxSpeed*parameter.MediumSpeedCap, env.Speed.CurrentMaxSpeed(), 1e-9)
}

func TestAILostKartHoldsThrottle(t *testing.T) {
	g := track.NewOval(40, 15, 8, 24)
	g.MaxOffRoadDistance = 20
	k := &fakeKart{pos: vmath.Vec3F{X: 1000, Z: 1000}}
	a, err := NewAI(newEnv(g, k), mediumProps(), "lost")
	require.NoError(t, err)

	a.Update(tick)
	assert.Equal(t, track.Unknown, a.Node())
	assert.Equal(t, 1.0, a.Controls().Accel)
	assert.Zero(t, a.Controls().Steer)
}

func TestEndControllerNeverSkids(t *testing.T) {
	// Facing sideways near the start of the far turn forces a sharp steer demand
	k := &fakeKart{pos: vmath.Vec3F{X: -15, Z: 5}, heading: 1.5, speed: 20}
	env := newEnv(track.NewOval(40, 15, 8, 24), k)
	e, err := NewEnd(env, "done", 1)
	require.NoError(t, err)
	assert.Equal(t, KindEnd, e.Kind())
	assert.Equal(t, track.Node(1), e.Node())

	for i := 0; i < 10; i++ {
		e.Update(tick)
		assert.Equal(t, physics.SkidNone, e.Controls().Skid)
		assert.False(t, e.Controls().Nitro)
	}

	env.Speed.Update(0)
	assert.InDelta(t, parameter.KartEngineMaxSpeed*parameter.EndSpeedCap, env.Speed.CurrentMaxSpeed(), 1e-9)
}

func TestPlayerActions(t *testing.T) {
	p := NewPlayer(Env{}, "p1")
	c := p.Controls()
	assert.Equal(t, KindPlayer, p.Kind())

	p.Action(ActionAccel, 1)
	p.Action(ActionSteerLeft, 0.7)
	assert.Equal(t, 1.0, c.Accel)
	assert.Equal(t, -0.7, c.Steer)

	// Releasing the opposite direction keeps the current steer
	p.Action(ActionSteerRight, 0)
	assert.Equal(t, -0.7, c.Steer)
	p.Action(ActionSteerLeft, 0)
	assert.Zero(t, c.Steer)

	p.Action(ActionSteerRight, 2)
	assert.Equal(t, 1.0, c.Steer)
	p.Action(ActionSteerLeft, 3)
	assert.Equal(t, -1.0, c.Steer)
	p.Action(ActionSteerRight, 1)

	p.Action(ActionAccel, 5)
	assert.Equal(t, 1.0, c.Accel)
	p.Action(ActionAccel, -1)
	assert.Zero(t, c.Accel)
	p.Action(ActionAccel, 0.4)
	assert.Equal(t, 0.4, c.Accel)

	p.Action(ActionSkid, 1)
	assert.Equal(t, physics.SkidRight, c.Skid)
	// Direction stays locked while the skid is held
	p.Action(ActionSteerLeft, 1)
	p.Update(tick)
	assert.Equal(t, physics.SkidRight, c.Skid)
	p.Action(ActionSkid, 0)
	assert.Equal(t, physics.SkidNone, c.Skid)

	p.Action(ActionBrake, 1)
	p.Action(ActionNitro, 1)
	p.Action(ActionRescue, 1)
	assert.True(t, c.Brake)
	assert.True(t, c.Nitro)
	assert.True(t, c.Rescue)

	p.Reset()
	assert.Equal(t, physics.Controls{}, *c)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ai", KindAI.String())
	assert.Equal(t, "end", KindEnd.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
