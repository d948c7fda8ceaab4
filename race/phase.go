package race

import (
	"fmt"
)

// Phase is a race flow state
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCountdown
	PhaseRacing
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseCountdown:
		return "countdown"
	case PhaseRacing:
		return "racing"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// guardFunc returns true if the transition should occur, elapsed is the time spent in the phase
type guardFunc[T any] func(ctx T, elapsed float64) bool

// actionFunc executes a side effect
type actionFunc[T any] func(ctx T)

type transition[T any] struct {
	target Phase
	guard  guardFunc[T] // nil = always
}

// phaseNode is one state of the machine
type phaseNode[T any] struct {
	phase       Phase
	onEnter     []actionFunc[T]
	onUpdate    []actionFunc[T]
	transitions []transition[T] // Evaluated in order, first match wins
}

// machine is a flat tick-driven state machine
// T is the context passed to actions and guards
type machine[T any] struct {
	nodes   map[Phase]*phaseNode[T]
	initial Phase

	active  Phase
	elapsed float64
}

func newMachine[T any](initial Phase) *machine[T] {
	return &machine[T]{
		nodes:   make(map[Phase]*phaseNode[T]),
		initial: initial,
	}
}

// node returns the node for p, creating it on first use
func (m *machine[T]) node(p Phase) *phaseNode[T] {
	n, ok := m.nodes[p]
	if !ok {
		n = &phaseNode[T]{phase: p}
		m.nodes[p] = n
	}
	return n
}

func (m *machine[T]) onEnter(p Phase, fn actionFunc[T]) *machine[T] {
	n := m.node(p)
	n.onEnter = append(n.onEnter, fn)
	return m
}

func (m *machine[T]) onUpdate(p Phase, fn actionFunc[T]) *machine[T] {
	n := m.node(p)
	n.onUpdate = append(n.onUpdate, fn)
	return m
}

func (m *machine[T]) addTransition(from, to Phase, guard guardFunc[T]) *machine[T] {
	n := m.node(from)
	n.transitions = append(n.transitions, transition[T]{target: to, guard: guard})
	m.node(to)
	return m
}

// reset enters the initial phase
func (m *machine[T]) reset(ctx T) {
	m.enter(ctx, m.initial)
}

// update runs the active phase's actions, then at most one transition
func (m *machine[T]) update(ctx T, dt float64) {
	n, ok := m.nodes[m.active]
	if !ok {
		return
	}
	m.elapsed += dt

	for _, fn := range n.onUpdate {
		fn(ctx)
	}
	for _, tr := range n.transitions {
		if tr.guard == nil || tr.guard(ctx, m.elapsed) {
			m.enter(ctx, tr.target)
			return
		}
	}
}

func (m *machine[T]) enter(ctx T, p Phase) {
	n, ok := m.nodes[p]
	if !ok {
		panic(fmt.Sprintf("race: phase %v not registered", p))
	}
	m.active = p
	m.elapsed = 0
	for _, fn := range n.onEnter {
		fn(ctx)
	}
}

func (m *machine[T]) phase() Phase {
	return m.active
}

func (m *machine[T]) timeInPhase() float64 {
	return m.elapsed
}
