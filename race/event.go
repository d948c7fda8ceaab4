package race

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind classifies race events
type EventKind int

const (
	EventStart EventKind = iota
	EventLap
	EventFinish
	EventRaceOver
	EventCrash
	EventRescue
	EventZipper
	EventSkidBonus
)

func (e EventKind) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventLap:
		return "lap"
	case EventFinish:
		return "finish"
	case EventRaceOver:
		return "race-over"
	case EventCrash:
		return "crash"
	case EventRescue:
		return "rescue"
	case EventZipper:
		return "zipper"
	case EventSkidBonus:
		return "skid-bonus"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Event is something that happened during a tick, for sound and display
type Event struct {
	Kind EventKind
	Kart uuid.UUID // uuid.Nil for race-wide events
	Time float64
	Lap  int
}
