package monitor

import (
	"time"

	"github.com/rileyhilliard/pingboard/internal/probe"
)

// State is the lifecycle phase of a Loop.
type State int32

const (
	StateIdle State = iota
	StateProbing
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TargetState is the most recent classified outcome for one target.
type TargetState struct {
	Index      int
	Target     string
	Outcome    probe.Outcome
	Bucket     Bucket
	Label      string
	RecordedAt time.Time
	// Cycle is the 1-based pass number that produced this state.
	Cycle int
}

func newTargetState(index, cycle int, target string, o probe.Outcome, at time.Time) TargetState {
	return TargetState{
		Index:      index,
		Target:     target,
		Outcome:    o,
		Bucket:     Classify(o),
		Label:      Label(o),
		RecordedAt: at,
		Cycle:      cycle,
	}
}

// Update converts the state into the message handed to a Sink.
func (s TargetState) Update() Update {
	return Update{
		Index:   s.Index,
		Target:  s.Target,
		Label:   s.Label,
		Bucket:  s.Bucket,
		Outcome: s.Outcome,
		Cycle:   s.Cycle,
		At:      s.RecordedAt,
	}
}
