package monitor

import (
	"time"

	"github.com/rileyhilliard/pingboard/internal/probe"
)

// Update reports the fresh state of one target.
type Update struct {
	Index   int
	Target  string
	Label   string
	Bucket  Bucket
	Outcome probe.Outcome
	Cycle   int
	At      time.Time
}

// Sink receives updates from a Loop. The loop never calls Update from more
// than one goroutine at a time, but it does call it from a goroutine other
// than the one that called Start.
//
// A returned error is logged and otherwise ignored; it does not stop the loop.
type Sink interface {
	Update(u Update) error
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(u Update) error

// Update calls f.
func (f SinkFunc) Update(u Update) error {
	return f(u)
}
