package monitor

import (
	"fmt"
	"math"

	"github.com/rileyhilliard/pingboard/internal/probe"
)

// DegradedThreshold is the round-trip time, in milliseconds, at which a
// reachable target stops counting as good.
const DegradedThreshold = 100.0

// Bucket is the display category of an outcome.
type Bucket int

const (
	// BucketPending marks a target that has not reported yet. Classify never
	// returns it.
	BucketPending Bucket = iota
	BucketGood
	BucketDegraded
	BucketUnreachable
)

// String returns a human-readable bucket name.
func (b Bucket) String() string {
	switch b {
	case BucketGood:
		return "good"
	case BucketDegraded:
		return "degraded"
	case BucketUnreachable:
		return "unreachable"
	default:
		return "pending"
	}
}

// Classify maps an outcome to its bucket.
func Classify(o probe.Outcome) Bucket {
	switch o.Kind {
	case probe.KindLatency:
		if o.RTT < DegradedThreshold {
			return BucketGood
		}
		return BucketDegraded
	case probe.KindSlow:
		return BucketDegraded
	default:
		return BucketUnreachable
	}
}

// Label renders an outcome the way the panel shows it: "45ms", "SLOW" or
// "ERROR". Milliseconds are truncated so a label never reads 100ms while
// the bucket is still good.
func Label(o probe.Outcome) string {
	switch o.Kind {
	case probe.KindLatency:
		return fmt.Sprintf("%dms", int64(math.Floor(o.RTT)))
	case probe.KindSlow:
		return "SLOW"
	default:
		return "ERROR"
	}
}
