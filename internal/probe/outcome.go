package probe

import (
	"fmt"
	"math"
	"time"
)

// Kind tags the result of a single probe attempt.
type Kind int

const (
	// KindError means no reply: the name didn't resolve, the socket
	// couldn't be opened, the network reported the host unreachable, or
	// nothing came back before the timeout. Many hosts drop echo requests,
	// so this is common.
	KindError Kind = iota
	// KindSlow means a reply arrived but its round-trip time couldn't be
	// recovered.
	KindSlow
	// KindLatency means a reply arrived with a measurable round-trip time.
	KindLatency
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindLatency:
		return "latency"
	case KindSlow:
		return "slow"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one probe. Outcomes are produced
// fresh for every attempt and never merged with earlier ones.
type Outcome struct {
	Kind Kind
	// RTT is the round-trip time in milliseconds. Only meaningful for
	// KindLatency, where it is never negative.
	RTT float64
	// Err holds the underlying failure for diagnostics. It is nil for
	// KindLatency and may be nil for KindSlow.
	Err error
}

// Latency returns a KindLatency outcome for ms milliseconds. A negative or
// non-finite value means the timing is unusable, which is reported as
// KindSlow rather than an error.
func Latency(ms float64) Outcome {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Slow(fmt.Errorf("unusable round-trip time %v", ms))
	}
	return Outcome{Kind: KindLatency, RTT: ms}
}

// LatencyOf converts a measured duration into a KindLatency outcome.
func LatencyOf(d time.Duration) Outcome {
	return Latency(float64(d) / float64(time.Millisecond))
}

// Slow returns a KindSlow outcome.
func Slow(cause error) Outcome {
	return Outcome{Kind: KindSlow, Err: cause}
}

// Failed returns a KindError outcome.
func Failed(cause error) Outcome {
	return Outcome{Kind: KindError, Err: cause}
}

// String renders the outcome for logs.
func (o Outcome) String() string {
	switch o.Kind {
	case KindLatency:
		return fmt.Sprintf("%.1fms", o.RTT)
	case KindSlow:
		return "slow"
	default:
		if o.Err != nil {
			return "error: " + o.Err.Error()
		}
		return "error"
	}
}
