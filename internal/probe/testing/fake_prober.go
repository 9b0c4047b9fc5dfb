// Package testing provides test doubles for the probe package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/pingboard/internal/probe"
)

// FakeProber returns canned outcomes without touching the network.
// It is safe for concurrent use.
type FakeProber struct {
	mu       sync.Mutex
	outcomes map[string]probe.Outcome
	fallback probe.Outcome
	delay    time.Duration
	block    bool
	calls    map[string]int
	total    int
	inFlight int
	peak     int
}

// NewFakeProber creates a fake that answers every target with 10ms.
func NewFakeProber() *FakeProber {
	return &FakeProber{
		outcomes: make(map[string]probe.Outcome),
		fallback: probe.Latency(10),
		calls:    make(map[string]int),
	}
}

// On sets the outcome returned for target.
func (f *FakeProber) On(target string, o probe.Outcome) *FakeProber {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[target] = o
	return f
}

// Default sets the outcome for targets without an explicit one.
func (f *FakeProber) Default(o probe.Outcome) *FakeProber {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = o
	return f
}

// WithDelay makes every probe take d (bounded by the timeout).
func (f *FakeProber) WithDelay(d time.Duration) *FakeProber {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

// Blocking makes every probe wait until its context is cancelled.
func (f *FakeProber) Blocking() *FakeProber {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block = true
	return f
}

// Probe implements probe.Prober.
func (f *FakeProber) Probe(ctx context.Context, target string, timeout time.Duration) probe.Outcome {
	f.mu.Lock()
	f.calls[target]++
	f.total++
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	o, ok := f.outcomes[target]
	if !ok {
		o = f.fallback
	}
	delay, block := f.delay, f.block
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if block {
		<-ctx.Done()
		return probe.Failed(ctx.Err())
	}

	if delay > 0 {
		if timeout > 0 && delay > timeout {
			delay = timeout
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return probe.Failed(ctx.Err())
		case <-timer.C:
		}
	}

	return o
}

// Calls returns how many times target was probed.
func (f *FakeProber) Calls(target string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[target]
}

// TotalCalls returns the number of probes across all targets.
func (f *FakeProber) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// PeakInFlight returns the largest number of probes that ran at once.
func (f *FakeProber) PeakInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

var _ probe.Prober = (*FakeProber)(nil)
