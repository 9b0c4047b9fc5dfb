package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	pberrors "github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/logger"
	"github.com/rileyhilliard/pingboard/internal/probe"
)

// Defaults applied by DefaultOptions.
const (
	DefaultInterval    = time.Second
	DefaultTimeout     = 3 * time.Second
	DefaultConcurrency = 8
)

// Options tunes a Loop.
type Options struct {
	// Interval is the pause between the end of one pass and the start of the
	// next.
	Interval time.Duration
	// Timeout bounds each individual probe.
	Timeout time.Duration
	// Concurrency caps the probes in flight during a pass. 1 probes targets
	// one after another; zero or less means DefaultConcurrency.
	Concurrency int
	Logger      logger.Logger
}

// DefaultOptions returns the options the panel runs with out of the box.
func DefaultOptions() Options {
	return Options{
		Interval:    DefaultInterval,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
	}
}

// Loop periodically probes a fixed target list and forwards each result to
// a Sink. Create one with NewLoop; a Loop runs at most once.
type Loop struct {
	prober probe.Prober
	opts   Options
	log    logger.Logger

	mu      sync.Mutex // guards everything below up to deliverMu
	targets []string
	states  map[int]TargetState
	state   State
	started bool
	cycles  int
	cancel  context.CancelFunc

	// deliverMu serializes sink calls with Stop so that an update is either
	// delivered before Stop returns or not at all.
	deliverMu sync.Mutex
	stopped   bool

	refresh  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates an idle loop that probes with p.
func NewLoop(p probe.Prober, opts Options) *Loop {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Loop{
		prober:  p,
		opts:    opts,
		log:     log,
		states:  make(map[int]TargetState),
		refresh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start validates the configuration and begins probing targets in the
// background, delivering results to sink. It returns once the loop is
// running. Cancelling ctx has the same effect as Stop.
//
// The targets slice is copied; later changes to it have no effect.
func (l *Loop) Start(ctx context.Context, targets []string, sink Sink) error {
	if err := l.validate(true); err != nil {
		return err
	}
	if sink == nil {
		return pberrors.New(pberrors.ErrStartup,
			"No sink to deliver results to",
			"Pass a monitor.Sink to Start")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.state == StateStopped:
		return pberrors.New(pberrors.ErrStartup,
			"Loop has already been stopped",
			"Create a new loop with monitor.NewLoop")
	case l.started:
		return pberrors.New(pberrors.ErrStartup,
			"Loop is already running",
			"Start may only be called once per loop")
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.targets = append([]string(nil), targets...)
	l.started = true
	l.cancel = cancel

	go l.run(runCtx, sink)
	return nil
}

// Stop ends the loop. It is safe to call from any goroutine, any number of
// times, before or after Start. In-flight probes are abandoned rather than
// awaited; once Stop returns no further update reaches the sink.
//
// Stop waits for a sink call that is already in progress, so it must not be
// called from inside Sink.Update.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.deliverMu.Lock()
		l.stopped = true
		l.deliverMu.Unlock()

		l.mu.Lock()
		l.state = StateStopped
		cancel := l.cancel
		neverStarted := !l.started
		l.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if neverStarted {
			close(l.done)
		}
	})
}

// Done is closed once the loop goroutine has exited, or immediately on Stop
// for a loop that was never started.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Refresh starts the next pass now instead of waiting out the interval.
// It does nothing while a pass is running or after the loop has stopped.
func (l *Loop) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	// The send stays under mu so a pass can't start and drain the channel
	// between the state check and the send.
	if !l.started || l.state != StateIdle {
		return
	}

	select {
	case l.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of every recorded TargetState in index order.
// Targets that have not reported yet are omitted.
func (l *Loop) Snapshot() []TargetState {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]TargetState, 0, len(l.states))
	for i := range l.targets {
		if st, ok := l.states[i]; ok {
			out = append(out, st)
		}
	}
	return out
}

// Cycles reports how many passes have completed.
func (l *Loop) Cycles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cycles
}

// State reports the current lifecycle phase.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// RunOnce probes every target a single time and returns the resulting
// states in index order. opts.Interval is ignored. When ctx ends early the
// states recorded so far are returned together with the context's error.
func RunOnce(ctx context.Context, p probe.Prober, targets []string, opts Options) ([]TargetState, error) {
	l := NewLoop(p, opts)
	if err := l.validate(false); err != nil {
		return nil, err
	}
	l.targets = append([]string(nil), targets...)
	l.pass(ctx, 1, l.targets, SinkFunc(func(Update) error { return nil }))
	return l.Snapshot(), ctx.Err()
}

func (l *Loop) validate(needInterval bool) error {
	if l.prober == nil {
		return pberrors.New(pberrors.ErrStartup,
			"No prober configured",
			"Build one with probe.New")
	}
	if needInterval && l.opts.Interval <= 0 {
		return pberrors.New(pberrors.ErrStartup,
			fmt.Sprintf("Interval must be positive, got %s", l.opts.Interval),
			"Try --interval 1s")
	}
	if l.opts.Timeout <= 0 {
		return pberrors.New(pberrors.ErrStartup,
			fmt.Sprintf("Timeout must be positive, got %s", l.opts.Timeout),
			"Try --timeout 3s")
	}
	return nil
}

func (l *Loop) run(ctx context.Context, sink Sink) {
	defer l.finish()

	l.log.Debug("monitor started: %d targets, interval %s, timeout %s, concurrency %d",
		len(l.targets), l.opts.Interval, l.opts.Timeout, l.opts.Concurrency)

	for cycle := 1; ; cycle++ {
		if !l.transition(StateProbing) {
			return
		}
		// A refresh requested before this pass began is already satisfied.
		select {
		case <-l.refresh:
		default:
		}

		start := time.Now()
		l.pass(ctx, cycle, l.targets, sink)
		if ctx.Err() != nil {
			return
		}

		l.mu.Lock()
		l.cycles = cycle
		l.mu.Unlock()
		l.log.Debug("pass %d complete in %s", cycle, time.Since(start).Round(time.Millisecond))

		if !l.transition(StateIdle) {
			return
		}

		timer := time.NewTimer(l.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-l.refresh:
			timer.Stop()
			l.log.Debug("refresh requested")
		case <-timer.C:
		}
	}
}

// transition moves to s unless the loop has stopped.
func (l *Loop) transition(s State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateStopped {
		return false
	}
	l.state = s
	return true
}

// finish runs when the loop goroutine exits, whether through Stop or
// through cancellation of the context passed to Start.
func (l *Loop) finish() {
	l.deliverMu.Lock()
	l.stopped = true
	l.deliverMu.Unlock()

	l.mu.Lock()
	l.state = StateStopped
	cancel := l.cancel
	cycles := l.cycles
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.log.Debug("monitor stopped after %d passes", cycles)
	close(l.done)
}

// pass probes every target once, with at most Concurrency probes in flight,
// and returns when all of them have reported or ctx has ended.
func (l *Loop) pass(ctx context.Context, cycle int, targets []string, sink Sink) {
	var g errgroup.Group
	g.SetLimit(l.opts.Concurrency)

	for i, target := range targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			o := l.prober.Probe(ctx, target, l.opts.Timeout)
			if o.Kind == probe.KindError {
				l.log.Debug("%s: %v", target, o.Err)
			}
			l.deliver(ctx, newTargetState(i, cycle, target, o, time.Now()), sink)
			return nil
		})
	}

	_ = g.Wait()
}

func (l *Loop) deliver(ctx context.Context, st TargetState, sink Sink) {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	// Outcomes of probes that were cut short by shutdown are meaningless.
	if l.stopped || ctx.Err() != nil {
		return
	}

	l.mu.Lock()
	l.states[st.Index] = st
	l.mu.Unlock()

	if err := sink.Update(st.Update()); err != nil {
		l.log.Warn("sink rejected update for %s (#%d): %v", st.Target, st.Index, err)
	}
}
