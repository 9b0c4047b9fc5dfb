package dashboard

import "github.com/rileyhilliard/pingboard/internal/monitor"

// ProbeResultMsg carries one monitor update into the Bubble Tea event loop.
type ProbeResultMsg struct {
	Update monitor.Update
}

// loopDoneMsg signals that the monitor loop has exited on its own, for
// example because its context was cancelled.
type loopDoneMsg struct{}
