package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	pberrors "github.com/rileyhilliard/pingboard/internal/errors"
	"github.com/rileyhilliard/pingboard/internal/monitor"
)

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// Bridge implements monitor.Sink and forwards updates to the Bubble Tea
// program via program.Send(). This is goroutine-safe.
type Bridge struct {
	program sender
}

// NewBridge creates a new bridge that forwards updates to the given program.
func NewBridge(program *tea.Program) *Bridge {
	if program == nil {
		return &Bridge{}
	}
	return &Bridge{program: program}
}

// Update forwards u to the TUI.
func (b *Bridge) Update(u monitor.Update) error {
	if b.program == nil {
		return pberrors.New(pberrors.ErrSink,
			"Dashboard is not running",
			"Create the bridge with the running tea.Program")
	}
	b.program.Send(ProbeResultMsg{Update: u})
	return nil
}

// LoopDone tells the TUI that the monitor loop has exited.
func (b *Bridge) LoopDone() {
	if b.program != nil {
		b.program.Send(loopDoneMsg{})
	}
}
