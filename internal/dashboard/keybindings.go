package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyEscape     = "esc"
	KeyRefresh    = "r"
	KeyRefreshAlt = "f5"
	KeyUp         = "up"
	KeyUpK        = "k"
	KeyDown       = "down"
	KeyDownJ      = "j"
	KeyPageUp     = "pgup"
	KeyPageDown   = "pgdown"
	KeyTop        = "home"
	KeyBottom     = "end"
	KeyToggleHelp = "?"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Esc", Desc: "Quit"},
	{Key: "r / F5", Desc: "Refresh now"},
	{Key: "up / k", Desc: "Scroll up"},
	{Key: "down / j", Desc: "Scroll down"},
	{Key: "PgUp / PgDn", Desc: "Scroll a page"},
	{Key: "Home / End", Desc: "Jump to top / bottom"},
	{Key: "?", Desc: "Toggle this help"},
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it instead of quitting
	if m.showHelp && key == KeyEscape {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt, KeyEscape:
		m.quitting = true
		return true, tea.Batch(m.stopCmd(), tea.Quit)

	case KeyRefresh, KeyRefreshAlt:
		m.markRefreshing()
		if m.refresh != nil {
			m.refresh()
		}
		return true, nil

	case KeyUp, KeyUpK:
		m.viewport.LineUp(1)
		return true, nil

	case KeyDown, KeyDownJ:
		m.viewport.LineDown(1)
		return true, nil

	case KeyPageUp:
		m.viewport.ViewUp()
		return true, nil

	case KeyPageDown:
		m.viewport.ViewDown()
		return true, nil

	case KeyTop:
		m.viewport.GotoTop()
		return true, nil

	case KeyBottom:
		m.viewport.GotoBottom()
		return true, nil
	}

	return false, nil
}

// stopCmd stops the monitor loop off the event loop goroutine. Stop waits
// for an in-progress delivery, and deliveries wait on this event loop.
func (m *Model) stopCmd() tea.Cmd {
	stop := m.stop
	if stop == nil {
		return nil
	}
	return func() tea.Msg {
		stop()
		return nil
	}
}
