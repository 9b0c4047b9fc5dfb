package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/targets"
)

// Row is the display state of one target.
type Row struct {
	Entry  targets.Entry
	Label  string
	Bucket monitor.Bucket
	// Refreshing is set by a manual refresh and cleared by the next update.
	Refreshing bool
	Cycle      int
}

// ModelOptions wires the model to the loop that feeds it.
type ModelOptions struct {
	// Stop ends the monitor loop when the user quits.
	Stop func()
	// Refresh asks the loop for an immediate pass.
	Refresh func()
	// Method names the probe in use, shown in the header.
	Method string
}

// Model is the Bubble Tea model for the ping panel.
type Model struct {
	rows       []Row
	groupNames []string
	method     string
	stop       func()
	refresh    func()

	width      int
	height     int
	viewport   viewport.Model
	ready      bool
	showHelp   bool
	quitting   bool
	cycle      int
	lastUpdate time.Time
}

// Reserved lines around the scrollable body.
const (
	headerHeight = 2
	footerHeight = 2
)

// NewModel creates a panel with one pending row per catalog entry. Row i
// corresponds to index i of targets.Flatten(groups).
func NewModel(groups []targets.Group, opts ModelOptions) Model {
	entries := targets.Entries(groups)
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Entry: e, Label: "…", Bucket: monitor.BucketPending}
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}

	return Model{
		rows:       rows,
		groupNames: names,
		method:     opts.Method,
		stop:       opts.Stop,
		refresh:    opts.Refresh,
	}
}

// Init returns the initial command for the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		_, cmd := m.HandleKeyMsg(msg)
		m.syncContent()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		bodyHeight := m.height - headerHeight
		if ShowFooter(m.height) {
			bodyHeight -= footerHeight
		}
		if bodyHeight < 1 {
			bodyHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, bodyHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = bodyHeight
		}
		m.syncContent()
		return m, nil

	case ProbeResultMsg:
		m.apply(msg.Update)
		m.syncContent()
		return m, nil

	case loopDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// apply records u on its row. Updates for unknown indexes are dropped.
func (m *Model) apply(u monitor.Update) {
	if u.Index < 0 || u.Index >= len(m.rows) {
		return
	}

	row := &m.rows[u.Index]
	row.Label = u.Label
	row.Bucket = u.Bucket
	row.Refreshing = false
	row.Cycle = u.Cycle

	if u.Cycle > m.cycle {
		m.cycle = u.Cycle
	}
	m.lastUpdate = u.At
}

func (m *Model) markRefreshing() {
	for i := range m.rows {
		m.rows[i].Refreshing = true
	}
}

// syncContent re-renders the body into the viewport, keeping the scroll
// position.
func (m *Model) syncContent() {
	if !m.ready {
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.renderBody())
	m.viewport.SetYOffset(offset)
}

// Rows returns a copy of the current row states.
func (m Model) Rows() []Row {
	return append([]Row(nil), m.rows...)
}

// Counts tallies rows by bucket.
func (m Model) Counts() map[monitor.Bucket]int {
	counts := make(map[monitor.Bucket]int)
	for _, r := range m.rows {
		counts[r.Bucket]++
	}
	return counts
}
