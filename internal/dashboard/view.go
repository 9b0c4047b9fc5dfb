package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/ui"
)

// View renders the panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting pingboard..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	if ShowFooter(m.height) {
		sb.WriteString("\n\n")
		sb.WriteString(m.renderFooter())
	}
	return sb.String()
}

// renderHeader renders the title line with per-bucket counts.
func (m Model) renderHeader() string {
	counts := m.Counts()

	parts := []string{
		goodStyle.Render(fmt.Sprintf("%s %d good", ui.SymbolComplete, counts[monitor.BucketGood])),
		degradedStyle.Render(fmt.Sprintf("%s %d degraded", ui.SymbolDegraded, counts[monitor.BucketDegraded])),
		unreachableStyle.Render(fmt.Sprintf("%s %d unreachable", ui.SymbolFail, counts[monitor.BucketUnreachable])),
	}
	if n := counts[monitor.BucketPending]; n > 0 {
		parts = append(parts, pendingStyle.Render(fmt.Sprintf("%s %d pending", ui.SymbolPending, n)))
	}

	header := titleStyle.Render("pingboard") + "  " + strings.Join(parts, footerStyle.Render("  "))

	var meta []string
	if m.method != "" {
		meta = append(meta, m.method)
	}
	if m.cycle > 0 {
		meta = append(meta, fmt.Sprintf("pass %d", m.cycle))
	}
	if !m.lastUpdate.IsZero() {
		meta = append(meta, m.lastUpdate.Format("15:04:05"))
	}
	if len(meta) > 0 {
		header += "  " + footerStyle.Render(strings.Join(meta, " · "))
	}
	return headerStyle.Render(header)
}

// renderBody renders every group with its rows. This is the viewport content.
func (m Model) renderBody() string {
	nameWidth := 0
	for _, r := range m.rows {
		if w := lipgloss.Width(r.Entry.Target); w > nameWidth {
			nameWidth = w
		}
	}

	var sb strings.Builder
	group := ""
	for i, r := range m.rows {
		if i == 0 || r.Entry.Group != group {
			group = r.Entry.Group
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(groupStyle.Render(group))
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderRow(r, nameWidth))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// renderRow renders one target line.
func (m Model) renderRow(r Row, nameWidth int) string {
	look := lookFor(r.Bucket)
	symbol := look.symbol
	if r.Refreshing {
		symbol = ui.SymbolRefreshing
	}

	return "  " + look.style.Render(symbol) + " " +
		targetStyle.Render(ui.PadRight(r.Entry.Target, nameWidth)) + "  " +
		look.style.Render(r.Label)
}

// renderFooter renders the footer with keyboard shortcuts.
func (m Model) renderFooter() string {
	hint := "q: quit | r: refresh | ↑/↓: scroll | ?: help"
	if m.viewport.TotalLineCount() > m.viewport.Height {
		hint += fmt.Sprintf(" | %3.f%%", m.viewport.ScrollPercent()*100)
	}
	return footerStyle.Render(hint)
}

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))

	for _, binding := range helpBindings {
		lines = append(lines, helpKeyStyle.Render(binding.Key)+helpDescStyle.Render(binding.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, footerStyle.Render("Press ? or Esc to close"))

	helpBox := helpBoxStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
	)
}
