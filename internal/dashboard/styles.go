package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pingboard/internal/monitor"
	"github.com/rileyhilliard/pingboard/internal/ui"
)

// Panel color palette, inspired by the classic green/amber/red ping widget.
const (
	ColorGood        = lipgloss.Color("#39FF14") // Neon green
	ColorDegraded    = lipgloss.Color("#FFAA00") // Electric amber
	ColorUnreachable = lipgloss.Color("#FF0055") // Hot red-pink

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")
	ColorAccent        = lipgloss.Color("#FF2E97")
	ColorSurfaceBg     = lipgloss.Color("#12121A")
)

// HeightMinimal is the shortest terminal that still gets a footer.
const HeightMinimal = 8

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	groupStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Bold(true)

	targetStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	footerStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	pendingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGood)

	degradedStyle = lipgloss.NewStyle().
			Foreground(ColorDegraded)

	unreachableStyle = lipgloss.NewStyle().
				Foreground(ColorUnreachable)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// bucketLook is how a bucket is drawn.
type bucketLook struct {
	symbol string
	style  lipgloss.Style
}

var bucketLooks = map[monitor.Bucket]bucketLook{
	monitor.BucketPending:     {symbol: ui.SymbolPending, style: pendingStyle},
	monitor.BucketGood:        {symbol: ui.SymbolComplete, style: goodStyle},
	monitor.BucketDegraded:    {symbol: ui.SymbolDegraded, style: degradedStyle},
	monitor.BucketUnreachable: {symbol: ui.SymbolFail, style: unreachableStyle},
}

// lookFor returns the symbol and style for b, falling back to pending.
func lookFor(b monitor.Bucket) bucketLook {
	if look, ok := bucketLooks[b]; ok {
		return look
	}
	return bucketLooks[monitor.BucketPending]
}

// ShowFooter returns true if the terminal is tall enough for the footer.
func ShowFooter(height int) bool {
	return height >= HeightMinimal
}
