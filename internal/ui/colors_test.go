package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorConstants(t *testing.T) {
	// Palette uses ANSI indexes so it follows the terminal theme
	colors := []lipgloss.Color{
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
		ColorPrimary,
		ColorSecondary,
		ColorMuted,
	}

	for _, color := range colors {
		colorStr := string(color)
		assert.Len(t, colorStr, 1, "color should be a single ANSI index: %s", colorStr)
		assert.True(t, colorStr[0] >= '0' && colorStr[0] <= '9', "color should be numeric: %s", colorStr)
	}
}

func TestStylesAreFunctional(t *testing.T) {
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Success", SuccessStyle()},
		{"Error", ErrorStyle()},
		{"Warning", WarningStyle()},
		{"Info", InfoStyle()},
		{"Muted", MutedStyle()},
	}

	for _, tt := range styles {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				result := tt.style.Render("test text")
				assert.Contains(t, result, "test text")
			})
		})
	}
}

func TestDisableColors(t *testing.T) {
	previous := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	DisableColors()

	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
	assert.Equal(t, "test", SuccessStyle().Render("test"))
}

func TestForceColors(t *testing.T) {
	previous := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	DisableColors()
	ForceColors()

	assert.Equal(t, termenv.ANSI256, lipgloss.ColorProfile())
	assert.Contains(t, SuccessStyle().Render("test"), "\x1b[")
}

func TestSymbols(t *testing.T) {
	symbols := []string{
		SymbolSuccess,
		SymbolFail,
		SymbolPending,
		SymbolDegraded,
		SymbolComplete,
		SymbolRefreshing,
		SymbolWarning,
	}

	seen := make(map[string]bool)
	for _, s := range symbols {
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "duplicate symbol %q", s)
		seen[s] = true
	}
	assert.Equal(t, "⟳", SymbolRefreshing)
}
