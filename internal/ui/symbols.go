package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess    = "✓" // Command succeeded
	SymbolFail       = "✗" // Unreachable, or a command failed
	SymbolPending    = "○" // Not probed yet
	SymbolDegraded   = "◐" // Reachable but slow
	SymbolComplete   = "●" // Reachable and fast
	SymbolRefreshing = "⟳" // Refresh requested, waiting for the next result
	SymbolWarning    = "⚠"
)
