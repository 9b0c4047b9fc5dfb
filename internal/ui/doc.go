// Package ui provides terminal styling shared by pingboard's commands.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Reachable, fast
//	ColorWarning   (yellow) - Reachable, slow
//	ColorError     (red)    - Unreachable, failures
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - Group headings
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Tables
//
// RenderSimpleTable renders a bubbles table as a plain string for one-shot
// CLI output such as `pingboard once` and `pingboard targets`.
package ui
