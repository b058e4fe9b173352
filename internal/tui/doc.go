// Package tui provides the terminal surface of stashwalk.
//
// It handles:
//   - Line-oriented prompts and confirmations (Console, using survey on a TTY)
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss and termenv)
package tui
