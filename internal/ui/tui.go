// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the pipeline monitor
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the monitor TUI. The caller feeds it StatsMsg snapshots via
// Program.Send and blocks on Program.Run.
func Run(deviceID, backend string) *tea.Program {
	return tea.NewProgram(NewModel(deviceID, backend), tea.WithAltScreen())
}
