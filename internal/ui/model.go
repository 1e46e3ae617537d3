// ABOUTME: Bubbletea model for the pipeline monitor TUI
// ABOUTME: Shows clock configuration, queue depth, and underrun count
package ui

import (
	"fmt"

	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the monitor state.
type Model struct {
	// Device
	deviceID string
	backend  string

	// Clock
	clock i2s.ClockConfig

	// Pipeline
	queueDepth    int
	queueCapacity int
	framesPushed  int64
	underruns     int64

	// Source
	sourceName string
	sourceRate int
	playing    bool

	// Dimensions
	width  int
	height int
}

// NewModel creates a monitor model.
func NewModel(deviceID, backend string) Model {
	return Model{deviceID: deviceID, backend: backend}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatsMsg:
		m.applyStats(msg)
	}

	return m, nil
}

// View renders the monitor.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := "stopped"
	if m.playing {
		state = "playing"
	}

	s := fmt.Sprintf(`┌─ i2splay ────────────────────────────────────────────┐
│ Device:  %-8s  Backend: %-10s  %-10s    │
│ Source:  %-30s %6d Hz     │
├──────────────────────────────────────────────────────┤
`, m.deviceID, m.backend, state, truncate(m.sourceName, 30), m.sourceRate)

	s += fmt.Sprintf("│ Clock:   mdiv %-3d bckdiv %-3d bits %-3d -> %6d Hz   │\n",
		m.clock.ClkmDiv, m.clock.BCKDiv, m.clock.Bits, m.clock.Freq)
	s += fmt.Sprintf("│ Buffers: [%s] %d/%d ready%-19s │\n",
		renderBar(m.queueDepth, max(m.queueCapacity, 1), 10),
		m.queueDepth, m.queueCapacity, "")
	s += fmt.Sprintf("│ Pushed:  %-12d Underruns: %-12d      │\n",
		m.framesPushed, m.underruns)

	s += `├──────────────────────────────────────────────────────┤
│ q:Quit                                               │
└──────────────────────────────────────────────────────┘
`
	return s
}

// applyStats updates the model from a stats message.
func (m *Model) applyStats(msg StatsMsg) {
	m.clock = msg.Clock
	m.queueDepth = msg.QueueDepth
	m.queueCapacity = msg.QueueCapacity
	m.framesPushed = msg.FramesPushed
	m.underruns = msg.Underruns
	m.playing = msg.Playing
	if msg.SourceName != "" {
		m.sourceName = msg.SourceName
		m.sourceRate = msg.SourceRate
	}
}

// StatsMsg carries a pipeline snapshot into the TUI.
type StatsMsg struct {
	Clock         i2s.ClockConfig
	QueueDepth    int
	QueueCapacity int
	FramesPushed  int64
	Underruns     int64
	Playing       bool
	SourceName    string
	SourceRate    int
}

func renderBar(value, maxVal, width int) string {
	filled := (value * width) / maxVal
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
