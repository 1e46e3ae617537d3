// ABOUTME: Tests for the pipeline monitor TUI model
// ABOUTME: Verifies stats application, rendering, and quit handling
package ui

import (
	"strings"
	"testing"

	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
	tea "github.com/charmbracelet/bubbletea"
)

func TestModelAppliesStats(t *testing.T) {
	m := NewModel("abcd1234", "sim")

	updated, _ := m.Update(StatsMsg{
		Clock:         i2s.ClockConfig{BCKDiv: 3, ClkmDiv: 19, Bits: 16, Freq: 43859},
		QueueDepth:    2,
		QueueCapacity: 3,
		FramesPushed:  1000,
		Underruns:     7,
		Playing:       true,
		SourceName:    "test.mp3",
		SourceRate:    44100,
	})

	got := updated.(Model)
	if got.underruns != 7 {
		t.Errorf("underruns = %d, want 7", got.underruns)
	}
	if got.queueDepth != 2 || got.queueCapacity != 3 {
		t.Errorf("queue %d/%d, want 2/3", got.queueDepth, got.queueCapacity)
	}
	if got.clock.Freq != 43859 {
		t.Errorf("clock freq %d, want 43859", got.clock.Freq)
	}
}

func TestModelViewShowsPipelineState(t *testing.T) {
	m := NewModel("abcd1234", "oto")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, _ = updated.(Model).Update(StatsMsg{
		Clock:        i2s.ClockConfig{BCKDiv: 3, ClkmDiv: 19, Bits: 16, Freq: 43859},
		FramesPushed: 42,
		Underruns:    1,
	})

	view := updated.(Model).View()
	for _, want := range []string{"Underruns", "43859", "abcd1234", "oto"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelQuitKey(t *testing.T) {
	m := NewModel("abcd1234", "sim")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
}
