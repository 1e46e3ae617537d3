// ABOUTME: Tests for the sine tone source
// ABOUTME: Verifies amplitude, channel symmetry, and defaults
package source

import (
	"testing"

	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
)

func TestToneDefaults(t *testing.T) {
	s := NewTone(0, 0)
	if s.SampleRate() != i2s.DefaultSampleRate {
		t.Errorf("default sample rate %d, want %d", s.SampleRate(), i2s.DefaultSampleRate)
	}
	if s.frequency != 440.0 {
		t.Errorf("default frequency %g, want 440", s.frequency)
	}
}

func TestToneFramesAreStereoIdentical(t *testing.T) {
	s := NewTone(440, 44100)

	for i := 0; i < 1000; i++ {
		frame, err := s.NextFrame()
		if err != nil {
			t.Fatalf("tone returned error: %v", err)
		}
		l, r := i2s.UnpackFrame(frame)
		if l != r {
			t.Fatalf("frame %d: channels differ (%d vs %d)", i, l, r)
		}
	}
}

func TestToneOscillates(t *testing.T) {
	s := NewTone(440, 44100)

	var minV, maxV int16
	for i := 0; i < 44100; i++ {
		frame, _ := s.NextFrame()
		l, _ := i2s.UnpackFrame(frame)
		if l < minV {
			minV = l
		}
		if l > maxV {
			maxV = l
		}
	}

	// 50% volume peaks near +/-16383.
	if maxV < 16000 || minV > -16000 {
		t.Errorf("tone range [%d, %d] too small for a full second", minV, maxV)
	}
	if maxV > 16384 || minV < -16384 {
		t.Errorf("tone range [%d, %d] exceeds 50%% volume", minV, maxV)
	}
}
