// ABOUTME: Sine test-tone frame source
// ABOUTME: Generates an endless stereo tone at a configurable frequency
package source

import (
	"math"

	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
)

// Tone generates an endless sine wave, identical on both channels.
type Tone struct {
	frequency   float64
	sampleRate  int
	sampleIndex uint64
}

// NewTone creates a tone source. A frequency of 0 defaults to 440 Hz (A4).
func NewTone(frequency float64, sampleRate int) *Tone {
	if frequency == 0 {
		frequency = 440.0
	}
	if sampleRate == 0 {
		sampleRate = i2s.DefaultSampleRate
	}
	return &Tone{frequency: frequency, sampleRate: sampleRate}
}

// NextFrame returns the next tone frame. Never returns an error; the tone is
// endless.
func (s *Tone) NextFrame() (uint32, error) {
	t := float64(s.sampleIndex) / float64(s.sampleRate)
	s.sampleIndex++

	// 50% volume keeps headroom on cheap codecs.
	v := int16(math.Sin(2*math.Pi*s.frequency*t) * 32767.0 * 0.5)
	return i2s.PackFrame(v, v), nil
}

// SampleRate returns the tone's sample rate.
func (s *Tone) SampleRate() int { return s.sampleRate }

// Close is a no-op.
func (s *Tone) Close() error { return nil }
