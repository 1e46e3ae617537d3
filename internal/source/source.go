// ABOUTME: Frame source interface for pipeline producers
// ABOUTME: Sources generate packed stereo frames for the I2S device
package source

// Source produces packed stereo frames for the output pipeline. The player
// pulls frames one at a time and pushes them into the device, letting
// PushSample's backpressure regulate the pace.
type Source interface {
	// NextFrame returns the next packed stereo frame. It returns io.EOF
	// when the source is exhausted.
	NextFrame() (uint32, error)

	// SampleRate is the source's native rate in Hz.
	SampleRate() int

	// Close releases source resources.
	Close() error
}
