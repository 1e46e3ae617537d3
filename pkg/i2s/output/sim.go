// ABOUTME: Simulated I2S peripheral for tests and hardware-free playback
// ABOUTME: Walks the descriptor ring on a timer and fires completion interrupts
package output

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
)

// Sim is a software model of the DMA engine. It holds one descriptor in
// flight at a time, "transmits" its buffer, raises StatusOutEOF, invokes the
// interrupt handler, and follows the Next link, forever.
//
// In real-time mode (NewSim) each buffer takes frames/rate seconds to drain,
// matching the applied clock. In manual mode (NewManualSim) nothing moves
// until the test calls CompleteBuffer, which makes interleavings fully
// deterministic.
type Sim struct {
	mu       sync.Mutex
	chain    []i2s.Descriptor
	buffers  [][]uint32
	handler  func()
	clock    i2s.ClockConfig
	cur      int // descriptor currently in flight
	finished int // descriptor most recently completed
	status   i2s.Status
	started  bool
	manual   bool
	done     chan struct{}

	transmitted atomic.Int64
	last        []uint32 // copy of the most recently transmitted buffer
}

// NewSim creates a simulated peripheral that drains buffers in real time at
// the applied clock rate.
func NewSim() *Sim {
	return &Sim{done: make(chan struct{})}
}

// NewManualSim creates a simulated peripheral whose descriptor walk only
// advances through explicit CompleteBuffer calls.
func NewManualSim() *Sim {
	return &Sim{manual: true, done: make(chan struct{})}
}

// Reset clears all simulated peripheral state.
func (s *Sim) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain = nil
	s.buffers = nil
	s.status = 0
	s.cur = 0
	s.finished = 0
	return nil
}

// Configure is a no-op for the simulation; format and FIFO registers have no
// observable behavior here.
func (s *Sim) Configure() error { return nil }

// SetHandler registers the interrupt callback.
func (s *Sim) SetHandler(fn func()) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}

// ReadAndClearStatus reads and clears all pending status bits at once.
func (s *Sim) ReadAndClearStatus() i2s.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	s.status = 0
	return st
}

// FinishedDescriptor returns the most recently completed descriptor index.
func (s *Sim) FinishedDescriptor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// ApplyClock records the divider triple; the real-time walk paces itself by
// the achieved rate.
func (s *Sim) ApplyClock(cfg i2s.ClockConfig) {
	s.mu.Lock()
	s.clock = cfg
	s.mu.Unlock()
}

// AttachChain accepts the descriptor ring. The in-link descriptor is checked
// for validity and then ignored, like the real engine in output-only mode.
func (s *Sim) AttachChain(chain []i2s.Descriptor, buffers [][]uint32, out, in int) error {
	if len(chain) == 0 || len(chain) != len(buffers) {
		return fmt.Errorf("sim: invalid chain: %d descriptors, %d buffers", len(chain), len(buffers))
	}
	if out < 0 || out >= len(chain) || in < 0 || in >= len(chain) {
		return fmt.Errorf("sim: link descriptor out of range: out=%d in=%d", out, in)
	}
	s.mu.Lock()
	s.chain = chain
	s.buffers = buffers
	s.cur = out
	s.finished = out
	s.mu.Unlock()
	return nil
}

// Start begins the descriptor walk. In manual mode it only arms the
// simulation.
func (s *Sim) Start() error {
	s.mu.Lock()
	if s.chain == nil {
		s.mu.Unlock()
		return fmt.Errorf("sim: no descriptor chain attached")
	}
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("sim: already started")
	}
	s.started = true
	s.mu.Unlock()

	if !s.manual {
		go s.walk()
	}
	return nil
}

// Close stops the walk. Safe to call more than once.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.started = false
		close(s.done)
	}
	return nil
}

// walk drains one buffer per period at the applied clock rate.
func (s *Sim) walk() {
	for {
		s.mu.Lock()
		rate := s.clock.Freq
		if rate <= 0 {
			rate = i2s.DefaultSampleRate
		}
		frames := len(s.buffers[s.chain[s.cur].Buf])
		s.mu.Unlock()

		period := time.Duration(frames) * time.Second / time.Duration(rate)
		select {
		case <-s.done:
			return
		case <-time.After(period):
		}
		s.CompleteBuffer()
	}
}

// CompleteBuffer transmits the in-flight buffer, advances to the next
// descriptor, and asserts the completion interrupt. Tests drive a manual
// simulation with this; the real-time walk uses it internally.
func (s *Sim) CompleteBuffer() {
	s.mu.Lock()
	if !s.started || s.chain == nil {
		s.mu.Unlock()
		return
	}
	d := s.cur
	buf := s.buffers[s.chain[d].Buf]
	if cap(s.last) < len(buf) {
		s.last = make([]uint32, len(buf))
	}
	s.last = s.last[:len(buf)]
	copy(s.last, buf)
	s.transmitted.Add(int64(len(buf)))

	s.finished = d
	s.cur = s.chain[d].Next
	s.status |= i2s.StatusOutEOF
	h := s.handler
	s.mu.Unlock()

	if h != nil {
		h()
	}
}

// TransmittedFrames reports the total number of frames drained so far.
func (s *Sim) TransmittedFrames() int64 {
	return s.transmitted.Load()
}

// LastBuffer returns a copy of the most recently transmitted buffer.
func (s *Sim) LastBuffer() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, len(s.last))
	copy(out, s.last)
	return out
}

// InFlight returns the descriptor index the engine currently holds.
func (s *Sim) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}
