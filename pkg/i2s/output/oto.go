// ABOUTME: Oto-based peripheral implementation with real audio playback
// ABOUTME: Paces the descriptor walk by the platform audio buffer
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
	"github.com/ebitengine/oto/v3"
)

// Oto plays the descriptor ring through the platform audio device using the
// oto library. A persistent player reads from a pipe; the walk goroutine
// converts each in-flight buffer to 16-bit little-endian PCM and writes it
// to the pipe. The write blocks while the platform buffer is full, which is
// exactly the pacing a real DMA engine gets from its bit clock.
//
// oto allows one audio context per process, so the output rate is fixed at
// Start; later ApplyClock calls are logged and ignored.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	chain      []i2s.Descriptor
	buffers    [][]uint32
	handler    func()
	clock      i2s.ClockConfig
	cur        int
	finished   int
	status     i2s.Status
	started    bool
	done       chan struct{}
}

// NewOto creates an oto-backed peripheral.
func NewOto() *Oto {
	return &Oto{done: make(chan struct{})}
}

// Reset clears the attached chain. The oto context itself is left alone:
// oto allows only one context per process.
func (o *Oto) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.chain = nil
	o.buffers = nil
	o.status = 0
	return nil
}

// Configure is satisfied by oto's fixed 16-bit stereo little-endian format,
// which matches the pipeline's frame layout byte for byte.
func (o *Oto) Configure() error { return nil }

// SetHandler registers the interrupt callback.
func (o *Oto) SetHandler(fn func()) {
	o.mu.Lock()
	o.handler = fn
	o.mu.Unlock()
}

// ReadAndClearStatus reads and clears all pending status bits at once.
func (o *Oto) ReadAndClearStatus() i2s.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.status
	o.status = 0
	return st
}

// FinishedDescriptor returns the most recently completed descriptor index.
func (o *Oto) FinishedDescriptor() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.finished
}

// ApplyClock records the divider triple. Before Start it selects the output
// rate; afterwards oto cannot reopen the device, so a rate change only logs
// a warning and playback continues at the original rate.
func (o *Oto) ApplyClock(cfg i2s.ClockConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started && cfg.Freq != o.clock.Freq {
		log.Printf("oto: rate change %d -> %d Hz ignored, oto supports one context per process",
			o.clock.Freq, cfg.Freq)
		return
	}
	o.clock = cfg
}

// AttachChain accepts the descriptor ring. As with real hardware the in-link
// descriptor only needs to be valid; it is never walked.
func (o *Oto) AttachChain(chain []i2s.Descriptor, buffers [][]uint32, out, in int) error {
	if len(chain) == 0 || len(chain) != len(buffers) {
		return fmt.Errorf("oto: invalid chain: %d descriptors, %d buffers", len(chain), len(buffers))
	}
	if out < 0 || out >= len(chain) || in < 0 || in >= len(chain) {
		return fmt.Errorf("oto: link descriptor out of range: out=%d in=%d", out, in)
	}
	o.mu.Lock()
	o.chain = chain
	o.buffers = buffers
	o.cur = out
	o.finished = out
	o.mu.Unlock()
	return nil
}

// Start opens the audio device at the applied clock rate and begins the
// descriptor walk.
func (o *Oto) Start() error {
	o.mu.Lock()
	if o.chain == nil {
		o.mu.Unlock()
		return fmt.Errorf("oto: no descriptor chain attached")
	}
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("oto: already started")
	}
	rate := o.clock.Freq
	if rate <= 0 {
		rate = i2s.DefaultSampleRate
	}
	o.mu.Unlock()

	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-ready
		o.otoCtx = ctx
	}

	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.mu.Lock()
	o.started = true
	o.mu.Unlock()

	log.Printf("oto: audio output started at %d Hz", rate)
	go o.walk()
	return nil
}

// Close stops the walk and the audio device.
func (o *Oto) Close() error {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return nil
	}
	o.started = false
	close(o.done)
	o.mu.Unlock()

	// Unblocks a walk goroutine stuck in pipe write.
	_ = o.pipeWriter.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("failed to close oto player: %w", err)
	}
	o.otoCtx.Suspend()
	return nil
}

// walk transmits the in-flight buffer to the audio device, then advances the
// ring and asserts the completion interrupt, forever.
func (o *Oto) walk() {
	var pcm []byte
	for {
		select {
		case <-o.done:
			return
		default:
		}

		o.mu.Lock()
		d := o.cur
		buf := o.buffers[o.chain[d].Buf]
		if cap(pcm) < len(buf)*4 {
			pcm = make([]byte, len(buf)*4)
		}
		pcm = pcm[:len(buf)*4]
		// A packed frame is (right<<16)|left, so its little-endian bytes
		// are already interleaved 16-bit LE stereo.
		for i, frame := range buf {
			binary.LittleEndian.PutUint32(pcm[i*4:], frame)
		}
		o.mu.Unlock()

		// Blocks while the platform buffer is full; this is the pacing.
		if _, err := o.pipeWriter.Write(pcm); err != nil {
			return
		}

		o.mu.Lock()
		o.finished = d
		o.cur = o.chain[d].Next
		o.status |= i2s.StatusOutEOF
		h := o.handler
		o.mu.Unlock()

		if h != nil {
			h()
		}
	}
}
