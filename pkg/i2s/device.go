// ABOUTME: The I2S output device: init, interrupt service, and sample push
// ABOUTME: Owns the buffer pool, completion queue, and producer cursor
package i2s

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSampleRate is applied during init when Config.SampleRate is zero.
const DefaultSampleRate = 44100

// ErrPushTimeout is returned by PushSample when Config.PushTimeout elapsed
// before the peripheral freed a buffer. Never returned with the default
// configuration, which waits forever.
var ErrPushTimeout = errors.New("i2s: timed out waiting for a free buffer")

// Config holds the fixed pipeline dimensions. Buffer count and length are
// set once at init and cannot change for the device lifetime.
type Config struct {
	// BufferCount is the number of DMA sample buffers. Minimum 2: one is
	// always in flight, so anything less leaves nothing to fill.
	BufferCount int

	// BufferFrames is the length of each buffer in packed stereo frames.
	BufferFrames int

	// SampleRate is the initial output rate in Hz. Zero selects
	// DefaultSampleRate.
	SampleRate int

	// PushTimeout bounds how long PushSample waits for a free buffer.
	// Zero keeps the default behavior of waiting forever.
	PushTimeout time.Duration
}

// Device is one output pipeline instance. All process-wide state of the
// pipeline (pool, queue, counters) lives here, so independent devices can
// coexist and tests run without real hardware.
//
// Exactly one goroutine may call PushSample; the peripheral drives the
// interrupt path. Everything else is safe for concurrent use.
type Device struct {
	id    string
	hw    Peripheral
	pool  *bufferPool
	queue *completionQueue
	wait  time.Duration

	mu    sync.Mutex
	clock ClockConfig

	// Producer cursor, touched only by the PushSample caller.
	cur int
	pos int
}

// New builds the buffer pool and completion queue, wires the interrupt
// handler into the peripheral, applies the initial sample rate, and starts
// transmission. Order matters here: the queue and pool must exist before the
// handler is registered, and the handler before transmission starts.
func New(hw Peripheral, cfg Config) (*Device, error) {
	if cfg.BufferCount < 2 {
		return nil, fmt.Errorf("i2s: need at least 2 buffers, got %d", cfg.BufferCount)
	}
	if cfg.BufferFrames < 1 {
		return nil, fmt.Errorf("i2s: buffer length must be positive, got %d frames", cfg.BufferFrames)
	}
	rate := cfg.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	if rate < 0 {
		return nil, fmt.Errorf("i2s: sample rate must be positive, got %d", rate)
	}

	d := &Device{
		id:    uuid.NewString()[:8],
		hw:    hw,
		pool:  newBufferPool(cfg.BufferCount, cfg.BufferFrames),
		queue: newCompletionQueue(cfg.BufferCount - 1),
		wait:  cfg.PushTimeout,
		cur:   -1,
	}

	if err := hw.Reset(); err != nil {
		return nil, fmt.Errorf("peripheral reset failed: %w", err)
	}
	hw.SetHandler(d.serviceInterrupt)
	if err := hw.Configure(); err != nil {
		return nil, fmt.Errorf("peripheral configuration failed: %w", err)
	}
	d.SetSampleRate(rate, false)

	// Descriptor 0 goes to the out-link. The in-link is never used for
	// output-only operation, but the DMA engine throws an error unless it
	// holds some valid descriptor, so feed it descriptor 1.
	if err := hw.AttachChain(d.pool.chain, d.pool.buffers, 0, 1); err != nil {
		return nil, fmt.Errorf("descriptor chain attach failed: %w", err)
	}
	if err := hw.Start(); err != nil {
		return nil, fmt.Errorf("transmission start failed: %w", err)
	}

	return d, nil
}

// serviceInterrupt runs once per interrupt assertion, on the peripheral's
// goroutine. It stays non-blocking and bounded: read and clear every pending
// status bit in one operation, recycle the finished buffer, yield.
func (d *Device) serviceInterrupt() {
	status := d.hw.ReadAndClearStatus()
	if status == 0 {
		// No interesting interrupts pending.
		return
	}
	if status&StatusOutEOF != 0 {
		// The DMA engine is done with this block; hand its buffer back
		// so the producer can refill it.
		desc := d.hw.FinishedDescriptor()
		if d.queue.enqueueFromISR(d.pool.chain[desc].Buf) {
			// A producer blocked in PushSample became runnable; give
			// it the processor before the next completion lands.
			runtime.Gosched()
		}
	}
}

// PushSample appends one packed stereo frame to the output stream. Call it
// at the output sample rate on average. Calling faster blocks until the
// peripheral frees a buffer; calling slower causes underruns, which are
// detected asynchronously and visible only through UnderrunCount. This call
// is the pipeline's sole flow-control point.
func (d *Device) PushSample(frame uint32) error {
	if d.cur < 0 || d.pos == len(d.pool.buffers[d.cur]) {
		buf, ok := d.queue.dequeue(d.wait)
		if !ok {
			return ErrPushTimeout
		}
		d.cur = buf
		d.pos = 0
	}
	d.pool.buffers[d.cur][d.pos] = frame
	d.pos++
	return nil
}

// SetSampleRate computes the divider triple closest to rate and applies it.
// Idempotent and callable any time after init; playback timing changes
// immediately. With wordlenFuzzing the solver may widen the output word
// beyond 16 bits to get closer to the requested rate.
//
// Whether the new timing takes hold depends on the peripheral: the sim
// backend retunes on the fly, but backends that cannot reopen their audio
// device after Start (oto allows one context per process) log the change
// and keep playing at the original rate. Clock always reflects the
// requested configuration.
func (d *Device) SetSampleRate(rate int, wordlenFuzzing bool) {
	cfg := FindClockDividers(rate, wordlenFuzzing)
	log.Printf("i2s[%s]: rate %d Hz requested: mdiv %d bckdiv %d bits %d -> %d Hz",
		d.id, rate, cfg.ClkmDiv, cfg.BCKDiv, cfg.Bits, cfg.Freq)
	d.hw.ApplyClock(cfg)

	d.mu.Lock()
	d.clock = cfg
	d.mu.Unlock()
}

// UnderrunCount reports how many underruns were detected since init. The
// count only grows; producers that care about loss poll it, because
// PushSample never reports underruns synchronously.
func (d *Device) UnderrunCount() int64 {
	return d.queue.underruns.Load()
}

// Clock returns the divider triple currently applied to the peripheral.
func (d *Device) Clock() ClockConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}

// ID identifies this device instance in diagnostics.
func (d *Device) ID() string { return d.id }

// QueueDepth reports how many buffers currently wait to be filled.
func (d *Device) QueueDepth() int { return d.queue.depth() }

// QueueCapacity reports the completion queue capacity (buffer count - 1).
func (d *Device) QueueCapacity() int { return d.queue.capacity() }

// Close stops transmission and releases the peripheral.
func (d *Device) Close() error {
	return d.hw.Close()
}
