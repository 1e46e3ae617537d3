// ABOUTME: Peripheral boundary contract between the pipeline and hardware
// ABOUTME: Register-level operations and interrupt status bits
package i2s

// Status is the set of pending interrupt conditions read from the
// peripheral. Bits beyond StatusOutEOF exist on real hardware but the
// pipeline only acts on buffer completion; it still clears everything it
// reads to avoid re-entrant re-triggering.
type Status uint32

// StatusOutEOF is set when the DMA engine finished transmitting a buffer
// whose descriptor has the EOF flag set.
const StatusOutEOF Status = 1 << 0

// Peripheral is the register-level boundary the pipeline drives. Pin
// multiplexing, exact register bit layout, and interrupt-controller
// registration live behind this interface; the pipeline only requires a
// circular descriptor-chain DMA mechanism and a "buffer complete" interrupt.
//
// The peripheral invokes the handler registered with SetHandler once per
// interrupt assertion, from a single goroutine of its choosing. The handler
// is non-blocking by contract; implementations must not call it
// concurrently with itself.
type Peripheral interface {
	// Reset runs the peripheral and DMA reset sequence.
	Reset() error

	// Configure sets up the data-format and FIFO registers for 16-bit
	// stereo output with DMA descriptors enabled.
	Configure() error

	// SetHandler registers the interrupt callback. Must be called before
	// Start; the peripheral must not assert interrupts earlier.
	SetHandler(fn func())

	// ReadAndClearStatus atomically reads and clears ALL pending status
	// bits in one operation, even bits the caller will not act on.
	ReadAndClearStatus() Status

	// FinishedDescriptor returns the index of the descriptor the DMA
	// engine most recently completed. Valid only while servicing an
	// interrupt whose status had StatusOutEOF set.
	FinishedDescriptor() int

	// ApplyClock writes a divider triple to the clock registers. Takes
	// effect immediately.
	ApplyClock(cfg ClockConfig)

	// AttachChain hands the circular descriptor chain and its buffers to
	// the DMA engine. out is the descriptor index fed to the out-link
	// register. in is fed to the in-link register: output-only operation
	// never uses it, but the engine insists on some valid descriptor
	// there, so it must still name a real slot.
	AttachChain(chain []Descriptor, buffers [][]uint32, out, in int) error

	// Start begins the autonomous descriptor walk and output transmission.
	Start() error

	// Close stops transmission and releases the device.
	Close() error
}
