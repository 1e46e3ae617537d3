// ABOUTME: DMA buffer pool and circular descriptor chain
// ABOUTME: Fixed sample buffers wired into a hardware-walked ring
package i2s

// Descriptor describes one sample buffer to the DMA engine. Descriptors form
// a fixed ring via index-based Next links; the chain itself is never mutated
// after construction, only the contents of the referenced buffer change.
type Descriptor struct {
	Owner  bool // hardware owns the descriptor
	EOF    bool // raise the completion interrupt after this buffer
	SOSF   bool // start-of-sub-frame marker, unused for audio output
	Length int  // bytes queued for transmission
	Size   int  // buffer capacity in bytes
	Buf    int  // index of the sample buffer this descriptor covers
	Next   int  // index of the next descriptor in the ring
}

// bufferPool is the fixed buffer storage plus the descriptor ring over it.
// Everything here is created once at init and lives for the device lifetime.
type bufferPool struct {
	buffers [][]uint32
	chain   []Descriptor
}

// newBufferPool allocates count buffers of frames packed stereo frames each
// and builds the circular descriptor chain: every descriptor owned by
// hardware, EOF set so each completed buffer raises an interrupt, and the
// last descriptor linking back to the first.
func newBufferPool(count, frames int) *bufferPool {
	p := &bufferPool{
		buffers: make([][]uint32, count),
		chain:   make([]Descriptor, count),
	}
	for i := range p.buffers {
		// make zero-fills; uninitialized memory must never be played.
		p.buffers[i] = make([]uint32, frames)
		p.chain[i] = Descriptor{
			Owner:  true,
			EOF:    true,
			Length: frames * 4,
			Size:   frames * 4,
			Buf:    i,
			Next:   (i + 1) % count,
		}
	}
	return p
}
