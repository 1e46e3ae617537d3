// ABOUTME: Completion queue handing finished buffers back to the producer
// ABOUTME: Bounded FIFO with drop-oldest overflow and underrun accounting
package i2s

import (
	"sync/atomic"
	"time"
)

// completionQueue carries "buffer ready to fill" tokens from the interrupt
// path to the producer. Its capacity is one less than the buffer count:
// the DMA engine always has exactly one buffer in flight, and that buffer
// must never be writable at the same time.
//
// The channel is the only synchronization between the two contexts. The
// interrupt path is the sole sender, the push path the sole receiver.
type completionQueue struct {
	ch        chan int
	underruns atomic.Int64
}

func newCompletionQueue(capacity int) *completionQueue {
	return &completionQueue{ch: make(chan int, capacity)}
}

// enqueueFromISR hands a finished buffer to the producer side. It never
// blocks. A full queue means every other buffer is already waiting to be
// filled: the producer has fallen behind and the peripheral replayed stale
// audio. The oldest token is discarded so the newest buffer keeps its place
// in line, and the underrun is counted.
//
// The return value reports whether a blocked consumer may have been woken.
// With a single consumer that can only happen when the queue was empty
// before the send; the overflow path in particular never wakes anyone,
// because a full queue means nobody was waiting.
func (q *completionQueue) enqueueFromISR(buf int) (woken bool) {
	woken = len(q.ch) == 0

	select {
	case q.ch <- buf:
		return woken
	default:
	}

	q.underruns.Add(1)
	select {
	case <-q.ch: // drop the stale token
	default:
	}
	// We are the only sender, so the slot freed above is still ours.
	q.ch <- buf
	return false
}

// dequeue blocks until a buffer token arrives. A timeout of zero or less
// waits forever. The second return value is false if the timeout elapsed.
func (q *completionQueue) dequeue(timeout time.Duration) (int, bool) {
	if timeout <= 0 {
		return <-q.ch, true
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case buf := <-q.ch:
		return buf, true
	case <-t.C:
		return 0, false
	}
}

func (q *completionQueue) depth() int    { return len(q.ch) }
func (q *completionQueue) capacity() int { return cap(q.ch) }
