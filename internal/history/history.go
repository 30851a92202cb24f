// Package history holds recently captured frames between the acquisition
// goroutine and the reader. Frames are stored raw; decoding is deferred to
// consumption time so the acquisition path stays cheap and a decode failure
// never corrupts the buffer.
package history

import (
	"sync"

	"github.com/rolfnbl/tp8236/internal/frame"
)

// DefaultDepth is the buffer capacity used when none is configured.
const DefaultDepth = 10

// Buffer is a bounded FIFO of raw frames with a single producer (the
// acquisition loop) and a single consumer. Inserting past capacity silently
// evicts the oldest entry; there is no backpressure on the producer. All
// operations are non-blocking.
type Buffer struct {
	mu     sync.Mutex
	frames []frame.RawFrame
	depth  int
}

// New creates a buffer with the given capacity. Non-positive depths fall
// back to DefaultDepth.
func New(depth int) *Buffer {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Buffer{depth: depth}
}

// Push appends a frame at the tail, evicting the oldest entry when the
// buffer is at capacity.
func (b *Buffer) Push(f frame.RawFrame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) >= b.depth {
		b.frames = b.frames[1:]
	}
	b.frames = append(b.frames, f)
}

// DrainLatest removes every queued frame and returns the most recently
// enqueued one. Freshest value wins: when the consumer polls slower than the
// producer, the interim frames are dropped. The second return is false when
// the buffer was empty.
func (b *Buffer) DrainLatest() (frame.RawFrame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return frame.RawFrame{}, false
	}
	last := b.frames[len(b.frames)-1]
	b.frames = b.frames[:0]
	return last, true
}

// Len reports the number of queued frames.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// Depth reports the configured capacity.
func (b *Buffer) Depth() int {
	return b.depth
}
