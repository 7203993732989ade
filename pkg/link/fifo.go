package link

import "context"

// DefaultDepth is the depth of the RP2040 inter-core FIFO.
const DefaultDepth = 8

// FIFO is a bounded, strictly ordered word queue shared by exactly one
// producer and one consumer.
// Push blocks while full and Pop blocks while empty.
type FIFO struct {
	ch chan Word
}

// NewFIFO creates a FIFO. depth < 1 falls back to DefaultDepth.
func NewFIFO(depth int) *FIFO {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &FIFO{ch: make(chan Word, depth)}
}

// Push enqueues a word, blocking until a slot is free.
// ctx is only for shutdown, the error is always ctx.Err().
func (f *FIFO) Push(ctx context.Context, w Word) error {
	select {
	case f.ch <- w:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop dequeues the oldest word, blocking until one is available.
func (f *FIFO) Pop(ctx context.Context) (Word, error) {
	select {
	case w := <-f.ch:
		return w, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// TryPop dequeues the oldest word if any, it never blocks.
func (f *FIFO) TryPop() (Word, bool) {
	select {
	case w := <-f.ch:
		return w, true
	default:
		return 0, false
	}
}

// Len returns the number of queued words.
func (f *FIFO) Len() int {
	return len(f.ch)
}

// Cap returns the depth.
func (f *FIFO) Cap() int {
	return cap(f.ch)
}
