package kernel

import "sync/atomic"

// DefaultRingSize is the console input buffer capacity.
const DefaultRingSize = 512

// Ring is a fixed-size byte queue fed from interrupt context and drained by
// a single foreground consumer.
//
// Producers never block: once the ring is full each Push overwrites the
// oldest unread byte. The write position is only stored by producers and the
// read position only by the consumer; a consumer that finds itself lapped
// skips forward on its own.
type Ring struct {
	_    [0]func() // prevent accidental copying.
	wpos atomic.Uint64
	rpos atomic.Uint64
	buf  []byte
}

// NewRing returns a ring holding up to size bytes.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{buf: make([]byte, size)}
}

// Cap returns the ring capacity.
func (q *Ring) Cap() int { return len(q.buf) }

// Len returns the number of unread bytes that are still intact.
func (q *Ring) Len() int {
	n := q.wpos.Load() - q.rpos.Load()
	if n > uint64(len(q.buf)) {
		return len(q.buf)
	}
	return int(n)
}

// Push stores b, overwriting the oldest unread byte when full.
func (q *Ring) Push(b byte) {
	w := q.wpos.Load()
	q.buf[w%uint64(len(q.buf))] = b
	q.wpos.Store(w + 1)
}

// Pop removes the oldest intact byte, returning false if the ring is empty.
func (q *Ring) Pop() (byte, bool) {
	r := q.rpos.Load()
	w := q.wpos.Load()
	if r == w {
		return 0, false
	}
	if size := uint64(len(q.buf)); w-r > size {
		r = w - size
	}

	b := q.buf[r%uint64(len(q.buf))]
	q.rpos.Store(r + 1)
	return b, true
}

// Drain pulls decoded units from proc until it reports no pending input and
// pushes every non-zero unit. It is shared by interrupt handlers and by
// foreground polling with interrupts disabled.
func (q *Ring) Drain(proc func() (int, bool)) {
	for {
		c, ok := proc()
		if !ok {
			return
		}
		if c != 0 {
			q.Push(byte(c))
		}
	}
}
