// Package ringbuf provides a lock-free, single-producer single-consumer
// (SPSC) ring buffer for raw bars. It decouples the feed reader from the
// scan loop using atomic operations and cache-line padding to avoid
// contention on the hot path.
package ringbuf

import (
	"sync/atomic"

	"regime-scannerv1/internal/model"
)

// cacheLine is the typical x86-64 cache line size used for padding.
const cacheLine = 64

// Ring is a lock-free SPSC ring buffer for RawBar values.
// Size must be a power of two for fast bitwise modulo.
type Ring struct {
	buf  []model.RawBar
	mask uint64

	// Separate cache lines to prevent false sharing between producer and consumer.
	_pad0 [cacheLine]byte
	head  atomic.Uint64 // written by producer
	_pad1 [cacheLine]byte
	tail  atomic.Uint64 // written by consumer
	_pad2 [cacheLine]byte

	// Overflow counter (atomic, for metrics)
	overflow atomic.Uint64
}

// New creates a ring buffer. capacity is rounded up to the next power of two.
// Minimum capacity is 2.
func New(capacity int) *Ring {
	cap := nextPow2(capacity)
	if cap < 2 {
		cap = 2
	}
	return &Ring{
		buf:  make([]model.RawBar, cap),
		mask: uint64(cap - 1),
	}
}

// Push appends a bar to the ring buffer. Returns false if the buffer is
// full (the bar is NOT written in that case). Non-blocking.
func (r *Ring) Push(b model.RawBar) bool {
	head := r.head.Load()
	tail := r.tail.Load()

	if head-tail >= uint64(len(r.buf)) {
		// Buffer full
		r.overflow.Add(1)
		return false
	}

	r.buf[head&r.mask] = b
	r.head.Store(head + 1)
	return true
}

// Pop retrieves the next bar from the ring buffer.
// Returns false if the buffer is empty. Non-blocking.
func (r *Ring) Pop() (model.RawBar, bool) {
	tail := r.tail.Load()
	head := r.head.Load()

	if tail >= head {
		// Buffer empty
		return model.RawBar{}, false
	}

	b := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return b, true
}

// PopN drains up to len(dst) bars into dst and returns how many were
// copied. One atomic tail publish covers the whole batch, so the scan loop
// pays the consumer-side synchronization once per drain instead of once
// per bar. Non-blocking; returns 0 when the buffer is empty.
func (r *Ring) PopN(dst []model.RawBar) int {
	tail := r.tail.Load()
	head := r.head.Load()

	n := int(head - tail)
	if n <= 0 || len(dst) == 0 {
		return 0
	}
	if n > len(dst) {
		n = len(dst)
	}

	for i := 0; i < n; i++ {
		dst[i] = r.buf[(tail+uint64(i))&r.mask]
	}
	r.tail.Store(tail + uint64(n))
	return n
}

// Len returns the current number of items in the buffer.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the buffer capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Overflow returns the total number of dropped pushes due to full buffer.
func (r *Ring) Overflow() uint64 {
	return r.overflow.Load()
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
