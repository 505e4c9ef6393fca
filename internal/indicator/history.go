package indicator

import "math"

// History gives any series bounded relative-offset access: Get(0) is the
// current value, Get(i) the value i steps back. A fixed-capacity ring holds
// the last N values; reads past the available depth return NaN.
type History struct {
	buf  []float64
	head int // index of the current value
	size int // values held, <= cap
}

// NewHistory creates a history buffer holding the last `capacity` values.
// Capacity is clamped to a minimum of 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

// Update shifts the current value one step back and accepts the new one.
// The oldest value beyond capacity is discarded.
func (h *History) Update(value float64) {
	if h.size > 0 {
		h.head = (h.head + 1) % len(h.buf)
	}
	h.buf[h.head] = value
	if h.size < len(h.buf) {
		h.size++
	}
}

// Get returns the value i steps back (0 = current), or NaN when i is
// negative or beyond the available depth.
func (h *History) Get(i int) float64 {
	if i < 0 || i >= h.size {
		return math.NaN()
	}
	idx := h.head - i
	if idx < 0 {
		idx += len(h.buf)
	}
	return h.buf[idx]
}

// Len returns the number of values currently held.
func (h *History) Len() int { return h.size }

// Cap returns the buffer capacity.
func (h *History) Cap() int { return len(h.buf) }

// Reset discards all held values.
func (h *History) Reset() {
	h.head = 0
	h.size = 0
}
