package indicator

import "math"

// CCI calculates the Commodity Channel Index over a rolling window of
// typical price (h+l+c)/3. When the mean absolute deviation of the window
// is zero the CCI is exactly 0.
type CCI struct {
	period int
	buf    []float64 // typical-price window
	idx    int
	count  int
	sum    float64
	value  float64
}

// NewCCI creates a new CCI indicator with the given period (typically 20).
func NewCCI(period int) *CCI {
	return &CCI{
		period: period,
		buf:    make([]float64, period),
	}
}

func (c *CCI) Kind() Kind  { return KindCCI }
func (c *CCI) Period() int { return c.period }

// Update feeds the next bar and returns the new CCI.
func (c *CCI) Update(high, low, close float64) float64 {
	tp := (high + low + close) / 3.0

	if c.count >= c.period {
		c.sum -= c.buf[c.idx]
	}
	c.buf[c.idx] = tp
	c.sum += tp
	c.idx = (c.idx + 1) % c.period
	c.count++

	n := c.count
	if n > c.period {
		n = c.period
	}
	mean := c.sum / float64(n)

	var dev float64
	for i := 0; i < n; i++ {
		dev += math.Abs(c.buf[i] - mean)
	}
	dev /= float64(n)

	if dev == 0 {
		c.value = 0
		return 0
	}
	c.value = (tp - mean) / (0.015 * dev)
	return c.value
}

// Value returns the current CCI. Before the first update it is 0.
func (c *CCI) Value() float64 { return c.value }

// Ready reports whether the window has filled.
func (c *CCI) Ready() bool { return c.count >= c.period }

// Reset clears the CCI state for reuse.
func (c *CCI) Reset() {
	c.idx = 0
	c.count = 0
	c.sum = 0
	c.value = 0
	for i := range c.buf {
		c.buf[i] = 0
	}
}

// Snapshot serializes the CCI state for checkpoint persistence.
func (c *CCI) Snapshot() Snapshot {
	bufCopy := make([]float64, len(c.buf))
	copy(bufCopy, c.buf)
	return Snapshot{
		Kind:   KindCCI.String(),
		Period: c.period,
		Buf:    bufCopy,
		Idx:    c.idx,
		Count:  c.count,
		Sum:    c.sum,
		Value:  c.value,
	}
}

// Restore replaces the CCI state from a checkpoint.
func (c *CCI) Restore(snap Snapshot) error {
	if err := snap.expect(KindCCI); err != nil {
		return err
	}
	c.period = snap.Period
	c.idx = snap.Idx
	c.count = snap.Count
	c.sum = snap.Sum
	c.value = snap.Value
	c.buf = make([]float64, snap.Period)
	copy(c.buf, snap.Buf)
	return nil
}
