package indicator

// SMA calculates a Simple Moving Average over a rolling window.
// Before the window fills it averages the values seen so far (partial
// window) rather than reporting nothing. Uses a preallocated circular
// buffer for a zero-allocation hot path.
type SMA struct {
	period int
	buf    []float64 // preallocated circular buffer
	idx    int       // current write position
	count  int       // total values received
	sum    float64
	value  float64
}

// NewSMA creates a new SMA indicator with the given period.
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		buf:    make([]float64, period),
	}
}

func (s *SMA) Kind() Kind  { return KindSMA }
func (s *SMA) Period() int { return s.period }

// Update feeds the next value and returns the new average.
func (s *SMA) Update(price float64) float64 {
	if s.count >= s.period {
		// Subtract the oldest value being overwritten
		s.sum -= s.buf[s.idx]
	}
	s.buf[s.idx] = price
	s.sum += price
	s.idx = (s.idx + 1) % s.period
	s.count++

	n := s.count
	if n > s.period {
		n = s.period
	}
	s.value = s.sum / float64(n)
	return s.value
}

// Value returns the current average. Before the first update it is 0.
func (s *SMA) Value() float64 { return s.value }

// Ready reports whether the window has filled.
func (s *SMA) Ready() bool { return s.count >= s.period }

// Reset clears the SMA state for reuse.
func (s *SMA) Reset() {
	s.idx = 0
	s.count = 0
	s.sum = 0
	s.value = 0
	for i := range s.buf {
		s.buf[i] = 0
	}
}

// Snapshot serializes the SMA state for checkpoint persistence.
func (s *SMA) Snapshot() Snapshot {
	bufCopy := make([]float64, len(s.buf))
	copy(bufCopy, s.buf)
	return Snapshot{
		Kind:   KindSMA.String(),
		Period: s.period,
		Buf:    bufCopy,
		Idx:    s.idx,
		Count:  s.count,
		Sum:    s.sum,
		Value:  s.value,
	}
}

// Restore replaces the SMA state from a checkpoint.
func (s *SMA) Restore(snap Snapshot) error {
	if err := snap.expect(KindSMA); err != nil {
		return err
	}
	s.period = snap.Period
	s.idx = snap.Idx
	s.count = snap.Count
	s.sum = snap.Sum
	s.value = snap.Value
	s.buf = make([]float64, snap.Period)
	copy(s.buf, snap.Buf)
	return nil
}
