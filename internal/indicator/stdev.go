package indicator

import "math"

// Stdev calculates the population standard deviation of a rolling window
// against its SMA mean. Before the window fills it uses the partial window,
// so the first update always reports 0.
type Stdev struct {
	period int
	buf    []float64
	idx    int
	count  int
	sum    float64
	value  float64
}

// NewStdev creates a new rolling standard deviation with the given period.
func NewStdev(period int) *Stdev {
	return &Stdev{
		period: period,
		buf:    make([]float64, period),
	}
}

func (s *Stdev) Kind() Kind  { return KindStdev }
func (s *Stdev) Period() int { return s.period }

// Update feeds the next value and returns the new deviation.
func (s *Stdev) Update(price float64) float64 {
	if s.count >= s.period {
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
	mean := s.sum / float64(n)

	// Window is bounded by period, so this stays O(period) worst case.
	var sq float64
	for i := 0; i < n; i++ {
		d := s.buf[i] - mean
		sq += d * d
	}
	s.value = math.Sqrt(sq / float64(n))
	return s.value
}

// Value returns the current deviation. Before the first update it is 0.
func (s *Stdev) Value() float64 { return s.value }

// Ready reports whether the window has filled.
func (s *Stdev) Ready() bool { return s.count >= s.period }

// Reset clears the Stdev state for reuse.
func (s *Stdev) Reset() {
	s.idx = 0
	s.count = 0
	s.sum = 0
	s.value = 0
	for i := range s.buf {
		s.buf[i] = 0
	}
}

// Snapshot serializes the Stdev state for checkpoint persistence.
func (s *Stdev) Snapshot() Snapshot {
	bufCopy := make([]float64, len(s.buf))
	copy(bufCopy, s.buf)
	return Snapshot{
		Kind:   KindStdev.String(),
		Period: s.period,
		Buf:    bufCopy,
		Idx:    s.idx,
		Count:  s.count,
		Sum:    s.sum,
		Value:  s.value,
	}
}

// Restore replaces the Stdev state from a checkpoint.
func (s *Stdev) Restore(snap Snapshot) error {
	if err := snap.expect(KindStdev); err != nil {
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
