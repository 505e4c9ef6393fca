package ringbuf

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"regime-scannerv1/internal/model"
)

func TestRing_BasicPushPop(t *testing.T) {
	r := New(4) // rounds to 4

	b1 := model.RawBar{Symbol: "BTCUSDT", Seq: 1}
	b2 := model.RawBar{Symbol: "ETHUSDT", Seq: 2}

	if !r.Push(b1) {
		t.Fatal("push b1 should succeed")
	}
	if !r.Push(b2) {
		t.Fatal("push b2 should succeed")
	}

	if r.Len() != 2 {
		t.Fatalf("expected len=2, got %d", r.Len())
	}

	got, ok := r.Pop()
	if !ok || got.Symbol != "BTCUSDT" {
		t.Fatalf("expected BTCUSDT, got %v ok=%v", got.Symbol, ok)
	}

	got, ok = r.Pop()
	if !ok || got.Symbol != "ETHUSDT" {
		t.Fatalf("expected ETHUSDT, got %v ok=%v", got.Symbol, ok)
	}

	_, ok = r.Pop()
	if ok {
		t.Fatal("pop from empty should return false")
	}
}

func TestRing_Overflow(t *testing.T) {
	r := New(2) // capacity = 2

	r.Push(model.RawBar{Seq: 1})
	r.Push(model.RawBar{Seq: 2})

	// Buffer is full
	ok := r.Push(model.RawBar{Seq: 3})
	if ok {
		t.Fatal("push to full buffer should return false")
	}
	if r.Overflow() != 1 {
		t.Fatalf("expected overflow=1, got %d", r.Overflow())
	}
}

func TestRing_Wraparound(t *testing.T) {
	r := New(4)

	// Fill and drain multiple times to test wraparound
	for round := 0; round < 5; round++ {
		for i := 0; i < 4; i++ {
			if !r.Push(model.RawBar{Symbol: "X", Seq: int64(round*10 + i)}) {
				t.Fatalf("round %d push %d failed", round, i)
			}
		}
		for i := 0; i < 4; i++ {
			b, ok := r.Pop()
			if !ok {
				t.Fatalf("round %d pop %d failed", round, i)
			}
			if b.Seq != int64(round*10+i) {
				t.Fatalf("round %d pop %d: expected seq=%d, got %d", round, i, round*10+i, b.Seq)
			}
		}
	}
}

func TestRing_PopN(t *testing.T) {
	r := New(8)
	for i := int64(1); i <= 5; i++ {
		r.Push(model.RawBar{Seq: i})
	}

	dst := make([]model.RawBar, 3)

	// Partial drain: batch smaller than the backlog.
	if n := r.PopN(dst); n != 3 {
		t.Fatalf("expected n=3, got %d", n)
	}
	for i, b := range dst {
		if b.Seq != int64(i+1) {
			t.Fatalf("drain order: dst[%d].Seq = %d, want %d", i, b.Seq, i+1)
		}
	}

	// Remainder drain: backlog smaller than the batch.
	if n := r.PopN(dst); n != 2 {
		t.Fatalf("expected n=2, got %d", n)
	}
	if dst[0].Seq != 4 || dst[1].Seq != 5 {
		t.Fatalf("remainder: got seqs %d, %d", dst[0].Seq, dst[1].Seq)
	}

	// Empty buffer and empty destination both drain nothing.
	if n := r.PopN(dst); n != 0 {
		t.Fatalf("empty buffer: expected n=0, got %d", n)
	}
	r.Push(model.RawBar{Seq: 9})
	if n := r.PopN(nil); n != 0 {
		t.Fatalf("nil dst: expected n=0, got %d", n)
	}
}

func TestRing_PopN_Wraparound(t *testing.T) {
	r := New(4)
	dst := make([]model.RawBar, 4)

	// Advance tail/head past the physical end to force index wrapping.
	seq := int64(0)
	for round := 0; round < 3; round++ {
		for i := 0; i < 3; i++ {
			seq++
			if !r.Push(model.RawBar{Seq: seq}) {
				t.Fatalf("round %d push %d failed", round, i)
			}
		}
		n := r.PopN(dst)
		if n != 3 {
			t.Fatalf("round %d: expected n=3, got %d", round, n)
		}
		for i := 0; i < n; i++ {
			want := seq - int64(n-1-i)
			if dst[i].Seq != want {
				t.Fatalf("round %d: dst[%d].Seq = %d, want %d", round, i, dst[i].Seq, want)
			}
		}
	}
}

func TestRing_SPSC_Concurrent(t *testing.T) {
	const count = 100_000
	r := New(1024)

	var wg sync.WaitGroup
	wg.Add(2)

	// Producer
	go func() {
		defer wg.Done()
		for i := 0; i < count; i++ {
			for !r.Push(model.RawBar{Seq: int64(i)}) {
				// Yield so the consumer can run on a single-CPU machine.
				runtime.Gosched()
			}
		}
	}()

	// Consumer
	received := make([]int64, 0, count)
	go func() {
		defer wg.Done()
		for len(received) < count {
			b, ok := r.Pop()
			if ok {
				received = append(received, b.Seq)
			} else {
				// Yield so the producer can run on a single-CPU machine.
				runtime.Gosched()
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("SPSC test timed out")
	}

	// Verify ordering
	for i, v := range received {
		if v != int64(i) {
			t.Fatalf("at index %d: expected %d, got %d", i, i, v)
		}
	}
}

func TestRing_NextPow2(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {7, 8}, {8, 8}, {9, 16}, {1023, 1024},
	}
	for _, tc := range cases {
		got := nextPow2(tc.in)
		if got != tc.want {
			t.Errorf("nextPow2(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
