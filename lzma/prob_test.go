package lzma

import "testing"

func TestProbClipping(t *testing.T) {
	p := probInit
	for i := 0; i < 10000; i++ {
		p.dec()
		if p < 1 || p > probTotal-1 {
			t.Fatalf("after %d dec() calls: p=%d out of range [1,%d]", i, p, probTotal-1)
		}
	}

	p = probInit
	for i := 0; i < 10000; i++ {
		p.inc()
		if p < 1 || p > probTotal-1 {
			t.Fatalf("after %d inc() calls: p=%d out of range [1,%d]", i, p, probTotal-1)
		}
	}
}

func TestProbConverges(t *testing.T) {
	p := probInit
	for i := 0; i < 64; i++ {
		p.dec()
	}
	if p >= probInit {
		t.Fatalf("p=%d did not move down from initial %d after repeated dec()", p, probInit)
	}

	p = probInit
	for i := 0; i < 64; i++ {
		p.inc()
	}
	if p <= probInit {
		t.Fatalf("p=%d did not move up from initial %d after repeated inc()", p, probInit)
	}
}

func TestPriceTableMonotone(t *testing.T) {
	for i := 1; i < len(prices); i++ {
		if prices[i] > prices[i-1] {
			t.Fatalf("prices[%d]=%d > prices[%d]=%d; want non-increasing in index", i, prices[i], i-1, prices[i-1])
		}
	}
}

func TestDirectPriceLinear(t *testing.T) {
	for n := 1; n <= 32; n++ {
		got := directPrice(n)
		want := uint32(n) * priceScale
		if got != want {
			t.Fatalf("directPrice(%d) = %d; want %d", n, got, want)
		}
	}
}

func TestStateTransitionsStayInRange(t *testing.T) {
	var s state
	s.reset(Default())
	events := []func(){s.updateLiteral, s.updateMatch, s.updateRep, s.updateShortRep}
	for start := uint32(0); start < numStates; start++ {
		for _, ev := range events {
			s.fsm = start
			ev()
			if s.fsm >= numStates {
				t.Fatalf("state %d: transition produced out-of-range state %d", start, s.fsm)
			}
		}
	}
}
