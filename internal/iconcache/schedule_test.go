package iconcache

import (
	"testing"
	"time"
)

func TestScheduleNonDecreasing(t *testing.T) {
	floor := 100 * time.Millisecond
	window := 1200 * time.Millisecond
	d := Schedule(5, floor, window, DefaultStaggerRatio)
	if len(d) != 5 {
		t.Fatalf("len = %d", len(d))
	}
	if d[0] != floor {
		t.Fatalf("first delay %v, want floor %v", d[0], floor)
	}
	for i := 1; i < len(d); i++ {
		if d[i] < d[i-1] {
			t.Fatalf("delay %d (%v) < delay %d (%v)", i, d[i], i-1, d[i-1])
		}
	}
	if d[4] > floor+window {
		t.Fatalf("last delay %v exceeds %v", d[4], floor+window)
	}
	if d[2]-d[1] >= d[1]-d[0] {
		t.Fatal("gaps must shrink")
	}
}

func TestScheduleEdges(t *testing.T) {
	if Schedule(0, time.Second, time.Second, 0.5) != nil {
		t.Fatal("n=0 must be nil")
	}
	if d := Schedule(1, 100*time.Millisecond, time.Second, 0.5); d[0] != 100*time.Millisecond {
		t.Fatalf("single delay %v", d[0])
	}
	for _, v := range Schedule(4, 0, 0, 0) {
		if v != 0 {
			t.Fatalf("zero window delay %v", v)
		}
	}
}
