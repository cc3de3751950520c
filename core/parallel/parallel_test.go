package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversEveryIndexOnce(t *testing.T) {
	for _, items := range []int{0, 1, 7, 64, 1001} {
		hits := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("items=%d: index %d visited %d times", items, i, h)
			}
		}
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, 1000, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("got range [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestWorkers(t *testing.T) {
	if w := Workers(1); w != 1 {
		t.Errorf("Workers(1) = %d", w)
	}
	if w := Workers(0); w != 1 {
		t.Errorf("Workers(0) = %d", w)
	}
}
