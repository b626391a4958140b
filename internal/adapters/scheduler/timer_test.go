package scheduler

import (
	"sync"
	"testing"
	"time"
)

func TestTimerScheduler_RunsInDelayOrder(t *testing.T) {
	s := NewTimerScheduler()

	var mu sync.Mutex
	var order []int

	for i := 0; i < 3; i++ {
		i := i
		s.After(time.Duration(i)*40*time.Millisecond, func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}

	s.Wait()

	if len(order) != 3 {
		t.Fatalf("expected 3 callbacks, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Errorf("expected order [0 1 2], got %v", order)
			break
		}
	}
}

func TestTimerScheduler_Delay(t *testing.T) {
	s := NewTimerScheduler()
	start := time.Now()

	s.After(50*time.Millisecond, func() {})
	s.Wait()

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("callback ran after %v, expected at least 50ms", elapsed)
	}
}
