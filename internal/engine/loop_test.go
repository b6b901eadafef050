package engine

import (
	"testing"
	"time"
)

func TestLoopRunsPeriodsInOrder(t *testing.T) {
	loop := NewLoop(10, time.Millisecond)

	var seen []int
	loop.OnPeriod = func(period int) {
		seen = append(seen, period)
		if len(seen) == 3 {
			loop.Stop()
		}
	}

	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	if len(seen) != 3 || seen[0] != 11 || seen[1] != 12 || seen[2] != 13 {
		t.Errorf("periods = %v, want [11 12 13]", seen)
	}
	if loop.Period() != 13 {
		t.Errorf("Period() = %d, want 13", loop.Period())
	}
}

func TestLoopDefaultsInterval(t *testing.T) {
	loop := NewLoop(0, 0)
	if loop.Interval != time.Second {
		t.Errorf("interval = %v, want 1s fallback", loop.Interval)
	}
}
