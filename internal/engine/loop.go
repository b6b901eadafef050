// Package engine provides the period loop that owns a game's turn
// cadence. One period is one full board lap; the loop invokes the
// per-period callback serially, which is what makes every economy and
// bot mutation single-writer within a game.
package engine

import (
	"log/slog"
	"time"
)

// Loop drives one game forward, one period per interval.
type Loop struct {
	Interval time.Duration // Wall-clock time per period.
	Running  bool

	// OnPeriod runs once per period with the new period number.
	OnPeriod func(period int)

	period int
}

// NewLoop creates a loop starting from the given period.
func NewLoop(startPeriod int, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	return &Loop{Interval: interval, period: startPeriod}
}

// Period returns the most recently completed period.
func (l *Loop) Period() int {
	return l.period
}

// Run starts the loop. Blocks until Stop is called.
func (l *Loop) Run() {
	l.Running = true
	slog.Info("period loop started", "period", l.period, "interval", l.Interval)

	for l.Running {
		start := time.Now()

		l.period++
		if l.OnPeriod != nil {
			l.OnPeriod(l.period)
		}

		// Sleep out the remainder of the interval.
		if elapsed := time.Since(start); elapsed < l.Interval {
			time.Sleep(l.Interval - elapsed)
		}
	}

	slog.Info("period loop stopped", "period", l.period)
}

// Stop halts the loop after the current period completes.
func (l *Loop) Stop() {
	l.Running = false
}
