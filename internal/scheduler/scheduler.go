package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Interval runs a task on a fixed period, optionally firing once up front.
// Ticks that land while the task is still running are dropped, so passes
// never overlap. Start blocks until the context ends.
type Interval struct {
	Every          time.Duration
	RunImmediately bool

	ctx context.Context
}

func NewInterval(ctx context.Context, every time.Duration) *Interval {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Interval{Every: every, ctx: ctx}
}

func (s *Interval) Start(task func()) {
	if s == nil {
		return
	}
	if task == nil {
		slog.Warn("scheduler: task is nil, exit")
		return
	}
	if s.Every <= 0 {
		slog.Warn("scheduler: invalid interval, exit", "every", s.Every)
		return
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	slog.Info("scheduler started", "every", s.Every, "run_immediately", s.RunImmediately)

	if s.RunImmediately {
		task()
	}

	ticker := time.NewTicker(s.Every)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			task()
		}
	}
}
