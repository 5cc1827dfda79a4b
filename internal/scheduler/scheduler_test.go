package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestIntervalRunsTaskOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 16)
	sched := NewInterval(ctx, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		sched.Start(func() { runs <- struct{}{} })
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-runs:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestIntervalRunImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 1)
	sched := NewInterval(ctx, time.Hour)
	sched.RunImmediately = true
	go sched.Start(func() { runs <- struct{}{} })

	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("expected an immediate run")
	}
}

func TestIntervalRejectsBadSetup(t *testing.T) {
	// Both calls must return instead of looping.
	NewInterval(context.Background(), 0).Start(func() {})
	NewInterval(context.Background(), time.Second).Start(nil)
}
