package delivery

import (
	"context"
	"testing"
	"time"
)

func TestBackoffSchedule(t *testing.T) {
	p := DefaultPolicy()
	want := []time.Duration{800 * time.Millisecond, 1600 * time.Millisecond, 3200 * time.Millisecond}
	for i, w := range want {
		if got := p.Backoff(i); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestBackoffIsStrictlyIncreasing(t *testing.T) {
	for _, base := range []time.Duration{time.Millisecond, 250 * time.Millisecond, time.Second} {
		p := Policy{BaseDelay: base, MaxRetries: 8}
		for i := 1; i < p.MaxRetries; i++ {
			if p.Backoff(i) <= p.Backoff(i-1) {
				t.Errorf("base %v: Backoff(%d)=%v not greater than Backoff(%d)=%v", base, i, p.Backoff(i), i-1, p.Backoff(i-1))
			}
		}
	}
}

func TestPolicyNormalized(t *testing.T) {
	got := Policy{MaxRetries: -2}.normalized()
	if got.Timeout != DefaultTimeout || got.BaseDelay != DefaultBaseDelay || got.MaxRetries != 0 {
		t.Errorf("normalized() = %+v", got)
	}
	if got.MaxAttempts() != 1 {
		t.Errorf("MaxAttempts() = %d, want 1", got.MaxAttempts())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Pending:   "pending",
		Sending:   "sending",
		Delivered: "delivered",
		Failed:    "failed",
		State(99): "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); err == nil {
		t.Error("sleepContext on cancelled context returned nil")
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext: %v", err)
	}
}
