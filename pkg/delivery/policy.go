package delivery

import (
	"context"
	"time"
)

// Default delivery parameters.
const (
	DefaultTimeout    = 8 * time.Second
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 800 * time.Millisecond
)

// State is the lifecycle position of one delivery.
type State int

const (
	Pending State = iota
	Sending
	Delivered
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Sending:
		return "sending"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Policy bounds a delivery: per-send timeout and retry schedule.
type Policy struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultPolicy returns 8s per send, 3 retries, 800ms base delay.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// normalized fills zero fields with defaults. MaxRetries may be zero.
func (p Policy) normalized() Policy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	return p
}

// Backoff returns the sleep before retry i (0-based): BaseDelay * 2^i.
func (p Policy) Backoff(i int) time.Duration {
	if i < 0 {
		i = 0
	}
	return p.BaseDelay << uint(i)
}

// MaxAttempts is the upper bound on sends for one delivery.
func (p Policy) MaxAttempts() int {
	return p.MaxRetries + 1
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
