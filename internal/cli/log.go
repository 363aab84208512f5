package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sigpad/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Delivered submission (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports delivery and queue events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnAttempt(_ context.Context, attempt int) {
	h.logger.Debug("sending", "attempt", attempt)
}

func (h *logHooks) OnRetryScheduled(_ context.Context, attempt int, delay time.Duration, err error) {
	h.logger.Debug("retry scheduled", "attempt", attempt, "delay", delay, "err", err)
}

func (h *logHooks) OnDelivered(_ context.Context, attempts int, d time.Duration) {
	h.logger.Debug("delivered", "attempts", attempts, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnFailed(_ context.Context, attempts int, err error) {
	h.logger.Debug("delivery failed", "attempts", attempts, "err", err)
}

func (h *logHooks) OnEnqueue(_ context.Context, key string, added, size int) {
	h.logger.Debug("queued", "key", key, "added", added, "pending", size)
}

func (h *logHooks) OnDrain(_ context.Context, key string, count int) {
	h.logger.Debug("drained", "key", key, "count", count)
}

func (h *logHooks) OnCorrupt(_ context.Context, key string, err error) {
	h.logger.Warn("queue storage corrupt, starting empty", "key", key, "err", err)
}

var (
	_ observability.DeliveryHooks = (*logHooks)(nil)
	_ observability.QueueHooks    = (*logHooks)(nil)
)
