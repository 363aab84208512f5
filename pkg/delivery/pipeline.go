package delivery

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/observability"
	"github.com/matzehuels/sigpad/pkg/queue"
)

// Outcome is the user-visible result of a submit.
type Outcome int

const (
	// OutcomeDelivered means the endpoint accepted the submission.
	OutcomeDelivered Outcome = iota
	// OutcomeSavedOffline means the caller was offline and the submission
	// was queued without a network attempt.
	OutcomeSavedOffline
	// OutcomeQueued means every attempt failed and the submission was queued.
	OutcomeQueued
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeSavedOffline:
		return "saved offline"
	case OutcomeQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// Status describes how one delivery ended.
type Status struct {
	State    State
	Attempts int
	Err      error
}

// Result is returned by [Pipeline.Submit].
type Result struct {
	Outcome  Outcome
	ID       string
	Attempts int
	// Err is the last delivery error when Outcome is OutcomeQueued.
	Err error
}

// SavedOffline reports whether the submission is waiting in the queue.
func (r Result) SavedOffline() bool {
	return r.Outcome != OutcomeDelivered
}

// Message returns the status line shown to the signer.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeDelivered:
		return "Thanks! Your submission has been sent."
	case OutcomeSavedOffline:
		return "Saved offline. It will be sent when you retry online."
	default:
		return "Couldn't reach server. Saved offline, retry later."
	}
}

// Report summarizes a manual retry.
type Report struct {
	Sent      int
	Remaining int
}

func (r Report) String() string {
	return fmt.Sprintf("%d sent, %d remaining", r.Sent, r.Remaining)
}

// Pipeline delivers submissions and falls back to the durable queue.
type Pipeline struct {
	transport Transport
	queue     *queue.Queue
	conn      Connectivity
	builder   *Builder
	policy    Policy
	sleep     SleepFunc
	logger    *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicy sets timeout and retry schedule. Zero fields take defaults.
func WithPolicy(p Policy) Option { return func(pl *Pipeline) { pl.policy = p } }

// WithConnectivity sets the online signal. Default: always online.
func WithConnectivity(c Connectivity) Option { return func(pl *Pipeline) { pl.conn = c } }

// WithBuilder sets the submission builder.
func WithBuilder(b *Builder) Option { return func(pl *Pipeline) { pl.builder = b } }

// WithSleep replaces the backoff sleep.
func WithSleep(fn SleepFunc) Option { return func(pl *Pipeline) { pl.sleep = fn } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(pl *Pipeline) { pl.logger = l } }

// NewPipeline creates a pipeline sending through t and queuing into q.
func NewPipeline(t Transport, q *queue.Queue, opts ...Option) (*Pipeline, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "transport is nil")
	}
	if q == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "queue is nil")
	}
	p := &Pipeline{
		transport: t,
		queue:     q,
		conn:      Static(true),
		policy:    DefaultPolicy(),
		sleep:     sleepContext,
	}
	for _, o := range opts {
		o(p)
	}
	p.policy = p.policy.normalized()
	if p.builder == nil {
		p.builder = NewBuilder()
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p, nil
}

// Policy returns the effective delivery policy.
func (p *Pipeline) Policy() Policy { return p.policy }

// Queue returns the fallback queue.
func (p *Pipeline) Queue() *queue.Queue { return p.queue }

// Submit builds and delivers sub. Offline callers skip the network entirely.
// A delivery that ends in Failed is queued and reported as OutcomeQueued.
// Errors are returned only for validation and persistence failures.
func (p *Pipeline) Submit(ctx context.Context, sub *Submission) (Result, error) {
	payload, err := p.builder.Build(sub)
	if err != nil {
		return Result{}, err
	}
	res := Result{ID: payload.ID()}

	if !p.conn.Online(ctx) {
		p.logger.Info("offline, queuing submission", "id", res.ID)
		if err := p.queue.Enqueue(context.WithoutCancel(ctx), payload.Entry()); err != nil {
			return res, err
		}
		res.Outcome = OutcomeSavedOffline
		return res, nil
	}

	st := p.Deliver(ctx, payload)
	res.Attempts = st.Attempts
	if st.State == Delivered {
		res.Outcome = OutcomeDelivered
		return res, nil
	}

	p.logger.Warn("delivery failed, queuing submission", "id", res.ID, "attempts", st.Attempts, "err", st.Err)
	if err := p.queue.Enqueue(context.WithoutCancel(ctx), payload.Entry()); err != nil {
		return res, err
	}
	res.Outcome = OutcomeQueued
	res.Err = st.Err
	return res, nil
}

// RetryPending drains the queue and delivers every entry with its own
// retry cycle. Entries that still fail are queued again in their original
// order.
func (p *Pipeline) RetryPending(ctx context.Context) (Report, error) {
	entries, err := p.queue.DrainAll(ctx)
	if err != nil {
		return Report{}, err
	}

	var (
		report Report
		remain []queue.Entry
	)
	for _, e := range entries {
		st := p.Deliver(ctx, PayloadFromEntry(e))
		if st.State == Delivered {
			report.Sent++
			continue
		}
		p.logger.Warn("pending submission still failing", "id", e.Get(FieldID), "attempts", st.Attempts, "err", st.Err)
		remain = append(remain, e)
	}
	report.Remaining = len(remain)

	if err := p.queue.EnqueueAll(context.WithoutCancel(ctx), remain); err != nil {
		return report, err
	}
	p.logger.Info("retry finished", "sent", report.Sent, "remaining", report.Remaining)
	return report, nil
}

// Deliver runs the bounded state machine for one payload. It makes at most
// MaxRetries+1 sends and never touches the queue.
func (p *Pipeline) Deliver(ctx context.Context, payload *Payload) Status {
	hooks := observability.Delivery()
	start := time.Now()
	st := Status{State: Pending}

	for i := 0; ; i++ {
		st.State = Sending
		st.Attempts = i + 1
		hooks.OnAttempt(ctx, st.Attempts)

		err := p.send(ctx, payload)
		if err == nil {
			st.State = Delivered
			st.Err = nil
			hooks.OnDelivered(ctx, st.Attempts, time.Since(start))
			p.logger.Debug("delivered", "id", payload.ID(), "attempts", st.Attempts)
			return st
		}
		st.Err = err

		if !retryable(err) || ctx.Err() != nil {
			return p.fail(ctx, st)
		}
		if i >= p.policy.MaxRetries {
			st.Err = errors.Wrap(errors.ErrCodeRetriesExhausted, err, "gave up after %d attempts", st.Attempts)
			return p.fail(ctx, st)
		}

		delay := p.policy.Backoff(i)
		hooks.OnRetryScheduled(ctx, st.Attempts, delay, err)
		p.logger.Warn("send failed, retrying", "attempt", st.Attempts, "delay", delay, "err", err)
		if serr := p.sleep(ctx, delay); serr != nil {
			return p.fail(ctx, st)
		}
	}
}

func (p *Pipeline) send(ctx context.Context, payload *Payload) error {
	actx, cancel := context.WithTimeout(ctx, p.policy.Timeout)
	defer cancel()

	err := p.transport.Send(actx, payload)
	if err != nil && ctx.Err() == nil && stderrors.Is(actx.Err(), context.DeadlineExceeded) && !errors.Is(err, errors.ErrCodeTimeout) {
		err = errors.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "no response within %s", p.policy.Timeout))
	}
	return err
}

func (p *Pipeline) fail(ctx context.Context, st Status) Status {
	st.State = Failed
	observability.Delivery().OnFailed(ctx, st.Attempts, st.Err)
	return st
}

// retryable reports whether another attempt may succeed: errors marked
// with errors.Retryable and bare deadline errors.
func retryable(err error) bool {
	return errors.IsRetryable(err) || stderrors.Is(err, context.DeadlineExceeded)
}
