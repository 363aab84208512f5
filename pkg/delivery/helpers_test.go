package delivery

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/queue"
	"github.com/matzehuels/sigpad/pkg/render"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func signedDocument() ink.Document {
	p := ink.NewPad()
	p.Begin(ink.Pt(20, 20))
	p.Extend(ink.Pt(80, 60))
	p.Extend(ink.Pt(140, 30))
	p.End()
	return p.Snapshot()
}

func exportSample(t *testing.T) *export.Artifact {
	t.Helper()
	art, err := export.New(0).Export(signedDocument(), render.Size{Width: 300, Height: 100})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	return art
}

func testSubmission() *Submission {
	return &Submission{
		Fields: queue.Entry{"name": {"Ada"}, "programs": {"swim", "art"}},
		Signatures: []Signature{{
			Field:    "participantSignature",
			Required: true,
			Document: signedDocument(),
			Size:     render.Size{Width: 600, Height: 200},
		}},
	}
}

// scriptedTransport returns errs[i] for send i and nil once the script is
// exhausted.
type scriptedTransport struct {
	mu    sync.Mutex
	errs  []error
	sent  []*Payload
	fails func(p *Payload) error
}

func (s *scriptedTransport) Send(ctx context.Context, p *Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.sent)
	s.sent = append(s.sent, p)
	if s.fails != nil {
		return s.fails(p)
	}
	if n < len(s.errs) {
		return s.errs[n]
	}
	return nil
}

func (s *scriptedTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func timeoutErr() error {
	return errors.Retryable(errors.New(errors.ErrCodeTimeout, "request timed out"))
}

// sleepRecorder captures backoff delays without waiting.
type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newTestPipeline(t *testing.T, tr Transport, online bool, opts ...Option) (*Pipeline, *queue.Queue, *sleepRecorder) {
	t.Helper()
	q, err := queue.New(queue.NewMemory(), queue.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("queue.New: %v", err)
	}
	rec := &sleepRecorder{}
	base := []Option{
		WithConnectivity(Static(online)),
		WithSleep(rec.sleep),
		WithLogger(quietLogger()),
	}
	p, err := NewPipeline(tr, q, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p, q, rec
}

func queueSize(t *testing.T, q *queue.Queue) int {
	t.Helper()
	n, err := q.Size(context.Background())
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	return n
}
