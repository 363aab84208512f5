package queue

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/observability"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "sigpad_queue"

// Queue is the durable list of pending submissions.
//
// Read-modify-write operations are serialized by a mutex, so concurrent
// Enqueue calls on one Queue never lose entries. Separate processes sharing
// a backend are not coordinated beyond what the backend's Take provides.
type Queue struct {
	mu      sync.Mutex
	backend Backend
	key     string
	logger  *log.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithKey sets the storage key. Default: [DefaultKey].
func WithKey(key string) Option { return func(q *Queue) { q.key = key } }

// WithLogger sets the logger used for corrupt-storage warnings.
func WithLogger(l *log.Logger) Option { return func(q *Queue) { q.logger = l } }

// New creates a queue over backend.
func New(backend Backend, opts ...Option) (*Queue, error) {
	if backend == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "queue backend is nil")
	}
	q := &Queue{backend: backend, key: DefaultKey}
	for _, o := range opts {
		o(q)
	}
	if q.logger == nil {
		q.logger = log.Default()
	}
	if err := errors.ValidateQueueKey(q.key); err != nil {
		return nil, err
	}
	return q, nil
}

// Key returns the storage key.
func (q *Queue) Key() string {
	return q.key
}

// Backend returns the underlying storage.
func (q *Queue) Backend() Backend {
	return q.backend
}

// Enqueue appends one entry.
func (q *Queue) Enqueue(ctx context.Context, e Entry) error {
	return q.EnqueueAll(ctx, []Entry{e})
}

// EnqueueAll appends entries in order with a single write.
func (q *Queue) EnqueueAll(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	current, err := q.load(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		current = append(current, e.Clone())
	}
	if err := q.store(ctx, current); err != nil {
		return err
	}
	observability.Queue().OnEnqueue(ctx, q.key, len(entries), len(current))
	return nil
}

// DrainAll returns every pending entry and clears storage.
func (q *Queue) DrainAll(ctx context.Context) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var (
		data []byte
		err  error
	)
	if t, ok := q.backend.(Taker); ok {
		data, err = t.Take(ctx, q.key)
	} else {
		data, err = q.backend.Read(ctx, q.key)
		if err == nil {
			err = q.backend.Clear(ctx, q.key)
		}
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "drain queue %q", q.key)
	}

	entries := q.decode(ctx, data)
	observability.Queue().OnDrain(ctx, q.key, len(entries))
	return entries, nil
}

// List returns the pending entries without modifying storage.
func (q *Queue) List(ctx context.Context) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// Size returns the number of pending entries.
func (q *Queue) Size(ctx context.Context) (int, error) {
	entries, err := q.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// IsEmpty reports whether no entries are pending.
func (q *Queue) IsEmpty(ctx context.Context) (bool, error) {
	n, err := q.Size(ctx)
	return n == 0, err
}

// Clear discards every pending entry.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.backend.Clear(ctx, q.key); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "clear queue %q", q.key)
	}
	return nil
}

// Close closes the backend.
func (q *Queue) Close() error {
	return q.backend.Close()
}

func (q *Queue) load(ctx context.Context) ([]Entry, error) {
	data, err := q.backend.Read(ctx, q.key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read queue %q", q.key)
	}
	return q.decode(ctx, data), nil
}

func (q *Queue) decode(ctx context.Context, data []byte) []Entry {
	entries, err := decodeEntries(data)
	if err != nil {
		cerr := errors.Wrap(errors.ErrCodePersistenceCorrupt, err, "queue %q is not a JSON array of entries", q.key)
		q.logger.Warn("queue storage unreadable, treating as empty", "key", q.key, "err", cerr)
		observability.Queue().OnCorrupt(ctx, q.key, cerr)
		return nil
	}
	return entries
}

func (q *Queue) store(ctx context.Context, entries []Entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode queue")
	}
	if err := q.backend.Write(ctx, q.key, data); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write queue %q", q.key)
	}
	return nil
}
