// Package receiver implements a development endpoint for sigpad submissions.
//
// It accepts the multipart payloads produced by [delivery.HTTPTransport],
// stores each submission under its own directory, and deduplicates by the
// "_id" field so at-least-once delivery does not produce duplicates. Images
// are taken from file parts when present and recovered from data-URI fields
// otherwise.
//
//	rcv, err := receiver.New(dir)
//	http.ListenAndServe(":8080", rcv.Handler())
package receiver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/sigpad/pkg/delivery"
	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/queue"
)

// DefaultMaxBytes bounds a submission body.
const DefaultMaxBytes = 10 << 20

// Record is one stored submission.
type Record struct {
	ID         string      `json:"id"`
	Fields     queue.Entry `json:"fields"`
	Images     []string    `json:"images"`
	ReceivedAt time.Time   `json:"received_at"`
}

// Response is the JSON body returned from POST /submit.
type Response struct {
	ID        string `json:"id"`
	Images    int    `json:"images"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// Receiver stores submissions on disk.
type Receiver struct {
	dir      string
	logger   *log.Logger
	maxBytes int64

	mu       sync.Mutex
	records  map[string]Record
	failNext int
}

// Option configures a Receiver.
type Option func(*Receiver)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(r *Receiver) { r.logger = l } }

// WithMaxBytes sets the body size limit.
func WithMaxBytes(n int64) Option { return func(r *Receiver) { r.maxBytes = n } }

// WithFailures makes the first n submissions fail with 503, which is useful
// for watching the client retry.
func WithFailures(n int) Option { return func(r *Receiver) { r.failNext = n } }

// New creates a receiver that writes into dir.
func New(dir string, opts ...Option) (*Receiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receiver dir: %w", err)
	}
	r := &Receiver{
		dir:      dir,
		maxBytes: DefaultMaxBytes,
		records:  make(map[string]Record),
	}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r, nil
}

// Dir returns the storage directory.
func (rc *Receiver) Dir() string { return rc.dir }

// Handler returns the HTTP routes:
//
//	POST /submit       store a submission
//	GET  /submissions  list stored submissions
//	GET  /healthz      liveness
func (rc *Receiver) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(rc.logRequests)

	r.Post("/submit", rc.handleSubmit)
	r.Get("/submissions", rc.handleList)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})
	return r
}

// Records returns stored submissions ordered by arrival.
func (rc *Receiver) Records() []Record {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]Record, 0, len(rc.records))
	for _, rec := range rc.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out
}

func (rc *Receiver) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		rc.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (rc *Receiver) shouldFail() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.failNext > 0 {
		rc.failNext--
		return true
	}
	return false
}

func (rc *Receiver) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if rc.shouldFail() {
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rc.maxBytes)
	if err := r.ParseMultipartForm(rc.maxBytes); err != nil {
		http.Error(w, "invalid multipart body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fields := make(queue.Entry, len(r.MultipartForm.Value))
	for k, v := range r.MultipartForm.Value {
		fields[k] = append(queue.Value(nil), v...)
	}

	// Honeypot filled in: accept silently, store nothing.
	if fields.Get(delivery.FieldHoneypot) != "" {
		rc.logger.Warn("honeypot field set, discarding submission")
		writeJSON(w, http.StatusOK, Response{})
		return
	}

	id := fields.Get(delivery.FieldID)
	if errors.ValidateQueueKey(id) != nil {
		id = uuid.NewString()
	}

	rc.mu.Lock()
	prev, dup := rc.records[id]
	rc.mu.Unlock()
	if dup {
		writeJSON(w, http.StatusOK, Response{ID: id, Images: len(prev.Images), Duplicate: true})
		return
	}

	rec, err := rc.store(id, fields, r)
	if err != nil {
		rc.logger.Error("store submission", "id", id, "err", err)
		http.Error(w, "store failed", http.StatusInternalServerError)
		return
	}

	rc.mu.Lock()
	rc.records[id] = rec
	rc.mu.Unlock()

	rc.logger.Info("submission stored", "id", id, "fields", len(fields), "images", len(rec.Images))
	writeJSON(w, http.StatusOK, Response{ID: id, Images: len(rec.Images)})
}

func (rc *Receiver) store(id string, fields queue.Entry, r *http.Request) (Record, error) {
	dir := filepath.Join(rc.dir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Record{}, err
	}
	rec := Record{ID: id, Fields: fields, ReceivedAt: time.Now().UTC()}

	seen := make(map[string]bool)
	for field, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		name := delivery.FileName(field, export.ExtensionFor(headers[0].Header.Get("Content-Type")))
		f, err := headers[0].Open()
		if err != nil {
			return rec, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return rec, err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return rec, err
		}
		rec.Images = append(rec.Images, name)
		seen[field] = true
	}

	// Fall back to data-URI fields for images without a file part.
	for _, field := range fields.Keys() {
		v := fields.Get(field)
		if seen[field] || !export.IsImageDataURI(v) {
			continue
		}
		art, err := export.ParseDataURI(v)
		if err != nil {
			rc.logger.Warn("undecodable image field", "id", id, "field", field, "err", err)
			continue
		}
		name := delivery.FileName(field, art.Extension())
		if err := os.WriteFile(filepath.Join(dir, name), art.Bytes, 0o644); err != nil {
			return rec, err
		}
		rec.Images = append(rec.Images, name)
	}
	sort.Strings(rec.Images)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return rec, err
	}
	return rec, os.WriteFile(filepath.Join(dir, "submission.json"), data, 0o644)
}

func (rc *Receiver) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rc.Records())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
