package delivery

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sigpad/pkg/buildinfo"
	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/queue"
	"github.com/matzehuels/sigpad/pkg/render"
)

// Metadata fields stamped on every submission when absent.
const (
	FieldID          = "_id"
	FieldTimestamp   = "_ts"
	FieldSubmittedAt = "submittedAt"
	FieldHoneypot    = "website"
	FieldUserAgent   = "_ua"
)

// FieldSource supplies the already-validated non-signature form fields.
type FieldSource interface {
	Fields(ctx context.Context) (queue.Entry, error)
}

// StaticFields is a FieldSource returning a fixed entry.
type StaticFields queue.Entry

// Fields returns a copy of the entry.
func (s StaticFields) Fields(context.Context) (queue.Entry, error) {
	return queue.Entry(s).Clone(), nil
}

// Signature is one signature field of a submission.
type Signature struct {
	Field    string
	Required bool
	Document ink.Document
	Size     render.Size
}

// SignatureFromCanvas captures the current geometry of a canvas.
func SignatureFromCanvas(field string, required bool, c *render.Canvas) Signature {
	return Signature{
		Field:    field,
		Required: required,
		Document: c.Pad().Snapshot(),
		Size:     c.Size(),
	}
}

// Submission is the input to [Pipeline.Submit].
type Submission struct {
	Fields     queue.Entry
	Signatures []Signature
}

// NewSubmission reads fields from src and attaches signatures.
func NewSubmission(ctx context.Context, src FieldSource, sigs ...Signature) (*Submission, error) {
	fields, err := src.Fields(ctx)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = queue.Entry{}
	}
	return &Submission{Fields: fields, Signatures: sigs}, nil
}

// Builder turns a Submission into a Payload.
type Builder struct {
	Exporter  *export.Exporter
	UserAgent string
	Now       func() time.Time
	NewID     func() string
}

// NewBuilder creates a builder with the default exporter, the build's
// User-Agent, wall-clock time and random UUIDs.
func NewBuilder() *Builder {
	return &Builder{
		Exporter:  export.New(export.DefaultMaxWidth),
		UserAgent: buildinfo.UserAgent(),
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Build validates signatures, exports them, and stamps metadata. A required
// signature without closed strokes fails with VALIDATION_FAILED; an empty
// optional one is omitted.
func (b *Builder) Build(sub *Submission) (*Payload, error) {
	fields := sub.Fields.Clone()
	if fields == nil {
		fields = queue.Entry{}
	}
	for _, k := range fields.Keys() {
		if err := errors.ValidateFieldName(k); err != nil {
			return nil, err
		}
	}

	exp := b.Exporter
	if exp == nil {
		exp = export.New(export.DefaultMaxWidth)
	}

	p := &Payload{Fields: fields}
	for _, sig := range sub.Signatures {
		if err := errors.ValidateFieldName(sig.Field); err != nil {
			return nil, err
		}
		// Only closed strokes are exported.
		if len(sig.Document.Strokes) == 0 {
			if sig.Required {
				return nil, errors.New(errors.ErrCodeValidationFailed, "signature %q is required", sig.Field)
			}
			continue
		}
		art, err := exp.Export(sig.Document, sig.Size)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export signature %q", sig.Field)
		}
		p.Fields.Set(sig.Field, art.DataURI())
		p.Files = append(p.Files, File{
			Field:    sig.Field,
			Filename: FileName(sig.Field, art.Extension()),
			MimeType: art.MimeType,
			Data:     art.Bytes,
		})
	}

	b.stamp(p.Fields)
	return p, nil
}

func (b *Builder) stamp(f queue.Entry) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	newID := uuid.NewString
	if b.NewID != nil {
		newID = b.NewID
	}
	t := now()

	setDefault(f, FieldID, newID)
	setDefault(f, FieldTimestamp, func() string { return strconv.FormatInt(t.UnixMilli(), 10) })
	setDefault(f, FieldSubmittedAt, func() string { return t.UTC().Format(time.RFC3339) })
	if !f.Has(FieldHoneypot) {
		f.Set(FieldHoneypot, "")
	}
	if b.UserAgent != "" {
		setDefault(f, FieldUserAgent, func() string { return b.UserAgent })
	}
}

func setDefault(f queue.Entry, key string, value func() string) {
	if f.Get(key) == "" {
		f.Set(key, value())
	}
}
