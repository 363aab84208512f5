package delivery

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/queue"
	"github.com/matzehuels/sigpad/pkg/render"
)

func fixedBuilder() *Builder {
	b := NewBuilder()
	b.UserAgent = "sigpad/test"
	b.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC) }
	b.NewID = func() string { return "id-1" }
	return b
}

func TestBuilderStampsMetadata(t *testing.T) {
	p, err := fixedBuilder().Build(testSubmission())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := map[string]string{
		FieldID:          "id-1",
		FieldTimestamp:   "1748781000000",
		FieldSubmittedAt: "2025-06-01T12:30:00Z",
		FieldHoneypot:    "",
		FieldUserAgent:   "sigpad/test",
		"name":           "Ada",
	}
	for k, v := range want {
		if !p.Fields.Has(k) || p.Fields.Get(k) != v {
			t.Errorf("field %s = %q, want %q", k, p.Fields.Get(k), v)
		}
	}
	if p.ID() != "id-1" {
		t.Errorf("ID() = %q", p.ID())
	}
}

func TestBuilderKeepsExistingMetadata(t *testing.T) {
	sub := testSubmission()
	sub.Fields.Set(FieldID, "caller-id")
	sub.Fields.Set(FieldHoneypot, "spam")

	p, err := fixedBuilder().Build(sub)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Fields.Get(FieldID) != "caller-id" || p.Fields.Get(FieldHoneypot) != "spam" {
		t.Errorf("fields = %v", p.Fields)
	}
	if sub.Fields.Has(FieldTimestamp) {
		t.Error("Build mutated the submission fields")
	}
}

func TestBuilderAttachesSignatures(t *testing.T) {
	p, err := fixedBuilder().Build(testSubmission())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p.Files) != 1 {
		t.Fatalf("Files = %d, want 1", len(p.Files))
	}
	f := p.Files[0]
	if f.Filename != "participant-signature.png" || f.MimeType != export.MimePNG {
		t.Errorf("file = %s %s", f.Filename, f.MimeType)
	}
	uri := p.Fields.Get("participantSignature")
	art, err := export.ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI: %v", err)
	}
	if string(art.Bytes) != string(f.Data) {
		t.Error("data URI field and file part differ")
	}
	// 600 wide surface exported at the 900 cap keeps its size.
	if art.Width != 600 || art.Height != 200 {
		t.Errorf("exported %dx%d, want 600x200", art.Width, art.Height)
	}
}

func TestBuilderSignatureRules(t *testing.T) {
	empty := Signature{Field: "guardianSignature", Size: render.Size{Width: 300, Height: 100}}
	inProgress := empty
	pad := ink.NewPad()
	pad.Begin(ink.Pt(1, 1))
	pad.Extend(ink.Pt(5, 5))
	inProgress.Document = pad.Snapshot()

	tests := []struct {
		name     string
		sig      Signature
		required bool
		wantErr  errors.Code
		wantFile bool
	}{
		{"optional empty omitted", empty, false, "", false},
		{"required empty", empty, true, errors.ErrCodeValidationFailed, false},
		{"required in progress", inProgress, true, errors.ErrCodeValidationFailed, false},
		{"bad field name", Signature{Field: "has space", Document: signedDocument(), Size: empty.Size}, false, errors.ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.sig
			sig.Required = tt.required
			p, err := fixedBuilder().Build(&Submission{Fields: queue.Entry{}, Signatures: []Signature{sig}})
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if (len(p.Files) > 0) != tt.wantFile {
				t.Errorf("files = %d", len(p.Files))
			}
			if !tt.wantFile && p.Fields.Has(sig.Field) {
				t.Errorf("omitted signature left field %q", sig.Field)
			}
		})
	}
}

func TestNewSubmission(t *testing.T) {
	src := StaticFields{"name": {"Ada"}}
	sub, err := NewSubmission(context.Background(), src, Signature{Field: "sig"})
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	sub.Fields.Set("name", "changed")
	if queue.Entry(src).Get("name") != "Ada" {
		t.Error("StaticFields returned shared storage")
	}
	if len(sub.Signatures) != 1 {
		t.Errorf("signatures = %d", len(sub.Signatures))
	}
}

func TestDefaultUserAgent(t *testing.T) {
	if ua := NewBuilder().UserAgent; !strings.HasPrefix(ua, "sigpad/") {
		t.Errorf("UserAgent = %q", ua)
	}
}
