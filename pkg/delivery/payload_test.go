package delivery

import (
	"testing"

	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/queue"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"participantSignature", "participant-signature.png"},
		{"guardianSignature", "guardian-signature.png"},
		{"signature", "signature.png"},
		{"witness_sig", "witness-sig.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.field, ".png"); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestPayloadFromEntry(t *testing.T) {
	art := exportSample(t)
	e := queue.Entry{
		"name":                 {"Ada"},
		"programs":             {"swim", "art"},
		"participantSignature": {art.DataURI()},
		"note":                 {"data:text/plain;base64,aGk="},
		"guardianSignature":    {"data:image/png;base64,***"},
	}

	p := PayloadFromEntry(e)
	if len(p.Files) != 1 {
		t.Fatalf("Files = %d, want 1", len(p.Files))
	}
	f := p.Files[0]
	if f.Field != "participantSignature" || f.Filename != "participant-signature.png" || f.MimeType != export.MimePNG {
		t.Errorf("file = %+v", f)
	}
	if string(f.Data) != string(art.Bytes) {
		t.Error("file bytes differ from exported artifact")
	}
	if p.Fields.Get("guardianSignature") == "" {
		t.Error("undecodable data URI should remain as a field")
	}
	if got := p.Fields["programs"]; len(got) != 2 {
		t.Errorf("programs = %v", got)
	}

	p.Fields.Set("name", "changed")
	if e.Get("name") != "Ada" {
		t.Error("PayloadFromEntry shares storage with the entry")
	}
}

func TestPayloadEntryOmitsFiles(t *testing.T) {
	p := &Payload{
		Fields: queue.Entry{"sig": {"data:image/png;base64,AA=="}},
		Files:  []File{{Field: "sig", Filename: "sig.png", MimeType: export.MimePNG, Data: []byte{0}}},
	}
	e := p.Entry()
	if len(e) != 1 || e.Get("sig") != "data:image/png;base64,AA==" {
		t.Errorf("Entry() = %v", e)
	}
}
