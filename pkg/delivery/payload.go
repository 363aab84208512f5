package delivery

import (
	"strings"
	"unicode"

	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/queue"
)

// File is a binary part attached to a payload.
type File struct {
	Field    string
	Filename string
	MimeType string
	Data     []byte
}

// Payload is everything one send transmits: form fields (signatures
// included as data URIs) and the same signatures as binary parts.
type Payload struct {
	Fields queue.Entry
	Files  []File
}

// ID returns the submission identifier stamped into the fields.
func (p *Payload) ID() string {
	return p.Fields.Get(FieldID)
}

// Entry returns the self-describing queue form of the payload. Files are
// omitted because every file is also present as a data-URI field.
func (p *Payload) Entry() queue.Entry {
	return p.Fields.Clone()
}

// PayloadFromEntry rebuilds a payload from a queued entry. Every field whose
// value is an image data URI is attached again as a file part; values that
// fail to decode stay as plain fields.
func PayloadFromEntry(e queue.Entry) *Payload {
	p := &Payload{Fields: e.Clone()}
	if p.Fields == nil {
		p.Fields = queue.Entry{}
	}
	for _, k := range p.Fields.Keys() {
		v := p.Fields.Get(k)
		if !export.IsImageDataURI(v) {
			continue
		}
		art, err := export.ParseDataURI(v)
		if err != nil {
			continue
		}
		p.Files = append(p.Files, File{
			Field:    k,
			Filename: FileName(k, art.Extension()),
			MimeType: art.MimeType,
			Data:     art.Bytes,
		})
	}
	return p
}

// FileName derives the part filename for a field:
// "participantSignature" becomes "participant-signature.png".
func FileName(field, ext string) string {
	return kebab(field) + ext
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == '_' || r == ' ':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
