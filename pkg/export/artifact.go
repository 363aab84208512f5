package export

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/png" // register decoder for ParseDataURI
	"regexp"
	"strings"

	"github.com/matzehuels/sigpad/pkg/errors"
)

// MimePNG is the only encoding produced by the exporter.
const MimePNG = "image/png"

// Artifact is an encoded signature image. It is derived data, recomputed
// from geometry on demand.
type Artifact struct {
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    []byte `json:"-"`
}

// DataURI returns the artifact as a base64 data URI.
func (a *Artifact) DataURI() string {
	return "data:" + a.MimeType + ";base64," + base64.StdEncoding.EncodeToString(a.Bytes)
}

// Extension returns the filename extension for the artifact's MIME type.
func (a *Artifact) Extension() string {
	return ExtensionFor(a.MimeType)
}

// ExtensionFor returns the filename extension for an image MIME type.
func ExtensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

var dataURIPattern = regexp.MustCompile(`^data:(.+?);base64,(.*)$`)

// IsImageDataURI reports whether s looks like an image data URI.
func IsImageDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// ParseDataURI decodes a base64 data URI into an artifact. Dimensions are
// read from the image header when the format is registered; otherwise they
// are left zero.
func ParseDataURI(s string) (*Artifact, error) {
	m := dataURIPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode data URI payload")
	}
	a := &Artifact{MimeType: m[1], Bytes: data}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		a.Width, a.Height = cfg.Width, cfg.Height
	}
	return a, nil
}
