package export

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/render"
)

func signature() ink.Document {
	return ink.Document{Strokes: []ink.Stroke{
		{ink.Pt(20, 100), ink.Pt(80, 40), ink.Pt(140, 120), ink.Pt(200, 60)},
		{{X: 300, Y: 80, Pressure: 0.9}, {X: 420, Y: 90, Pressure: 0.2}, {X: 560, Y: 70, Pressure: 1}},
		{ink.Pt(580, 150)},
	}}
}

func decode(t *testing.T, a *Artifact) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(a.Bytes))
	if err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	return img
}

func TestExportDimensions(t *testing.T) {
	tests := []struct {
		name     string
		maxWidth int
		size     render.Size
		wantW    int
		wantH    int
	}{
		{"downscale by half", 300, render.Size{Width: 600, Height: 200}, 300, 100},
		{"never upscale", 900, render.Size{Width: 600, Height: 200}, 600, 200},
		{"exact width", 600, render.Size{Width: 600, Height: 200}, 600, 200},
		{"rounded", 450, render.Size{Width: 1000, Height: 333}, 450, 150},
		{"default cap", 0, render.Size{Width: 1800, Height: 400}, 900, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.maxWidth).Export(signature(), tt.size)
			if err != nil {
				t.Fatalf("Export() error: %v", err)
			}
			if a.Width != tt.wantW || a.Height != tt.wantH {
				t.Errorf("artifact = %dx%d, want %dx%d", a.Width, a.Height, tt.wantW, tt.wantH)
			}
			b := decode(t, a).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("decoded = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
			if a.MimeType != MimePNG {
				t.Errorf("MimeType = %q, want %q", a.MimeType, MimePNG)
			}
		})
	}
}

func TestExportIsIdempotent(t *testing.T) {
	e := New(300)
	size := render.Size{Width: 600, Height: 200}
	a1, err := e.Export(signature(), size)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	a2, err := e.Export(signature(), size)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !bytes.Equal(a1.Bytes, a2.Bytes) {
		t.Error("exporting the same document twice produced different bytes")
	}
	if a1.DataURI() != a2.DataURI() {
		t.Error("data URIs differ")
	}
}

func TestExportScalesGeometry(t *testing.T) {
	doc := ink.Document{Strokes: []ink.Stroke{{ink.Pt(400, 100)}}}
	e := New(300)
	e.Style.BaseWidth = 6
	a, err := e.Export(doc, render.Size{Width: 600, Height: 200})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	img := decode(t, a)
	r, g, b, _ := img.At(200, 50).RGBA()
	if r>>8 > 0x60 || g>>8 > 0x60 || b>>8 > 0x60 {
		t.Error("dot should move to the scaled position (200, 50)")
	}
	r, g, b, _ = img.At(5, 5).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Error("background should be white")
	}
}

func TestExportExcludesStrokeInProgress(t *testing.T) {
	size := render.Size{Width: 200, Height: 100}
	closed := ink.Document{Strokes: []ink.Stroke{{ink.Pt(10, 10)}}}
	withCurrent := closed
	withCurrent.Current = ink.Stroke{ink.Pt(100, 50), ink.Pt(150, 50)}

	a1, err := New(900).Export(closed, size)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	a2, err := New(900).Export(withCurrent, size)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !bytes.Equal(a1.Bytes, a2.Bytes) {
		t.Error("stroke in progress leaked into the export")
	}
}

func TestExportIndependentOfLiveRatio(t *testing.T) {
	pad := ink.NewPad()
	ink.Replay(pad, []ink.Event{
		{Kind: ink.EventDown, X: 30, Y: 30},
		{Kind: ink.EventMove, X: 300, Y: 150},
		{Kind: ink.EventUp},
	})

	size := render.Size{Width: 600, Height: 200}
	lo := render.NewCanvas(pad, size, 1, render.DefaultStyle())
	a1, err := New(300).ExportCanvas(lo)
	if err != nil {
		t.Fatalf("ExportCanvas() error: %v", err)
	}
	lo.Resize(size, 3)
	a2, err := New(300).ExportCanvas(lo)
	if err != nil {
		t.Fatalf("ExportCanvas() error: %v", err)
	}
	if !bytes.Equal(a1.Bytes, a2.Bytes) {
		t.Error("export should not depend on the live pixel ratio")
	}
}

func TestExportInvalidSize(t *testing.T) {
	if _, err := New(300).Export(signature(), render.Size{}); err == nil {
		t.Error("Export() with zero size should fail")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	a, err := New(300).Export(signature(), render.Size{Width: 600, Height: 200})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	uri := a.DataURI()
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("DataURI() prefix = %q", uri[:30])
	}
	if !IsImageDataURI(uri) {
		t.Error("IsImageDataURI() = false")
	}

	got, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI() error: %v", err)
	}
	if !bytes.Equal(got.Bytes, a.Bytes) {
		t.Error("payload changed")
	}
	if got.Width != 300 || got.Height != 100 || got.MimeType != MimePNG {
		t.Errorf("parsed = %s %dx%d", got.MimeType, got.Width, got.Height)
	}
	if got.Extension() != ".png" {
		t.Errorf("Extension() = %q", got.Extension())
	}
}

func TestParseDataURIErrors(t *testing.T) {
	for _, in := range []string{"", "hello", "data:image/png;base64,!!!", "data:image/png,raw"} {
		if _, err := ParseDataURI(in); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseDataURI(%q) error = %v, want %s", in, err, errors.ErrCodeInvalidFormat)
		}
	}
}
