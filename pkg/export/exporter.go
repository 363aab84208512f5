package export

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/sigpad/pkg/ink"
	"github.com/matzehuels/sigpad/pkg/render"
)

// DefaultMaxWidth caps exported signatures at 900 pixels.
const DefaultMaxWidth = 900

// Exporter rasterizes documents at a bounded output width.
type Exporter struct {
	MaxWidth int
	Style    render.Style
}

// New creates an Exporter with the default style. A non-positive maxWidth
// selects DefaultMaxWidth.
func New(maxWidth int) *Exporter {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Exporter{MaxWidth: maxWidth, Style: render.DefaultStyle()}
}

// Scale returns the factor applied to a surface of the given logical width.
// It never exceeds 1.
func (e *Exporter) Scale(surfaceWidth float64) float64 {
	if surfaceWidth <= 0 {
		return 1
	}
	return min(1, float64(e.MaxWidth)/surfaceWidth)
}

// Export rasterizes the closed strokes of doc, drawn on a surface of the
// given logical size, into a PNG artifact. The stroke in progress is not
// exported.
func (e *Exporter) Export(doc ink.Document, size render.Size) (*Artifact, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("export: invalid surface size %vx%v", size.Width, size.Height)
	}
	s := e.Scale(size.Width)
	w := max(1, int(math.Round(size.Width*s)))
	h := max(1, int(math.Round(size.Height*s)))

	style := e.Style
	style.Background = color.White

	dc := gg.NewContext(w, h)
	render.Paint(dc, doc, style, s, false)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("export: encode png: %w", err)
	}
	return &Artifact{MimeType: MimePNG, Width: w, Height: h, Bytes: buf.Bytes()}, nil
}

// ExportCanvas exports the geometry of a live canvas at its logical size.
func (e *Exporter) ExportCanvas(c *render.Canvas) (*Artifact, error) {
	return e.Export(c.Pad().Snapshot(), c.Size())
}
