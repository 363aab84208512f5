package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/sigpad/pkg/ink"
)

// Size is a logical surface size in CSS-like pixels.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Surface is an opaque raster with a logical size and a pixel ratio.
// Its backing image holds round(Width*ratio) x round(Height*ratio) pixels.
type Surface struct {
	size  Size
	ratio float64
	style Style
	dc    *gg.Context
}

// NewSurface allocates a surface filled with the style background.
// Ratios below 1 are raised to 1.
func NewSurface(size Size, ratio float64, style Style) *Surface {
	s := &Surface{style: style}
	s.Resize(size, ratio)
	return s
}

// Resize replaces the raster with one of the new size and ratio, filled
// with the background. Callers repaint geometry afterwards.
func (s *Surface) Resize(size Size, ratio float64) {
	s.size = size
	s.ratio = max(1, ratio)
	s.dc = gg.NewContext(pixels(size.Width, s.ratio), pixels(size.Height, s.ratio))
	s.dc.SetColor(s.style.Background)
	s.dc.Clear()
}

// Draw repaints the surface from doc, including the stroke in progress.
func (s *Surface) Draw(doc ink.Document) {
	Paint(s.dc, doc, s.style, s.ratio, true)
}

// Size returns the logical size.
func (s *Surface) Size() Size { return s.size }

// Ratio returns the pixel ratio.
func (s *Surface) Ratio() float64 { return s.ratio }

// Style returns the style used for painting.
func (s *Surface) Style() Style { return s.style }

// PixelSize returns the raster dimensions.
func (s *Surface) PixelSize() (w, h int) {
	return s.dc.Width(), s.dc.Height()
}

// Image returns the backing raster. It is overwritten by the next paint.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the current raster as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }
