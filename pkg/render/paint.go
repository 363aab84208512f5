package render

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/sigpad/pkg/ink"
)

// Paint fills dc with the style background and draws the closed strokes of
// doc, followed by the stroke in progress when includeCurrent is set.
// Coordinates, the disc radius and segment widths are multiplied by scale.
func Paint(dc *gg.Context, doc ink.Document, style Style, scale float64, includeCurrent bool) {
	dc.SetColor(style.Background)
	dc.Clear()

	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, s := range doc.Strokes {
		drawStroke(dc, s, style, scale)
	}
	if includeCurrent {
		drawStroke(dc, doc.Current, style, scale)
	}
}

func drawStroke(dc *gg.Context, s ink.Stroke, style Style, scale float64) {
	switch len(s) {
	case 0:
		return
	case 1:
		p := s[0].Scale(scale)
		dc.SetColor(style.Ink)
		dc.DrawCircle(p.X, p.Y, style.BaseWidth*scale)
		dc.Fill()
		return
	}

	dc.SetColor(style.Ink)
	prev := s[0]
	from := prev
	for _, curr := range s[1:] {
		to := ink.Mid(prev, curr)
		dc.SetLineWidth(style.LineWidth(curr.Pressure) * scale)
		dc.MoveTo(from.X*scale, from.Y*scale)
		dc.QuadraticTo(prev.X*scale, prev.Y*scale, to.X*scale, to.Y*scale)
		dc.Stroke()
		from, prev = to, curr
	}
}

// pixels converts a logical length at a scale into a raster dimension of
// at least one pixel.
func pixels(v, scale float64) int {
	return max(1, int(math.Round(v*scale)))
}
