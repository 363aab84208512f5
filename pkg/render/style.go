package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style controls stroke appearance.
type Style struct {
	BaseWidth      float64     // disc radius and width at zero pressure offset
	MinWidth       float64     // lower clamp for segment width
	MaxWidth       float64     // upper clamp for segment width
	PressureOffset float64     // added to pressure before scaling BaseWidth
	Ink            color.Color // stroke color
	Background     color.Color // opaque fill
}

// DefaultStyle returns the standard signature style: 2px base width,
// near-black ink on white.
func DefaultStyle() Style {
	return Style{
		BaseWidth:      2,
		MinWidth:       1.2,
		MaxWidth:       5,
		PressureOffset: 0.65,
		Ink:            color.RGBA{0x11, 0x18, 0x27, 0xff},
		Background:     color.White,
	}
}

// LineWidth returns the clamped width of a segment ending at a sample with
// the given pressure.
func (s Style) LineWidth(pressure float64) float64 {
	w := s.BaseWidth * (s.PressureOffset + pressure)
	return max(s.MinWidth, min(s.MaxWidth, w))
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}
