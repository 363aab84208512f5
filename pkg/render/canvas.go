package render

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/sigpad/pkg/ink"
)

// Canvas keeps a Surface in sync with a Pad. It repaints the full surface
// after every pad mutation and on Resize.
type Canvas struct {
	pad      *ink.Pad
	surface  *Surface
	logger   *log.Logger
	repaints int
}

// NewCanvas binds pad to a new surface and paints it once.
func NewCanvas(pad *ink.Pad, size Size, ratio float64, style Style) *Canvas {
	c := &Canvas{
		pad:     pad,
		surface: NewSurface(size, ratio, style),
		logger:  log.Default(),
	}
	pad.OnChange(func(bool) { c.Repaint() })
	c.Repaint()
	return c
}

// SetLogger sets the logger used for debug output. Nil restores the default.
func (c *Canvas) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	c.logger = l
}

// Repaint redraws the surface from the pad's current geometry.
func (c *Canvas) Repaint() {
	doc := c.pad.Snapshot()
	c.surface.Draw(doc)
	c.repaints++
	c.logger.Debug("canvas repainted", "strokes", len(doc.Strokes), "in_progress", len(doc.Current))
}

// Resize reallocates the raster and repaints. Geometry is untouched.
func (c *Canvas) Resize(size Size, ratio float64) {
	c.surface.Resize(size, ratio)
	c.Repaint()
}

// Pad returns the bound pad.
func (c *Canvas) Pad() *ink.Pad { return c.pad }

// Surface returns the live surface.
func (c *Canvas) Surface() *Surface { return c.surface }

// Size returns the logical surface size.
func (c *Canvas) Size() Size { return c.surface.Size() }

// IsEmpty reports whether the pad holds no signature. It does not depend on
// the surface size.
func (c *Canvas) IsEmpty() bool { return c.pad.IsEmpty() }

// Repaints returns how many times the surface has been painted.
func (c *Canvas) Repaints() int { return c.repaints }
