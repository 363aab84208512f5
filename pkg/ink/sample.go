package ink

import "math"

// DefaultPressure is substituted when an input event carries no pressure
// signal, so downstream width computation is always defined.
const DefaultPressure = 0.5

// Sample is a single captured point in surface-local coordinates.
type Sample struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"p"`
}

// Pt returns a sample at (x, y) with the default pressure.
func Pt(x, y float64) Sample {
	return Sample{X: x, Y: y, Pressure: DefaultPressure}
}

// NormalizePressure maps a raw pressure reading into (0, 1].
// Missing (zero), negative and NaN readings become DefaultPressure.
func NormalizePressure(p float64) float64 {
	if math.IsNaN(p) || p <= 0 {
		return DefaultPressure
	}
	return min(p, 1)
}

// normalized returns s with its pressure normalized.
func (s Sample) normalized() Sample {
	s.Pressure = NormalizePressure(s.Pressure)
	return s
}

// Mid returns the midpoint of a and b in position and pressure.
func Mid(a, b Sample) Sample {
	return Sample{
		X:        (a.X + b.X) / 2,
		Y:        (a.Y + b.Y) / 2,
		Pressure: (a.Pressure + b.Pressure) / 2,
	}
}

// Scale returns s with its coordinates multiplied by f. Pressure is unchanged.
func (s Sample) Scale(f float64) Sample {
	return Sample{X: s.X * f, Y: s.Y * f, Pressure: s.Pressure}
}

// Stroke is one continuous line from pointer-down to pointer-up.
type Stroke []Sample

// clone returns a copy of s that shares no memory with it.
func (s Stroke) clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Document is a point-in-time copy of a pad's geometry: the closed strokes
// in capture order plus the in-progress stroke, if any.
type Document struct {
	Strokes []Stroke `json:"strokes"`
	Current Stroke   `json:"current,omitempty"`
}

// IsEmpty reports whether d has no closed strokes and no non-empty
// in-progress stroke.
func (d Document) IsEmpty() bool {
	return len(d.Strokes) == 0 && len(d.Current) == 0
}

// SampleCount returns the number of samples across all closed strokes.
func (d Document) SampleCount() int {
	n := 0
	for _, s := range d.Strokes {
		n += len(s)
	}
	return n
}
