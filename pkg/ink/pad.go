package ink

// Pad is the capture engine for one signature.
//
// It accumulates closed strokes plus at most one in-progress stroke and
// invokes every registered change listener after each mutation with the
// post-mutation emptiness flag. Events that arrive with no stroke in
// progress are dropped silently.
type Pad struct {
	strokes   []Stroke
	current   Stroke
	capturing bool
	listeners []func(empty bool)
}

// NewPad creates an empty pad.
func NewPad() *Pad {
	return &Pad{}
}

// OnChange registers fn to be called after every mutation.
// Listeners run synchronously in registration order.
func (p *Pad) OnChange(fn func(empty bool)) {
	if fn != nil {
		p.listeners = append(p.listeners, fn)
	}
}

// Begin starts a new in-progress stroke containing s.
// An unfinished stroke in progress is discarded.
func (p *Pad) Begin(s Sample) {
	p.current = Stroke{s.normalized()}
	p.capturing = true
	p.notify()
}

// Extend appends s to the in-progress stroke. It reports whether the sample
// was recorded; with no stroke in progress the event is ignored.
func (p *Pad) Extend(s Sample) bool {
	if !p.capturing {
		return false
	}
	p.current = append(p.current, s.normalized())
	p.notify()
	return true
}

// End closes the in-progress stroke. A stroke with at least one sample is
// appended to the closed strokes; an empty one is discarded. It reports
// whether a stroke was in progress.
func (p *Pad) End() bool {
	if !p.capturing {
		return false
	}
	if len(p.current) > 0 {
		p.strokes = append(p.strokes, p.current)
	}
	p.current = nil
	p.capturing = false
	p.notify()
	return true
}

// Undo removes the most recently closed stroke. It is a no-op on a pad
// without closed strokes, but listeners are still notified.
func (p *Pad) Undo() {
	if n := len(p.strokes); n > 0 {
		p.strokes[n-1] = nil
		p.strokes = p.strokes[:n-1]
	}
	p.notify()
}

// Clear removes every stroke, including the one in progress.
func (p *Pad) Clear() {
	p.strokes = nil
	p.current = nil
	p.capturing = false
	p.notify()
}

// IsEmpty reports whether the pad has zero closed strokes and no non-empty
// in-progress stroke.
func (p *Pad) IsEmpty() bool {
	return len(p.strokes) == 0 && len(p.current) == 0
}

// Capturing reports whether a stroke is in progress.
func (p *Pad) Capturing() bool { return p.capturing }

// Len returns the number of closed strokes.
func (p *Pad) Len() int { return len(p.strokes) }

// Strokes returns a copy of the closed strokes.
func (p *Pad) Strokes() []Stroke {
	out := make([]Stroke, len(p.strokes))
	for i, s := range p.strokes {
		out[i] = s.clone()
	}
	return out
}

// Snapshot returns a deep copy of the pad's geometry.
func (p *Pad) Snapshot() Document {
	return Document{Strokes: p.Strokes(), Current: p.current.clone()}
}

func (p *Pad) notify() {
	empty := p.IsEmpty()
	for _, fn := range p.listeners {
		fn(empty)
	}
}
