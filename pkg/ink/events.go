package ink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/sigpad/pkg/errors"
)

// EventKind identifies a pointer event.
type EventKind string

// Pointer event kinds. Up, Cancel and Leave all close the stroke in progress.
const (
	EventDown   EventKind = "down"
	EventMove   EventKind = "move"
	EventUp     EventKind = "up"
	EventCancel EventKind = "cancel"
	EventLeave  EventKind = "leave"
)

// Event is one pointer event in surface-local coordinates. A zero Pressure
// means the device reported none.
type Event struct {
	Kind     EventKind `json:"type"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Pressure float64   `json:"pressure,omitempty"`
}

// Sample converts the event position into a sample.
func (e Event) Sample() Sample {
	return Sample{X: e.X, Y: e.Y, Pressure: NormalizePressure(e.Pressure)}
}

// Apply feeds a single event to p. It reports whether the event changed
// the pad; move and release events with no stroke in progress are ignored.
func Apply(p *Pad, e Event) bool {
	switch e.Kind {
	case EventDown:
		p.Begin(e.Sample())
		return true
	case EventMove:
		return p.Extend(e.Sample())
	case EventUp, EventCancel, EventLeave:
		return p.End()
	}
	return false
}

// Replay applies events to p in order and returns how many were ignored.
func Replay(p *Pad, events []Event) (ignored int) {
	for _, e := range events {
		if !Apply(p, e) {
			ignored++
		}
	}
	return ignored
}

// ReadEvents decodes a JSON-lines event recording. Blank lines and lines
// starting with '#' are skipped.
func ReadEvents(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		var e Event
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		switch e.Kind {
		case EventDown, EventMove, EventUp, EventCancel, EventLeave:
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: unknown event type %q", line, e.Kind)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

// WriteEvents encodes events as JSON lines.
func WriteEvents(w io.Writer, events []Event) error {
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Events converts the closed strokes of d into a recording that replays to
// the same strokes: one down, a move per further sample, then up.
func (d Document) Events() []Event {
	var out []Event
	for _, s := range d.Strokes {
		for i, smp := range s {
			kind := EventMove
			if i == 0 {
				kind = EventDown
			}
			out = append(out, Event{Kind: kind, X: smp.X, Y: smp.Y, Pressure: smp.Pressure})
		}
		if len(s) > 0 {
			last := s[len(s)-1]
			out = append(out, Event{Kind: EventUp, X: last.X, Y: last.Y})
		}
	}
	return out
}
