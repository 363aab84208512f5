package ink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/sigpad/pkg/errors"
)

func TestReplay(t *testing.T) {
	events := []Event{
		{Kind: EventMove, X: 1, Y: 1}, // ignored: nothing in progress
		{Kind: EventDown, X: 0, Y: 0, Pressure: 0.7},
		{Kind: EventMove, X: 5, Y: 5},
		{Kind: EventUp},
		{Kind: EventUp}, // ignored
		{Kind: EventDown, X: 10, Y: 10},
		{Kind: EventLeave},
		{Kind: EventDown, X: 20, Y: 20},
		{Kind: EventCancel},
	}

	p := NewPad()
	ignored := Replay(p, events)
	if ignored != 2 {
		t.Errorf("ignored = %d, want 2", ignored)
	}
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}

	first := p.Strokes()[0]
	if len(first) != 2 {
		t.Fatalf("first stroke has %d samples, want 2", len(first))
	}
	if first[0].Pressure != 0.7 || first[1].Pressure != DefaultPressure {
		t.Errorf("pressures = %v, %v", first[0].Pressure, first[1].Pressure)
	}
}

func TestReadEvents(t *testing.T) {
	input := `# participant signature
{"type":"down","x":10,"y":20,"pressure":0.4}

{"type":"move","x":12,"y":22}
{"type":"up","x":12,"y":22}
`
	events, err := ReadEvents(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEvents() error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Kind != EventDown || events[0].Pressure != 0.4 {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Sample().Pressure != DefaultPressure {
		t.Errorf("missing pressure should default to %v", DefaultPressure)
	}
}

func TestReadEventsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"type":"down",`},
		{"unknown type", `{"type":"hover","x":1,"y":1}`},
		{"missing type", `{"x":1,"y":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEvents(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadEvents() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestWriteEventsReadable(t *testing.T) {
	events := []Event{
		{Kind: EventDown, X: 1.5, Y: 2.5, Pressure: 0.9},
		{Kind: EventMove, X: 3, Y: 4},
		{Kind: EventUp, X: 3, Y: 4},
	}
	var buf bytes.Buffer
	if err := WriteEvents(&buf, events); err != nil {
		t.Fatalf("WriteEvents() error: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != len(events) {
		t.Errorf("wrote %d lines, want %d", n, len(events))
	}

	got, err := ReadEvents(&buf)
	if err != nil {
		t.Fatalf("ReadEvents() error: %v", err)
	}
	p := NewPad()
	if ignored := Replay(p, got); ignored != 0 {
		t.Errorf("replay ignored %d events", ignored)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestDocumentEventsReplay(t *testing.T) {
	src := NewPad()
	src.Begin(Sample{X: 1, Y: 1, Pressure: 0.3})
	src.Extend(Sample{X: 5, Y: 2, Pressure: 0.8})
	src.End()
	src.Begin(Pt(9, 9))
	src.End()
	src.Begin(Pt(20, 20)) // in progress, not recorded

	events := src.Snapshot().Events()
	if len(events) != 5 {
		t.Fatalf("len(events) = %d, want 5", len(events))
	}

	dst := NewPad()
	if ignored := Replay(dst, events); ignored != 0 {
		t.Errorf("replay ignored %d events", ignored)
	}
	want := src.Strokes()
	got := dst.Strokes()
	if len(got) != len(want) {
		t.Fatalf("strokes = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("stroke %d has %d samples, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("stroke %d sample %d = %+v, want %+v", i, j, got[i][j], want[i][j])
			}
		}
	}
}
