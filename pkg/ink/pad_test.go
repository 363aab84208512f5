package ink

import (
	"testing"
)

// drawStroke records a closed stroke of n samples starting at (x, y).
func drawStroke(p *Pad, x, y float64, n int) {
	p.Begin(Pt(x, y))
	for i := 1; i < n; i++ {
		p.Extend(Pt(x+float64(i)*5, y+float64(i)*2))
	}
	p.End()
}

func TestPadEmptiness(t *testing.T) {
	p := NewPad()
	if !p.IsEmpty() {
		t.Fatal("new pad should be empty")
	}

	p.Begin(Pt(1, 1))
	if p.IsEmpty() {
		t.Error("pad with a non-empty stroke in progress should not be empty")
	}
	if !p.Capturing() {
		t.Error("Capturing() should be true after Begin")
	}

	p.End()
	if p.IsEmpty() {
		t.Error("pad with a closed stroke should not be empty")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}

	p.Clear()
	if !p.IsEmpty() {
		t.Error("pad should be empty after Clear")
	}
	if p.Capturing() {
		t.Error("Clear should drop the stroke in progress")
	}
}

func TestPadMonotonicUndo(t *testing.T) {
	for n := 0; n <= 5; n++ {
		p := NewPad()
		for i := 0; i < n; i++ {
			drawStroke(p, float64(i*10), 0, 3)
		}
		for i := 0; i < n; i++ {
			if p.IsEmpty() {
				t.Fatalf("n=%d: empty after %d undos", n, i)
			}
			p.Undo()
		}
		if !p.IsEmpty() {
			t.Errorf("n=%d: not empty after %d undos", n, n)
		}
		// Undo on an empty pad is a no-op.
		p.Undo()
		if !p.IsEmpty() || p.Len() != 0 {
			t.Errorf("n=%d: extra undo changed state", n)
		}
	}
}

func TestPadUndoKeepsEarlierStrokes(t *testing.T) {
	p := NewPad()
	drawStroke(p, 0, 0, 2)
	drawStroke(p, 10, 0, 3)
	drawStroke(p, 20, 0, 4)

	p.Undo()
	strokes := p.Strokes()
	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want 2", len(strokes))
	}
	if len(strokes[0]) != 2 || len(strokes[1]) != 3 {
		t.Errorf("undo removed the wrong stroke: lens %d, %d", len(strokes[0]), len(strokes[1]))
	}
}

func TestPadIgnoresEventsWithoutStroke(t *testing.T) {
	p := NewPad()
	calls := 0
	p.OnChange(func(bool) { calls++ })

	if p.Extend(Pt(1, 1)) {
		t.Error("Extend without Begin should report false")
	}
	if p.End() {
		t.Error("End without Begin should report false")
	}
	if calls != 0 {
		t.Errorf("ignored events notified %d times", calls)
	}
	if !p.IsEmpty() {
		t.Error("ignored events should not change the pad")
	}
}

func TestPadNotifications(t *testing.T) {
	p := NewPad()
	var got []bool
	p.OnChange(func(empty bool) { got = append(got, empty) })

	p.Begin(Pt(0, 0))
	p.Extend(Pt(1, 1))
	p.End()
	p.Undo()
	p.Undo()
	drawStroke(p, 0, 0, 1)
	p.Clear()

	want := []bool{
		false, // Begin
		false, // Extend
		false, // End
		true,  // Undo
		true,  // Undo on empty
		false, // Begin
		false, // End
		true,  // Clear
	}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPadListenersRunInOrder(t *testing.T) {
	p := NewPad()
	var order []int
	p.OnChange(func(bool) { order = append(order, 1) })
	p.OnChange(nil)
	p.OnChange(func(bool) { order = append(order, 2) })

	p.Clear()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("listener order = %v, want [1 2]", order)
	}
}

func TestPadDefaultPressure(t *testing.T) {
	p := NewPad()
	p.Begin(Sample{X: 1, Y: 1})
	p.Extend(Sample{X: 2, Y: 2, Pressure: -1})
	p.Extend(Sample{X: 3, Y: 3, Pressure: 0.8})
	p.Extend(Sample{X: 4, Y: 4, Pressure: 7})
	p.End()

	s := p.Strokes()[0]
	want := []float64{DefaultPressure, DefaultPressure, 0.8, 1}
	for i, w := range want {
		if s[i].Pressure != w {
			t.Errorf("sample %d pressure = %v, want %v", i, s[i].Pressure, w)
		}
	}
}

func TestPadBeginDiscardsUnfinishedStroke(t *testing.T) {
	p := NewPad()
	p.Begin(Pt(0, 0))
	p.Extend(Pt(1, 1))
	p.Begin(Pt(5, 5))
	p.End()

	strokes := p.Strokes()
	if len(strokes) != 1 || len(strokes[0]) != 1 {
		t.Fatalf("got %v, want one single-sample stroke", strokes)
	}
	if strokes[0][0].X != 5 {
		t.Errorf("kept the wrong stroke: %v", strokes[0])
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	p := NewPad()
	drawStroke(p, 0, 0, 3)
	p.Begin(Pt(50, 50))

	snap := p.Snapshot()
	if len(snap.Strokes) != 1 || len(snap.Current) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	snap.Strokes[0][0].X = 999
	snap.Current[0].X = 999
	if p.Strokes()[0][0].X == 999 {
		t.Error("mutating a snapshot changed a closed stroke")
	}
	if p.Snapshot().Current[0].X == 999 {
		t.Error("mutating a snapshot changed the stroke in progress")
	}
	if snap.IsEmpty() {
		t.Error("snapshot should not be empty")
	}
	if snap.SampleCount() != 3 {
		t.Errorf("SampleCount() = %d, want 3", snap.SampleCount())
	}
}

func TestMid(t *testing.T) {
	m := Mid(Sample{X: 0, Y: 10, Pressure: 0.2}, Sample{X: 4, Y: 20, Pressure: 0.6})
	if m.X != 2 || m.Y != 15 {
		t.Errorf("Mid position = (%v, %v), want (2, 15)", m.X, m.Y)
	}
	if m.Pressure < 0.3999 || m.Pressure > 0.4001 {
		t.Errorf("Mid pressure = %v, want 0.4", m.Pressure)
	}
}
