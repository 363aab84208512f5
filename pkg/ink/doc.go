// Package ink models handwritten signatures as vector geometry.
//
// # Overview
//
// A signature is captured as a sequence of strokes. Each [Stroke] is the
// ordered list of [Sample] values recorded between a pointer press and the
// matching release. The geometry is authoritative: rasters produced by the
// render and export packages are views recomputed from it.
//
// # Capture
//
// [Pad] is the capture engine. It consumes pointer events through
// [Pad.Begin], [Pad.Extend] and [Pad.End], supports [Pad.Undo] and
// [Pad.Clear], and notifies listeners registered with [Pad.OnChange] after
// every mutation:
//
//	pad := ink.NewPad()
//	pad.OnChange(func(empty bool) { submit.SetEnabled(!empty) })
//	pad.Begin(ink.Pt(10, 10))
//	pad.Extend(ink.Pt(20, 15))
//	pad.End()
//
// Input devices are abstracted as [Event] values; [Replay] drives a pad
// from any event source and [ReadEvents] decodes JSON-lines recordings.
//
// # Concurrency
//
// A Pad belongs to a single session and is not safe for concurrent use.
package ink
