// Package render paints signature geometry onto raster surfaces.
//
// # Overview
//
// Rendering is a pure function of an [ink.Document]. Every stroke is drawn
// with quadratic-midpoint smoothing: for consecutive samples prev and curr
// the renderer draws a quadratic curve from the previous midpoint, through
// prev as control point, to mid(prev, curr). Consecutive segments share
// tangents at the midpoints, so the line is C1-continuous without needing
// the full sample history. A single-sample stroke is a filled disc.
//
// Segment width follows pressure and is clamped by the [Style]:
//
//	width = clamp(BaseWidth * (0.65 + pressure), MinWidth, MaxWidth)
//
// # Surfaces
//
// A [Surface] is an opaque raster of a logical size at a pixel ratio. A
// [Canvas] binds a [ink.Pad] to a surface and repaints it in full after
// every pad mutation and on resize. The raster is disposable; the pad's
// geometry is not.
//
//	pad := ink.NewPad()
//	canvas := render.NewCanvas(pad, render.Size{Width: 600, Height: 200}, 2, render.DefaultStyle())
//	pad.Begin(ink.Pt(10, 10))   // canvas repaints
//	img := canvas.Surface().Image()
//
// [Paint] is exported so the export package replays exactly the same
// algorithm at a different scale.
package render
