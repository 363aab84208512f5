// Package export rasterizes signatures into bounded-size images for
// transmission.
//
// # Overview
//
// An [Exporter] replays the geometry of an [ink.Document] onto a fresh
// white surface at an output width capped by MaxWidth:
//
//	scale = min(1, MaxWidth / surfaceWidth)
//
// Output is never upscaled. Sample coordinates, the disc radius and the
// clamped segment widths are multiplied by scale and drawn with the same
// algorithm the live surface uses ([render.Paint]). Only closed strokes are
// exported.
//
// The result is an [Artifact]: encoded PNG bytes for multipart upload, and
// an equivalent data URI for caching alongside a queued submission:
//
//	art, err := export.New(900).Export(pad.Snapshot(), canvas.Size())
//	body := art.Bytes
//	field := art.DataURI()
//
// Export is pure: the same document and size always produce byte-identical
// output.
package export
