// Package raster converts rendered SVG documents to PNG images.
//
// # Back-ends
//
// Two implementations of [Rasterizer] are provided:
//
//   - [RSVG] pipes the document through the rsvg-convert command from
//     librsvg. It supports all of SVG and produces the reference output.
//   - [Native] walks the [svg.Document] element tree directly and draws it
//     with golang.org/x/image/vector. It handles the elements the formation
//     renderer emits (defs, use, g, rect, circle, line, text) and needs no
//     external tools.
//
// [Auto] picks rsvg when the binary is on PATH and the native back-end
// otherwise; [New] selects one by name.
//
//	r, err := raster.New("native")
//	png, err := r.ToPixels(ctx, doc, doc.Width(), doc.Height())
//
// # Errors
//
// Every failure is an [*Error] whose [Kind] names the stage that failed:
//
//   - [KindIO]: the converter process could not be started or fed
//   - [KindLoad]: the document could not be loaded (unknown elements, broken
//     references, missing rsvg-convert)
//   - [KindRender]: drawing failed or the converter exited non-zero
//   - [KindSurface]: the requested size is not a valid image surface
//   - [KindEncode]: PNG encoding failed
//
// [Error.Code] maps each kind to a code from pkg/errors, so callers can use
// errors.GetCode without importing this package.
//
// # Native Rendering
//
// The native back-end draws at 4x the requested size and downsamples with
// Catmull-Rom filtering. Labels use the embedded Go Regular face from
// pkg/fonts; dominant-baseline="central" is honored from the font metrics.
package raster
