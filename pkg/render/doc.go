// Package render groups the formation output back-ends.
//
// # Overview
//
// Every back-end consumes a parsed [formation.Formation] (or a document
// derived from one) and produces bytes:
//
//   - [svg]: the reference SVG drawing, one group per dancer
//   - [raster]: PNG conversion of an SVG document, via rsvg-convert or a
//     pure Go rasterizer
//   - [dot]: a Graphviz graph with pinned node positions, optionally laid
//     out to SVG or PNG by Graphviz itself
//
// # Typical Flow
//
//	f := formation.Parse("r1> b2<")
//	doc := svg.Render(f, svg.WithDancerWidth(50))
//	png, err := raster.Auto().ToPixels(ctx, doc, doc.Width(), doc.Height())
//
// Most callers go through pkg/pipeline, which adds option validation,
// caching and observability hooks on top of these packages.
//
// [formation.Formation]: github.com/matzehuels/formationbot/pkg/formation
// [svg]: github.com/matzehuels/formationbot/pkg/render/svg
// [raster]: github.com/matzehuels/formationbot/pkg/render/raster
// [dot]: github.com/matzehuels/formationbot/pkg/render/dot
package render
