// Package dot exports formations as Graphviz graphs.
//
// # Overview
//
// [ToDOT] writes a formation as an undirected graph with one node per
// dancer, pinned at the dancer's grid position (one grid unit per inch).
// Dancers that face a direction get an extra point node for the nose. The
// graph has no edges; neato simply honors the pinned positions.
//
//	src := dot.ToDOT(formation.Parse("r1> b2<"))
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through
// [github.com/goccy/go-graphviz], so no graphviz installation is needed.
// Errors are [raster.Error] values with the same kinds as the rasterizers.
//
// The DOT text can also be saved and processed with external tools:
//
//	neato -Tsvg formation.dot > formation.svg
package dot
