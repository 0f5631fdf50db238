package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/formationbot/pkg/formation"
	"github.com/matzehuels/formationbot/pkg/observability"
	"github.com/matzehuels/formationbot/pkg/render/dot"
	"github.com/matzehuels/formationbot/pkg/render/raster"
	"github.com/matzehuels/formationbot/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, f formation.Formation, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, f, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, f formation.Formation, format string, opts Options) ([]byte, error) {
	opts.SetRenderDefaults()
	switch format {
	case FormatSVG:
		if opts.IsGraphviz() {
			return dot.RenderSVG(ctx, dot.ToDOT(f))
		}
		return Document(f, opts).Bytes(), nil
	case FormatPNG:
		if opts.IsGraphviz() {
			return rasterizeGraphviz(ctx, f, opts)
		}
		return Rasterize(ctx, Document(f, opts), opts)
	case FormatJSON:
		data, err := f.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("serialize formation: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, fmt.Errorf("serialize formation: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(dot.ToDOT(f)), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// Document renders the SVG document for f.
func Document(f formation.Formation, opts Options) *svg.Document {
	opts.SetRenderDefaults()
	svgOpts := []svg.Option{svg.WithDancerWidth(opts.DancerWidth)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, svg.WithBackground(opts.Background))
	}
	if opts.BaselineShift != 0 {
		svgOpts = append(svgOpts, svg.WithBaselineShift(opts.BaselineShift))
	}
	return svg.Render(f, svgOpts...)
}

// Rasterize converts doc to PNG at its own pixel size with the rasterizer
// selected by opts.
func Rasterize(ctx context.Context, doc *svg.Document, opts Options) ([]byte, error) {
	opts.SetRenderDefaults()
	r := opts.Rasterizer
	if r == nil {
		var err error
		if r, err = raster.New(opts.Engine); err != nil {
			return nil, err
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRasterizeStart(ctx, opts.Engine, int(doc.Width()), int(doc.Height()))
	start := time.Now()
	data, err := r.ToPixels(ctx, doc, doc.Width(), doc.Height())
	hooks.OnRasterizeComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("rasterized", "engine", opts.Engine, "width", doc.Width(), "height", doc.Height(), "bytes", len(data))
	return data, nil
}

func rasterizeGraphviz(ctx context.Context, f formation.Formation, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	w, h := f.View().PixelSize(opts.DancerWidth)
	hooks.OnRasterizeStart(ctx, EngineGraphviz, int(w), int(h))
	start := time.Now()
	data, err := dot.RenderPNG(ctx, dot.ToDOT(f))
	hooks.OnRasterizeComplete(ctx, EngineGraphviz, time.Since(start), err)
	return data, err
}
