package dot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/formationbot/pkg/formation"
	"github.com/matzehuels/formationbot/pkg/render/raster"
	"github.com/matzehuels/formationbot/pkg/render/svg"
)

// Sizes in inches; one grid unit is one inch.
const (
	nodeSize = 1.0
	noseSize = 2 * svg.NoseRadius
	penWidth = 2.0
	fontSize = 48
)

// Hex values of the named colors, matching CSS.
var palette = map[formation.ColorKind]string{
	formation.ColorBlack:   "#000000",
	formation.ColorRed:     "#ff0000",
	formation.ColorGreen:   "#008000",
	formation.ColorYellow:  "#ffff00",
	formation.ColorBlue:    "#0000ff",
	formation.ColorMagenta: "#ff00ff",
	formation.ColorCyan:    "#00ffff",
}

// ToDOT converts a formation to an undirected Graphviz graph with every
// node pinned at its dancer's position. The result is meant for the neato
// engine; [RenderSVG] and [RenderPNG] select it automatically.
//
// Each dancer becomes a node shaped like its symbol. A dancer with a facing
// gets a second, filled point node where its nose sits.
func ToDOT(f formation.Formation) string {
	var buf bytes.Buffer
	buf.WriteString("graph formation {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	fmt.Fprintf(&buf, "  node [fixedsize=true, width=%s, height=%s, penwidth=%s, fontsize=%d, label=\"\"];\n",
		num(nodeSize), num(nodeSize), num(penWidth), fontSize)
	buf.WriteString("\n")

	for i, d := range f.Dancers() {
		id := fmt.Sprintf("d%d", i)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(dancerAttrs(d), ", "))
		if d.Facing.HasNose() {
			fmt.Fprintf(&buf, "  %q [%s];\n", id+"n", strings.Join(noseAttrs(d), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dancerAttrs(d formation.Dancer) []string {
	color := Color(d.Color)
	attrs := []string{
		pos(d.X, d.Y),
		"shape=" + Shape(d.Shape),
		fmt.Sprintf("color=%q", color),
		"style=" + Style(d.Stroke),
	}
	if d.HasLabel() {
		attrs = append(attrs, fmt.Sprintf("label=%q", d.Label), fmt.Sprintf("fontcolor=%q", color))
	}
	return attrs
}

func noseAttrs(d formation.Dancer) []string {
	// Nose center relative to the dancer, rotated clockwise by the facing.
	r := 0.5 + svg.NoseRadius
	s, c := math.Sincos(d.Facing.Angle() * math.Pi / 180)
	color := Color(d.Color)
	return []string{
		pos(d.X+r*s, d.Y-r*c),
		"shape=point",
		"width=" + num(noseSize),
		"height=" + num(noseSize),
		fmt.Sprintf("color=%q", color),
		fmt.Sprintf("fillcolor=%q", color),
	}
}

// pos pins a node. Graphviz y grows upward, rows grow downward.
func pos(x, y float64) string {
	return fmt.Sprintf("pos=\"%s,%s!\"", num(round(x)), num(round(-y)))
}

// round drops trigonometry noise and negative zero.
func round(v float64) float64 {
	v = math.Round(v*1e9) / 1e9
	if v == 0 {
		return 0
	}
	return v
}

// Shape returns the Graphviz node shape for a dancer shape.
func Shape(s formation.Shape) string {
	switch s {
	case formation.ShapeCircle:
		return "circle"
	case formation.ShapePlus:
		return "plus"
	default:
		return "square"
	}
}

// Style returns the Graphviz node style for a stroke style.
func Style(s formation.StrokeStyle) string {
	switch s {
	case formation.StrokeDotted:
		return "dotted"
	case formation.StrokeDashed:
		return "dashed"
	default:
		return "solid"
	}
}

// Color returns a dancer color as #rrggbb.
func Color(c formation.Color) string {
	if hex, ok := palette[c.Kind]; ok {
		return hex
	}
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out a DOT graph with neato and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG lays out a DOT graph with neato and returns a PNG. Failures are
// reported as [raster.Error] values so callers treat them like any other
// rasterizer failure.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, &raster.Error{Kind: raster.KindLoad, Err: fmt.Errorf("init graphviz: %w", err)}
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, &raster.Error{Kind: raster.KindLoad, Err: fmt.Errorf("parse DOT: %w", err)}
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, &raster.Error{Kind: raster.KindRender, Err: fmt.Errorf("render: %w", err)}
	}
	if buf.Len() == 0 {
		return nil, &raster.Error{Kind: raster.KindEncode, Err: fmt.Errorf("graphviz produced no %s output", format)}
	}
	return buf.Bytes(), nil
}
