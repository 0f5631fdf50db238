package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/beevik/etree"

	"github.com/matzehuels/formationbot/pkg/formation"
)

// Symbol geometry, in units of dancer width.
const (
	NoseRadius  = 3.0 / 16.0
	StrokeWidth = 1.0 / 16.0
	DashLength  = 0.2
)

// Symbol ids referenced by dancer groups.
const (
	NoseID   = "nose"
	SquareID = "dancer-square"
	CircleID = "dancer-circle"
	PlusID   = "dancer-plus"
)

// CircleRadius gives the circle the same area as the unit square.
var CircleRadius = math.Sqrt(1 / math.Pi)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	unit          float64
	baselineShift float64
	background    string
}

// WithDancerWidth sets the pixel width of one grid unit (default
// formation.DancerWidth).
func WithDancerWidth(px float64) Option {
	return func(r *renderer) { r.unit = px }
}

// WithBaselineShift adds a fixed dy to labels, for back-ends that ignore
// dominant-baseline.
func WithBaselineShift(dy float64) Option {
	return func(r *renderer) { r.baselineShift = dy }
}

// WithBackground paints the view box before the dancers.
func WithBackground(color string) Option {
	return func(r *renderer) { r.background = color }
}

func newRenderer(opts ...Option) renderer {
	r := renderer{unit: formation.DancerWidth}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Document is a rendered SVG document and its pixel size.
type Document struct {
	doc           *etree.Document
	width, height float64
}

// Root returns the <svg> element.
func (d *Document) Root() *etree.Element { return d.doc.Root() }

// Width returns the document width in pixels.
func (d *Document) Width() float64 { return d.width }

// Height returns the document height in pixels.
func (d *Document) Height() float64 { return d.height }

// WriteTo writes the indented SVG text to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// Bytes returns the SVG text.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.doc.WriteTo(&buf)
	return buf.Bytes()
}

// Render draws a formation: symbol definitions followed by one group per
// dancer in formation order.
func Render(f formation.Formation, opts ...Option) *Document {
	r := newRenderer(opts...)
	v := f.View()
	w, h := v.PixelSize(r.unit)

	doc := etree.NewDocument()
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("viewBox", fmt.Sprintf("%s %s %s %s", num(v.MinX), num(v.MinY), num(v.Width), num(v.Height)))
	root.CreateAttr("width", num(w))
	root.CreateAttr("height", num(h))

	root.AddChild(Definitions())
	if r.background != "" {
		bg := root.CreateElement("rect")
		bg.CreateAttr("x", num(v.MinX))
		bg.CreateAttr("y", num(v.MinY))
		bg.CreateAttr("width", num(v.Width))
		bg.CreateAttr("height", num(v.Height))
		bg.CreateAttr("fill", r.background)
	}
	for _, d := range f.Dancers() {
		root.AddChild(r.dancer(d))
	}

	doc.Indent(2)
	return &Document{doc: doc, width: w, height: h}
}

// Definitions returns the <defs> block with the nose and shape symbols.
func Definitions() *etree.Element {
	defs := etree.NewElement("defs")

	nose := defs.CreateElement("circle")
	nose.CreateAttr("id", NoseID)
	nose.CreateAttr("r", num(NoseRadius))
	nose.CreateAttr("stroke", "none")
	nose.CreateAttr("cx", "0")
	nose.CreateAttr("cy", num(-0.5-NoseRadius))

	square := defs.CreateElement("rect")
	square.CreateAttr("id", SquareID)
	square.CreateAttr("stroke-width", num(StrokeWidth))
	square.CreateAttr("fill", "none")
	square.CreateAttr("width", "1")
	square.CreateAttr("height", "1")
	square.CreateAttr("x", "-0.5")
	square.CreateAttr("y", "-0.5")

	circle := defs.CreateElement("circle")
	circle.CreateAttr("id", CircleID)
	circle.CreateAttr("stroke-width", num(StrokeWidth))
	circle.CreateAttr("fill", "none")
	circle.CreateAttr("r", num(CircleRadius))
	circle.CreateAttr("cx", "0")
	circle.CreateAttr("cy", "0")

	plus := defs.CreateElement("g")
	plus.CreateAttr("id", PlusID)
	plus.CreateAttr("stroke-width", num(StrokeWidth))
	plus.CreateAttr("fill", "none")
	for _, seg := range [][4]float64{
		{-CircleRadius, 0, CircleRadius, 0},
		{0, -CircleRadius, 0, CircleRadius},
	} {
		line := plus.CreateElement("line")
		line.CreateAttr("x1", num(seg[0]))
		line.CreateAttr("y1", num(seg[1]))
		line.CreateAttr("x2", num(seg[2]))
		line.CreateAttr("y2", num(seg[3]))
	}

	return defs
}

// RenderDancer draws a single dancer as a <g> element.
func RenderDancer(d formation.Dancer, opts ...Option) *etree.Element {
	r := newRenderer(opts...)
	return r.dancer(d)
}

func (r renderer) dancer(d formation.Dancer) *etree.Element {
	x, y := num(d.X), num(d.Y)
	color := d.Color.String()

	g := etree.NewElement("g")

	shape := g.CreateElement("use")
	shape.CreateAttr("href", ShapeRef(d.Shape))
	shape.CreateAttr("x", x)
	shape.CreateAttr("y", y)
	shape.CreateAttr("stroke", color)
	shape.CreateAttr("stroke-dasharray", DashArray(d.Stroke))

	if d.Facing.HasNose() {
		nose := g.CreateElement("use")
		nose.CreateAttr("href", "#"+NoseID)
		nose.CreateAttr("x", x)
		nose.CreateAttr("y", y)
		nose.CreateAttr("fill", color)
		nose.CreateAttr("transform", fmt.Sprintf("rotate(%s %s %s)", num(d.Facing.Angle()), x, y))
	}

	if d.HasLabel() {
		text := g.CreateElement("text")
		text.CreateAttr("fill", color)
		text.CreateAttr("x", x)
		text.CreateAttr("y", y)
		text.CreateAttr("font-size", "1")
		text.CreateAttr("text-anchor", "middle")
		text.CreateAttr("dominant-baseline", "central")
		if r.baselineShift != 0 {
			text.CreateAttr("dy", num(r.baselineShift))
		}
		text.SetText(d.Label)
	}

	return g
}

// ShapeRef returns the href of a shape symbol.
func ShapeRef(s formation.Shape) string {
	switch s {
	case formation.ShapeCircle:
		return "#" + CircleID
	case formation.ShapePlus:
		return "#" + PlusID
	default:
		return "#" + SquareID
	}
}

// DashArray returns the stroke-dasharray value for a stroke style.
func DashArray(s formation.StrokeStyle) string {
	switch s {
	case formation.StrokeDotted:
		return num(StrokeWidth)
	case formation.StrokeDashed:
		return num(DashLength)
	default:
		return "none"
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
