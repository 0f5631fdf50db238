package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/formationbot/pkg/fonts"
	"github.com/matzehuels/formationbot/pkg/render/svg"
)

const (
	defaultSupersample = 4
	maxUseDepth        = 8
	// Upper bound on the supersampled surface.
	maxWorkPixels = 1 << 26
)

// Native rasterizes in pure Go. It understands the subset of SVG the
// formation renderer emits: defs, use, g, rect, circle, line and text, with
// translate and rotate transforms.
type Native struct {
	// Supersample is the per-axis oversampling factor (default 4).
	Supersample int
}

// NewNative returns a native back-end with 4x supersampling.
func NewNative() *Native {
	return &Native{Supersample: defaultSupersample}
}

// ToPixels implements Rasterizer.
func (n *Native) ToPixels(ctx context.Context, doc *svg.Document, width, height float64) ([]byte, error) {
	w, h, err := surface(width, height)
	if err != nil {
		return nil, err
	}
	sc, err := load(doc.Root())
	if err != nil {
		return nil, err
	}

	ss := n.Supersample
	if ss < 1 {
		ss = defaultSupersample
	}
	for ss > 1 && w*h*ss*ss > maxWorkPixels {
		ss--
	}

	large, err := sc.draw(ctx, w*ss, h*ss)
	if err != nil {
		return nil, err
	}

	out := large
	if ss > 1 {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(out, out.Bounds(), large, large.Bounds(), draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, &Error{Kind: KindEncode, Err: err}
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Load: SVG tree to drawing items
// =============================================================================

type viewBox struct{ minX, minY, width, height float64 }

type item interface {
	paint(c *canvas) error
}

type scene struct {
	view  viewBox
	items []item
}

type loader struct {
	defs  map[string]*etree.Element
	items []item
}

func load(root *etree.Element) (*scene, error) {
	if root == nil || root.Tag != "svg" {
		return nil, fail(KindLoad, "document root is not <svg>")
	}
	vb, err := parseViewBox(root)
	if err != nil {
		return nil, &Error{Kind: KindLoad, Err: err}
	}

	l := &loader{defs: map[string]*etree.Element{}}
	for _, defs := range root.SelectElements("defs") {
		l.collect(defs)
	}
	for _, child := range root.ChildElements() {
		if err := l.walk(child, identity, nil, 0); err != nil {
			return nil, &Error{Kind: KindLoad, Err: err}
		}
	}
	return &scene{view: vb, items: l.items}, nil
}

func parseViewBox(root *etree.Element) (viewBox, error) {
	raw := root.SelectAttrValue("viewBox", "")
	if raw == "" {
		w, errW := strconv.ParseFloat(root.SelectAttrValue("width", ""), 64)
		h, errH := strconv.ParseFloat(root.SelectAttrValue("height", ""), 64)
		if errW != nil || errH != nil {
			return viewBox{}, fmt.Errorf("missing viewBox and size")
		}
		return viewBox{0, 0, w, h}, nil
	}
	v, err := parseNumbers(raw)
	if err != nil || len(v) != 4 {
		return viewBox{}, fmt.Errorf("bad viewBox %q", raw)
	}
	if v[2] <= 0 || v[3] <= 0 {
		return viewBox{}, fmt.Errorf("empty viewBox %q", raw)
	}
	return viewBox{v[0], v[1], v[2], v[3]}, nil
}

func (l *loader) collect(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if id := child.SelectAttrValue("id", ""); id != "" {
			l.defs[id] = child
		}
		l.collect(child)
	}
}

// walk emits items for el. chain holds the elements whose presentation
// attributes el inherits, nearest first.
func (l *loader) walk(el *etree.Element, m affine, chain []*etree.Element, depth int) error {
	switch el.Tag {
	case "defs", "title", "desc", "metadata":
		return nil
	}

	local, err := parseTransform(el.SelectAttrValue("transform", ""))
	if err != nil {
		return err
	}
	m = local.then(m)
	self := append([]*etree.Element{el}, chain...)

	switch el.Tag {
	case "g":
		for _, child := range el.ChildElements() {
			if err := l.walk(child, m, self, depth); err != nil {
				return err
			}
		}
		return nil
	case "use":
		return l.use(el, m, self, depth)
	case "rect", "circle", "line":
		return l.shape(el, m, self)
	case "text":
		return l.text(el, m, self)
	default:
		return fmt.Errorf("unsupported element <%s>", el.Tag)
	}
}

func (l *loader) use(el *etree.Element, m affine, chain []*etree.Element, depth int) error {
	if depth >= maxUseDepth {
		return fmt.Errorf("<use> nested deeper than %d", maxUseDepth)
	}
	href := el.SelectAttrValue("href", el.SelectAttrValue("xlink:href", ""))
	target, ok := l.defs[strings.TrimPrefix(href, "#")]
	if !strings.HasPrefix(href, "#") || !ok {
		return fmt.Errorf("unresolved reference %q", href)
	}
	x, err := number(el, "x", 0)
	if err != nil {
		return err
	}
	y, err := number(el, "y", 0)
	if err != nil {
		return err
	}
	return l.walk(target, translate(x, y).then(m), chain, depth+1)
}

func (l *loader) shape(el *etree.Element, m affine, chain []*etree.Element) error {
	var geom polyline
	switch el.Tag {
	case "rect":
		v, err := numbers(el, "x", "y", "width", "height")
		if err != nil {
			return err
		}
		geom = rectPath(v[0], v[1], v[2], v[3])
	case "circle":
		v, err := numbers(el, "cx", "cy", "r")
		if err != nil {
			return err
		}
		geom = circlePath(v[0], v[1], v[2])
	case "line":
		v, err := numbers(el, "x1", "y1", "x2", "y2")
		if err != nil {
			return err
		}
		geom = polyline{pts: []point{{v[0], v[1]}, {v[2], v[3]}}}
	}
	geom = m.polyline(geom)

	if geom.closed {
		fill, ok, err := parsePaint(inherited(chain, "fill", "black"))
		if err != nil {
			return err
		}
		if ok {
			l.items = append(l.items, fillItem{path: geom, color: fill})
		}
	}

	stroke, ok, err := parsePaint(inherited(chain, "stroke", "none"))
	if err != nil || !ok {
		return err
	}
	width, err := strconv.ParseFloat(inherited(chain, "stroke-width", "1"), 64)
	if err != nil {
		return fmt.Errorf("bad stroke-width: %w", err)
	}
	dash, err := parseDashArray(inherited(chain, "stroke-dasharray", "none"))
	if err != nil {
		return err
	}
	l.items = append(l.items, strokeItem{path: geom, width: width, dash: dash, color: stroke})
	return nil
}

func (l *loader) text(el *etree.Element, m affine, chain []*etree.Element) error {
	if m.rotates() {
		return fmt.Errorf("rotated <text> is not supported")
	}
	fill, ok, err := parsePaint(inherited(chain, "fill", "black"))
	if err != nil || !ok {
		return err
	}
	v, err := numbers(el, "x", "y")
	if err != nil {
		return err
	}
	dy, err := number(el, "dy", 0)
	if err != nil {
		return err
	}
	size, err := strconv.ParseFloat(inherited(chain, "font-size", "16"), 64)
	if err != nil {
		return fmt.Errorf("bad font-size: %w", err)
	}
	l.items = append(l.items, textItem{
		at:       m.apply(point{v[0], v[1] + dy}),
		size:     size * m.d,
		anchor:   inherited(chain, "text-anchor", "start"),
		baseline: inherited(chain, "dominant-baseline", "auto"),
		label:    el.Text(),
		color:    fill,
	})
	return nil
}

// inherited returns the first value of attr along chain.
func inherited(chain []*etree.Element, attr, def string) string {
	for _, el := range chain {
		if v := el.SelectAttrValue(attr, ""); v != "" {
			return v
		}
	}
	return def
}

func number(el *etree.Element, attr string, def float64) (float64, error) {
	raw := el.SelectAttrValue(attr, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s %s=%q>: %w", el.Tag, attr, raw, err)
	}
	return v, nil
}

func numbers(el *etree.Element, attrs ...string) ([]float64, error) {
	out := make([]float64, len(attrs))
	for i, a := range attrs {
		v, err := number(el, a, 0)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// =============================================================================
// Draw: items to pixels
// =============================================================================

type canvas struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	m     affine
	scale float64
}

// draw paints the scene on a w x h surface, fitting the view box the way
// preserveAspectRatio="xMidYMid meet" does.
func (sc *scene) draw(ctx context.Context, w, h int) (*image.RGBA, error) {
	s := min(float64(w)/sc.view.width, float64(h)/sc.view.height)
	ox := (float64(w) - sc.view.width*s) / 2
	oy := (float64(h) - sc.view.height*s) / 2

	c := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		z:     vector.NewRasterizer(w, h),
		m:     translate(-sc.view.minX, -sc.view.minY).then(affine{a: s, d: s, e: ox, f: oy}),
		scale: s,
	}
	for _, it := range sc.items {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Kind: KindRender, Err: err}
		}
		if err := it.paint(c); err != nil {
			return nil, &Error{Kind: KindRender, Err: err}
		}
	}
	return c.img, nil
}

func (c *canvas) moveTo(p point) {
	q := c.m.apply(p)
	c.z.MoveTo(float32(q.X), float32(q.Y))
}

func (c *canvas) lineTo(p point) {
	q := c.m.apply(p)
	c.z.LineTo(float32(q.X), float32(q.Y))
}

func (c *canvas) fill(col color.RGBA) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

type fillItem struct {
	path  polyline
	color color.RGBA
}

func (f fillItem) paint(c *canvas) error {
	if len(f.path.pts) < 3 {
		return nil
	}
	c.moveTo(f.path.pts[0])
	for _, p := range f.path.pts[1:] {
		c.lineTo(p)
	}
	c.z.ClosePath()
	c.fill(f.color)
	return nil
}

type strokeItem struct {
	path  polyline
	width float64
	dash  []float64
	color color.RGBA
}

// paint draws every piece of the stroke as a quad in one pass. Closed solid
// paths extend each edge by half the width to fill the corners; dashes and
// open ends are butt-capped.
func (s strokeItem) paint(c *canvas) error {
	if s.width <= 0 {
		return nil
	}
	segs, ext := s.path.segments(), 0.0
	if s.dash != nil {
		segs = dashes(s.path, s.dash)
	} else if s.path.closed {
		ext = s.width / 2
	}
	if len(segs) == 0 {
		return nil
	}
	for _, seg := range segs {
		q := quad(seg, s.width, ext)
		c.moveTo(q[0])
		c.lineTo(q[1])
		c.lineTo(q[2])
		c.lineTo(q[3])
		c.z.ClosePath()
	}
	c.fill(s.color)
	return nil
}

type textItem struct {
	at       point
	size     float64
	anchor   string
	baseline string
	label    string
	color    color.RGBA
}

func (t textItem) paint(c *canvas) error {
	if t.label == "" {
		return nil
	}
	face, err := fonts.Face(t.size * c.scale)
	if err != nil {
		return err
	}
	defer face.Close()

	p := c.m.apply(t.at)
	metrics := face.Metrics()
	switch t.baseline {
	case "central", "middle":
		p.Y += fix2f(metrics.Ascent-metrics.Descent) / 2
	case "hanging", "text-before-edge":
		p.Y += fix2f(metrics.Ascent)
	}
	adv := fix2f(font.MeasureString(face, t.label))
	switch t.anchor {
	case "middle":
		p.X -= adv / 2
	case "end":
		p.X -= adv
	}

	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(t.color),
		Face: face,
		Dot:  fixed.Point26_6{X: f2fix(p.X), Y: f2fix(p.Y)},
	}
	d.DrawString(t.label)
	return nil
}

func fix2f(v fixed.Int26_6) float64 { return float64(v) / 64 }
func f2fix(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
