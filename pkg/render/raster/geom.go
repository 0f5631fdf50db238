package raster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// circleSegments is the number of edges used to approximate a circle.
const circleSegments = 64

type point struct{ X, Y float64 }

func (p point) add(q point) point      { return point{p.X + q.X, p.Y + q.Y} }
func (p point) sub(q point) point      { return point{p.X - q.X, p.Y - q.Y} }
func (p point) mul(k float64) point    { return point{p.X * k, p.Y * k} }
func (p point) len() float64           { return math.Hypot(p.X, p.Y) }
func lerp(a, b point, t float64) point { return a.add(b.sub(a).mul(t)) }

type polyline struct {
	pts    []point
	closed bool
}

// affine is an SVG matrix(a b c d e f).
type affine struct{ a, b, c, d, e, f float64 }

var identity = affine{a: 1, d: 1}

func (m affine) apply(p point) point {
	return point{m.a*p.X + m.c*p.Y + m.e, m.b*p.X + m.d*p.Y + m.f}
}

// then returns m followed by n, so n.apply(m.apply(p)) == m.then(n).apply(p).
func (m affine) then(n affine) affine {
	return affine{
		a: n.a*m.a + n.c*m.b,
		b: n.b*m.a + n.d*m.b,
		c: n.a*m.c + n.c*m.d,
		d: n.b*m.c + n.d*m.d,
		e: n.a*m.e + n.c*m.f + n.e,
		f: n.b*m.e + n.d*m.f + n.f,
	}
}

func translate(tx, ty float64) affine { return affine{a: 1, d: 1, e: tx, f: ty} }

func rotate(deg, cx, cy float64) affine {
	s, c := math.Sincos(deg * math.Pi / 180)
	r := affine{a: c, b: s, c: -s, d: c}
	return translate(-cx, -cy).then(r).then(translate(cx, cy))
}

// rotates reports whether m turns the axes.
func (m affine) rotates() bool {
	return math.Abs(m.b) > 1e-9 || math.Abs(m.c) > 1e-9
}

func (m affine) polyline(pl polyline) polyline {
	out := polyline{pts: make([]point, len(pl.pts)), closed: pl.closed}
	for i, p := range pl.pts {
		out.pts[i] = m.apply(p)
	}
	return out
}

// parseTransform parses a transform list of translate and rotate functions.
// The list applies right to left, as in SVG.
func parseTransform(s string) (affine, error) {
	m := identity
	rest := strings.TrimSpace(s)
	var fns []affine
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		end := strings.IndexByte(rest, ')')
		if open < 0 || end < open {
			return identity, fmt.Errorf("malformed transform %q", s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := parseNumbers(rest[open+1 : end])
		if err != nil {
			return identity, fmt.Errorf("transform %q: %w", s, err)
		}
		fn, err := transformFunc(name, args)
		if err != nil {
			return identity, err
		}
		fns = append(fns, fn)
		rest = strings.TrimLeft(rest[end+1:], " ,\t\n")
	}
	for i := len(fns) - 1; i >= 0; i-- {
		m = m.then(fns[i])
	}
	return m, nil
}

func transformFunc(name string, args []float64) (affine, error) {
	switch {
	case name == "translate" && len(args) == 1:
		return translate(args[0], 0), nil
	case name == "translate" && len(args) == 2:
		return translate(args[0], args[1]), nil
	case name == "rotate" && len(args) == 1:
		return rotate(args[0], 0, 0), nil
	case name == "rotate" && len(args) == 3:
		return rotate(args[0], args[1], args[2]), nil
	default:
		return identity, fmt.Errorf("unsupported transform %s with %d arguments", name, len(args))
	}
}

func parseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseDashArray returns nil for solid strokes.
func parseDashArray(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil, nil
	}
	v, err := parseNumbers(s)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, d := range v {
		if d < 0 {
			return nil, fmt.Errorf("negative dash %v", d)
		}
		total += d
	}
	if total == 0 {
		return nil, nil
	}
	if len(v)%2 == 1 {
		v = append(v, v...)
	}
	return v, nil
}

func rectPath(x, y, w, h float64) polyline {
	return polyline{
		pts:    []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		closed: true,
	}
}

func circlePath(cx, cy, r float64) polyline {
	pts := make([]point, circleSegments)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = point{cx + r*c, cy + r*s}
	}
	return polyline{pts: pts, closed: true}
}

type segment struct{ a, b point }

func (pl polyline) segments() []segment {
	n := len(pl.pts)
	if n < 2 {
		return nil
	}
	segs := make([]segment, 0, n)
	for i := 0; i+1 < n; i++ {
		segs = append(segs, segment{pl.pts[i], pl.pts[i+1]})
	}
	if pl.closed {
		segs = append(segs, segment{pl.pts[n-1], pl.pts[0]})
	}
	return segs
}

// dashes splits a polyline into the "on" pieces of a dash pattern. The
// pattern restarts at the start of each polyline.
func dashes(pl polyline, pattern []float64) []segment {
	var out []segment
	idx, left, on := 0, pattern[0], true
	for _, s := range pl.segments() {
		length := s.b.sub(s.a).len()
		pos := 0.0
		for pos < length {
			step := math.Min(left, length-pos)
			if on && step > 0 {
				out = append(out, segment{lerp(s.a, s.b, pos/length), lerp(s.a, s.b, (pos+step)/length)})
			}
			pos += step
			left -= step
			if left <= 1e-12 {
				idx = (idx + 1) % len(pattern)
				left, on = pattern[idx], !on
			}
		}
	}
	return out
}

// quad returns the rectangle covering a stroked segment, extended by ext at
// both ends. Vertices always wind the same way so overlapping quads add up.
func quad(s segment, width, ext float64) [4]point {
	d := s.b.sub(s.a)
	l := d.len()
	if l == 0 {
		return [4]point{s.a, s.a, s.a, s.a}
	}
	u := d.mul(1 / l)
	n := point{-u.Y, u.X}.mul(width / 2)
	a := s.a.sub(u.mul(ext))
	b := s.b.add(u.mul(ext))
	return [4]point{a.add(n), b.add(n), b.sub(n), a.sub(n)}
}
