package raster

import (
	"image/color"
	"math"
	"testing"
)

func near(a, b point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestParsePaint(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		visible bool
		wantErr bool
	}{
		{"none", color.RGBA{}, false, false},
		{"black", color.RGBA{0, 0, 0, 255}, true, false},
		{"red", color.RGBA{255, 0, 0, 255}, true, false},
		{"green", color.RGBA{0, 128, 0, 255}, true, false},
		{"Cyan", color.RGBA{0, 255, 255, 255}, true, false},
		{"rgb(1,2,3)", color.RGBA{1, 2, 3, 255}, true, false},
		{"rgb( 10 , 20 , 300 )", color.RGBA{10, 20, 255, 255}, true, false},
		{"#336699", color.RGBA{0x33, 0x66, 0x99, 255}, true, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, true, false},
		{"rgb(1,2)", color.RGBA{}, false, true},
		{"chartreuse", color.RGBA{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, visible, err := parsePaint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePaint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want || visible != tt.visible {
				t.Errorf("parsePaint(%q) = %v, %v; want %v, %v", tt.in, got, visible, tt.want, tt.visible)
			}
		})
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		p    point
		want point
	}{
		{"", point{1, 2}, point{1, 2}},
		{"translate(3)", point{1, 2}, point{4, 2}},
		{"translate(3, -1)", point{1, 2}, point{4, 1}},
		{"rotate(90)", point{1, 0}, point{0, 1}},
		{"rotate(90 1 2)", point{1, 1}, point{2, 2}},
		{"rotate(180 0 0)", point{0, -0.6875}, point{0, 0.6875}},
		// Rightmost applies first.
		{"translate(10 0) rotate(90)", point{1, 0}, point{10, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := parseTransform(tt.in)
			if err != nil {
				t.Fatalf("parseTransform(%q) error: %v", tt.in, err)
			}
			if got := m.apply(tt.p); !near(got, tt.want) {
				t.Errorf("apply(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"rotate(", "scale(2)", "rotate(1 2)", "translate(a)"} {
		if _, err := parseTransform(bad); err == nil {
			t.Errorf("parseTransform(%q) succeeded, want error", bad)
		}
	}
}

func TestParseDashArray(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"none", nil, false},
		{"", nil, false},
		{"0", nil, false},
		{"0.2", []float64{0.2, 0.2}, false},
		{"1, 2", []float64{1, 2}, false},
		{"1 2 3", []float64{1, 2, 3, 1, 2, 3}, false},
		{"-1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDashArray(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseDashArray(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseDashArray(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestDashes(t *testing.T) {
	line := polyline{pts: []point{{0, 0}, {1, 0}}}
	segs := dashes(line, []float64{0.2, 0.2})
	if len(segs) != 3 {
		t.Fatalf("got %d dashes, want 3: %v", len(segs), segs)
	}
	wantStarts := []float64{0, 0.4, 0.8}
	for i, s := range segs {
		if math.Abs(s.a.X-wantStarts[i]) > 1e-9 || math.Abs(s.b.X-s.a.X-0.2) > 1e-9 {
			t.Errorf("dash %d = %v", i, s)
		}
	}

	// The pattern carries across corners of a closed path.
	square := rectPath(0, 0, 1, 1)
	total := 0.0
	for _, s := range dashes(square, []float64{0.3, 0.1}) {
		total += s.b.sub(s.a).len()
	}
	if math.Abs(total-3.0) > 1e-9 {
		t.Errorf("dashed length = %v, want 3", total)
	}
}

func TestQuadWinding(t *testing.T) {
	area := func(q [4]point) float64 {
		a := 0.0
		for i := range q {
			j := (i + 1) % 4
			a += q[i].X*q[j].Y - q[j].X*q[i].Y
		}
		return a / 2
	}

	var sign float64
	for _, s := range circlePath(0, 0, 1).segments() {
		a := area(quad(s, 0.1, 0.05))
		if a == 0 {
			t.Fatal("degenerate quad")
		}
		if sign == 0 {
			sign = math.Copysign(1, a)
		} else if math.Copysign(1, a) != sign {
			t.Fatalf("quad for %v winds the other way", s)
		}
	}

	q := quad(segment{point{0, 0}, point{2, 0}}, 0.5, 0.25)
	if !near(q[0], point{-0.25, 0.25}) || !near(q[2], point{2.25, -0.25}) {
		t.Errorf("quad = %v", q)
	}
}
