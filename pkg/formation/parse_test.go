package formation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no input", ""},
		{"only ignored characters", "abcd"},
		{"unterminated accumulator", "r1o"},
		{"only line breaks", "//\n/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Parse(tt.input)
			if !f.IsEmpty() {
				t.Errorf("Parse(%q) has %d dancers, want 0", tt.input, f.Len())
			}
			if f.Bounds().Defined() {
				t.Errorf("Parse(%q) bounds = %+v, want undefined", tt.input, f.Bounds())
			}
		})
	}
}

func TestEmptyBoundsAreNaN(t *testing.T) {
	b := Empty().Bounds()
	for name, v := range map[string]float64{"MinX": b.MinX, "MaxX": b.MaxX, "MinY": b.MinY, "MaxY": b.MaxY} {
		if !math.IsNaN(v) {
			t.Errorf("Empty().Bounds().%s = %v, want NaN", name, v)
		}
	}
	if (Formation{}).Bounds().Defined() {
		t.Error("zero Formation should have undefined bounds")
	}
	if diff := cmp.Diff(NoBounds(), Parse("abcd /// xyz?").Bounds(), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("bounds of notation without slots mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTwoRows(t *testing.T) {
	f := Parse("<>/><")

	want := []Dancer{
		{X: -2, Y: 0, Facing: West},
		{X: 0, Y: 0, Facing: East},
		{X: -2, Y: 2, Facing: East},
		{X: 0, Y: 2, Facing: West},
	}
	if diff := cmp.Diff(want, f.Dancers()); diff != "" {
		t.Errorf("dancers mismatch (-want +got):\n%s", diff)
	}

	wantBounds := Bounds{MinX: -2, MaxX: 0, MinY: 0, MaxY: 2}
	if f.Bounds() != wantBounds {
		t.Errorf("bounds = %+v, want %+v", f.Bounds(), wantBounds)
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Dancer
	}{
		{"default finalize", ",", Dancer{X: -1}},
		{"red", "r^", Dancer{X: -1, Color: Red}},
		{"green", "gn", Dancer{X: -1, Color: Green}},
		{"blue", "b@", Dancer{X: -1, Color: Blue}},
		{"cyan", "c*", Dancer{X: -1, Color: Cyan}},
		{"magenta", "m,", Dancer{X: -1, Color: Magenta}},
		{"yellow", "y,", Dancer{X: -1, Color: Yellow}},
		{"last color wins", "rgb,", Dancer{X: -1, Color: Blue}},
		{"nudge up", "u,", Dancer{X: -1, Y: -1}},
		{"nudge down", "d,", Dancer{X: -1, Y: 1}},
		{"nudge left", "l,", Dancer{X: -2}},
		{"nudge right", "R,", Dancer{X: 0}},
		{"dashed p", "p,", Dancer{X: -1, Stroke: StrokeDashed}},
		{"dashed minus", "-,", Dancer{X: -1, Stroke: StrokeDashed}},
		{"dotted", ":,", Dancer{X: -1, Stroke: StrokeDotted}},
		{"circle", "o,", Dancer{X: -1, Shape: ShapeCircle}},
		{"circle upper", "O,", Dancer{X: -1, Shape: ShapeCircle}},
		{"digit label", "7,", Dancer{X: -1, Label: "7"}},
		{"x label", "x,", Dancer{X: -1, Label: "x"}},
		{"X label", "X,", Dancer{X: -1, Label: "X"}},
		{"escaped label", "'A,", Dancer{X: -1, Label: "A"}},
		{"escaped control", "'>,", Dancer{X: -1, Label: ">"}},
		{"escaped slash", "'/,", Dancer{X: -1, Label: "/"}},
		{"escaped multibyte", "'λ,", Dancer{X: -1, Label: "λ"}},
		{"facing east", "e", Dancer{X: -1, Facing: East}},
		{"facing south v", "v", Dancer{X: -1, Facing: South}},
		{"facing south V", "V", Dancer{X: -1, Facing: South}},
		{"facing south s", "s", Dancer{X: -1, Facing: South}},
		{"facing west", "w", Dancer{X: -1, Facing: West}},
		{"plus clears label", "3+", Dancer{X: -1, Shape: ShapePlus}},
		{"everything", "bo:2d>", Dancer{X: -1, Y: 1, Color: Blue, Shape: ShapeCircle, Stroke: StrokeDotted, Label: "2", Facing: East}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input).Dancers()
			if len(got) != 1 {
				t.Fatalf("Parse(%q) produced %d dancers, want 1", tt.input, len(got))
			}
			if diff := cmp.Diff(tt.want, got[0]); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseGaps(t *testing.T) {
	f := Parse("> . <")
	want := []Dancer{
		{X: -3, Facing: East},
		{X: 1, Facing: West},
	}
	if diff := cmp.Diff(want, f.Dancers()); diff != "" {
		t.Errorf("dancers mismatch (-want +got):\n%s", diff)
	}

	// A row of gaps reserves space without dancers.
	f = Parse("^^/../vv")
	if f.Len() != 4 {
		t.Fatalf("got %d dancers, want 4", f.Len())
	}
	if b := f.Bounds(); b.MinY != 0 || b.MaxY != 4 {
		t.Errorf("bounds y = [%v, %v], want [0, 4]", b.MinY, b.MaxY)
	}

	// Gaps alone define bounds but no dancers.
	f = Parse("...")
	if !f.IsEmpty() {
		t.Errorf("got %d dancers, want 0", f.Len())
	}
	if b := f.Bounds(); b != (Bounds{MinX: -3, MaxX: 1, MinY: 0, MaxY: 0}) {
		t.Errorf("bounds = %+v", b)
	}
}

func TestParseGapDiscardsAccumulator(t *testing.T) {
	got := Parse("r1.>").Dancers()
	want := []Dancer{{X: 0, Facing: East}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLineBreakResetsAccumulator(t *testing.T) {
	got := Parse("r1/>").Dancers()
	want := []Dancer{{X: -1, Y: 2, Facing: East}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Newlines count as row breaks too.
	if a, b := Parse("^^\nvv"), Parse("^^/vv"); !a.Equal(b) {
		t.Error("newline and slash should produce the same formation")
	}
}

func TestParseDropsTrailingAccumulator(t *testing.T) {
	got := Parse(">r1").Dancers()
	if len(got) != 1 {
		t.Fatalf("got %d dancers, want 1", len(got))
	}
	if got[0].Color != Black {
		t.Errorf("trailing attributes leaked into finalized dancer: %+v", got[0])
	}
}

func TestParseEscapeAtEnd(t *testing.T) {
	f := Parse(">'")
	if f.Len() != 1 {
		t.Errorf("got %d dancers, want 1", f.Len())
	}
}

func TestParsePlusKeepsFacing(t *testing.T) {
	got := Parse("+").Dancers()
	if len(got) != 1 || got[0].Shape != ShapePlus || got[0].Facing != North {
		t.Errorf("got %+v", got)
	}
}

func TestParseRowSpacing(t *testing.T) {
	for n := 1; n <= 8; n++ {
		input := ""
		for i := 0; i < n; i++ {
			input += ","
		}
		ds := Parse(input).Dancers()
		if len(ds) != n {
			t.Fatalf("n=%d: got %d dancers", n, len(ds))
		}
		if ds[0].X != -float64(n) {
			t.Errorf("n=%d: first x = %v, want %v", n, ds[0].X, -float64(n))
		}
		for i := 1; i < n; i++ {
			if d := ds[i].X - ds[i-1].X; d != 2 {
				t.Errorf("n=%d: spacing between %d and %d = %v, want 2", n, i-1, i, d)
			}
		}
	}
}

const notationChars = "/\nrgbcmyudlRp-:oO+0123459xX'neswv^><V,@*. zZ!λ"

func randomNotation(r *rand.Rand, n int) string {
	chars := []rune(notationChars)
	out := make([]rune, n)
	for i := range out {
		out[i] = chars[r.IntN(len(chars))]
	}
	return string(out)
}

func TestParseProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		input := randomNotation(r, r.IntN(60))

		f := Parse(input)
		if !f.Equal(Parse(input)) {
			t.Fatalf("Parse(%q) is not deterministic", input)
		}

		b := f.Bounds()
		if !f.IsEmpty() && !b.Defined() {
			t.Fatalf("Parse(%q) has dancers but no bounds", input)
		}
		for _, d := range f.Dancers() {
			if !b.Contains(d.X, d.Y) {
				t.Fatalf("Parse(%q): dancer at (%v,%v) outside bounds %+v", input, d.X, d.Y, b)
			}
		}
	}
}

func TestParseRunes(t *testing.T) {
	input := "rv gv/b^ y^"
	seq := func(yield func(rune) bool) {
		for _, c := range input {
			if !yield(c) {
				return
			}
		}
	}
	if !ParseRunes(seq).Equal(Parse(input)) {
		t.Error("ParseRunes and Parse disagree")
	}
}

func TestView(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          View
		wantW, wantPx float64
	}{
		{"two by two", "<>/><", View{MinX: -3, MinY: -1, Width: 4, Height: 4}, 400, 400},
		{"single", ",", View{MinX: -2, MinY: -1, Width: 2, Height: 2}, 200, 200},
		{"empty", "", View{MinX: -1, MinY: -1, Width: 2, Height: 2}, 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(tt.input).View()
			if v != tt.want {
				t.Errorf("View() = %+v, want %+v", v, tt.want)
			}
			w, h := v.PixelSize(DancerWidth)
			if w != tt.wantW || h != tt.wantPx {
				t.Errorf("PixelSize() = %v x %v, want %v x %v", w, h, tt.wantW, tt.wantPx)
			}
		})
	}
}
