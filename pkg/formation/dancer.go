package formation

import (
	"fmt"
	"strconv"
)

// Dancer is a single placed figure. The zero value is the default dancer:
// a black, solid, north-facing square at the origin with no label.
type Dancer struct {
	X, Y   float64
	Color  Color
	Shape  Shape
	Stroke StrokeStyle
	Facing Facing
	Label  string // empty means no label
}

// HasLabel reports whether the dancer carries a label.
func (d Dancer) HasLabel() bool { return d.Label != "" }

// =============================================================================
// Color
// =============================================================================

// ColorKind enumerates the named colors plus the explicit RGB variant.
type ColorKind uint8

const (
	ColorBlack ColorKind = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorRGB
)

var colorNames = [...]string{
	ColorBlack:   "black",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorMagenta: "magenta",
	ColorCyan:    "cyan",
}

// Color is a dancer color. R, G and B are only meaningful for ColorRGB.
type Color struct {
	Kind    ColorKind
	R, G, B uint8
}

// Named colors.
var (
	Black   = Color{Kind: ColorBlack}
	Red     = Color{Kind: ColorRed}
	Green   = Color{Kind: ColorGreen}
	Yellow  = Color{Kind: ColorYellow}
	Blue    = Color{Kind: ColorBlue}
	Magenta = Color{Kind: ColorMagenta}
	Cyan    = Color{Kind: ColorCyan}
)

// RGB returns an explicit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// String returns the SVG paint value: a color keyword or rgb(r,g,b).
func (c Color) String() string {
	if c.Kind == ColorRGB {
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
	if int(c.Kind) < len(colorNames) {
		return colorNames[c.Kind]
	}
	return colorNames[ColorBlack]
}

// =============================================================================
// Shape
// =============================================================================

// Shape is the outline drawn for a dancer.
type Shape uint8

const (
	ShapeSquare Shape = iota
	ShapeCircle
	ShapePlus
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapePlus:
		return "plus"
	default:
		return "square"
	}
}

// =============================================================================
// Stroke
// =============================================================================

// StrokeStyle selects the dash pattern of a dancer outline.
type StrokeStyle uint8

const (
	StrokeSolid StrokeStyle = iota
	StrokeDotted
	StrokeDashed
)

func (s StrokeStyle) String() string {
	switch s {
	case StrokeDotted:
		return "dotted"
	case StrokeDashed:
		return "dashed"
	default:
		return "solid"
	}
}

// =============================================================================
// Facing
// =============================================================================

// FacingKind enumerates facing directions. North is the zero value because
// it is the default facing.
type FacingKind uint8

const (
	FacingNorth FacingKind = iota
	FacingEast
	FacingSouth
	FacingWest
	FacingNone
	FacingAngle
)

// Facing is the direction a dancer's nose points. Degrees is only used
// with FacingAngle.
type Facing struct {
	Kind    FacingKind
	Degrees float64
}

// Cardinal facings.
var (
	North = Facing{Kind: FacingNorth}
	East  = Facing{Kind: FacingEast}
	South = Facing{Kind: FacingSouth}
	West  = Facing{Kind: FacingWest}
	None  = Facing{Kind: FacingNone}
)

// Angle returns an explicit facing, clockwise from north.
func Angle(deg float64) Facing {
	return Facing{Kind: FacingAngle, Degrees: deg}
}

// HasNose reports whether a direction marker is drawn.
func (f Facing) HasNose() bool { return f.Kind != FacingNone }

// Angle returns the rotation in degrees clockwise from north.
func (f Facing) Angle() float64 {
	switch f.Kind {
	case FacingEast:
		return 90
	case FacingSouth:
		return 180
	case FacingWest:
		return 270
	case FacingAngle:
		return f.Degrees
	default:
		return 0
	}
}

func (f Facing) String() string {
	switch f.Kind {
	case FacingNorth:
		return "north"
	case FacingEast:
		return "east"
	case FacingSouth:
		return "south"
	case FacingWest:
		return "west"
	case FacingNone:
		return "none"
	default:
		return strconv.FormatFloat(f.Degrees, 'g', -1, 64)
	}
}
