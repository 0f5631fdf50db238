package formation

import (
	"encoding/json"
	"math"
	"slices"
)

// DancerWidth is the rendered width of one grid unit, in pixels.
const DancerWidth = 100.0

// margin is the space left around the bounds in the view box, in grid units.
const margin = 1.0

// =============================================================================
// Bounds
// =============================================================================

// Bounds is the bounding box of all slots seen while parsing. All fields are
// NaN until the first slot is observed.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// NoBounds returns the undefined bounding box.
func NoBounds() Bounds {
	nan := math.NaN()
	return Bounds{MinX: nan, MaxX: nan, MinY: nan, MaxY: nan}
}

// Defined reports whether at least one point has been added.
func (b Bounds) Defined() bool {
	return !math.IsNaN(b.MinX)
}

// Extend returns b grown to include (x, y). Undefined bounds collapse to
// the point.
func (b Bounds) Extend(x, y float64) Bounds {
	if !b.Defined() {
		return Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y}
	}
	return Bounds{
		MinX: math.Min(b.MinX, x),
		MaxX: math.Max(b.MaxX, x),
		MinY: math.Min(b.MinY, y),
		MaxY: math.Max(b.MaxY, y),
	}
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return b.Defined() && x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

func (b Bounds) equal(o Bounds) bool {
	if !b.Defined() || !o.Defined() {
		return b.Defined() == o.Defined()
	}
	return b == o
}

// =============================================================================
// Formation
// =============================================================================

// Formation is an ordered set of placed dancers and the bounds of the grid
// they were laid out on. Build one with [Parse]; the zero value is empty.
type Formation struct {
	dancers []Dancer
	bounds  Bounds
}

// Empty returns a formation with no dancers and undefined bounds.
func Empty() Formation {
	return Formation{bounds: NoBounds()}
}

// Dancers returns a copy of the dancers in paint order.
func (f Formation) Dancers() []Dancer {
	return slices.Clone(f.dancers)
}

// Len returns the number of dancers.
func (f Formation) Len() int { return len(f.dancers) }

// IsEmpty reports whether the formation has no dancers.
func (f Formation) IsEmpty() bool { return len(f.dancers) == 0 }

// Bounds returns the bounding box of every slot, including gaps.
func (f Formation) Bounds() Bounds {
	// The zero Formation behaves like Empty.
	if f.dancers == nil && f.bounds == (Bounds{}) {
		return NoBounds()
	}
	return f.bounds
}

// Equal reports structural equality: same dancers in the same order and the
// same bounds, where undefined bounds equal each other.
func (f Formation) Equal(o Formation) bool {
	return slices.Equal(f.dancers, o.dancers) && f.Bounds().equal(o.Bounds())
}

// =============================================================================
// View
// =============================================================================

// View is the SVG view box of a formation in grid units.
type View struct {
	MinX   float64 `json:"min_x"`
	MinY   float64 `json:"min_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// View returns the view box with a one unit margin around the bounds. A
// formation without bounds gets the box around the origin.
func (f Formation) View() View {
	b := f.Bounds()
	if !b.Defined() {
		b = Bounds{}
	}
	return View{
		MinX:   b.MinX - margin,
		MinY:   b.MinY - margin,
		Width:  b.MaxX - b.MinX + 2*margin,
		Height: b.MaxY - b.MinY + 2*margin,
	}
}

// PixelSize returns the view size scaled by unit pixels per grid unit.
func (v View) PixelSize(unit float64) (width, height float64) {
	return v.Width * unit, v.Height * unit
}

// =============================================================================
// JSON
// =============================================================================

type jsonDancer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Shape  string  `json:"shape"`
	Stroke string  `json:"stroke"`
	Facing string  `json:"facing"`
	Angle  float64 `json:"angle"`
	Label  string  `json:"label,omitempty"`
}

type jsonFormation struct {
	Dancers []jsonDancer `json:"dancers"`
	Bounds  *Bounds      `json:"bounds"`
	View    View         `json:"view"`
}

// MarshalJSON exports the formation for external tools. Undefined bounds
// are written as null.
func (f Formation) MarshalJSON() ([]byte, error) {
	out := jsonFormation{
		Dancers: make([]jsonDancer, 0, len(f.dancers)),
		View:    f.View(),
	}
	for _, d := range f.dancers {
		out.Dancers = append(out.Dancers, jsonDancer{
			X:      d.X,
			Y:      d.Y,
			Color:  d.Color.String(),
			Shape:  d.Shape.String(),
			Stroke: d.Stroke.String(),
			Facing: d.Facing.String(),
			Angle:  d.Facing.Angle(),
			Label:  d.Label,
		})
	}
	if b := f.Bounds(); b.Defined() {
		out.Bounds = &b
	}
	return json.Marshal(out)
}
