package formation

import "iter"

// slot is one position in a row: a finalized dancer or an empty gap.
type slot struct {
	dancer Dancer
	gap    bool
}

// parser holds the scan state. The accumulator is replaced by the zero
// Dancer each time it is finalized or discarded.
type parser struct {
	f       Formation
	row     []slot
	rowNum  int
	current Dancer
	escape  bool
}

// Parse reads formation notation. It never fails: unrecognized characters
// are skipped and an unfinished trailing token is dropped.
func Parse(s string) Formation {
	return ParseRunes(func(yield func(rune) bool) {
		for _, c := range s {
			if !yield(c) {
				return
			}
		}
	})
}

// ParseRunes reads formation notation from any rune sequence, consuming it
// exactly once.
func ParseRunes(seq iter.Seq[rune]) Formation {
	p := parser{f: Empty()}
	for c := range seq {
		p.step(c)
	}
	p.flush()
	return p.f
}

func (p *parser) step(c rune) {
	if p.escape {
		p.escape = false
		p.current.Label = string(c)
		return
	}

	switch c {
	case '/', '\n':
		p.flush()
		p.current = Dancer{}
		p.rowNum++

	case 'r':
		p.current.Color = Red
	case 'g':
		p.current.Color = Green
	case 'b':
		p.current.Color = Blue
	case 'c':
		p.current.Color = Cyan
	case 'm':
		p.current.Color = Magenta
	case 'y':
		p.current.Color = Yellow

	case 'u':
		p.current.Y = -1
	case 'd':
		p.current.Y = 1
	case 'l':
		p.current.X = -1
	case 'R':
		p.current.X = 1

	case 'p', '-':
		p.current.Stroke = StrokeDashed
	case ':':
		p.current.Stroke = StrokeDotted

	case 'o', 'O':
		p.current.Shape = ShapeCircle
	case '+':
		p.current.Shape = ShapePlus
		p.current.Label = ""
		p.finalize()

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'x', 'X':
		p.current.Label = string(c)
	case '\'':
		p.escape = true

	case 'n', '^':
		p.face(North)
	case 'e', '>':
		p.face(East)
	case 's', 'v', 'V':
		p.face(South)
	case 'w', '<':
		p.face(West)
	case ',', '@', '*':
		p.finalize()

	case '.':
		p.current = Dancer{}
		p.row = append(p.row, slot{gap: true})
	}
}

func (p *parser) face(f Facing) {
	p.current.Facing = f
	p.finalize()
}

// finalize moves the accumulator into the row and resets it.
func (p *parser) finalize() {
	p.row = append(p.row, slot{dancer: p.current})
	p.current = Dancer{}
}

// flush lays out the pending row and appends its dancers to the formation.
func (p *parser) flush() {
	y0 := 2 * float64(p.rowNum)
	x0 := -float64(len(p.row))
	for i, s := range p.row {
		x := 2*float64(i) + x0
		if s.gap {
			p.f.bounds = p.f.bounds.Extend(x, y0)
			continue
		}
		d := s.dancer
		d.X += x
		d.Y += y0
		p.f.bounds = p.f.bounds.Extend(d.X, d.Y)
		p.f.dancers = append(p.f.dancers, d)
	}
	p.row = p.row[:0]
}
