// Package formation parses the compact formation notation into positioned dancers.
//
// # Overview
//
// A formation is written as rows of tokens. Each token accumulates attributes
// (color, shape, stroke, label, nudge) and is finalized by a facing character
// or an explicit finalizer. Rows are separated by "/" or a newline:
//
//	formation.Parse("r1> b2<") // two dancers facing each other
//	formation.Parse("^^/vv")   // a two-by-two box
//	formation.Parse("> . <")   // a gap keeps the dancers apart
//
// The parser never fails. Unknown characters are ignored and a token that is
// still open when the input ends is dropped.
//
// # Layout
//
// Every slot in a row (dancer or gap) occupies two grid units. A row with N
// slots is centered horizontally, so slot i sits at x = 2i - N; row r sits at
// y = 2r. Nudges (u, d, l, R) move a dancer half a slot off that lattice.
// Gaps never produce dancers but still extend the [Bounds].
//
// # Notation
//
//	/ \n        next row
//	r g b c m y color
//	u d l R     nudge up, down, left, right
//	p - :       dashed, dashed, dotted outline
//	o O         circle
//	+           plus mark (finalizes)
//	0-9 x X     label
//	'c          label c, whatever c is
//	n ^ e > s v V w <   facing (finalizes)
//	, @ *       finalize without changing facing
//	.           empty slot
//
// # View
//
// [Formation.View] derives the SVG view box with a one unit margin, and
// [View.PixelSize] scales it by [DancerWidth] pixels per grid unit.
package formation
