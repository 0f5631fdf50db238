// Package svg renders formations as SVG documents.
//
// # Overview
//
// [Render] maps a [formation.Formation] to a [Document]: an <svg> element
// whose view box comes from [formation.Formation.View], a <defs> block with
// the reusable symbols, and one <g> per dancer in formation order. Later
// dancers paint over earlier ones.
//
//	doc := svg.Render(formation.Parse("r1> b2<"))
//	_, err := doc.WriteTo(os.Stdout)
//
// # Symbols
//
//   - #nose: filled circle just above the unit shape, rotated to the facing
//   - #dancer-square: 1x1 outline centered on the origin
//   - #dancer-circle: outline of radius 1/sqrt(pi), same area as the square
//   - #dancer-plus: two crossing segments across the circle diameter
//
// Each dancer group references its shape with the dancer color as stroke
// and a dash pattern from its stroke style, the nose when the dancer has a
// facing, and a centered label when one is set.
//
// # Options
//
//   - [WithDancerWidth]: pixels per grid unit
//   - [WithBaselineShift]: fixed label offset for back-ends without
//     dominant-baseline support
//   - [WithBackground]: opaque background behind the dancers
//
// The document is an [etree] tree, so rasterizers can walk the same
// elements that are written out.
//
// [etree]: github.com/beevik/etree
package svg
