// Package fonts provides the embedded font used to draw dancer labels.
//
// The Go Regular typeface ships with golang.org/x/image, so labels render
// the same on every machine without a system font lookup.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go"

// FallbackFontFamily lists families to try when the SVG is viewed elsewhere.
const FallbackFontFamily = `'Go', 'DejaVu Sans', Helvetica, Arial, sans-serif`

// Parsed once on first access.
var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// RegularTTF returns the raw TTF data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a face of the given size in pixels. Hinting is off because
// callers draw at a supersampled resolution.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
