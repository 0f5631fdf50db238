package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// CSS values of the named colors the renderer emits.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"yellow":  "#ffff00",
	"blue":    "#0000ff",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"gray":    "#808080",
	"grey":    "#808080",
}

// parsePaint parses an SVG paint value. ok is false for "none" and "transparent".
func parsePaint(s string) (c color.RGBA, ok bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "transparent":
		return color.RGBA{}, false, nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		c, err := parseRGB(s[len("rgb(") : len(s)-1])
		return c, err == nil, err
	}

	hex := s
	if named, found := namedColors[s]; found {
		hex = named
	}
	if strings.HasPrefix(hex, "#") && len(hex) == 4 {
		hex = "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
	}
	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, false, fmt.Errorf("unsupported paint %q", s)
	}
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true, nil
}

func parseRGB(args string) (color.RGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("rgb() takes 3 components, got %q", args)
	}
	var v [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("rgb component %q: %w", p, err)
		}
		v[i] = uint8(min(max(n, 0), 255))
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xff}, nil
}
