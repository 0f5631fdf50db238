package raster

import (
	"context"
	"fmt"
	"math"
	"os/exec"

	errs "github.com/matzehuels/formationbot/pkg/errors"
	"github.com/matzehuels/formationbot/pkg/render/svg"
)

// Rasterizer converts an SVG document to a PNG of the requested pixel size.
type Rasterizer interface {
	ToPixels(ctx context.Context, doc *svg.Document, width, height float64) ([]byte, error)
}

// Kind is the stage at which rasterization failed.
type Kind int

const (
	KindIO Kind = iota
	KindLoad
	KindRender
	KindSurface
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindLoad:
		return "load"
	case KindRender:
		return "render"
	case KindSurface:
		return "surface"
	case KindEncode:
		return "encode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every back-end.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("raster %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code maps the failure stage to an error code.
func (e *Error) Code() errs.Code {
	switch e.Kind {
	case KindIO:
		return errs.ErrCodeRasterIO
	case KindLoad:
		return errs.ErrCodeRasterLoad
	case KindRender:
		return errs.ErrCodeRasterRender
	case KindSurface:
		return errs.ErrCodeRasterSurface
	case KindEncode:
		return errs.ErrCodeRasterEncode
	default:
		return errs.ErrCodeInternal
	}
}

func fail(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Err: fmt.Errorf(format, args...)}
}

// MaxPixels bounds the output surface.
const MaxPixels = 1 << 24

// Back-end names accepted by New.
const (
	EngineAuto   = "auto"
	EngineRSVG   = "rsvg"
	EngineNative = "native"
)

// Engines lists the names accepted by New.
func Engines() []string {
	return []string{EngineAuto, EngineRSVG, EngineNative}
}

// New returns the back-end with the given name. An empty name means auto.
func New(name string) (Rasterizer, error) {
	switch Resolve(name) {
	case EngineRSVG:
		return NewRSVG(), nil
	case EngineNative:
		return NewNative(), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidEngine, "unknown rasterizer %q (valid: auto, rsvg, native)", name)
	}
}

// Resolve maps "auto" and the empty name to the back-end Auto would pick.
// Other names are returned unchanged.
func Resolve(name string) string {
	if name != "" && name != EngineAuto {
		return name
	}
	if _, err := exec.LookPath(DefaultRSVGBinary); err == nil {
		return EngineRSVG
	}
	return EngineNative
}

// Auto prefers rsvg-convert when it is installed and falls back to the
// native back-end otherwise.
func Auto() Rasterizer {
	r, _ := New(EngineAuto)
	return r
}

// surface validates and rounds a requested output size.
func surface(width, height float64) (int, int, error) {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 {
			return 0, 0, fail(KindSurface, "invalid size %vx%v", width, height)
		}
	}
	w, h := int(math.Round(width)), int(math.Round(height))
	if w*h > MaxPixels {
		return 0, 0, fail(KindSurface, "size %dx%d exceeds %d pixels", w, h, MaxPixels)
	}
	return w, h, nil
}
