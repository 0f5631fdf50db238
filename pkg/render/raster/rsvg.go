package raster

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/formationbot/pkg/render/svg"
)

// DefaultRSVGBinary is the librsvg command-line converter.
const DefaultRSVGBinary = "rsvg-convert"

// RSVG rasterizes by piping the document through rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	Binary string
}

// NewRSVG returns a back-end using rsvg-convert from PATH.
func NewRSVG() *RSVG {
	return &RSVG{Binary: DefaultRSVGBinary}
}

// ToPixels implements Rasterizer.
func (r *RSVG) ToPixels(ctx context.Context, doc *svg.Document, width, height float64) ([]byte, error) {
	w, h, err := surface(width, height)
	if err != nil {
		return nil, err
	}

	bin := r.Binary
	if bin == "" {
		bin = DefaultRSVGBinary
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fail(KindLoad, "png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.CommandContext(ctx, path, "-f", "png", "-w", strconv.Itoa(w), "-h", strconv.Itoa(h))
	cmd.Stdin = bytes.NewReader(doc.Bytes())

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return nil, fail(KindRender, "%s: %v: %s", bin, err, strings.TrimSpace(errBuf.String()))
		}
		return nil, &Error{Kind: KindIO, Err: err}
	}
	if out.Len() == 0 {
		return nil, fail(KindEncode, "%s produced no output", bin)
	}
	return out.Bytes(), nil
}
