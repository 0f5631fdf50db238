// Package pipeline provides the core formation pipeline for formationbot.
//
// This package implements the complete parse → render → rasterize pipeline
// shared by the CLI, the HTTP service and the chat bot. By centralizing this
// logic every entry point produces byte-identical artifacts for the same
// notation and options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Turn notation text into a [formation.Formation]
//  2. Render: Generate the SVG document (or the DOT graph)
//  3. Rasterize: Convert the document to PNG with the selected engine
//
// Parsing never fails. Only rasterization, and the graphviz engine, can
// return errors.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Notation: "r1> b2<",
//	    Formats:  []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Render a formation without the runner:
//
//	f := formation.Parse("<>/><")
//	artifacts, err := pipeline.Render(ctx, f, opts)
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/formationbot/pkg/cache"
	errs "github.com/matzehuels/formationbot/pkg/errors"
	"github.com/matzehuels/formationbot/pkg/formation"
	"github.com/matzehuels/formationbot/pkg/render/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Bot
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// EngineGraphviz renders svg and png through Graphviz instead of the
// formation renderer. The other engine names come from package raster.
const EngineGraphviz = "graphviz"

// DefaultEngine is used when Options.Engine is empty.
const DefaultEngine = raster.EngineAuto

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidEngines is the set of supported render engines.
var ValidEngines = map[string]bool{
	raster.EngineAuto:   true,
	raster.EngineRSVG:   true,
	raster.EngineNative: true,
	EngineGraphviz:      true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the formation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Notation string `json:"notation"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Engine        string   `json:"engine,omitempty"`
	DancerWidth   float64  `json:"dancer_width,omitempty"`   // pixels per grid unit
	Background    string   `json:"background,omitempty"`     // paint behind the dancers
	BaselineShift float64  `json:"baseline_shift,omitempty"` // extra dy for labels

	// Runtime options (not serialized)
	Logger     *log.Logger       `json:"-"`
	Rasterizer raster.Rasterizer `json:"-"` // overrides Engine for png when set

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Formation is the parsed formation.
	Formation formation.Formation

	// NotationHash is the content hash of the notation.
	NotationHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DancerCount int
	Width       float64 // document width in pixels
	Height      float64 // document height in pixels
	ParseTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errs.New(errs.ErrCodeInvalidEngine, "invalid engine: %q (must be one of: auto, rsvg, native, graphviz)", engine)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if !(o.DancerWidth >= 0) || math.IsInf(o.DancerWidth, 0) {
		return errs.New(errs.ErrCodeInvalidInput, "dancer_width must be positive, got %v", o.DancerWidth)
	}
	if math.IsNaN(o.BaselineShift) || math.IsInf(o.BaselineShift, 0) {
		return errs.New(errs.ErrCodeInvalidInput, "baseline_shift must be finite, got %v", o.BaselineShift)
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.DancerWidth == 0 {
		o.DancerWidth = formation.DancerWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsGraphviz returns true if svg and png go through Graphviz.
func (o *Options) IsGraphviz() bool {
	return o.Engine == EngineGraphviz
}

// rasterEngine returns the back-end that rasterizes PNGs. "auto" is
// resolved unless a Rasterizer was injected.
func (o *Options) rasterEngine() string {
	if o.Rasterizer != nil {
		return o.Engine
	}
	return raster.Resolve(o.Engine)
}

// ArtifactKeyOpts returns cache key options for one format. The engine is
// only part of the key when it changes the bytes of that format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG:
		switch {
		case o.IsGraphviz():
			k.Engine = o.Engine
		case format == FormatPNG:
			k.Engine = o.rasterEngine()
		}
		if !o.IsGraphviz() {
			k.DancerWidth = o.DancerWidth
			k.Background = o.Background
			k.BaselineShift = o.BaselineShift
		}
	}
	return k
}
