package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/formationbot/pkg/cache"
	"github.com/matzehuels/formationbot/pkg/formation"
	"github.com/matzehuels/formationbot/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP service and the bot all use it so caching behaves the
// same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete parse → render → rasterize pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		NotationHash: cache.Hash([]byte(opts.Notation)),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	f := formation.Parse(opts.Notation)
	result.Formation = f
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.DancerCount = f.Len()
	result.Stats.Width, result.Stats.Height = f.View().PixelSize(opts.DancerWidth)
	observability.Pipeline().OnParseComplete(ctx, len(opts.Notation), f.Len(), result.Stats.ParseTime)

	r.Logger.Debug("parsed formation",
		"dancers", f.Len(),
		"duration", result.Stats.ParseTime)

	// Stage 2 and 3: Render and rasterize
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, info, err := r.RenderWithCacheInfo(ctx, f, result.NotationHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo = info

	r.Logger.Info("rendered formation",
		"dancers", f.Len(),
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo generates artifacts with per-format caching and
// returns which formats were served from the cache. Cache failures are
// logged and treated as misses.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f formation.Formation, notationHash string, opts Options) (map[string][]byte, CacheInfo, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	hooks := observability.Cache()

	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		key, err := r.Keyer.ArtifactKey(notationHash, opts.ArtifactKeyOpts(format))
		if err != nil {
			return nil, CacheInfo{}, fmt.Errorf("cache key for %s: %w", format, err)
		}

		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err == nil && hit {
				hooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
			hooks.OnCacheMiss(ctx, format)
		}

		data, err := RenderFormat(ctx, f, format, opts)
		if err != nil {
			return nil, CacheInfo{}, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}

	info.RenderHit = len(opts.Formats) > 0 && len(info.Hits) == len(opts.Formats)
	return artifacts, info, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
