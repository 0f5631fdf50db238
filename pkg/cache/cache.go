// Package cache stores rendered formation artifacts.
//
// # Overview
//
// Rendering is cheap but rasterizing is not, and bots see the same
// formations over and over. A [Cache] keeps encoded artifacts (SVG, PNG,
// JSON, DOT bytes) keyed by the notation and render options that produced
// them.
//
// # Implementations
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared store for bot and server deployments
//   - [NullCache]: caching disabled
//
// All implementations are safe for concurrent use.
//
// # Keys
//
// A [Keyer] derives keys. [DefaultKeyer] hashes the notation together with
// the options; [ScopedKeyer] adds a prefix so several deployments can share
// one Redis database.
//
//	k := cache.NewScopedKeyer(nil, "prod:")
//	key, err := k.ArtifactKey(cache.Hash([]byte(notation)), cache.ArtifactKeyOpts{Format: "png", Engine: "native"})
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts live when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for artifacts.
type Keyer interface {
	ArtifactKey(notationHash string, opts ArtifactKeyOpts) (string, error)
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Engine        string  `json:"engine,omitempty"`
	DancerWidth   float64 `json:"dancer_width,omitempty"`
	Background    string  `json:"background,omitempty"`
	BaselineShift float64 `json:"baseline_shift,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(notationHash string, opts ArtifactKeyOpts) (string, error) {
	return hashKey("artifact", notationHash, opts)
}
