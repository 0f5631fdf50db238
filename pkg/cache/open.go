package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store kinds accepted by Open.
const (
	KindFile  = "file"
	KindRedis = "redis"
	KindNone  = "none"
)

// Options selects and configures a store.
type Options struct {
	Kind      string // file (default), redis or none
	Dir       string // file: directory, default DefaultDir()
	RedisAddr string // redis: host:port or redis:// URL
}

// Open returns the store described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Kind {
	case "", KindFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileCache(dir)
	case KindRedis:
		return NewRedisCache(ctx, opts.RedisAddr)
	case KindNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache kind %q (valid: file, redis, none)", opts.Kind)
	}
}

// DefaultDir returns ~/.cache/formationbot.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "formationbot"), nil
}
