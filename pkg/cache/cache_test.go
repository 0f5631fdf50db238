package cache

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v; want clean miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir removed: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

// artifactKey returns k's key for opts and fails the test on error.
func artifactKey(t *testing.T, k Keyer, notationHash string, opts ArtifactKeyOpts) string {
	t.Helper()
	key, err := k.ArtifactKey(notationHash, opts)
	if err != nil {
		t.Fatalf("ArtifactKey(%+v) error: %v", opts, err)
	}
	return key
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	h := Hash([]byte("r1> b2<"))

	base := ArtifactKeyOpts{Format: "png", Engine: "native"}
	tests := []struct {
		name string
		opts ArtifactKeyOpts
	}{
		{"format", ArtifactKeyOpts{Format: "svg", Engine: "native"}},
		{"engine", ArtifactKeyOpts{Format: "png", Engine: "rsvg"}},
		{"width", ArtifactKeyOpts{Format: "png", Engine: "native", DancerWidth: 50}},
		{"background", ArtifactKeyOpts{Format: "png", Engine: "native", Background: "white"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if artifactKey(t, k, h, base) == artifactKey(t, k, h, tt.opts) {
				t.Error("different options produced the same key")
			}
		})
	}

	key := artifactKey(t, k, h, base)
	if key != artifactKey(t, k, h, base) {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(key, "artifact:") {
		t.Errorf("unexpected key %q", key)
	}
}

func TestArtifactKeyUnencodable(t *testing.T) {
	tests := []struct {
		name string
		opts ArtifactKeyOpts
	}{
		{"nan width", ArtifactKeyOpts{Format: "png", DancerWidth: math.NaN()}},
		{"infinite width", ArtifactKeyOpts{Format: "png", DancerWidth: math.Inf(1)}},
		{"nan baseline", ArtifactKeyOpts{Format: "svg", BaselineShift: math.NaN()}},
	}

	for _, k := range []Keyer{NewDefaultKeyer(), NewScopedKeyer(nil, "p:")} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if key, err := k.ArtifactKey("h", tt.opts); err == nil {
					t.Errorf("ArtifactKey() = %q, want an error", key)
				}
			})
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")
	opts := ArtifactKeyOpts{Format: "svg"}

	want := "staging:" + artifactKey(t, inner, "h", opts)
	if got := artifactKey(t, scoped, "h", opts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}

	// Should use DefaultKeyer when inner is nil
	if got := artifactKey(t, NewScopedKeyer(nil, "p:"), "h", opts); got != "p:"+artifactKey(t, inner, "h", opts) {
		t.Errorf("nil inner: %q", got)
	}
	if _, ok := NewScopedKeyer(inner, "").(DefaultKeyer); !ok {
		t.Error("empty prefix should return the inner keyer")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Kind: KindFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("Open(file) = %T", c)
	}

	c, err = Open(ctx, Options{Kind: KindNone})
	if err != nil {
		t.Fatalf("Open(none) error: %v", err)
	}
	if _, ok := c.(NullCache); !ok {
		t.Errorf("Open(none) = %T", c)
	}

	if _, err := Open(ctx, Options{Kind: "memcached"}); err == nil {
		t.Error("Open(memcached) should fail")
	}
	if _, err := Open(ctx, Options{Kind: KindRedis}); err == nil {
		t.Error("Open(redis) without address should fail")
	}
}

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", "formationbot"); dir != want {
		t.Errorf("DefaultDir() = %q, want %q", dir, want)
	}
}
