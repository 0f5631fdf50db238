package bot

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/formationbot/pkg/cache"
	errs "github.com/matzehuels/formationbot/pkg/errors"
	"github.com/matzehuels/formationbot/pkg/pipeline"
)

// TokenEnv overrides the token from the config file.
const TokenEnv = "FORMATIONBOT_DISCORD_TOKEN"

// DefaultMaxParallel bounds concurrent rasterizations per message.
const DefaultMaxParallel = 4

// Config is the bot configuration file.
//
//	discord_token = "..."
//	start_tag     = "/f"
//	end_tag       = "f/"
//	comment_tag   = "://"
//	log_level     = "info"
//	engine        = "auto"
//
//	[cache]
//	kind = "file"
//	ttl  = "168h"
type Config struct {
	DiscordToken string      `toml:"discord_token"`
	StartTag     string      `toml:"start_tag"`
	EndTag       string      `toml:"end_tag"`
	CommentTag   string      `toml:"comment_tag"`
	LogLevel     string      `toml:"log_level"`
	Engine       string      `toml:"engine"`
	MaxParallel  int         `toml:"max_parallel"`
	DancerWidth  float64     `toml:"dancer_width"`
	Background   string      `toml:"background"`
	Cache        CacheConfig `toml:"cache"`
}

// CacheConfig selects the artifact store.
type CacheConfig struct {
	Kind      string `toml:"kind"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
	Prefix    string `toml:"prefix"`
}

// DefaultConfig returns a configuration with every default applied and no
// token.
func DefaultConfig() Config {
	return Config{
		StartTag:    DefaultStartTag,
		EndTag:      DefaultEndTag,
		CommentTag:  DefaultCommentTag,
		LogLevel:    "info",
		Engine:      pipeline.DefaultEngine,
		MaxParallel: DefaultMaxParallel,
		Cache:       CacheConfig{Kind: cache.KindFile},
	}
}

// LoadConfig reads the TOML file at path over the defaults. envFiles are
// loaded into the process environment first (".env" when none are given;
// missing files are ignored), then TokenEnv overrides the file's token.
// An empty path skips the file.
func LoadConfig(path string, envFiles ...string) (*Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}
	if token := os.Getenv(TokenEnv); token != "" {
		cfg.DiscordToken = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "discord_token is required (or set %s)", TokenEnv)
	}
	if c.StartTag == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "start_tag must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "log_level")
	}
	if err := pipeline.ValidateEngine(c.Engine); err != nil {
		return err
	}
	if c.MaxParallel < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_parallel must not be negative")
	}
	if c.DancerWidth < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "dancer_width must not be negative")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// Tags returns the snippet delimiters.
func (c *Config) Tags() Tags {
	return Tags{Start: c.StartTag, End: c.EndTag, Comment: c.CommentTag}
}

// Level returns the parsed log level, info when invalid.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// CacheOptions returns the store options for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{Kind: c.Cache.Kind, Dir: c.Cache.Dir, RedisAddr: c.Cache.RedisAddr}
}

// CacheTTL returns the artifact lifetime, cache.DefaultTTL when unset.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return d, nil
}

// PipelineOptions returns the render options shared by every snippet.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Formats:     []string{pipeline.FormatPNG},
		Engine:      c.Engine,
		DancerWidth: c.DancerWidth,
		Background:  c.Background,
	}
}
