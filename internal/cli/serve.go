package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/formationbot/pkg/cache"
	"github.com/matzehuels/formationbot/pkg/pipeline"
	"github.com/matzehuels/formationbot/pkg/server"
)

// defaultAddr is the listen address of the HTTP service.
const defaultAddr = ":8080"

// serveCommand creates the serve command for running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		cacheOpts cache.Options
		prefix    string
		ttl       time.Duration
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Routes:
  GET  /healthz
  GET  /v1/formation.{svg,png,json,dot}?f=<notation>
  POST /v1/render/{svg,png,json,dot}   (notation in the body)

Artifacts are cached in the local cache directory by default; use
--cache redis --redis-addr host:6379 to share a cache between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateEngine(opts.Engine); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if cacheOpts.Kind == cache.KindFile && cacheOpts.Dir == "" {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				cacheOpts.Dir = dir
			}
			store, err := cache.Open(ctx, cacheOpts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}

			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, prefix), logger)
			runner.TTL = ttl
			defer runner.Close()

			printInfo("Serving formations on %s", StyleLink.Render(addr))
			printKeyValue("Engine", opts.Engine)
			printKeyValue("Cache", cacheOpts.Kind)
			return server.New(runner, logger, server.WithDefaults(opts)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.Engine, "engine", opts.Engine, "default render engine: auto, rsvg, native, graphviz")
	cmd.Flags().Float64Var(&opts.DancerWidth, "width", opts.DancerWidth, "default pixels per grid unit")
	cmd.Flags().StringVar(&opts.Background, "bg", "", "default background paint")
	cmd.Flags().StringVar(&cacheOpts.Kind, "cache", cache.KindFile, "artifact cache: file, redis, none")
	cmd.Flags().StringVar(&cacheOpts.Dir, "cache-dir", "", "file cache directory (default: user cache dir)")
	cmd.Flags().StringVar(&cacheOpts.RedisAddr, "redis-addr", "localhost:6379", "redis address or redis:// URL")
	cmd.Flags().StringVar(&prefix, "cache-prefix", "", "prefix for cache keys")
	cmd.Flags().DurationVar(&ttl, "ttl", cache.DefaultTTL, "artifact time to live")

	return cmd
}
