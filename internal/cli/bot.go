package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/formationbot/pkg/bot"
	"github.com/matzehuels/formationbot/pkg/cache"
	"github.com/matzehuels/formationbot/pkg/pipeline"
)

// botCommand creates the bot command for running the Discord bot.
func (c *CLI) botCommand() *cobra.Command {
	var (
		configPath string
		envFiles   []string
	)

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot",
		Long: `Run the Discord bot.

The bot reads every message it can see and replies with one PNG per
formation snippet. Snippets are delimited by start_tag and end_tag (default
"/f" and "f/"); text after comment_tag ("://") is ignored.

The token is read from the config file or the ` + bot.TokenEnv + `
environment variable, which may also be set in a .env file.`,
		Example: `  formationbot bot --config config.toml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bot.LoadConfig(configPath, envFiles...)
			if err != nil {
				return err
			}
			if c.Logger.GetLevel() > LogDebug {
				c.SetLogLevel(cfg.Level())
			}
			ctx := cmd.Context()
			logger := c.Logger.WithPrefix("bot")

			ttl, err := cfg.CacheTTL()
			if err != nil {
				return err
			}
			store, err := cache.Open(ctx, cfg.CacheOptions())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, cfg.Cache.Prefix), logger)
			runner.TTL = ttl
			defer runner.Close()

			d, err := bot.NewDiscord(cfg.DiscordToken, bot.NewHandler(cfg, runner, logger), logger)
			if err != nil {
				return fmt.Errorf("create discord session: %w", err)
			}
			printInfo("Starting bot with tags %s … %s", StyleHighlight.Render(cfg.StartTag), StyleHighlight.Render(cfg.EndTag))
			return d.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv file(s) to load (default .env)")

	return cmd
}
