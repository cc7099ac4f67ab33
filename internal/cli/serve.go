package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/z9m/backdrop/internal/api"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Backends are configured through the environment:

  BACKDROP_ADDR            listen address (default :8080)
  BACKDROP_REDIS_URL       shared layout cache
  BACKDROP_MONGO_URI       MongoDB profile store (BACKDROP_MONGO_DB names the database)
  BACKDROP_PROFILES_PATH   JSON profile store when MongoDB is not set
  BACKDROP_ASSET_ROOT      directory for local image paths
  BACKDROP_MEDIA_URL       base URL for root-relative image paths
  BACKDROP_ASSET_TIMEOUT   image wait per request (default 10s)

Layout tunables are read from the [layout] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := api.LoadConfig()
			if err != nil {
				return fmt.Errorf("load environment: %w", err)
			}
			if addr != "" {
				env.Addr = addr
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := api.NewRunner(ctx, env, cfg.Layout, c.Logger)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := api.New(runner, c.Logger,
				api.WithAssetTimeout(env.AssetTimeout),
				api.WithMaxBodyBytes(env.MaxBodyBytes),
			)
			return srv.Run(ctx, env.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides BACKDROP_ADDR)")
	return cmd
}
