// Package cli implements the backdrop command-line interface.
//
// The CLI lays out scene files, manages overlay profiles and the local
// caches, and runs the HTTP server. It is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Fill a scene with metadata and lay it out
//   - profiles: Manage overlay profiles and their blocked areas
//   - cache: Manage the layout and image caches
//   - config: Show or create the configuration file
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	import "github.com/z9m/backdrop/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/z9m/backdrop/pkg/assets"
	"github.com/z9m/backdrop/pkg/buildinfo"
	"github.com/z9m/backdrop/pkg/cache"
	"github.com/z9m/backdrop/pkg/config"
	"github.com/z9m/backdrop/pkg/httputil"
	"github.com/z9m/backdrop/pkg/pipeline"
	"github.com/z9m/backdrop/pkg/profile"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "backdrop"

	// Subdirectories of the cache directory.
	layoutCacheDir = "layout"
	httpCacheDir   = "http"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config. Empty means the XDG default.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Backdrop lays out promotional backdrops around overlays",
		Long:         `Backdrop fills backdrop scenes with media metadata, packs the text and logo elements around the areas covered by display overlays, and generates the fades that keep them readable.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/backdrop/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the --config file, or the default file when present.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use from cfg.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		dir = d
	}

	lc, err := newCache(dir, noCache || cfg.Cache.Disabled)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg.Profiles)
	if err != nil {
		_ = lc.Close()
		return nil, err
	}

	var fetchOpts []httputil.FetcherOption
	if !noCache {
		if hc, err := httputil.NewCache(filepath.Join(dir, httpCacheDir), cfg.Cache.TTL.Duration); err == nil {
			fetchOpts = append(fetchOpts, httputil.WithCache(hc))
		} else {
			c.Logger.Warn("image cache unavailable", "error", err)
		}
	}
	router := assets.Router{
		Remote: httputil.NewFetcher(fetchOpts...),
		Local:  assets.FileOpener{Root: cfg.Assets.Root},
	}
	keyer := cache.NewDefaultKeyer()
	prober := assets.NewProber(router, assets.WithCache(lc, keyer))

	return pipeline.NewRunner(lc, keyer, c.Logger,
		pipeline.WithProfiles(store),
		pipeline.WithProber(prober),
		pipeline.WithLayoutConfig(cfg.Layout),
		pipeline.WithTTL(cfg.Cache.TTL.Duration),
	), nil
}

func newCache(dir string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, layoutCacheDir))
}

// openStore opens the profile store named by cfg. MongoDB wins when both a
// URI and a path are set.
func openStore(ctx context.Context, cfg config.Profiles) (profile.Store, error) {
	if cfg.MongoURI != "" {
		s, err := profile.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		return s, nil
	}
	return profile.NewFileStore(cfg.Path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/backdrop/).
func cacheDir() (string, error) {
	return config.CacheDir()
}
