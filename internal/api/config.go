package api

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"

	"github.com/z9m/backdrop/pkg/assets"
	"github.com/z9m/backdrop/pkg/cache"
	"github.com/z9m/backdrop/pkg/httputil"
	"github.com/z9m/backdrop/pkg/layout"
	"github.com/z9m/backdrop/pkg/pipeline"
	"github.com/z9m/backdrop/pkg/profile"
)

// EnvPrefix is prepended to every server environment variable.
const EnvPrefix = "BACKDROP"

// Config holds the server settings read from the environment.
type Config struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	// RedisURL enables the shared layout cache. Empty disables caching.
	RedisURL string `envconfig:"REDIS_URL"`

	// MongoURI selects the MongoDB profile store. Empty falls back to the
	// JSON file at ProfilesPath.
	MongoURI     string `envconfig:"MONGO_URI"`
	MongoDB      string `envconfig:"MONGO_DB" default:"backdrop"`
	ProfilesPath string `envconfig:"PROFILES_PATH"`

	// AssetRoot confines local image reads. Empty disables local reads.
	AssetRoot string `envconfig:"ASSET_ROOT"`

	// MediaURL resolves root-relative image paths such as
	// /Items/{id}/Images/Backdrop against the media server.
	MediaURL string `envconfig:"MEDIA_URL"`

	AssetTimeout time.Duration `envconfig:"ASSET_TIMEOUT" default:"10s"`
	MaxBodyBytes int64         `envconfig:"MAX_BODY_BYTES" default:"4194304"`
}

// LoadConfig reads BACKDROP_* variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, err
	}
	if cfg.AssetTimeout <= 0 || cfg.AssetTimeout > pipeline.MaxAssetTimeout {
		return nil, fmt.Errorf("%s_ASSET_TIMEOUT must be between 0 and %s", EnvPrefix, pipeline.MaxAssetTimeout)
	}
	return &cfg, nil
}

// NewRunner connects the configured backends and returns a runner over them.
// The caller owns the runner and must Close it.
func NewRunner(ctx context.Context, cfg *Config, engine layout.Config, logger *log.Logger) (*pipeline.Runner, error) {
	var c cache.Cache = cache.NewNullCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c = rc
		logger.Info("using redis cache")
	}

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var fetchOpts []httputil.FetcherOption
	if cfg.MediaURL != "" {
		fetchOpts = append(fetchOpts, httputil.WithBaseURL(cfg.MediaURL))
	}
	router := assets.Router{Remote: httputil.NewFetcher(fetchOpts...)}
	if cfg.AssetRoot != "" {
		router.Local = assets.FileOpener{Root: cfg.AssetRoot}
	}
	keyer := cache.NewScopedKeyer(nil, "backdrop")
	prober := assets.NewProber(router, assets.WithCache(c, keyer))

	return pipeline.NewRunner(c, keyer, logger,
		pipeline.WithProfiles(store),
		pipeline.WithProber(prober),
		pipeline.WithLayoutConfig(engine),
	), nil
}

func newStore(ctx context.Context, cfg *Config, logger *log.Logger) (profile.Store, error) {
	if cfg.MongoURI != "" {
		s, err := profile.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		logger.Info("using mongodb profile store", "database", cfg.MongoDB)
		return s, nil
	}
	s, err := profile.NewFileStore(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}
	logger.Info("using file profile store", "path", s.Path())
	return s, nil
}
