// Package config loads the backdrop TOML configuration file.
//
// The file is optional. Every section has defaults, and a missing file at the
// default location is not an error:
//
//	[layout]
//	h_spacing = 24
//	min_anchor_height = 40
//
//	[cache]
//	ttl = "72h"
//
//	[profiles]
//	path = "~/.config/backdrop/overlays.json"
//
//	[assets]
//	root = "/srv/backdrops"
//	timeout = "5s"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/layout"
)

const (
	appName  = "backdrop"
	fileName = "config.toml"

	// DefaultAssetTimeout bounds the wait for image dimensions.
	DefaultAssetTimeout = 10 * time.Second

	// DefaultBrightness is the percentage applied to detected ambient colours.
	DefaultBrightness = 20
)

// Config is the decoded configuration file.
type Config struct {
	Layout   layout.Config `toml:"layout"`
	Cache    Cache         `toml:"cache"`
	Profiles Profiles      `toml:"profiles"`
	Assets   Assets        `toml:"assets"`
}

// Cache selects and tunes the layout cache.
type Cache struct {
	// Dir is the file cache directory. Empty means the XDG cache dir.
	Dir      string   `toml:"dir"`
	Disabled bool     `toml:"disabled"`
	TTL      Duration `toml:"ttl"`
}

// Profiles locates the overlay profile store. MongoURI takes precedence
// over Path when both are set.
type Profiles struct {
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Assets controls image probing.
type Assets struct {
	// Root resolves relative element sources.
	Root       string   `toml:"root"`
	Timeout    Duration `toml:"timeout"`
	Brightness int      `toml:"brightness"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	c.Layout.SetDefaults()
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 7 * 24 * time.Hour
	}
	if c.Profiles.MongoDatabase == "" {
		c.Profiles.MongoDatabase = appName
	}
	if c.Assets.Timeout.Duration == 0 {
		c.Assets.Timeout.Duration = DefaultAssetTimeout
	}
	if c.Assets.Brightness == 0 {
		c.Assets.Brightness = DefaultBrightness
	}
}

// Validate checks the decoded values.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl cannot be negative")
	}
	if c.Assets.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "asset timeout cannot be negative")
	}
	if c.Assets.Brightness < 0 || c.Assets.Brightness > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "brightness must be between 0 and 100, got %d", c.Assets.Brightness)
	}
	return nil
}

// Load reads the file at path. An empty path reads the default location and
// tolerates it being absent.
func Load(path string) (Config, error) {
	optional := path == ""
	if optional {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML, rejecting unknown keys, then applies defaults.
func Parse(data []byte) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	c.SetDefaults()
	c.Profiles.Path = expandHome(c.Profiles.Path)
	c.Cache.Dir = expandHome(c.Cache.Dir)
	c.Assets.Root = expandHome(c.Assets.Root)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/backdrop/config.toml).
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Dir returns the XDG config directory for backdrop.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the XDG cache directory for backdrop (~/.cache/backdrop/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
