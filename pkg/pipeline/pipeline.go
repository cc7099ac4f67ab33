// Package pipeline turns a stored scene and a media item into a laid-out
// composition.
//
// The pipeline consists of four stages:
//
//  1. Prepare: normalise the canvas, write metadata into the text tags and
//     swap in the item's backdrop and logo
//  2. Colour: derive the background and fade colour from the backdrop
//  3. Await: wait until every image element knows its intrinsic size
//  4. Layout: resolve blocked areas and run the layout engine
//
// # Usage
//
// Create a [Runner] and call [Runner.Execute]:
//
//	runner := pipeline.NewRunner(cache, keyer, logger,
//	    pipeline.WithProfiles(store),
//	    pipeline.WithProber(prober),
//	)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, s, pipeline.Options{
//	    Metadata:    metadata.Metadata{Title: "Dune", Year: "2021"},
//	    BackdropURL: "/Items/42/Images/Backdrop",
//	    AutoColor:   true,
//	})
//
// # Caching
//
// Layout results are cached by the hash of the prepared scene together with
// the engine configuration. Because preparation runs first, two requests for
// the same template and item share one entry. Set [Options.Refresh] to
// bypass the cache.
//
// # Warnings
//
// Conditions that do not stop the pipeline (an unknown profile, an asset
// that never loaded, a tag that still overlaps a blocked area) are logged at
// warn level and returned on [Result.Warnings].
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/z9m/backdrop/pkg/cache"
	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/layout"
	"github.com/z9m/backdrop/pkg/metadata"
	"github.com/z9m/backdrop/pkg/profile"
	"github.com/z9m/backdrop/pkg/scene"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultAssetTimeout bounds how long Execute waits for image sizes.
	DefaultAssetTimeout = 10 * time.Second

	// DefaultPollInterval is the delay between two size probes of one asset.
	DefaultPollInterval = 250 * time.Millisecond

	// MaxAssetTimeout caps caller-supplied timeouts.
	MaxAssetTimeout = 2 * time.Minute
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline execution. The zero value lays out the
// scene as stored.
type Options struct {
	// Metadata is written into the scene's text tags. Zero leaves them alone.
	Metadata metadata.Metadata `json:"metadata,omitempty"`

	// BackdropURL and LogoURL replace the background and title images.
	BackdropURL string `json:"backdrop_url,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`

	// ProfileID overrides the profile named by the scene.
	ProfileID string `json:"profile_id,omitempty"`

	// Brightness overrides the scene's ambient brightness percentage.
	Brightness *int `json:"brightness,omitempty"`

	// AutoColor derives the background and fade colour from the backdrop.
	AutoColor bool `json:"auto_color,omitempty"`

	// KeepCanvas skips normalising the canvas to 1920x1080 or 3840x2160.
	KeepCanvas bool `json:"keep_canvas,omitempty"`

	// SkipFades leaves existing fade shapes untouched.
	SkipFades bool `json:"skip_fades,omitempty"`

	// Guide adds the profile's overlay image on top of the scene.
	Guide bool `json:"guide,omitempty"`

	// Refresh bypasses the layout cache.
	Refresh bool `json:"refresh,omitempty"`

	// AssetTimeout bounds the wait for image sizes. Zero means
	// DefaultAssetTimeout.
	AssetTimeout time.Duration `json:"-"`

	// PollInterval is the delay between size probes. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration `json:"-"`

	// Runtime-only fields (not serialized)
	Logger    *log.Logger `json:"-"`
	validated bool
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.AssetTimeout == 0 {
		o.AssetTimeout = DefaultAssetTimeout
	}
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
}

// Validate checks the option values. It does not apply defaults.
func (o *Options) Validate() error {
	if o.Brightness != nil && (*o.Brightness < 0 || *o.Brightness > 100) {
		return errors.New(errors.ErrCodeInvalidInput, "brightness must be between 0 and 100, got %d", *o.Brightness)
	}
	if o.AssetTimeout < 0 || o.AssetTimeout > MaxAssetTimeout {
		return errors.New(errors.ErrCodeInvalidInput,
			"asset timeout must be between 0 and %s, got %s", MaxAssetTimeout, o.AssetTimeout)
	}
	if o.PollInterval < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "poll interval must not be negative")
	}
	if o.ProfileID != "" {
		if err := errors.ValidateLayoutName(o.ProfileID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid profile id %q", o.ProfileID)
		}
	}
	return nil
}

// ValidateAndSetDefaults validates the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Validate(); err != nil {
		return err
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for a prepared scene.
func (o *Options) LayoutKeyOpts(s *scene.Scene, cfg layout.Config) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ProfileID: s.ProfileID,
		Width:     int(s.Canvas.Width),
		Fades:     !o.SkipFades,
		Settings:  cfg,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs from a pipeline execution.
type Result struct {
	Scene       *scene.Scene       `json:"scene"`
	Diagnostics layout.Diagnostics `json:"diagnostics"`

	// Profile says where the blocked areas came from.
	Profile ProfileInfo `json:"profile"`

	// Warnings collects every non-fatal condition, in the order met.
	Warnings []string `json:"warnings,omitempty"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// ProfileInfo summarises the blocked-area resolution.
type ProfileInfo struct {
	ID      string         `json:"id,omitempty"`
	Name    string         `json:"name,omitempty"`
	Source  profile.Source `json:"source"`
	Overlay string         `json:"overlay,omitempty"`
	Missing bool           `json:"missing,omitempty"`
	Areas   int            `json:"areas"`
}

// Stats contains timing and size information about an execution.
type Stats struct {
	Elements    int           `json:"elements"`
	TagsFilled  int           `json:"tags_filled"`
	AssetWait   time.Duration `json:"asset_wait"`
	AssetsTimed bool          `json:"assets_timed_out,omitempty"`
	LayoutTime  time.Duration `json:"layout_time"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
}
