package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/z9m/backdrop/pkg/assets"
	"github.com/z9m/backdrop/pkg/cache"
	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/httputil"
	"github.com/z9m/backdrop/pkg/layout"
	"github.com/z9m/backdrop/pkg/metadata"
	"github.com/z9m/backdrop/pkg/observability"
	"github.com/z9m/backdrop/pkg/profile"
	"github.com/z9m/backdrop/pkg/scene"
)

// maxProbes bounds concurrent asset probes in one execution.
const maxProbes = 8

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that preparation and caching live in one place.
//
// The Runner holds no per-scene state. Multiple goroutines can safely use the
// same Runner with different scenes and options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Profiles profile.Store
	Prober   *assets.Prober
	Layout   layout.Config

	// TTL is how long a laid-out scene stays in Cache.
	TTL time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithProfiles resolves blocked areas through store.
func WithProfiles(store profile.Store) RunnerOption {
	return func(r *Runner) { r.Profiles = store }
}

// WithProber reads image sizes and ambient colours through p. Without a
// prober, backdrop and logo replacement and colour detection are skipped and
// unsized images defer the layout.
func WithProber(p *assets.Prober) RunnerOption {
	return func(r *Runner) { r.Prober = p }
}

// WithLayoutConfig sets the engine tunables.
func WithLayoutConfig(cfg layout.Config) RunnerOption {
	return func(r *Runner) { r.Layout = cfg }
}

// WithTTL overrides cache.LayoutTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.TTL = d
		}
	}
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...RunnerOption) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Layout: layout.DefaultConfig(),
		TTL:    cache.LayoutTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute prepares s for the media item described by opts and lays it out.
// The input scene is never modified.
//
// Only invalid input, an unreachable profile store and context cancellation
// fail the call. Everything else is reported on Result.Warnings.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	work := s.Clone()
	work.SetDefaults()
	if err := work.Validate(); err != nil {
		return nil, err
	}

	x := &execution{
		runner: r,
		opts:   &opts,
		res:    &Result{},
		id:     sceneID(s),
	}

	x.prepare(ctx, work)
	x.colour(ctx, work)
	if err := x.resolveProfile(ctx, work); err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if err := x.await(ctx, work); err != nil {
		return nil, fmt.Errorf("await assets: %w", err)
	}
	metadata.SyncTextAlign(work)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, x.id, len(work.Elements))
	start := time.Now()

	lr, hit, err := r.LayoutWithCacheInfo(ctx, work, opts, x.res.Stats.AssetsTimed)
	if err != nil {
		hooks.OnLayoutComplete(ctx, x.id, 0, time.Since(start), err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	x.res.Stats.LayoutTime = time.Since(start)
	x.res.CacheInfo.LayoutHit = hit
	hooks.OnLayoutComplete(ctx, x.id, len(lr.Diagnostics.Unresolved), x.res.Stats.LayoutTime, nil)

	for _, w := range lr.Diagnostics.Warnings() {
		x.warn(ctx, w)
	}
	if opts.Guide {
		addGuide(lr.Scene, x.res.Profile.Overlay)
	}

	x.res.Scene = lr.Scene
	x.res.Diagnostics = lr.Diagnostics
	x.res.Stats.Elements = len(lr.Scene.Elements)

	opts.Logger.Info("laid out scene",
		"elements", x.res.Stats.Elements,
		"profile", x.res.Profile.Source,
		"cached", hit,
		"duration", x.res.Stats.LayoutTime)
	return x.res, nil
}

// LayoutWithCacheInfo runs the engine over a prepared scene and reports
// whether the result came from cache. With permissive set, images without
// a known size do not defer the pass.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options, permissive bool) (*layout.Result, bool, error) {
	data, err := scene.Marshal(s)
	if err != nil {
		return nil, false, err
	}
	keyOpts := opts.LayoutKeyOpts(s, r.Layout)
	keyOpts.Permissive = permissive
	key := r.Keyer.LayoutKey(cache.Hash(data), keyOpts)

	if !opts.Refresh {
		if cached, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var res layout.Result
			if json.Unmarshal(cached, &res) == nil && res.Scene != nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				r.Logger.Debug("layout cache hit", "key", key)
				return &res, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	engineOpts := []layout.Option{}
	if opts.SkipFades {
		engineOpts = append(engineOpts, layout.WithoutFades())
	}
	if permissive {
		engineOpts = append(engineOpts, layout.WithAssetChecker(layout.AssetCheckerFunc(func(*scene.Element) bool { return true })))
	}
	engine, err := layout.New(r.Layout, engineOpts...)
	if err != nil {
		return nil, false, err
	}
	res, err := engine.Run(s)
	if err != nil {
		return nil, false, err
	}

	// A deferred pass is retried by the caller, so it is never stored.
	if !res.Diagnostics.Deferred {
		if b, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, key, b, r.TTL); err != nil {
				r.Logger.Warn("layout cache write failed", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "layout", len(b))
			}
		}
	}
	return res, false, nil
}

// Close releases the runner's cache and profile store.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.Profiles != nil {
		if err := r.Profiles.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close runner: %v", errs)
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Stages
// =============================================================================

// execution carries the state of one Execute call.
type execution struct {
	runner *Runner
	opts   *Options
	res    *Result
	id     string
}

func (x *execution) warn(ctx context.Context, msg string) {
	x.opts.Logger.Warn(msg)
	x.res.Warnings = append(x.res.Warnings, msg)
	observability.Pipeline().OnDiagnostic(ctx, x.id, msg)
}

// prepare normalises the canvas, fills metadata and swaps in the item's
// images. A replacement image that cannot be read leaves the old one.
func (x *execution) prepare(ctx context.Context, s *scene.Scene) {
	o := x.opts
	if !o.KeepCanvas {
		s.Canvas = scene.BaseCanvas(s.Canvas.Width)
	}
	if o.ProfileID != "" {
		s.ProfileID = o.ProfileID
	}
	if o.Brightness != nil {
		b := *o.Brightness
		s.BackgroundBrightness = &b
	}
	if !o.Metadata.IsZero() {
		x.res.Stats.TagsFilled = metadata.Apply(s, o.Metadata)
	}

	if o.BackdropURL == "" && o.LogoURL == "" {
		return
	}
	if x.runner.Prober == nil {
		x.warn(ctx, "no asset reader configured; backdrop and logo left unchanged")
		return
	}
	if o.BackdropURL != "" {
		if w, h, err := x.waitDimensions(ctx, o.BackdropURL); err != nil {
			x.warn(ctx, fmt.Sprintf("backdrop %s not loaded: %v", o.BackdropURL, err))
		} else {
			assets.ReplaceBackground(s, o.BackdropURL, w, h)
		}
	}
	if o.LogoURL != "" {
		if w, h, err := x.waitDimensions(ctx, o.LogoURL); err != nil {
			x.warn(ctx, fmt.Sprintf("logo %s not loaded: %v", o.LogoURL, err))
		} else if !assets.ReplaceLogo(s, o.LogoURL, w, h) {
			x.warn(ctx, "scene has no title element; logo not placed")
		}
	}
}

// colour sets the background and fade colour from the backdrop's border.
func (x *execution) colour(ctx context.Context, s *scene.Scene) {
	if !x.opts.AutoColor || x.runner.Prober == nil {
		return
	}
	i := s.Background()
	if i < 0 || s.Elements[i].Src == "" {
		return
	}
	ambient, err := x.runner.Prober.Ambient(ctx, s.Elements[i].Src)
	if err != nil {
		x.warn(ctx, fmt.Sprintf("ambient colour not detected: %v", err))
		return
	}
	hex := assets.BackgroundColor(ambient, s.BackgroundBrightness)
	s.BackgroundColor = hex
	s.Fade.Color = hex
	x.opts.Logger.Debug("detected ambient colour", "color", hex)
}

// resolveProfile replaces the scene's blocked areas with those of its
// profile when the profile exists.
func (x *execution) resolveProfile(ctx context.Context, s *scene.Scene) error {
	res, err := profile.Resolve(ctx, x.runner.Profiles, s)
	if err != nil {
		return err
	}
	s.BlockedAreas = res.Areas

	info := ProfileInfo{Source: res.Source, Overlay: res.Overlay, Missing: res.Missing, Areas: len(res.Areas)}
	if res.Profile != nil {
		info.ID, info.Name = res.Profile.ID, res.Profile.Name
	}
	x.res.Profile = info

	if res.Missing {
		x.warn(ctx, fmt.Sprintf("profile %q not found; using the scene's blocked areas", s.ProfileID))
	}
	return nil
}

// await fills in the intrinsic size of every visible image element that
// lacks one. Assets still unsized when the wait ends are reported and the
// layout proceeds without them.
func (x *execution) await(ctx context.Context, s *scene.Scene) error {
	pending := pendingAssets(s)
	if len(pending) == 0 || x.runner.Prober == nil {
		return nil
	}

	hooks := observability.Pipeline()
	hooks.OnAssetWait(ctx, x.id, len(pending))
	start := time.Now()

	type probe struct {
		w, h int
		err  error
	}
	probes := make([]probe, len(pending))

	wctx, cancel := context.WithTimeout(ctx, x.opts.AssetTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(wctx)
	g.SetLimit(maxProbes)
	for n, i := range pending {
		src := s.Elements[i].Src
		g.Go(func() error {
			w, h, err := x.dimensions(gctx, src)
			probes[n] = probe{w, h, err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		hooks.OnAssetReady(ctx, x.id, time.Since(start), err)
		return err
	}

	var failed []string
	for n, i := range pending {
		el := &s.Elements[i]
		p := probes[n]
		if p.err != nil {
			failed = append(failed, el.ID)
			x.warn(ctx, fmt.Sprintf("%s %q not loaded: %v", el.Tag, el.ID, p.err))
			continue
		}
		el.Width, el.Height = float64(p.w), float64(p.h)
	}
	x.res.Stats.AssetWait = time.Since(start)
	x.res.Stats.AssetsTimed = len(failed) > 0

	var err error
	if len(failed) > 0 {
		err = errors.New(errors.ErrCodeAssetTimeout, "assets not loaded: %s", strings.Join(failed, ", "))
	}
	hooks.OnAssetReady(ctx, x.id, x.res.Stats.AssetWait, err)
	return nil
}

// dimensions probes src until it reports a non-zero size, a permanent error
// occurs or ctx ends. Missing files and transient network failures are
// retried every poll interval.
func (x *execution) dimensions(ctx context.Context, src string) (int, int, error) {
	for {
		w, h, err := x.runner.Prober.Dimensions(ctx, src)
		if err == nil && w > 0 && h > 0 {
			return w, h, nil
		}
		if err == nil {
			err = errors.New(errors.ErrCodeInvalidInput, "image reports zero size")
		} else if !transient(err) && ctx.Err() == nil {
			return 0, 0, err
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return 0, 0, errors.Wrap(errors.ErrCodeAssetTimeout, err, "timed out after %s", x.opts.AssetTimeout)
			}
			return 0, 0, ctx.Err()
		case <-time.After(x.opts.PollInterval):
		}
	}
}

// waitDimensions is dimensions bounded by the asset timeout.
func (x *execution) waitDimensions(ctx context.Context, src string) (int, int, error) {
	wctx, cancel := context.WithTimeout(ctx, x.opts.AssetTimeout)
	defer cancel()
	return x.dimensions(wctx, src)
}

func transient(err error) bool {
	return httputil.IsRetryable(err) || errors.Is(err, errors.ErrCodeFileNotFound)
}

// pendingAssets returns the indices of visible image elements with a source
// and no intrinsic size.
func pendingAssets(s *scene.Scene) []int {
	var out []int
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.Kind == scene.KindImage && el.Visible && el.Src != "" && !el.Ready() &&
			el.Role() != scene.RoleDecoration {
			out = append(out, i)
		}
	}
	return out
}

// addGuide puts the profile overlay image on top of the scene, replacing
// any earlier guide.
func addGuide(s *scene.Scene, src string) {
	s.RemoveTag(scene.TagGuideOverlay)
	if src == "" {
		return
	}
	s.Elements = append(s.Elements, scene.Element{
		ID:      "guide-overlay",
		Tag:     scene.TagGuideOverlay,
		Kind:    scene.KindImage,
		Src:     src,
		Width:   s.Canvas.Width,
		Height:  s.Canvas.Height,
		ScaleX:  1,
		ScaleY:  1,
		Visible: true,
	})
}

// sceneID is a short, stable identifier for hooks and logs.
func sceneID(s *scene.Scene) string {
	data, err := scene.Marshal(s)
	if err != nil {
		return "unknown"
	}
	return cache.Hash(data)[:12]
}
