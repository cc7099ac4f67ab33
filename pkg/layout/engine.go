package layout

import (
	"github.com/z9m/backdrop/pkg/fade"
	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// AssetChecker decides whether an element's asset has loaded far enough for
// layout to use its geometry.
type AssetChecker interface {
	Ready(el *scene.Element) bool
}

// AssetCheckerFunc adapts a function to AssetChecker.
type AssetCheckerFunc func(el *scene.Element) bool

// Ready implements AssetChecker.
func (f AssetCheckerFunc) Ready(el *scene.Element) bool { return f(el) }

// DimensionChecker treats visible image elements as ready once they report a
// non-zero intrinsic size. Text and shapes are always ready.
var DimensionChecker AssetChecker = AssetCheckerFunc(func(el *scene.Element) bool {
	return el.Kind != scene.KindImage || !el.Visible || el.Ready()
})

// Engine runs layout passes. It holds no per-scene state; a single Engine
// may serve any number of scenes and goroutines.
type Engine struct {
	cfg    Config
	assets AssetChecker
	fades  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithAssetChecker replaces DimensionChecker.
func WithAssetChecker(c AssetChecker) Option { return func(e *Engine) { e.assets = c } }

// WithoutFades skips fade generation.
func WithoutFades() Option { return func(e *Engine) { e.fades = false } }

// New returns an Engine. Zero fields of cfg take their defaults.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, assets: DimensionChecker, fades: true}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's tunables.
func (e *Engine) Config() Config { return e.cfg }

// Run lays out a copy of s and returns it with the pass diagnostics. The
// input scene is never modified.
//
// The anchor and the tags are first reset to their home placements
// (recorded on the first pass) so that repeated runs over the same scene
// give identical output.
// Only a malformed scene produces an error; every other condition is
// reported through Result.Diagnostics.
func (e *Engine) Run(s *scene.Scene) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := s.Clone()
	res := &Result{Scene: out}

	if ids := e.notReady(out); len(ids) > 0 {
		res.Diagnostics.Deferred = true
		res.Diagnostics.NotReady = ids
		return res, nil
	}

	if i := out.Anchor(); i >= 0 {
		p := newPass(e.cfg, out, &out.Elements[i], &res.Diagnostics)
		p.run()
	} else {
		res.Diagnostics.MissingAnchor = true
	}

	if e.fades {
		fade.Apply(out)
	}
	return res, nil
}

func (e *Engine) notReady(s *scene.Scene) []string {
	var ids []string
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.Role() == scene.RoleDecoration {
			continue
		}
		if !e.assets.Ready(el) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

// pass holds the state of one layout run over one scene.
type pass struct {
	cfg    Config
	scene  *scene.Scene
	anchor *scene.Element
	align  scene.Alignment
	areas  []geom.Rect
	diag   *Diagnostics
}

func newPass(cfg Config, s *scene.Scene, anchor *scene.Element, diag *Diagnostics) *pass {
	if anchor.Home == nil {
		home := anchor.Placement()
		anchor.Home = &home
	}
	anchor.Restore(*anchor.Home)

	return &pass{
		cfg:    cfg,
		scene:  s,
		anchor: anchor,
		align:  s.Alignment.Resolve(anchor.Bounds().CenterX(), s.Canvas.Width),
		areas:  ScaleAreas(s.BlockedAreas, scene.ResolutionFactor(s.Canvas.Width)),
		diag:   diag,
	}
}

func (p *pass) run() {
	p.placeAnchor()

	tags := tagSet(p.scene)
	resetTags(tags)
	rows := groupRows(tags, p.cfg.RowThreshold)
	if len(rows) > 0 {
		p.shiftAnchorForRows(rows)
	}
	cursorY := p.flow(rows)
	p.resolveOverflow(rows, cursorY)
}

// resetTags moves every tag back to its home position, recording it on the
// first pass. Rows are always grouped from these positions; a previous
// pass may have stacked short tags closer than the row threshold.
func resetTags(tags []*scene.Element) {
	for _, el := range tags {
		if el.Home == nil {
			home := el.Placement()
			el.Home = &home
			continue
		}
		el.Left, el.Top = el.Home.Left, el.Home.Top
	}
}

func (p *pass) enter(s AnchorState) {
	p.diag.States = append(p.diag.States, s)
}

func (p *pass) unresolved(el *scene.Element, area geom.Rect, stage Stage) {
	p.diag.Unresolved = append(p.diag.Unresolved, Collision{
		ElementID: el.ID,
		Tag:       el.Tag,
		Area:      area,
		Stage:     stage,
	})
}
