package scene

import (
	"math"
	"slices"

	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultMargin is the inset used when a scene does not set margins.
	DefaultMargin = 50.0

	// HighResThreshold is the canvas width above which blocked areas are
	// scaled by 2.
	HighResThreshold = 2000.0

	// DefaultBackgroundColor is used when neither the scene nor colour
	// detection provides one.
	DefaultBackgroundColor = "#000000"
)

// Base canvas sizes. Layouts wider than wideLayoutWidth render at 4K.
const (
	wideLayoutWidth = 3000.0
)

var (
	// Canvas1080 is the 1920x1080 canvas.
	Canvas1080 = Canvas{Width: 1920, Height: 1080}
	// Canvas4K is the 3840x2160 canvas.
	Canvas4K = Canvas{Width: 3840, Height: 2160}
)

// =============================================================================
// Canvas & Margins
// =============================================================================

// Canvas is the fixed-size drawing surface. The origin is top-left.
type Canvas struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// BaseCanvas picks the render canvas for a layout saved at the given width.
func BaseCanvas(layoutWidth float64) Canvas {
	if layoutWidth > wideLayoutWidth {
		return Canvas4K
	}
	return Canvas1080
}

// ResolutionFactor returns the multiplier applied to canonical (1080p)
// blocked areas for a canvas of the given width.
func ResolutionFactor(width float64) float64 {
	if width > HighResThreshold {
		return 2
	}
	return 1
}

// Margins are the four insets defining the usable interior of the canvas.
type Margins struct {
	Top    float64 `json:"top" bson:"top"`
	Bottom float64 `json:"bottom" bson:"bottom"`
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
}

// UniformMargins returns margins with the same inset on every side.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Bottom: v, Left: v, Right: v}
}

// IsZero reports whether no margin is set.
func (m Margins) IsZero() bool { return m == Margins{} }

// Interior returns the usable rectangle of a canvas.
func (m Margins) Interior(c Canvas) geom.Rect {
	return geom.Rect{
		Left:   m.Left,
		Top:    m.Top,
		Width:  c.Width - m.Left - m.Right,
		Height: c.Height - m.Top - m.Bottom,
	}
}

// =============================================================================
// Scene
// =============================================================================

// Scene is the complete, serializable description of a composition.
//
// Elements are kept in draw order (back to front). BlockedAreas are in the
// canonical 1x coordinate space; the engine scales them per canvas.
type Scene struct {
	Canvas       Canvas      `json:"canvas" bson:"canvas"`
	Elements     []Element   `json:"elements" bson:"elements"`
	Margins      Margins     `json:"margins" bson:"margins"`
	Alignment    Alignment   `json:"alignment,omitempty" bson:"alignment,omitempty"`
	Fade         FadeConfig  `json:"fade,omitempty" bson:"fade,omitempty"`
	BlockedAreas []geom.Rect `json:"blocked_areas,omitempty" bson:"blocked_areas,omitempty"`

	// ProfileID names an overlay profile whose blocked areas take precedence
	// over BlockedAreas when the profile exists.
	ProfileID string `json:"profile_id,omitempty" bson:"profile_id,omitempty"`

	BackgroundColor string `json:"background_color,omitempty" bson:"background_color,omitempty"`

	// GenreLimit caps the number of genres written into the genres tag.
	GenreLimit int `json:"genre_limit,omitempty" bson:"genre_limit,omitempty"`

	// BackgroundBrightness is the percentage applied to the detected ambient
	// colour. Nil means the default of 20.
	BackgroundBrightness *int `json:"background_brightness,omitempty" bson:"background_brightness,omitempty"`
}

// Anchor returns the index of the element tagged title, or -1.
func (s *Scene) Anchor() int {
	return s.indexOfTag(TagTitle)
}

// Background returns the index of the element tagged background, or -1.
func (s *Scene) Background() int {
	return s.indexOfTag(TagBackground)
}

func (s *Scene) indexOfTag(t Tag) int {
	for i := range s.Elements {
		if s.Elements[i].Tag == t {
			return i
		}
	}
	return -1
}

// Find returns the index of the element with the given ID, or -1.
func (s *Scene) Find(id string) int {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// ByTag returns the indices of all elements carrying tag t, in draw order.
func (s *Scene) ByTag(t Tag) []int {
	var out []int
	for i := range s.Elements {
		if s.Elements[i].Tag == t {
			out = append(out, i)
		}
	}
	return out
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	out := *s
	out.Elements = make([]Element, len(s.Elements))
	for i, el := range s.Elements {
		if el.Fill != nil {
			fill := *el.Fill
			fill.Stops = slices.Clone(el.Fill.Stops)
			el.Fill = &fill
		}
		if el.Home != nil {
			home := *el.Home
			el.Home = &home
		}
		out.Elements[i] = el
	}
	out.BlockedAreas = slices.Clone(s.BlockedAreas)
	if s.BackgroundBrightness != nil {
		b := *s.BackgroundBrightness
		out.BackgroundBrightness = &b
	}
	return &out
}

// SetDefaults fills in margins, alignment, fade mode and background colour
// when they are unset.
func (s *Scene) SetDefaults() {
	if s.Margins.IsZero() {
		s.Margins = UniformMargins(DefaultMargin)
	}
	if s.Alignment == "" {
		s.Alignment = AlignLeft
	}
	if s.Fade.Mode == "" {
		s.Fade.Mode = FadeNone
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = DefaultBackgroundColor
	}
}

// Validate checks that the scene carries the geometry the engine needs.
// A missing anchor is not an error.
func (s *Scene) Validate() error {
	if !(s.Canvas.Width > 0) || !(s.Canvas.Height > 0) || isInf(s.Canvas.Width) || isInf(s.Canvas.Height) {
		return errors.New(errors.ErrCodeInvalidScene, "canvas must have positive finite size, got %vx%v", s.Canvas.Width, s.Canvas.Height)
	}
	m := s.Margins
	if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "margins cannot be negative")
	}
	if m.Left+m.Right >= s.Canvas.Width || m.Top+m.Bottom >= s.Canvas.Height {
		return errors.New(errors.ErrCodeInvalidScene, "margins leave no usable canvas area")
	}
	if _, err := ParseAlignment(string(s.Alignment)); err != nil {
		return err
	}
	if _, err := ParseFadeMode(string(s.Fade.Mode)); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Elements))
	anchors := 0
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.ID == "" {
			return errors.New(errors.ErrCodeInvalidScene, "element %d has no id", i)
		}
		if seen[el.ID] {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate element id %q", el.ID)
		}
		seen[el.ID] = true
		if !el.Tag.Valid() {
			return errors.New(errors.ErrCodeInvalidTag, "element %q has unknown tag %q", el.ID, el.Tag)
		}
		if el.Width < 0 || el.Height < 0 || isNaN(el.Width) || isNaN(el.Height) {
			return errors.New(errors.ErrCodeInvalidScene, "element %q has invalid size %vx%v", el.ID, el.Width, el.Height)
		}
		if !(el.ScaleX > 0) || !(el.ScaleY > 0) {
			return errors.New(errors.ErrCodeInvalidScene, "element %q has invalid scale %v/%v", el.ID, el.ScaleX, el.ScaleY)
		}
		if isNaN(el.Left) || isNaN(el.Top) || el.Padding < 0 {
			return errors.New(errors.ErrCodeInvalidScene, "element %q has invalid position or padding", el.ID)
		}
		if el.Tag == TagTitle {
			anchors++
		}
	}
	if anchors > 1 {
		return errors.New(errors.ErrCodeInvalidScene, "scene has %d title elements, want at most one", anchors)
	}

	for i, a := range s.BlockedAreas {
		if a.Width < 0 || a.Height < 0 {
			return errors.New(errors.ErrCodeInvalidScene, "blocked area %d has negative size", i)
		}
	}
	return nil
}

// InsertAt inserts el at draw-order position i.
func (s *Scene) InsertAt(i int, el Element) {
	s.Elements = slices.Insert(s.Elements, i, el)
}

// RemoveTag deletes every element carrying tag t.
func (s *Scene) RemoveTag(t Tag) int {
	before := len(s.Elements)
	s.Elements = slices.DeleteFunc(s.Elements, func(el Element) bool { return el.Tag == t })
	return before - len(s.Elements)
}

func isNaN(v float64) bool { return math.IsNaN(v) }
func isInf(v float64) bool { return math.IsInf(v, 0) }
