package fade

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

const (
	// Bleed extends linear fades past the background edge so no hairline of
	// the photo shows at the border.
	Bleed = 2.0

	// VignettePadding is added to the vignette's width and height.
	VignettePadding = 10.0

	// AlphaFloor replaces a fully transparent stop; some gradient renderers
	// degenerate when an end stop has zero alpha.
	AlphaFloor = 0.005
)

// Side is one edge of the background.
type Side string

// Sides.
const (
	Left   Side = "left"
	Right  Side = "right"
	Top    Side = "top"
	Bottom Side = "bottom"
)

// Size returns the configured fade size for side.
func Size(cfg scene.FadeConfig, side Side) float64 {
	switch side {
	case Left:
		return cfg.Left
	case Right:
		return cfg.Right
	case Top:
		return cfg.Top
	case Bottom:
		return cfg.Bottom
	}
	return 0
}

// Shapes returns the fade shapes for a background occupying bg, in draw
// order. Corner modes add the two adjoining side fades and the vignette adds
// the top and bottom fades. Parts whose size is zero are skipped.
func Shapes(bg geom.Rect, cfg scene.FadeConfig, color colorful.Color) []scene.Element {
	var out []scene.Element
	add := func(el scene.Element, ok bool) {
		if ok {
			out = append(out, el)
		}
	}
	sides := func(ss ...Side) {
		for _, s := range ss {
			add(Linear(bg, s, Size(cfg, s), color))
		}
	}

	switch cfg.Mode {
	case scene.FadeCustom:
		sides(Left, Right, Top, Bottom)
	case scene.FadeBottomLeft:
		add(Corner(bg, cfg.Mode, cfg.Radius, color))
		sides(Left, Bottom)
	case scene.FadeBottomRight:
		add(Corner(bg, cfg.Mode, cfg.Radius, color))
		sides(Right, Bottom)
	case scene.FadeTopLeft:
		add(Corner(bg, cfg.Mode, cfg.Radius, color))
		sides(Left, Top)
	case scene.FadeTopRight:
		add(Corner(bg, cfg.Mode, cfg.Radius, color))
		sides(Right, Top)
	case scene.FadeVignette:
		add(Vignette(bg, cfg.Radius, color))
		sides(Top, Bottom)
	}
	return out
}

// Linear returns a side fade: opaque at the background edge, fading to the
// alpha floor towards the centre.
func Linear(bg geom.Rect, side Side, size float64, color colorful.Color) (scene.Element, bool) {
	if size <= 0 {
		return scene.Element{}, false
	}

	var r geom.Rect
	var c scene.GradientCoords
	switch side {
	case Left:
		r = geom.R(bg.Left-Bleed, bg.Top-Bleed, size+Bleed, bg.Height+2*Bleed)
		c = scene.GradientCoords{X1: 0, Y1: 0, X2: 1, Y2: 0}
	case Right:
		r = geom.R(bg.Right()-size, bg.Top-Bleed, size+Bleed, bg.Height+2*Bleed)
		c = scene.GradientCoords{X1: 1, Y1: 0, X2: 0, Y2: 0}
	case Top:
		r = geom.R(bg.Left-Bleed, bg.Top-Bleed, bg.Width+2*Bleed, size+Bleed)
		c = scene.GradientCoords{X1: 0, Y1: 0, X2: 0, Y2: 1}
	case Bottom:
		r = geom.R(bg.Left-Bleed, bg.Bottom()-size, bg.Width+2*Bleed, size+Bleed)
		c = scene.GradientCoords{X1: 0, Y1: 1, X2: 0, Y2: 0}
	default:
		return scene.Element{}, false
	}

	return shape("fade-"+string(side), r, &scene.Gradient{
		Type:   scene.GradientLinear,
		Units:  "percentage",
		Coords: c,
		Stops:  solidToClear(color),
	}), true
}

// Corner returns a radius-sized square at the given corner holding a radial
// gradient centred on the corner point.
func Corner(bg geom.Rect, corner scene.FadeMode, radius float64, color colorful.Color) (scene.Element, bool) {
	if radius <= 0 || !corner.IsCorner() {
		return scene.Element{}, false
	}

	var x, y, cx, cy float64
	switch corner {
	case scene.FadeBottomLeft:
		x, y, cx, cy = bg.Left, bg.Bottom()-radius, 0, radius
	case scene.FadeBottomRight:
		x, y, cx, cy = bg.Right()-radius, bg.Bottom()-radius, radius, radius
	case scene.FadeTopLeft:
		x, y, cx, cy = bg.Left, bg.Top, 0, 0
	case scene.FadeTopRight:
		x, y, cx, cy = bg.Right()-radius, bg.Top, radius, 0
	}

	return shape("fade-"+string(corner), geom.R(x, y, radius, radius), &scene.Gradient{
		Type:   scene.GradientRadial,
		Units:  "pixels",
		Coords: scene.GradientCoords{X1: cx, Y1: cy, X2: cx, Y2: cy, R1: 0, R2: radius},
		Stops:  solidToClear(color),
	}), true
}

// Vignette returns a radial gradient covering the background plus padding,
// clear at the centre and opaque at the outer radius.
func Vignette(bg geom.Rect, radius float64, color colorful.Color) (scene.Element, bool) {
	if radius <= 0 {
		return scene.Element{}, false
	}
	w := math.Ceil(bg.Width) + VignettePadding
	h := math.Ceil(bg.Height) + VignettePadding
	r := geom.R(bg.Left-VignettePadding/2, bg.Top-VignettePadding/2, w, h)

	stops := []scene.ColorStop{
		{Offset: 0, Color: RGBA(color, AlphaFloor)},
		{Offset: 1, Color: RGBA(color, 1)},
	}

	return shape("fade-vignette", r, &scene.Gradient{
		Type:   scene.GradientRadial,
		Units:  "pixels",
		Coords: scene.GradientCoords{X1: w / 2, Y1: h / 2, X2: w / 2, Y2: h / 2, R1: 0, R2: radius},
		Stops:  stops,
	}), true
}

func shape(id string, r geom.Rect, fill *scene.Gradient) scene.Element {
	return scene.Element{
		ID:      id,
		Tag:     scene.TagFadeEffect,
		Kind:    scene.KindShape,
		Left:    r.Left,
		Top:     r.Top,
		Width:   r.Width,
		Height:  r.Height,
		ScaleX:  1,
		ScaleY:  1,
		Visible: true,
		NoSnap:  true,
		Fill:    fill,
	}
}

func solidToClear(c colorful.Color) []scene.ColorStop {
	return []scene.ColorStop{
		{Offset: 0, Color: RGBA(c, 1)},
		{Offset: 1, Color: RGBA(c, AlphaFloor)},
	}
}

// RGBA formats c as a CSS rgba() colour. Alpha is clamped to
// [AlphaFloor, 1].
func RGBA(c colorful.Color, alpha float64) string {
	alpha = math.Max(AlphaFloor, math.Min(1, alpha))
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, alpha)
}

// ParseColor parses a #rgb or #rrggbb colour. Anything else yields black.
func ParseColor(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Apply removes every fade shape from s and regenerates them from the
// background element and s.Fade. New shapes are inserted directly above the
// background in draw order. A scene without a background gets no fades. It
// returns the number of shapes inserted.
func Apply(s *scene.Scene) int {
	s.RemoveTag(scene.TagFadeEffect)

	bgIdx := s.Background()
	if bgIdx < 0 {
		return 0
	}

	hex := s.Fade.Color
	if hex == "" {
		hex = s.BackgroundColor
	}
	shapes := Shapes(s.Elements[bgIdx].Bounds(), s.Fade, ParseColor(hex))
	if len(shapes) == 0 {
		return 0
	}
	s.Elements = slices.Insert(s.Elements, bgIdx+1, shapes...)
	return len(shapes)
}
