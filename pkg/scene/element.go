package scene

import (
	"encoding/json"

	"github.com/z9m/backdrop/pkg/geom"
)

// Origin modes for Element.OriginX / Element.OriginY.
const (
	OriginLeft   = "left"
	OriginTop    = "top"
	OriginCenter = "center"
)

// Placement is a saved position and scale of an element.
type Placement struct {
	Left   float64 `json:"left" bson:"left"`
	Top    float64 `json:"top" bson:"top"`
	ScaleX float64 `json:"scaleX" bson:"scaleX"`
	ScaleY float64 `json:"scaleY" bson:"scaleY"`
}

// Element is any positionable item in a scene.
//
// Width and Height are intrinsic (pre-scale). Left and Top are relative to the
// origin mode: with OriginX "center", Left is the horizontal centre.
type Element struct {
	ID      string  `json:"id" bson:"id"`
	Tag     Tag     `json:"tag,omitempty" bson:"tag,omitempty"`
	Kind    Kind    `json:"kind,omitempty" bson:"kind,omitempty"`
	Left    float64 `json:"left" bson:"left"`
	Top     float64 `json:"top" bson:"top"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	ScaleX  float64 `json:"scaleX" bson:"scaleX"`
	ScaleY  float64 `json:"scaleY" bson:"scaleY"`
	Visible bool    `json:"visible" bson:"visible"`
	Padding float64 `json:"padding,omitempty" bson:"padding,omitempty"`
	OriginX string  `json:"originX,omitempty" bson:"originX,omitempty"`
	OriginY string  `json:"originY,omitempty" bson:"originY,omitempty"`

	// NoSnap opts the element out of automatic row placement.
	NoSnap bool `json:"noSnap,omitempty" bson:"noSnap,omitempty"`

	Text      string  `json:"text,omitempty" bson:"text,omitempty"`
	TextAlign string  `json:"textAlign,omitempty" bson:"textAlign,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty" bson:"fontSize,omitempty"`
	Src       string  `json:"src,omitempty" bson:"src,omitempty"`

	// Fill is set on generated gradient shapes.
	Fill *Gradient `json:"fill,omitempty" bson:"fill,omitempty"`

	// Home is the element's geometry before its first layout pass. Every
	// pass starts from it so repeated passes do not drift. Tags take only
	// their position from it; the anchor also takes its scale.
	Home *Placement `json:"home,omitempty" bson:"home,omitempty"`
}

// UnmarshalJSON decodes an element, defaulting Visible to true and both
// scales to 1 when they are absent.
func (e *Element) UnmarshalJSON(b []byte) error {
	type alias Element
	a := alias{Visible: true, ScaleX: 1, ScaleY: 1}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*e = Element(a)
	return nil
}

// ScaledWidth returns Width * ScaleX.
func (e *Element) ScaledWidth() float64 { return e.Width * e.ScaleX }

// ScaledHeight returns Height * ScaleY.
func (e *Element) ScaledHeight() float64 { return e.Height * e.ScaleY }

// Bounds returns the element's scaled bounding box with origin modes applied.
func (e *Element) Bounds() geom.Rect {
	w, h := e.ScaledWidth(), e.ScaledHeight()
	left, top := e.Left, e.Top
	if e.OriginX == OriginCenter {
		left -= w / 2
	}
	if e.OriginY == OriginCenter {
		top -= h / 2
	}
	return geom.Rect{Left: left, Top: top, Width: w, Height: h}
}

// MoveTo positions the element so that its bounding box starts at (left, top).
func (e *Element) MoveTo(left, top float64) {
	b := e.Bounds()
	e.Translate(left-b.Left, top-b.Top)
}

// SetLeft moves the bounding box's left edge to x.
func (e *Element) SetLeft(x float64) {
	e.Translate(x-e.Bounds().Left, 0)
}

// SetTop moves the bounding box's top edge to y.
func (e *Element) SetTop(y float64) {
	e.Translate(0, y-e.Bounds().Top)
}

// Translate moves the element by (dx, dy).
func (e *Element) Translate(dx, dy float64) {
	e.Left += dx
	e.Top += dy
}

// ScaleToHeight rescales the element uniformly so that its scaled height is h.
// The current aspect ratio of the scaled box is preserved. The origin point
// stays fixed; callers reposition afterwards.
func (e *Element) ScaleToHeight(h float64) {
	curr := e.ScaledHeight()
	if curr <= 0 {
		return
	}
	f := h / curr
	e.ScaleX *= f
	e.ScaleY *= f
}

// Placement returns the element's current position and scale.
func (e *Element) Placement() Placement {
	return Placement{Left: e.Left, Top: e.Top, ScaleX: e.ScaleX, ScaleY: e.ScaleY}
}

// Restore applies a saved placement.
func (e *Element) Restore(p Placement) {
	e.Left, e.Top, e.ScaleX, e.ScaleY = p.Left, p.Top, p.ScaleX, p.ScaleY
}

// Role returns the layout role of the element's tag.
func (e *Element) Role() Role { return e.Tag.Role() }

// Ready reports whether the element has non-zero intrinsic dimensions.
func (e *Element) Ready() bool { return e.Width > 0 && e.Height > 0 }
