package scene

import (
	"github.com/z9m/backdrop/pkg/errors"
)

// FadeMode selects which gradient overlays are generated over the background.
type FadeMode string

// Fade modes.
const (
	FadeNone        FadeMode = "none"
	FadeCustom      FadeMode = "custom"
	FadeBottomLeft  FadeMode = "bottom-left"
	FadeBottomRight FadeMode = "bottom-right"
	FadeTopLeft     FadeMode = "top-left"
	FadeTopRight    FadeMode = "top-right"
	FadeVignette    FadeMode = "vignette"
)

// ParseFadeMode converts s to a FadeMode. Empty input yields FadeNone.
func ParseFadeMode(s string) (FadeMode, error) {
	switch m := FadeMode(s); m {
	case "":
		return FadeNone, nil
	case FadeNone, FadeCustom, FadeBottomLeft, FadeBottomRight, FadeTopLeft, FadeTopRight, FadeVignette:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFade, "invalid fade mode: %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FadeMode) UnmarshalText(b []byte) error {
	parsed, err := ParseFadeMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// IsCorner reports whether m is one of the four corner modes.
func (m FadeMode) IsCorner() bool {
	switch m {
	case FadeBottomLeft, FadeBottomRight, FadeTopLeft, FadeTopRight:
		return true
	}
	return false
}

// FadeConfig configures the fade/vignette generator. Side sizes and Radius
// are in canvas pixels; zero disables that part.
type FadeConfig struct {
	Mode   FadeMode `json:"mode,omitempty" bson:"mode,omitempty"`
	Left   float64  `json:"left,omitempty" bson:"left,omitempty"`
	Right  float64  `json:"right,omitempty" bson:"right,omitempty"`
	Top    float64  `json:"top,omitempty" bson:"top,omitempty"`
	Bottom float64  `json:"bottom,omitempty" bson:"bottom,omitempty"`
	Radius float64  `json:"radius,omitempty" bson:"radius,omitempty"`
	// Color is the base colour; empty means the scene background colour.
	Color string `json:"color,omitempty" bson:"color,omitempty"`
}

// GradientType is linear or radial.
type GradientType string

// Gradient types.
const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// ColorStop is one stop of a gradient. Color is an rgba() CSS string.
type ColorStop struct {
	Offset float64 `json:"offset" bson:"offset"`
	Color  string  `json:"color" bson:"color"`
}

// GradientCoords holds gradient geometry. Linear gradients use X1..Y2 in
// percentage units (0..1 of the shape); radial gradients use pixel units
// relative to the shape with inner radius R1 and outer radius R2.
type GradientCoords struct {
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
	R1 float64 `json:"r1,omitempty" bson:"r1,omitempty"`
	R2 float64 `json:"r2,omitempty" bson:"r2,omitempty"`
}

// Gradient is the fill of a generated shape.
type Gradient struct {
	Type   GradientType   `json:"type" bson:"type"`
	Units  string         `json:"units,omitempty" bson:"units,omitempty"`
	Coords GradientCoords `json:"coords" bson:"coords"`
	Stops  []ColorStop    `json:"stops" bson:"stops"`
}
