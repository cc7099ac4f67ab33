package scene

import (
	"fmt"

	"github.com/z9m/backdrop/pkg/errors"
)

// Tag identifies what an element carries. The vocabulary is closed: scenes
// with unknown tags are rejected on load.
type Tag string

// Tag vocabulary.
const (
	TagNone           Tag = ""
	TagTitle          Tag = "title"
	TagYear           Tag = "year"
	TagRating         Tag = "rating"
	TagRatingValue    Tag = "rating_val"
	TagRatingStar     Tag = "rating_star"
	TagOverview       Tag = "overview"
	TagGenres         Tag = "genres"
	TagRuntime        Tag = "runtime"
	TagOfficialRating Tag = "officialRating"
	TagProviderSource Tag = "provider_source"
	TagCertification  Tag = "certification"
	TagIcon           Tag = "icon"
	TagBackground     Tag = "background"
	TagFadeEffect     Tag = "fade_effect"
	TagGuideOverlay   Tag = "guide_overlay"
	TagGridLine       Tag = "grid_line"
)

// Tags lists every known tag in declaration order.
var Tags = []Tag{
	TagTitle, TagYear, TagRating, TagRatingValue, TagRatingStar, TagOverview,
	TagGenres, TagRuntime, TagOfficialRating, TagProviderSource, TagCertification,
	TagIcon, TagBackground, TagFadeEffect, TagGuideOverlay, TagGridLine,
}

// Role is the layout participation class of a tag.
type Role int

const (
	// RoleNone marks untagged elements; the engine ignores them.
	RoleNone Role = iota
	// RoleAnchor is the single title/logo element.
	RoleAnchor
	// RoleFlow elements are placed in rows under the anchor.
	RoleFlow
	// RoleBackground is the backdrop photo.
	RoleBackground
	// RoleDecoration covers generated or guide shapes that never take part in layout.
	RoleDecoration
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleAnchor:
		return "anchor"
	case RoleFlow:
		return "flow"
	case RoleBackground:
		return "background"
	case RoleDecoration:
		return "decoration"
	default:
		return "none"
	}
}

// Role classifies the tag. Adding a tag without extending this switch makes
// ParseTag reject it, so new kinds cannot slip into the flow silently.
func (t Tag) Role() Role {
	switch t {
	case TagTitle:
		return RoleAnchor
	case TagYear, TagRating, TagRatingValue, TagRatingStar, TagOverview, TagGenres,
		TagRuntime, TagOfficialRating, TagProviderSource, TagCertification, TagIcon:
		return RoleFlow
	case TagBackground:
		return RoleBackground
	case TagFadeEffect, TagGuideOverlay, TagGridLine:
		return RoleDecoration
	case TagNone:
		return RoleNone
	}
	return RoleNone
}

// Valid reports whether t is part of the vocabulary.
func (t Tag) Valid() bool {
	return t == TagNone || t.Role() != RoleNone
}

// ParseTag converts s to a Tag. The legacy editor tag "guide" maps to
// guide_overlay.
func ParseTag(s string) (Tag, error) {
	if s == "guide" {
		return TagGuideOverlay, nil
	}
	t := Tag(s)
	if !t.Valid() {
		return TagNone, errors.New(errors.ErrCodeInvalidTag, "unknown tag %q", s)
	}
	return t, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	parsed, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Kind is the visual type of an element. It does not affect layout
// participation, only readiness checks and text measurement.
type Kind string

// Element kinds.
const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindShape Kind = "shape"
)

// Alignment is the horizontal distribution rule shared by the anchor and the
// tag rows.
type Alignment string

// Alignment modes. AlignAuto resolves to left or right depending on which half
// of the canvas the anchor's centre sits in.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignAuto   Alignment = "auto"
)

// ParseAlignment converts s to an Alignment. Empty input yields AlignLeft.
func ParseAlignment(s string) (Alignment, error) {
	switch a := Alignment(s); a {
	case "":
		return AlignLeft, nil
	case AlignLeft, AlignCenter, AlignRight, AlignAuto:
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidAlignment, "invalid alignment: %q (must be one of: left, center, right, auto)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(b []byte) error {
	parsed, err := ParseAlignment(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Resolve returns the concrete alignment for an anchor whose horizontal
// centre is centerX on a canvas of the given width.
func (a Alignment) Resolve(centerX, canvasWidth float64) Alignment {
	switch a {
	case AlignAuto:
		if centerX > canvasWidth/2 {
			return AlignRight
		}
		return AlignLeft
	case "":
		return AlignLeft
	}
	return a
}

// String implements fmt.Stringer.
func (a Alignment) String() string { return string(a) }

var _ fmt.Stringer = AlignLeft
