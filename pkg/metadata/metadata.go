// Package metadata writes media information into the text tags of a scene
// before layout.
//
// Each text element whose tag maps to a metadata field receives that field's
// value and becomes visible. Text elements whose field is empty are hidden so
// the row flow closes the gap, except the title, which keeps its placeholder.
// Text widths are re-measured after the text changes so layout sees the new
// extent.
package metadata

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/z9m/backdrop/pkg/scene"
)

// Provider labels.
const (
	ComingSoonLabel   = "Available soon..."
	DefaultProvider   = "Jellyfin"
	availablePrefix   = "Now available on "
	providerLabelTMDB = "TMDB"
	providerRadarr    = "radarr"
	providerSonarr    = "sonarr"
	providerTMDB      = "tmdb"
)

// Metadata is the media information injected into a scene. Genres is a
// comma-separated list; Source names the service the item comes from
// (jellyfin, tmdb, radarr and so on).
type Metadata struct {
	Title          string `json:"title,omitempty"`
	Year           string `json:"year,omitempty"`
	Rating         string `json:"rating,omitempty"`
	Overview       string `json:"overview,omitempty"`
	Genres         string `json:"genres,omitempty"`
	Runtime        string `json:"runtime,omitempty"`
	OfficialRating string `json:"officialRating,omitempty"`
	Source         string `json:"source,omitempty"`
}

// IsZero reports whether no field is set.
func (m Metadata) IsZero() bool { return m == Metadata{} }

// Option configures Apply.
type Option func(*applier)

type applier struct {
	measure Measurer
}

// WithMeasurer replaces the default text measurer.
func WithMeasurer(m Measurer) Option {
	return func(a *applier) { a.measure = m }
}

// WithoutMeasuring keeps element sizes as they are.
func WithoutMeasuring() Option {
	return func(a *applier) { a.measure = nil }
}

// Apply fills the scene's text tags from m and returns how many elements
// received text. The scene's GenreLimit caps the genre list.
func Apply(s *scene.Scene, m Metadata, opts ...Option) int {
	a := &applier{measure: EstimateMeasurer{}}
	for _, opt := range opts {
		opt(a)
	}

	filled := 0
	for i := range s.Elements {
		el := &s.Elements[i]
		val, ok := m.value(el, s.GenreLimit)
		if !ok {
			continue
		}
		if val == "" {
			if el.Kind == scene.KindText && el.Tag != scene.TagTitle {
				el.Visible = false
			}
			continue
		}
		el.Text = val
		el.Visible = true
		filled++
		if a.measure != nil && el.Kind == scene.KindText && el.Tag != scene.TagOverview {
			resize(el, a.measure)
		}
	}
	return filled
}

// value returns the text for el and whether its tag maps to a field at all.
func (m Metadata) value(el *scene.Element, genreLimit int) (string, bool) {
	switch el.Tag {
	case scene.TagTitle:
		if el.Kind == scene.KindImage {
			return "", false
		}
		return m.Title, true
	case scene.TagYear:
		return m.Year, true
	case scene.TagRating:
		return m.Rating, true
	case scene.TagOverview:
		return m.Overview, true
	case scene.TagGenres:
		return LimitGenres(m.Genres, genreLimit), true
	case scene.TagRuntime:
		return m.Runtime, true
	case scene.TagOfficialRating:
		return m.OfficialRating, true
	case scene.TagProviderSource:
		return ProviderLabel(m.Source), true
	}
	return "", false
}

// LimitGenres keeps the first limit entries of a comma-separated list.
// A limit of zero or less keeps them all.
func LimitGenres(genres string, limit int) string {
	if genres == "" || limit <= 0 {
		return genres
	}
	parts := strings.Split(genres, ",")
	if len(parts) <= limit {
		return genres
	}
	return strings.Join(parts[:limit], ",")
}

// ProviderLabel returns the availability line for a source.
func ProviderLabel(source string) string {
	src := strings.ToLower(source)
	switch src {
	case providerRadarr, providerSonarr:
		return ComingSoonLabel
	case "":
		return availablePrefix + DefaultProvider
	case providerTMDB:
		return availablePrefix + providerLabelTMDB
	}
	r, size := utf8.DecodeRuneInString(src)
	return availablePrefix + string(unicode.ToUpper(r)) + src[size:]
}

// SyncTextAlign sets the paragraph alignment of the overview and provider
// lines to the scene's resolved alignment, so wrapped text hugs the same
// edge as the row it sits in. Like the layout pass, "auto" is resolved from
// the anchor's home placement when it has one. It returns the alignment used.
func SyncTextAlign(s *scene.Scene) scene.Alignment {
	align := s.Alignment
	if align == "" {
		align = scene.AlignLeft
	}
	if i := s.Anchor(); i >= 0 {
		anchor := s.Elements[i]
		if anchor.Home != nil {
			anchor.Restore(*anchor.Home)
		}
		align = align.Resolve(anchor.Bounds().CenterX(), s.Canvas.Width)
	} else if align == scene.AlignAuto {
		align = scene.AlignLeft
	}
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.Tag == scene.TagOverview || el.Tag == scene.TagProviderSource {
			el.TextAlign = string(align)
		}
	}
	return align
}
