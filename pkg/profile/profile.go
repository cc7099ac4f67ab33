// Package profile stores overlay profiles: named sets of blocked areas that
// describe where a display overlay (clock, weather widget, logo bug) covers
// the backdrop.
//
// Profiles live in a [Store]. Two backends are provided:
//   - file: a single JSON document for CLI use (~/.config/backdrop/overlays.json)
//   - mongo: a MongoDB collection for the HTTP server
//
// plus an in-memory store for tests.
//
// # Resolution
//
// A scene may name a profile. [Resolve] returns the areas layout should
// avoid: the profile's areas when the profile exists, otherwise the areas
// embedded in the scene. An unknown profile ID is not an error.
//
//	res, err := profile.Resolve(ctx, store, s)
//	if err != nil {
//	    return err
//	}
//	s.BlockedAreas = res.Areas
package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// Profile is a saved overlay configuration.
//
// BlockedAreas are in the canonical 1080p coordinate space. File1080 and
// File4K name the overlay guide images for each resolution; either may be
// empty.
type Profile struct {
	ID           string      `json:"id" bson:"_id"`
	Name         string      `json:"name" bson:"name"`
	BlockedAreas []geom.Rect `json:"blocked_areas,omitempty" bson:"blocked_areas,omitempty"`
	File1080     string      `json:"file_1080,omitempty" bson:"file_1080,omitempty"`
	File4K       string      `json:"file_4k,omitempty" bson:"file_4k,omitempty"`
}

// OverlayFile picks the guide image for a canvas width, falling back to the
// other resolution when the preferred one is missing.
func (p *Profile) OverlayFile(canvasWidth float64) string {
	primary, fallback := p.File1080, p.File4K
	if canvasWidth > scene.HighResThreshold {
		primary, fallback = fallback, primary
	}
	if primary != "" {
		return primary
	}
	return fallback
}

// Validate checks the profile can be stored.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "profile name cannot be empty")
	}
	return ValidateAreas(p.BlockedAreas)
}

// ValidateAreas rejects areas with negative or non-finite sizes.
func ValidateAreas(areas []geom.Rect) error {
	for i, a := range areas {
		if !(a.Width >= 0 && a.Height >= 0) || !a.Finite() {
			return errors.New(errors.ErrCodeInvalidInput, "blocked area %d has invalid size %vx%v", i, a.Width, a.Height)
		}
	}
	return nil
}

// Store is the interface for profile storage backends.
type Store interface {
	// List returns every profile ordered by name.
	List(ctx context.Context) ([]Profile, error)

	// Get returns the profile with the given ID, or an error with code
	// PROFILE_NOT_FOUND.
	Get(ctx context.Context, id string) (*Profile, error)

	// Add stores a new profile. An empty ID is replaced by a random UUID.
	Add(ctx context.Context, p Profile) (*Profile, error)

	// UpdateAreas replaces a profile's blocked areas.
	UpdateAreas(ctx context.Context, id string, areas []geom.Rect) error

	// Delete removes a profile. Deleting an unknown ID returns PROFILE_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh profile ID.
func NewID() string { return uuid.NewString() }

func notFound(id string) error {
	return errors.New(errors.ErrCodeProfileNotFound, "profile %q not found", id)
}

// prepare validates p and assigns an ID when missing.
func prepare(p Profile) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	if p.ID == "" {
		p.ID = NewID()
	}
	return p, nil
}

// =============================================================================
// Resolution
// =============================================================================

// Source says where resolved blocked areas came from.
type Source string

const (
	SourceScene   Source = "scene"
	SourceProfile Source = "profile"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Areas  []geom.Rect
	Source Source

	// Profile is set when the scene's profile was found.
	Profile *Profile

	// Overlay is the guide image for the scene's canvas, if any.
	Overlay string

	// Missing is set when the scene named a profile the store does not have.
	Missing bool
}

// Resolve picks the blocked areas for s. store may be nil.
func Resolve(ctx context.Context, store Store, s *scene.Scene) (Resolution, error) {
	res := Resolution{Areas: s.BlockedAreas, Source: SourceScene}
	if s.ProfileID == "" || store == nil {
		return res, nil
	}

	p, err := store.Get(ctx, s.ProfileID)
	if errors.Is(err, errors.ErrCodeProfileNotFound) {
		res.Missing = true
		return res, nil
	}
	if err != nil {
		return Resolution{}, err
	}

	res.Areas = p.BlockedAreas
	res.Source = SourceProfile
	res.Profile = p
	res.Overlay = p.OverlayFile(s.Canvas.Width)
	return res, nil
}
