package layout

import (
	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
)

// Default tunables.
const (
	DefaultHSpacing         = 20.0
	DefaultVSpacing         = 20.0
	DefaultEscapeStep       = 10.0
	DefaultPushRetries      = 10
	DefaultGapSlack         = 10.0
	DefaultMinAnchorHeight  = 20.0
	DefaultAboveTolerance   = 5.0
	DefaultInvisibleAdvance = 0.1
)

// Config holds the engine's spacing constants and retry bounds.
type Config struct {
	// RowThreshold is the vertical distance under which two tags share a row.
	RowThreshold float64 `toml:"row_threshold" json:"row_threshold"`

	// HSpacing is the gap between consecutive visible tags in a row.
	HSpacing float64 `toml:"h_spacing" json:"h_spacing"`

	// VSpacing is the gap between the anchor and the first row, and between rows.
	VSpacing float64 `toml:"v_spacing" json:"v_spacing"`

	// EscapeStep is how far a colliding tag moves right per escape attempt.
	EscapeStep float64 `toml:"escape_step" json:"escape_step"`

	// PushRetries bounds the anchor collision push loop.
	PushRetries int `toml:"push_retries" json:"push_retries"`

	// GapSlack is subtracted from a gap's height before fitting the anchor.
	GapSlack float64 `toml:"gap_slack" json:"gap_slack"`

	// MinAnchorHeight is the floor for every anchor rescale.
	MinAnchorHeight float64 `toml:"min_anchor_height" json:"min_anchor_height"`

	// AboveTolerance lets a blocked area count as "above" the anchor when its
	// bottom lies at most this far below the anchor's top.
	AboveTolerance float64 `toml:"above_tolerance" json:"above_tolerance"`

	// InvisibleAdvance is the cursor advance for hidden row members.
	InvisibleAdvance float64 `toml:"invisible_advance" json:"invisible_advance"`
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		RowThreshold:     geom.DefaultRowThreshold,
		HSpacing:         DefaultHSpacing,
		VSpacing:         DefaultVSpacing,
		EscapeStep:       DefaultEscapeStep,
		PushRetries:      DefaultPushRetries,
		GapSlack:         DefaultGapSlack,
		MinAnchorHeight:  DefaultMinAnchorHeight,
		AboveTolerance:   DefaultAboveTolerance,
		InvisibleAdvance: DefaultInvisibleAdvance,
	}
}

// SetDefaults replaces zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.RowThreshold == 0 {
		c.RowThreshold = d.RowThreshold
	}
	if c.HSpacing == 0 {
		c.HSpacing = d.HSpacing
	}
	if c.VSpacing == 0 {
		c.VSpacing = d.VSpacing
	}
	if c.EscapeStep == 0 {
		c.EscapeStep = d.EscapeStep
	}
	if c.PushRetries == 0 {
		c.PushRetries = d.PushRetries
	}
	if c.GapSlack == 0 {
		c.GapSlack = d.GapSlack
	}
	if c.MinAnchorHeight == 0 {
		c.MinAnchorHeight = d.MinAnchorHeight
	}
	if c.AboveTolerance == 0 {
		c.AboveTolerance = d.AboveTolerance
	}
	if c.InvisibleAdvance == 0 {
		c.InvisibleAdvance = d.InvisibleAdvance
	}
}

// Validate rejects tunables that would stall or invert the layout loops.
func (c Config) Validate() error {
	switch {
	case c.RowThreshold <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "row threshold must be positive, got %v", c.RowThreshold)
	case c.EscapeStep <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "escape step must be positive, got %v", c.EscapeStep)
	case c.PushRetries < 0:
		return errors.New(errors.ErrCodeInvalidInput, "push retries cannot be negative, got %d", c.PushRetries)
	case c.HSpacing < 0 || c.VSpacing < 0:
		return errors.New(errors.ErrCodeInvalidInput, "spacing cannot be negative")
	case c.MinAnchorHeight <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "minimum anchor height must be positive, got %v", c.MinAnchorHeight)
	case c.GapSlack < 0 || c.AboveTolerance < 0 || c.InvisibleAdvance < 0:
		return errors.New(errors.ErrCodeInvalidInput, "gap slack, above tolerance and invisible advance cannot be negative")
	}
	return nil
}
