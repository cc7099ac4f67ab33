package layout

import (
	"fmt"
	"strings"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// AnchorState is a step of the anchor placement state machine.
type AnchorState int

const (
	Unconstrained AnchorState = iota
	MarginClamped
	GapFitted
	CollisionPushed
	Final
)

func (s AnchorState) String() string {
	switch s {
	case Unconstrained:
		return "unconstrained"
	case MarginClamped:
		return "margin-clamped"
	case GapFitted:
		return "gap-fitted"
	case CollisionPushed:
		return "collision-pushed"
	case Final:
		return "final"
	}
	return fmt.Sprintf("AnchorState(%d)", int(s))
}

// Stage names the pass that gave up on a collision.
type Stage string

const (
	StageAnchorPush Stage = "anchor-push"
	StageTagEscape  Stage = "tag-escape"
	StageRowEdge    Stage = "row-edge"
)

// Collision records an element left overlapping a blocked area.
type Collision struct {
	ElementID string    `json:"element_id"`
	Tag       scene.Tag `json:"tag"`
	Area      geom.Rect `json:"area"`
	Stage     Stage     `json:"stage"`
}

// Diagnostics describes recoverable conditions met during a pass. None of
// them abort the pass.
type Diagnostics struct {
	// MissingAnchor is set when the scene has no title element. Layout is
	// skipped; fades are still generated.
	MissingAnchor bool `json:"missing_anchor,omitempty"`

	// Deferred is set when an image element has not reported its intrinsic
	// size. The scene is returned unchanged and the caller should retry.
	Deferred bool     `json:"deferred,omitempty"`
	NotReady []string `json:"not_ready,omitempty"`

	// Unresolved lists elements that could not be moved clear of a blocked
	// area within the retry bounds.
	Unresolved []Collision `json:"unresolved,omitempty"`

	// Shrunk is set when the overflow pass had to scale the anchor down.
	Shrunk bool `json:"shrunk,omitempty"`

	// ResidualOverflow is the vertical overflow left after shrinking the
	// anchor to its floor height. Positive values mean insufficient space.
	// Rows still move up by the full overflow, so they overlap the anchor
	// by this amount and the first rows may end above the top margin.
	ResidualOverflow float64 `json:"residual_overflow,omitempty"`

	// Displaced lists tags that ended above the top margin because of
	// residual overflow.
	Displaced []string `json:"displaced,omitempty"`

	// States traces the anchor state machine.
	States []AnchorState `json:"-"`
}

// InsufficientSpace reports whether vertical overflow remained.
func (d Diagnostics) InsufficientSpace() bool { return d.ResidualOverflow > 0 }

// Clean reports whether the pass completed without any condition worth
// reporting.
func (d Diagnostics) Clean() bool {
	return !d.MissingAnchor && !d.Deferred && len(d.Unresolved) == 0 && !d.InsufficientSpace()
}

// Warnings renders every reportable condition as a short message.
func (d Diagnostics) Warnings() []string {
	var out []string
	if d.MissingAnchor {
		out = append(out, "scene has no title element; layout skipped")
	}
	if d.Deferred {
		out = append(out, fmt.Sprintf("assets not ready: %v", d.NotReady))
	}
	for _, c := range d.Unresolved {
		out = append(out, fmt.Sprintf("%s %q still overlaps blocked area at (%.0f,%.0f %.0fx%.0f) after %s",
			c.Tag, c.ElementID, c.Area.Left, c.Area.Top, c.Area.Width, c.Area.Height, c.Stage))
	}
	if d.InsufficientSpace() {
		msg := fmt.Sprintf("insufficient vertical space: %.1fpx overflow remains", d.ResidualOverflow)
		if len(d.Displaced) > 0 {
			msg += fmt.Sprintf("; above the top margin: %s", strings.Join(d.Displaced, ", "))
		}
		out = append(out, msg)
	}
	return out
}

// Result is the output of a layout pass.
type Result struct {
	Scene       *scene.Scene `json:"scene"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}
