// Package layout places the anchor and metadata tags of a scene so that they
// respect the canvas margins, avoid blocked areas and share one alignment.
//
// # Pipeline
//
// A pass runs four steps over a copy of the scene:
//
//  1. Blocked areas are scaled to the canvas ([ScaleAreas]) and the vertical
//     gaps free for the anchor are derived from them ([Gaps]).
//  2. The anchor goes through a small state machine: it is clamped to the
//     margins, shrunk into the gap around its centre when it does not fit,
//     and pushed out of any blocked area it still overlaps.
//  3. Flow tags are grouped into rows by vertical proximity, the anchor is
//     shifted so the widest row fits, and each row is laid out left to right
//     under the anchor. A tag that lands on a blocked area slides right until
//     it clears or reaches the margin.
//  4. If the content ends below the bottom margin or runs into a blocked
//     area, everything moves up. When the space above the anchor is not
//     enough, the anchor shrinks by the difference.
//
// Fade shapes are regenerated last (see package fade).
//
// # Determinism
//
// [Engine.Run] never mutates its input. The pre-layout placement of the
// anchor and of every tag is stored in its Home field on the first pass and
// restored at the start of every later one, so running a pass on its own
// output gives the same result. Rows are grouped from the home positions.
//
// # Diagnostics
//
// Collisions that survive the retry bounds, residual overflow, a missing
// anchor and assets that are not loaded yet do not fail the pass. They are
// reported on [Result.Diagnostics] for the caller to log or act on. Only a
// scene that fails [scene.Scene.Validate] returns an error.
//
// # Configuration
//
// All spacing constants and retry bounds live in [Config]. [DefaultConfig]
// returns the standard values: rows within 30 px, 20 px between tags and
// rows, 10 px escape steps, 10 push retries and a 20 px anchor floor.
package layout
