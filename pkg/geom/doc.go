// Package geom provides the geometry primitives used by the layout engine.
//
// Everything here is a plain value type: rectangles, vertical intervals and
// a generic row grouper. No function mutates its inputs.
//
// # Collision
//
// [Intersects] uses strict inequalities, so two rectangles that only share an
// edge do not collide. [Overlaps] reports how far one rectangle must travel in
// each direction to clear another; [Clearance.Min] picks the cheapest move.
//
// # Gaps
//
// [MergeIntervals] and [Gaps] turn a set of vertical obstacles into the free
// bands between them:
//
//	merged := geom.MergeIntervals([]geom.Interval{{Top: math.Inf(-1), Bottom: 50}, {Top: 1030, Bottom: math.Inf(1)}})
//	gaps := geom.Gaps(merged) // [{50 1030}]
package geom
