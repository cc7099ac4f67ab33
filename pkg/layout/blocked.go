package layout

import (
	"math"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// ScaleAreas converts canonical blocked areas into canvas space.
func ScaleAreas(areas []geom.Rect, factor float64) []geom.Rect {
	if len(areas) == 0 {
		return nil
	}
	out := make([]geom.Rect, len(areas))
	for i, a := range areas {
		out[i] = a.Scale(factor)
	}
	return out
}

// Gaps derives the vertical bands free for an element spanning the given
// horizontal extent. Areas are in canvas space. The canvas margins act as
// obstacles reaching to infinity above and below the interior; only areas
// overlapping the extent horizontally are considered.
func Gaps(areas []geom.Rect, c scene.Canvas, m scene.Margins, extent geom.Rect) []geom.Interval {
	obstacles := []geom.Interval{
		{Top: math.Inf(-1), Bottom: m.Top},
		{Top: c.Height - m.Bottom, Bottom: math.Inf(1)},
	}
	for _, a := range areas {
		if a.HorizontalOverlap(extent) {
			obstacles = append(obstacles, geom.Interval{Top: a.Top, Bottom: a.Bottom()})
		}
	}
	return geom.Gaps(geom.MergeIntervals(obstacles))
}

// BestGap picks the gap containing y, or else the gap whose nearer edge is
// closest to y. Earlier gaps win ties.
func BestGap(gaps []geom.Interval, y float64) (geom.Interval, bool) {
	if len(gaps) == 0 {
		return geom.Interval{}, false
	}
	for _, g := range gaps {
		if g.Contains(y) {
			return g, true
		}
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Distance(y) < best.Distance(y) {
			best = g
		}
	}
	return best, true
}

// limitAbove returns the lowest obstacle boundary above r: the top margin,
// raised by every area overlapping r horizontally whose bottom lies no more
// than tolerance below r's top.
func limitAbove(areas []geom.Rect, marginTop float64, r geom.Rect, tolerance float64) float64 {
	limit := marginTop
	for _, a := range areas {
		if !a.HorizontalOverlap(r) {
			continue
		}
		if b := a.Bottom(); b <= r.Top+tolerance && b > limit {
			limit = b
		}
	}
	return limit
}
