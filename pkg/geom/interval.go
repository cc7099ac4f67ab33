package geom

import (
	"math"
	"slices"
)

// Interval is a vertical band [Top, Bottom]. Either end may be infinite.
type Interval struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Height returns the vertical span of the interval.
func (iv Interval) Height() float64 { return iv.Bottom - iv.Top }

// Contains reports whether y lies inside the closed interval.
func (iv Interval) Contains(y float64) bool { return y >= iv.Top && y <= iv.Bottom }

// Distance returns the distance from y to the nearer end of the interval.
func (iv Interval) Distance(y float64) float64 {
	return math.Min(math.Abs(y-iv.Top), math.Abs(y-iv.Bottom))
}

// MergeIntervals sorts intervals by top and merges those that overlap.
// Touching intervals are kept apart; the empty band between them has no
// height and therefore yields no gap.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sorted := slices.Clone(in)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		switch {
		case a.Top < b.Top:
			return -1
		case a.Top > b.Top:
			return 1
		}
		return 0
	})

	merged := make([]Interval, 0, len(sorted))
	curr := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Top < curr.Bottom {
			curr.Bottom = math.Max(curr.Bottom, iv.Bottom)
			continue
		}
		merged = append(merged, curr)
		curr = iv
	}
	return append(merged, curr)
}

// Gaps returns the open bands between consecutive merged intervals.
func Gaps(merged []Interval) []Interval {
	var gaps []Interval
	for i := 0; i+1 < len(merged); i++ {
		top, bottom := merged[i].Bottom, merged[i+1].Top
		if bottom > top {
			gaps = append(gaps, Interval{Top: top, Bottom: bottom})
		}
	}
	return gaps
}
