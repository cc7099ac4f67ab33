package geom

import (
	"math"
	"slices"
)

// DefaultRowThreshold is the vertical distance under which two items are
// considered part of the same row.
const DefaultRowThreshold = 30.0

// GroupRows sorts items by top (stable) and splits them into rows. An item
// joins the current row when its top lies strictly within threshold of the
// row's first item.
func GroupRows[T any](items []T, top func(T) float64, threshold float64) [][]T {
	if len(items) == 0 {
		return nil
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		ta, tb := top(a), top(b)
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		}
		return 0
	})

	var rows [][]T
	row := []T{sorted[0]}
	for _, it := range sorted[1:] {
		if math.Abs(top(it)-top(row[0])) < threshold {
			row = append(row, it)
			continue
		}
		rows = append(rows, row)
		row = []T{it}
	}
	return append(rows, row)
}
