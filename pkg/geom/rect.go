package geom

import "math"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
// All coordinates are in canvas pixels.
type Rect struct {
	Left   float64 `json:"left" bson:"left"`
	Top    float64 `json:"top" bson:"top"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// R is a shorthand constructor for Rect.
func R(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Finite reports whether every component is a finite number.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Scale multiplies every component by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{Left: r.Left * f, Top: r.Top * f, Width: r.Width * f, Height: r.Height * f}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// HorizontalOverlap reports whether the x extents of a and b overlap.
func (r Rect) HorizontalOverlap(o Rect) bool {
	return r.Left < o.Right() && r.Right() > o.Left
}

// Intersects reports whether a and b overlap. Rectangles that only share an
// edge do not intersect.
func Intersects(a, b Rect) bool {
	return a.Left < b.Right() &&
		a.Right() > b.Left &&
		a.Top < b.Bottom() &&
		a.Bottom() > b.Top
}

// IntersectsAny reports whether r intersects any of the given rectangles.
func IntersectsAny(r Rect, others []Rect) bool {
	for _, o := range others {
		if Intersects(r, o) {
			return true
		}
	}
	return false
}

// FirstIntersecting returns the index of the first rectangle in others that
// intersects r, or -1.
func FirstIntersecting(r Rect, others []Rect) int {
	for i, o := range others {
		if Intersects(r, o) {
			return i
		}
	}
	return -1
}

// Clearance holds the distances a rectangle must travel in each direction to
// stop overlapping an obstacle.
type Clearance struct {
	Left, Right, Up, Down float64
}

// Overlaps returns how far a must move left, right, up or down to clear b.
// Values are only meaningful when Intersects(a, b) is true.
func Overlaps(a, b Rect) Clearance {
	return Clearance{
		Left:  a.Right() - b.Left,
		Right: b.Right() - a.Left,
		Up:    a.Bottom() - b.Top,
		Down:  b.Bottom() - a.Top,
	}
}

// Min returns the smallest clearance and the (dx, dy) move that achieves it.
// Ties resolve in the order left, right, up, down.
func (c Clearance) Min() (dist, dx, dy float64) {
	dist = math.Min(math.Min(c.Left, c.Right), math.Min(c.Up, c.Down))
	switch dist {
	case c.Left:
		return dist, -c.Left, 0
	case c.Right:
		return dist, c.Right, 0
	case c.Up:
		return dist, 0, -c.Up
	default:
		return dist, 0, c.Down
	}
}
