package layout

import (
	"math"
	"slices"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// tagSet returns the flow-role elements that take part in automatic
// placement. Hidden members are kept so that toggling visibility does not
// reshuffle rows.
func tagSet(s *scene.Scene) []*scene.Element {
	var out []*scene.Element
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.Role() == scene.RoleFlow && !el.NoSnap {
			out = append(out, el)
		}
	}
	return out
}

// groupRows splits the tag set into rows by vertical proximity and orders
// each row by its current left edge.
func groupRows(tags []*scene.Element, threshold float64) [][]*scene.Element {
	rows := geom.GroupRows(tags, func(el *scene.Element) float64 { return el.Bounds().Top }, threshold)
	for _, row := range rows {
		slices.SortStableFunc(row, func(a, b *scene.Element) int {
			switch la, lb := a.Bounds().Left, b.Bounds().Left; {
			case la < lb:
				return -1
			case la > lb:
				return 1
			}
			return 0
		})
	}
	return rows
}

func visible(row []*scene.Element) []*scene.Element {
	var out []*scene.Element
	for _, el := range row {
		if el.Visible {
			out = append(out, el)
		}
	}
	return out
}

// outerWidth is the horizontal space an element claims including padding.
func outerWidth(el *scene.Element) float64 { return el.ScaledWidth() + 2*el.Padding }

// outerHeight is the vertical space an element claims including padding.
func outerHeight(el *scene.Element) float64 { return el.ScaledHeight() + 2*el.Padding }

// rowWidth sums the padded widths of visible members plus the spacing
// between them.
func (p *pass) rowWidth(row []*scene.Element) float64 {
	vis := visible(row)
	var w float64
	for i, el := range vis {
		w += outerWidth(el)
		if i < len(vis)-1 {
			w += p.cfg.HSpacing
		}
	}
	return w
}

// shiftAnchorForRows moves the anchor horizontally so that the widest row,
// aligned to the anchor, stays inside the margins. The anchor is kept inside
// the margins as well.
func (p *pass) shiftAnchorForRows(rows [][]*scene.Element) {
	var widest float64
	for _, row := range rows {
		widest = math.Max(widest, p.rowWidth(row))
	}

	c, m := p.scene.Canvas, p.scene.Margins
	minX, maxX := m.Left, c.Width-m.Right
	b := p.anchor.Bounds()

	var shift float64
	switch p.align {
	case scene.AlignCenter:
		start := b.Left + (b.Width-widest)/2
		if start < minX {
			shift = minX - start
		} else if start+widest > maxX {
			shift = maxX - widest - start
		}
	case scene.AlignRight:
		if start := b.Right() - widest; start < minX {
			shift = minX - start
		}
	default:
		if start := b.Left; start+widest > maxX {
			shift = maxX - widest - start
		}
	}
	if shift == 0 {
		return
	}

	left := b.Left + shift
	left = math.Min(left, maxX-b.Width)
	left = math.Max(left, minX)
	p.anchor.SetLeft(left)
}

// rowStart returns the x at which a row of the given width begins, clamped
// so the row stays inside the margins where it fits.
func (p *pass) rowStart(row []*scene.Element, width float64) float64 {
	c, m := p.scene.Canvas, p.scene.Margins
	b := p.anchor.Bounds()
	vis := visible(row)

	var x float64
	switch p.align {
	case scene.AlignCenter:
		x = b.Left + (b.Width-width)/2
	case scene.AlignRight:
		x = b.Right() - width
		if len(vis) > 0 {
			x += vis[len(vis)-1].Padding
		}
	default:
		x = b.Left
		if len(vis) > 0 {
			x -= vis[0].Padding
		}
	}

	if x < m.Left {
		x = m.Left
	}
	if x+width > c.Width-m.Right {
		x = math.Max(m.Left, c.Width-m.Right-width)
	}
	return x
}

// flow places every row under the anchor and returns the vertical cursor
// after the last row.
func (p *pass) flow(rows [][]*scene.Element) float64 {
	maxRight := p.scene.Canvas.Width - p.scene.Margins.Right
	cursorY := p.anchor.Bounds().Bottom() + p.cfg.VSpacing

	for _, row := range rows {
		width := p.rowWidth(row)
		cursorX := p.rowStart(row, width)

		var rowHeight float64
		for _, el := range row {
			pad := el.Padding
			el.MoveTo(cursorX+pad, cursorY+pad)

			if !el.Visible {
				cursorX += p.cfg.InvisibleAdvance
				continue
			}
			rowHeight = math.Max(rowHeight, outerHeight(el))

			cursorX = p.escape(el, cursorX, maxRight)
			cursorX += outerWidth(el) + p.cfg.HSpacing
		}

		p.correctRowEdge(row, maxRight)

		if rowHeight > 0 {
			cursorY += rowHeight + p.cfg.VSpacing
		}
	}
	return cursorY
}

// escape slides a colliding element right in EscapeStep increments until it
// is clear or the cursor reaches maxRight. If it never clears, the element
// returns to its pre-escape slot and the collision is recorded. It returns the
// cursor the element ended at.
func (p *pass) escape(el *scene.Element, cursorX, maxRight float64) float64 {
	if len(p.areas) == 0 || !geom.IntersectsAny(el.Bounds(), p.areas) {
		return cursorX
	}

	start := cursorX
	colliding := true
	for colliding && cursorX < maxRight {
		cursorX += p.cfg.EscapeStep
		el.SetLeft(cursorX + el.Padding)
		colliding = geom.IntersectsAny(el.Bounds(), p.areas)
	}
	if !colliding {
		return cursorX
	}

	el.SetLeft(start + el.Padding)
	if i := geom.FirstIntersecting(el.Bounds(), p.areas); i >= 0 {
		p.unresolved(el, p.areas[i], StageTagEscape)
	}
	return start
}

// correctRowEdge shifts the whole row left when its last visible member ends
// past maxRight. The shift can move a member back onto an area it escaped;
// such members are recorded with StageRowEdge.
func (p *pass) correctRowEdge(row []*scene.Element, maxRight float64) {
	vis := visible(row)
	if len(vis) == 0 {
		return
	}
	overflow := vis[len(vis)-1].Bounds().Right() - maxRight
	if overflow <= 0 {
		return
	}
	for _, el := range row {
		el.Translate(-overflow, 0)
	}

	for _, el := range vis {
		if p.recorded(el) {
			continue
		}
		if i := geom.FirstIntersecting(el.Bounds(), p.areas); i >= 0 {
			p.unresolved(el, p.areas[i], StageRowEdge)
		}
	}
}

// recorded reports whether el already has an unresolved collision.
func (p *pass) recorded(el *scene.Element) bool {
	return slices.ContainsFunc(p.diag.Unresolved, func(c Collision) bool {
		return c.ElementID == el.ID
	})
}
