package layout

import (
	"math"
	"slices"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// blockedOverflow returns the deepest intrusion of the anchor or a visible
// tag into a blocked area that starts below the element's top edge.
func (p *pass) blockedOverflow(rows [][]*scene.Element) float64 {
	if len(p.areas) == 0 {
		return 0
	}
	els := []*scene.Element{p.anchor}
	for _, row := range rows {
		els = append(els, visible(row)...)
	}

	var deepest float64
	for _, el := range els {
		b := el.Bounds()
		for _, a := range p.areas {
			if a.Top <= b.Top || !geom.Intersects(b, a) {
				continue
			}
			deepest = math.Max(deepest, b.Bottom()-a.Top)
		}
	}
	return deepest
}

// resolveOverflow lifts the anchor and all rows when content runs past the
// bottom margin or into an area below it. The anchor first moves up as far
// as the nearest boundary above it allows; whatever that cannot recover is
// taken out of the anchor's height, down to MinAnchorHeight. Rows always
// move by the full amount, so with the anchor at its floor they may overlap
// it or rise above the top margin.
func (p *pass) resolveOverflow(rows [][]*scene.Element, cursorY float64) {
	c, m := p.scene.Canvas, p.scene.Margins

	contentBottom := cursorY - p.cfg.VSpacing
	marginOverflow := math.Max(0, contentBottom-(c.Height-m.Bottom))
	total := math.Max(marginOverflow, p.blockedOverflow(rows))
	if total <= 0 {
		return
	}

	b := p.anchor.Bounds()
	limit := limitAbove(p.areas, m.Top, b, p.cfg.AboveTolerance)
	safe := math.Max(0, b.Top-limit)

	if total <= safe {
		p.anchor.Translate(0, -total)
	} else {
		deficit := total - safe
		want := b.Height - deficit
		h := math.Max(p.cfg.MinAnchorHeight, want)
		if h < b.Height {
			p.rescaleAnchor(h)
			p.diag.Shrunk = true
		}
		p.anchor.SetTop(limit)
		if want < h {
			p.diag.ResidualOverflow = h - want
		}
	}

	for _, row := range rows {
		for _, el := range row {
			el.Translate(0, -total)
		}
	}
	if p.diag.ResidualOverflow > 0 {
		p.markDisplaced(rows)
	}
	p.dropCleared()
}

// dropCleared forgets recorded collisions that the overflow shift resolved.
func (p *pass) dropCleared() {
	p.diag.Unresolved = slices.DeleteFunc(p.diag.Unresolved, func(c Collision) bool {
		i := p.scene.Find(c.ElementID)
		return i >= 0 && !geom.Intersects(p.scene.Elements[i].Bounds(), c.Area)
	})
}

// markDisplaced records visible tags the overflow shift left above the top
// margin.
func (p *pass) markDisplaced(rows [][]*scene.Element) {
	for _, row := range rows {
		for _, el := range visible(row) {
			if el.Bounds().Top < p.scene.Margins.Top {
				p.diag.Displaced = append(p.diag.Displaced, el.ID)
			}
		}
	}
}
