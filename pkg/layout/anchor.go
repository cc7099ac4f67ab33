package layout

import (
	"math"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

// placeAnchor runs the anchor through MarginClamped, GapFitted and
// CollisionPushed. Each step only moves or uniformly rescales the anchor.
func (p *pass) placeAnchor() {
	p.enter(Unconstrained)

	p.clampAnchor()
	p.enter(MarginClamped)

	if len(p.areas) > 0 {
		p.fitAnchorToGap()
		p.enter(GapFitted)
	}

	if p.pushAnchor() {
		p.enter(CollisionPushed)
	}
	p.enter(Final)
}

// clampAnchor moves the anchor inside the margin rectangle. Each axis is
// handled independently; when the anchor is larger than the interior it is
// pinned to the left or top margin.
func (p *pass) clampAnchor() {
	a := p.anchor
	c, m := p.scene.Canvas, p.scene.Margins

	b := a.Bounds()
	if b.Left < m.Left {
		a.SetLeft(m.Left)
	}
	if b = a.Bounds(); b.Right() > c.Width-m.Right {
		a.SetLeft(math.Max(m.Left, c.Width-m.Right-b.Width))
	}

	if b = a.Bounds(); b.Top < m.Top {
		a.SetTop(m.Top)
	}
	if b = a.Bounds(); b.Bottom() > c.Height-m.Bottom {
		a.SetTop(math.Max(m.Top, c.Height-m.Bottom-b.Height))
	}
}

// fitAnchorToGap shrinks the anchor into the vertical gap nearest its centre
// and centres it there. Growth never happens; changes of 1 px or less are
// ignored to keep repeated passes stable.
func (p *pass) fitAnchorToGap() {
	b := p.anchor.Bounds()
	gaps := Gaps(p.areas, p.scene.Canvas, p.scene.Margins, b)
	gap, ok := BestGap(gaps, b.CenterY())
	if !ok {
		return
	}

	curr := b.Height
	maxH := math.Max(p.cfg.MinAnchorHeight, gap.Height()-p.cfg.GapSlack)
	target := math.Min(curr, maxH)
	if math.Abs(target-curr) <= 1 {
		return
	}

	p.rescaleAnchor(target)
	p.anchor.SetTop(gap.Top + (gap.Height()-target)/2)
}

// rescaleAnchor scales the anchor to height h and restores the horizontal
// edge the alignment mode pins: left edge, right edge or centre.
func (p *pass) rescaleAnchor(h float64) {
	a := p.anchor
	old := a.Bounds()
	a.ScaleToHeight(h)
	w := a.ScaledWidth()

	switch p.align {
	case scene.AlignRight:
		a.SetLeft(old.Right() - w)
	case scene.AlignCenter:
		a.SetLeft(old.CenterX() - w/2)
	default:
		a.SetLeft(old.Left)
	}
}

// pushAnchor moves the anchor out of blocked areas by the smallest
// directional clearance, one area at a time, for at most PushRetries
// iterations. It reports whether the anchor moved. A collision that survives
// the retries is recorded as unresolved.
func (p *pass) pushAnchor() bool {
	a := p.anchor
	moved := false
	for range p.cfg.PushRetries {
		b := a.Bounds()
		i := geom.FirstIntersecting(b, p.areas)
		if i < 0 {
			return moved
		}
		_, dx, dy := geom.Overlaps(b, p.areas[i]).Min()
		a.Translate(dx, dy)
		moved = true
	}

	if i := geom.FirstIntersecting(a.Bounds(), p.areas); i >= 0 {
		p.unresolved(a, p.areas[i], StageAnchorPush)
	}
	return moved
}
