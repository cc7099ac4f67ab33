package metadata

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/z9m/backdrop/pkg/scene"
)

// Glyph metrics used by EstimateMeasurer, as fractions of the font size.
const (
	CellWidth  = 0.55
	LineHeight = 1.16
)

// Measurer reports the unscaled size of a text block.
type Measurer interface {
	Measure(text string, fontSize float64) (width, height float64)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, fontSize float64) (float64, float64)

// Measure implements Measurer.
func (f MeasurerFunc) Measure(text string, fontSize float64) (float64, float64) {
	return f(text, fontSize)
}

// EstimateMeasurer approximates text extents from terminal cell widths:
// every cell is CellWidth of the font size wide, and wide (CJK, emoji)
// runes take two cells. It needs no font files.
type EstimateMeasurer struct{}

// Measure implements Measurer.
func (EstimateMeasurer) Measure(text string, fontSize float64) (float64, float64) {
	lines := strings.Split(text, "\n")
	cells := 0
	for _, l := range lines {
		cells = max(cells, runewidth.StringWidth(l))
	}
	return float64(cells) * CellWidth * fontSize, float64(len(lines)) * LineHeight * fontSize
}

// resize sets the element's intrinsic size to the measured text size.
// Elements without a font size keep their geometry.
func resize(el *scene.Element, m Measurer) {
	if el.FontSize <= 0 {
		return
	}
	w, h := m.Measure(el.Text, el.FontSize)
	if w <= 0 || h <= 0 {
		return
	}
	b := el.Bounds()
	el.Width, el.Height = w, h
	// Keep the top-left corner where it was for centre-origin elements.
	el.MoveTo(b.Left, b.Top)
}
