package assets

import (
	"image"

	"github.com/disintegration/imaging"
)

// Ambient colour sampling parameters. The image is squashed to a
// SampleSize square and only pixels within SampleBorder of an edge count.
const (
	SampleSize        = 200
	SampleBorder      = 10
	DefaultBrightness = 20
)

// AverageBorder returns the mean colour of the image's border band.
func AverageBorder(img image.Image) RGB {
	small := imaging.Resize(img, SampleSize, SampleSize, imaging.Linear)

	var r, g, b, n int
	for y := 0; y < SampleSize; y++ {
		for x := 0; x < SampleSize; x++ {
			if !inBorder(x, y) {
				continue
			}
			i := small.PixOffset(x, y)
			r += int(small.Pix[i])
			g += int(small.Pix[i+1])
			b += int(small.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return RGB{}
	}
	return RGB{R: r / n, G: g / n, B: b / n}
}

// inBorder reports whether a sample pixel lies in the border band. The far
// edges are exclusive, so the right and bottom bands are one pixel thinner.
func inBorder(x, y int) bool {
	const far = SampleSize - SampleBorder
	return x < SampleBorder || x > far || y < SampleBorder || y > far
}

// BackgroundColor returns the hex colour for a scene background from the
// sampled ambient colour. A nil brightness means DefaultBrightness.
func BackgroundColor(ambient RGB, brightness *int) string {
	pct := DefaultBrightness
	if brightness != nil {
		pct = *brightness
	}
	return ambient.Dim(pct).Hex()
}
