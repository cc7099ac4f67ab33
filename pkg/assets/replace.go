package assets

import (
	"math"
	"slices"

	"github.com/z9m/backdrop/pkg/scene"
)

// ReplaceBackground swaps the scene's background for the image at src with
// the given intrinsic size and returns its index (always 0).
//
// The new image keeps the old background's centre and on-screen width. With
// no previous background it is centred and scaled to cover the canvas.
func ReplaceBackground(s *scene.Scene, src string, w, h int) int {
	cx, cy := s.Canvas.Width/2, s.Canvas.Height/2
	scale := 0.0
	if w > 0 && h > 0 {
		scale = math.Max(s.Canvas.Width/float64(w), s.Canvas.Height/float64(h))
	}

	id := ""
	if i := s.Background(); i >= 0 {
		old := s.Elements[i]
		b := old.Bounds()
		cx, cy = b.CenterX(), b.CenterY()
		if w > 0 && b.Width > 0 {
			scale = b.Width / float64(w)
		}
		id = old.ID
		s.Elements = slices.Delete(s.Elements, i, i+1)
	}
	if id == "" {
		id = "background"
	}

	bg := scene.Element{
		ID:      id,
		Tag:     scene.TagBackground,
		Kind:    scene.KindImage,
		Src:     src,
		Left:    cx,
		Top:     cy,
		Width:   float64(w),
		Height:  float64(h),
		ScaleX:  scale,
		ScaleY:  scale,
		OriginX: scene.OriginCenter,
		OriginY: scene.OriginCenter,
		Visible: true,
	}
	s.Elements = slices.Insert(s.Elements, 0, bg)
	return 0
}

// ReplaceLogo turns the scene's title into the image at src and moves it to
// the front. The logo keeps the title's position and origin and is scaled
// down, never up, to the title's on-screen width. It reports whether the
// scene had a title.
//
// The title's home placement is cleared because its geometry changed; the
// next layout pass records a new one.
func ReplaceLogo(s *scene.Scene, src string, w, h int) bool {
	i := s.Anchor()
	if i < 0 {
		return false
	}
	title := s.Elements[i]
	targetW := title.ScaledWidth()

	scale := 1.0
	if w > 0 {
		scale = math.Min(targetW/float64(w), 1)
	}

	title.Kind = scene.KindImage
	title.Src = src
	title.Text = ""
	title.Width, title.Height = float64(w), float64(h)
	title.ScaleX, title.ScaleY = scale, scale
	title.Visible = true
	title.Home = nil

	s.Elements = append(slices.Delete(s.Elements, i, i+1), title)
	return true
}
