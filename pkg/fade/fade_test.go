package fade

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

var bg = geom.R(0, 0, 1920, 1080)

func TestLinearGeometry(t *testing.T) {
	tests := []struct {
		side   Side
		rect   geom.Rect
		coords scene.GradientCoords
	}{
		{Left, geom.R(-2, -2, 302, 1084), scene.GradientCoords{X2: 1}},
		{Right, geom.R(1620, -2, 302, 1084), scene.GradientCoords{X1: 1}},
		{Top, geom.R(-2, -2, 1924, 302), scene.GradientCoords{Y2: 1}},
		{Bottom, geom.R(-2, 780, 1924, 302), scene.GradientCoords{Y1: 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			el, ok := Linear(bg, tt.side, 300, colorful.Color{})
			if !ok {
				t.Fatal("Linear() returned no shape")
			}
			if got := el.Bounds(); got != tt.rect {
				t.Errorf("bounds = %+v, want %+v", got, tt.rect)
			}
			if el.Fill.Coords != tt.coords {
				t.Errorf("coords = %+v, want %+v", el.Fill.Coords, tt.coords)
			}
			if el.Tag != scene.TagFadeEffect || el.Role() != scene.RoleDecoration {
				t.Errorf("tag = %q", el.Tag)
			}
		})
	}

	if _, ok := Linear(bg, Left, 0, colorful.Color{}); ok {
		t.Error("zero size should produce no shape")
	}
}

func TestCornerGeometry(t *testing.T) {
	tests := []struct {
		mode   scene.FadeMode
		rect   geom.Rect
		cx, cy float64
	}{
		{scene.FadeBottomLeft, geom.R(0, 680, 400, 400), 0, 400},
		{scene.FadeBottomRight, geom.R(1520, 680, 400, 400), 400, 400},
		{scene.FadeTopLeft, geom.R(0, 0, 400, 400), 0, 0},
		{scene.FadeTopRight, geom.R(1520, 0, 400, 400), 400, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			el, ok := Corner(bg, tt.mode, 400, colorful.Color{})
			if !ok {
				t.Fatal("Corner() returned no shape")
			}
			if got := el.Bounds(); got != tt.rect {
				t.Errorf("bounds = %+v, want %+v", got, tt.rect)
			}
			c := el.Fill.Coords
			if c.X1 != tt.cx || c.Y1 != tt.cy || c.R2 != 400 || el.Fill.Type != scene.GradientRadial {
				t.Errorf("gradient = %+v", el.Fill)
			}
		})
	}
}

func TestVignette(t *testing.T) {
	el, ok := Vignette(geom.R(0, 0, 1919.5, 1080), 900, ParseColor("#102030"))
	if !ok {
		t.Fatal("Vignette() returned no shape")
	}
	want := geom.R(-5, -5, 1930, 1090)
	if got := el.Bounds(); got != want {
		t.Errorf("bounds = %+v, want %+v", got, want)
	}
	if el.Fill.Stops[0].Color != "rgba(16, 32, 48, 0.005)" || el.Fill.Stops[1].Color != "rgba(16, 32, 48, 1)" {
		t.Errorf("stops = %+v, want clear centre and opaque edge", el.Fill.Stops)
	}
}

func TestShapesPerMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  scene.FadeConfig
		ids  []string
	}{
		{"none", scene.FadeConfig{Mode: scene.FadeNone, Left: 100}, nil},
		{"custom", scene.FadeConfig{Mode: scene.FadeCustom, Left: 100, Bottom: 50}, []string{"fade-left", "fade-bottom"}},
		{"custom empty", scene.FadeConfig{Mode: scene.FadeCustom}, nil},
		{"corner", scene.FadeConfig{Mode: scene.FadeBottomLeft, Radius: 300, Left: 100, Bottom: 80}, []string{"fade-bottom-left", "fade-left", "fade-bottom"}},
		{"corner without radius", scene.FadeConfig{Mode: scene.FadeTopRight, Right: 100}, []string{"fade-right"}},
		{"vignette", scene.FadeConfig{Mode: scene.FadeVignette, Radius: 900, Top: 60}, []string{"fade-vignette", "fade-top"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shapes(bg, tt.cfg, colorful.Color{})
			if len(got) != len(tt.ids) {
				t.Fatalf("got %d shapes, want %d", len(got), len(tt.ids))
			}
			for i, el := range got {
				if el.ID != tt.ids[i] {
					t.Errorf("shape %d = %s, want %s", i, el.ID, tt.ids[i])
				}
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	s := &scene.Scene{
		Canvas:          scene.Canvas1080,
		BackgroundColor: "#abc",
		Fade:            scene.FadeConfig{Mode: scene.FadeCustom, Left: 200, Right: 200},
		Elements: []scene.Element{
			{ID: "bg", Tag: scene.TagBackground, Width: 1920, Height: 1080, ScaleX: 1, ScaleY: 1, Visible: true},
			{ID: "logo", Tag: scene.TagTitle, Width: 100, Height: 100, ScaleX: 1, ScaleY: 1, Visible: true},
		},
	}

	if n := Apply(s); n != 2 {
		t.Fatalf("Apply() = %d, want 2", n)
	}
	if n := Apply(s); n != 2 {
		t.Fatalf("second Apply() = %d, want 2", n)
	}
	ids := []string{"bg", "fade-left", "fade-right", "logo"}
	if len(s.Elements) != len(ids) {
		t.Fatalf("elements = %d, want %d", len(s.Elements), len(ids))
	}
	for i, id := range ids {
		if s.Elements[i].ID != id {
			t.Errorf("element %d = %s, want %s", i, s.Elements[i].ID, id)
		}
	}
	if got := s.Elements[1].Fill.Stops[0].Color; got != "rgba(170, 187, 204, 1)" {
		t.Errorf("stop colour = %s", got)
	}

	s.Fade.Mode = scene.FadeNone
	if n := Apply(s); n != 0 || len(s.Elements) != 2 {
		t.Errorf("mode none left %d elements", len(s.Elements))
	}
}

func TestApplyWithoutBackground(t *testing.T) {
	s := &scene.Scene{
		Fade:     scene.FadeConfig{Mode: scene.FadeCustom, Left: 10},
		Elements: []scene.Element{{ID: "old", Tag: scene.TagFadeEffect}},
	}
	if n := Apply(s); n != 0 || len(s.Elements) != 0 {
		t.Errorf("Apply() = %d with %d elements left", n, len(s.Elements))
	}
}

func TestParseColor(t *testing.T) {
	if got := RGBA(ParseColor("#ff0000"), 0); got != "rgba(255, 0, 0, 0.005)" {
		t.Errorf("RGBA() = %s", got)
	}
	if got := RGBA(ParseColor("nope"), 1); got != "rgba(0, 0, 0, 1)" {
		t.Errorf("invalid colour = %s, want black", got)
	}
}
