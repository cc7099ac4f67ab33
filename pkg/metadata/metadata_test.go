package metadata

import (
	"testing"

	"github.com/z9m/backdrop/pkg/scene"
)

func text(id string, tag scene.Tag) scene.Element {
	return scene.Element{ID: id, Tag: tag, Kind: scene.KindText, Width: 100, Height: 40,
		ScaleX: 1, ScaleY: 1, Visible: true, FontSize: 40}
}

func TestProviderLabel(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", "Now available on Jellyfin"},
		{"radarr", "Available soon..."},
		{"Sonarr", "Available soon..."},
		{"tmdb", "Now available on TMDB"},
		{"netflix", "Now available on Netflix"},
		{"PLEX", "Now available on Plex"},
		{"émby", "Now available on Émby"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := ProviderLabel(tt.source); got != tt.want {
				t.Errorf("ProviderLabel(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestLimitGenres(t *testing.T) {
	tests := []struct {
		genres string
		limit  int
		want   string
	}{
		{"Action, Drama, Comedy", 2, "Action, Drama"},
		{"Action, Drama", 5, "Action, Drama"},
		{"Action, Drama", 0, "Action, Drama"},
		{"", 2, ""},
	}
	for _, tt := range tests {
		if got := LimitGenres(tt.genres, tt.limit); got != tt.want {
			t.Errorf("LimitGenres(%q, %d) = %q, want %q", tt.genres, tt.limit, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	s := &scene.Scene{
		GenreLimit: 1,
		Elements: []scene.Element{
			text("title", scene.TagTitle),
			text("year", scene.TagYear),
			text("rating", scene.TagRating),
			text("genres", scene.TagGenres),
			text("runtime", scene.TagRuntime),
			text("provider", scene.TagProviderSource),
			{ID: "star", Tag: scene.TagRatingStar, Kind: scene.KindText, Visible: true},
			{ID: "bg", Tag: scene.TagBackground, Kind: scene.KindImage, Visible: true},
		},
	}
	m := Metadata{Year: "1999", Genres: "Sci-Fi,Action", Rating: "8.7"}

	n := Apply(s, m, WithoutMeasuring())
	if n != 4 {
		t.Errorf("Apply() filled %d, want 4", n)
	}

	want := map[string]struct {
		text    string
		visible bool
	}{
		"title":    {"", true},
		"year":     {"1999", true},
		"rating":   {"8.7", true},
		"genres":   {"Sci-Fi", true},
		"runtime":  {"", false},
		"provider": {"Now available on Jellyfin", true},
		"star":     {"", true},
		"bg":       {"", true},
	}
	for _, el := range s.Elements {
		w := want[el.ID]
		if el.Text != w.text || el.Visible != w.visible {
			t.Errorf("%s: text %q visible %v, want %q %v", el.ID, el.Text, el.Visible, w.text, w.visible)
		}
	}
}

func TestApplyImageTitleUntouched(t *testing.T) {
	logo := scene.Element{ID: "logo", Tag: scene.TagTitle, Kind: scene.KindImage, Width: 300, Height: 100, ScaleX: 1, ScaleY: 1}
	s := &scene.Scene{Elements: []scene.Element{logo}}
	if n := Apply(s, Metadata{Title: "Heat"}); n != 0 {
		t.Errorf("Apply() = %d, want 0", n)
	}
	if s.Elements[0].Text != "" || s.Elements[0].Visible {
		t.Errorf("image title changed: %+v", s.Elements[0])
	}
}

func TestApplyMeasures(t *testing.T) {
	el := text("year", scene.TagYear)
	el.OriginX = scene.OriginCenter
	el.Left = 200
	s := &scene.Scene{Elements: []scene.Element{el, text("overview", scene.TagOverview)}}

	fixed := MeasurerFunc(func(s string, size float64) (float64, float64) {
		return float64(len(s)) * 10, size
	})
	Apply(s, Metadata{Year: "2024", Overview: "A long story"}, WithMeasurer(fixed))

	got := s.Elements[0]
	if got.Width != 40 || got.Height != 40 {
		t.Errorf("year size = %vx%v, want 40x40", got.Width, got.Height)
	}
	if b := got.Bounds(); b.Left != 150 {
		t.Errorf("year left edge = %v, want 150 (unchanged)", b.Left)
	}
	if ov := s.Elements[1]; ov.Width != 100 || ov.Height != 40 {
		t.Errorf("overview box resized to %vx%v", ov.Width, ov.Height)
	}
}

func TestEstimateMeasurer(t *testing.T) {
	tests := []struct {
		text string
		w, h float64
	}{
		{"2024", 4 * CellWidth * 10, LineHeight * 10},
		{"ab\nabcdef", 6 * CellWidth * 10, 2 * LineHeight * 10},
		{"日本", 4 * CellWidth * 10, LineHeight * 10},
	}
	for _, tt := range tests {
		w, h := EstimateMeasurer{}.Measure(tt.text, 10)
		if !near(w, tt.w) || !near(h, tt.h) {
			t.Errorf("Measure(%q) = %vx%v, want %vx%v", tt.text, w, h, tt.w, tt.h)
		}
	}
}

func TestSyncTextAlign(t *testing.T) {
	tests := []struct {
		name   string
		align  scene.Alignment
		anchor float64
		want   scene.Alignment
	}{
		{"explicit", scene.AlignCenter, 100, scene.AlignCenter},
		{"auto left half", scene.AlignAuto, 100, scene.AlignLeft},
		{"auto right half", scene.AlignAuto, 1500, scene.AlignRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := text("title", scene.TagTitle)
			title.Left = tt.anchor
			s := &scene.Scene{
				Canvas:    scene.Canvas1080,
				Alignment: tt.align,
				Elements:  []scene.Element{title, text("overview", scene.TagOverview), text("p", scene.TagProviderSource), text("y", scene.TagYear)},
			}
			if got := SyncTextAlign(s); got != tt.want {
				t.Errorf("SyncTextAlign() = %s, want %s", got, tt.want)
			}
			if s.Elements[1].TextAlign != string(tt.want) || s.Elements[2].TextAlign != string(tt.want) {
				t.Errorf("text align not synced: %q %q", s.Elements[1].TextAlign, s.Elements[2].TextAlign)
			}
			if s.Elements[3].TextAlign != "" {
				t.Error("year text align should be untouched")
			}
		})
	}
}

func TestSyncTextAlignUsesHome(t *testing.T) {
	title := text("title", scene.TagTitle)
	title.Left = 1500
	title.Home = &scene.Placement{Left: 100, Top: 0, ScaleX: 1, ScaleY: 1}
	s := &scene.Scene{
		Canvas:    scene.Canvas1080,
		Alignment: scene.AlignAuto,
		Elements:  []scene.Element{title, text("overview", scene.TagOverview)},
	}
	if got := SyncTextAlign(s); got != scene.AlignLeft {
		t.Errorf("SyncTextAlign() = %s, want left from the home placement", got)
	}
	if s.Elements[0].Left != 1500 {
		t.Error("SyncTextAlign() moved the anchor")
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
