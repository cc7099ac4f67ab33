package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/z9m/backdrop/pkg/config"
	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/metadata"
	"github.com/z9m/backdrop/pkg/profile"
	"github.com/z9m/backdrop/pkg/scene"
)

const testScene = `{
  "canvas": {"width": 1920, "height": 1080},
  "margins": {"top": 50, "right": 50, "bottom": 50, "left": 50},
  "elements": [
    {"id": "title", "tag": "title", "kind": "text", "left": 50, "top": 50, "width": 400, "height": 150},
    {"id": "year", "tag": "year", "kind": "text", "left": 50, "top": 220, "width": 80, "height": 40}
  ]
}`

// writeConfig writes a config file keeping the cache and profiles under dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[cache]\ndir = %q\n\n[profiles]\npath = %q\n",
		filepath.Join(dir, "cache"), filepath.Join(dir, "overlays.json"))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func storeAt(t *testing.T, dir string) *profile.FileStore {
	t.Helper()
	s, err := profile.NewFileStore(filepath.Join(dir, "overlays.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	if err := runCLI(t, "--config", cfgPath, "profiles", "add", "--name", "TV", "--area", "1500,0,420,200"); err != nil {
		t.Fatalf("profiles add: %v", err)
	}
	list, err := storeAt(t, dir).List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("profiles = %v (%v)", list, err)
	}

	input := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(input, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	err = runCLI(t, "--config", cfgPath, "layout", input,
		"--profile", list[0].ID, "--title", "Dune", "--year", "2021")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	out, err := scene.ReadFile(filepath.Join(dir, "scene.layout.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if out.ProfileID != list[0].ID {
		t.Errorf("profile = %q, want %q", out.ProfileID, list[0].ID)
	}
	year := out.Elements[out.Find("year")]
	if year.Text != "2021" {
		t.Errorf("year text = %q", year.Text)
	}
	if len(out.BlockedAreas) != 1 {
		t.Errorf("blocked areas = %v, want the profile's", out.BlockedAreas)
	}
}

func TestLayoutCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := runCLI(t, "--config", writeConfig(t, dir), "layout", filepath.Join(dir, "absent.json"))
	if err == nil {
		t.Fatal("layout of a missing file succeeded")
	}
}

func TestProfilesCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	src := filepath.Join(dir, "guide.png")
	if err := os.WriteFile(src, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "--config", cfgPath, "profiles", "add", "--name", "Phone", "--overlay-1080", src); err != nil {
		t.Fatalf("profiles add: %v", err)
	}
	store := storeAt(t, dir)
	list, _ := store.List(context.Background())
	if len(list) != 1 || list[0].File1080 == "" {
		t.Fatalf("profiles = %+v", list)
	}
	id := list[0].ID
	if _, err := os.Stat(filepath.Join(store.OverlayDir(), list[0].File1080)); err != nil {
		t.Errorf("overlay not imported: %v", err)
	}

	sceneFile := filepath.Join(dir, "areas.json")
	sc := `{"canvas": {"width": 1920, "height": 1080}, "blocked_areas": [{"left": 0, "top": 900, "width": 600, "height": 180}], "elements": []}`
	if err := os.WriteFile(sceneFile, []byte(sc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "--config", cfgPath, "profiles", "areas", id, "--from-scene", sceneFile, "--area", "10,10,50,50"); err != nil {
		t.Fatalf("profiles areas: %v", err)
	}
	p, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Rect{geom.R(0, 900, 600, 180), geom.R(10, 10, 50, 50)}
	if len(p.BlockedAreas) != 2 || p.BlockedAreas[0] != want[0] || p.BlockedAreas[1] != want[1] {
		t.Errorf("areas = %v, want %v", p.BlockedAreas, want)
	}

	for _, args := range [][]string{{"profiles", "list"}, {"profiles", "show", id}, {"profiles", "show", "--json", id}} {
		if err := runCLI(t, append([]string{"--config", cfgPath}, args...)...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}

	if err := runCLI(t, "--config", cfgPath, "profiles", "delete", id); err != nil {
		t.Fatalf("profiles delete: %v", err)
	}
	if err := runCLI(t, "--config", cfgPath, "profiles", "show", id); !errors.Is(err, errors.ErrCodeProfileNotFound) {
		t.Errorf("show deleted = %v, want PROFILE_NOT_FOUND", err)
	}
}

func TestParseArea(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Rect
		wantErr bool
	}{
		{in: "1500,0,420,200", want: geom.R(1500, 0, 420, 200)},
		{in: " 10, 20 , 30.5,40 ", want: geom.R(10, 20, 30.5, 40)},
		{in: "1,2,3", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseArea(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArea(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseArea(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollectAreasRejectsNegativeSize(t *testing.T) {
	if _, err := collectAreas([]string{"0,0,-5,10"}, ""); !errors.IsValidation(err) {
		t.Errorf("collectAreas(negative) = %v, want a validation error", err)
	}
}

func TestMergeMetadata(t *testing.T) {
	base := metadata.Metadata{Title: "Dune", Year: "2021", Genres: "Sci-Fi"}
	got := mergeMetadata(base, metadata.Metadata{Year: "2024", Rating: "8.1"})
	want := metadata.Metadata{Title: "Dune", Year: "2024", Genres: "Sci-Fi", Rating: "8.1"}
	if got != want {
		t.Errorf("mergeMetadata = %+v, want %+v", got, want)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	if got := defaultOutputPath("/tmp/movie.json"); got != "/tmp/movie.layout.json" {
		t.Errorf("defaultOutputPath = %q", got)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("written config = %+v, want defaults", cfg)
	}

	if err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force succeeded")
	}
	if err := runCLI(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}
