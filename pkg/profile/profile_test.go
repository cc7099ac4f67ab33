package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/geom"
	"github.com/z9m/backdrop/pkg/scene"
)

func TestOverlayFile(t *testing.T) {
	tests := []struct {
		name  string
		p     Profile
		width float64
		want  string
	}{
		{"1080 preferred", Profile{File1080: "a.png", File4K: "b.png"}, 1920, "a.png"},
		{"4k preferred", Profile{File1080: "a.png", File4K: "b.png"}, 3840, "b.png"},
		{"4k falls back", Profile{File1080: "a.png"}, 3840, "a.png"},
		{"1080 falls back", Profile{File4K: "b.png"}, 1920, "b.png"},
		{"none", Profile{}, 1920, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.OverlayFile(tt.width); got != tt.want {
				t.Errorf("OverlayFile(%v) = %q, want %q", tt.width, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (&Profile{}).Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty name: %v", err)
	}
	p := Profile{Name: "tv", BlockedAreas: []geom.Rect{geom.R(0, 0, -1, 10)}}
	if err := p.Validate(); err == nil {
		t.Error("negative width should be rejected")
	}
	p.BlockedAreas = []geom.Rect{geom.R(0, 0, 10, 10)}
	if err := p.Validate(); err != nil {
		t.Errorf("valid profile: %v", err)
	}
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	b, err := s.Add(ctx, Profile{Name: "bedroom"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.ID == "" {
		t.Fatal("Add should assign an ID")
	}
	a, err := s.Add(ctx, Profile{ID: "lr", Name: "living room", BlockedAreas: []geom.Rect{geom.R(1500, 0, 420, 200)}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID != "lr" {
		t.Errorf("explicit ID replaced: %s", a.ID)
	}
	if _, err := s.Add(ctx, Profile{ID: "lr", Name: "dup"}); err == nil {
		t.Error("duplicate ID should fail")
	}
	if _, err := s.Add(ctx, Profile{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Add without name = %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "bedroom" || list[1].Name != "living room" {
		t.Fatalf("List = %+v", list)
	}

	areas := []geom.Rect{geom.R(0, 900, 400, 180)}
	if err := s.UpdateAreas(ctx, "lr", areas); err != nil {
		t.Fatalf("UpdateAreas: %v", err)
	}
	got, err := s.Get(ctx, "lr")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.BlockedAreas) != 1 || got.BlockedAreas[0] != areas[0] {
		t.Errorf("areas = %+v", got.BlockedAreas)
	}
	if err := s.UpdateAreas(ctx, "nope", areas); !errors.Is(err, errors.ErrCodeProfileNotFound) {
		t.Errorf("UpdateAreas unknown = %v", err)
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, b.ID); !errors.Is(err, errors.ErrCodeProfileNotFound) {
		t.Errorf("Get deleted = %v", err)
	}
	if err := s.Delete(ctx, b.ID); !errors.Is(err, errors.ErrCodeProfileNotFound) {
		t.Errorf("Delete twice = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "overlays.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	storeContract(t, s)

	// A second store over the same file sees the same data.
	again, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	list, err := again.List(context.Background())
	if err != nil || len(list) != 1 || list[0].ID != "lr" {
		t.Errorf("reopened List = %+v, %v", list, err)
	}
}

func TestFileStoreOverlayImages(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "overlays.json"))
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(dir, "clock.png")
	if err := os.WriteFile(src, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	name, err := s.ImportOverlay(src, "p1", "1080")
	if err != nil {
		t.Fatalf("ImportOverlay: %v", err)
	}
	if name != "p1_1080.png" {
		t.Errorf("name = %s", name)
	}
	if _, err := s.Add(ctx, Profile{ID: "p1", Name: "clock", File1080: name}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.OverlayDir(), name)); !os.IsNotExist(err) {
		t.Error("overlay image should be removed with its profile")
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlays.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.List(context.Background()); err == nil {
		t.Error("corrupt file should fail to list")
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	sceneAreas := []geom.Rect{geom.R(0, 0, 100, 100)}
	profileAreas := []geom.Rect{geom.R(1500, 0, 420, 200)}
	store := NewMemoryStore(
		Profile{ID: "tv", Name: "tv", BlockedAreas: profileAreas, File1080: "tv_1080.png", File4K: "tv_4k.png"},
		Profile{ID: "empty", Name: "empty"},
	)

	tests := []struct {
		name    string
		store   Store
		id      string
		width   float64
		areas   []geom.Rect
		source  Source
		overlay string
		missing bool
	}{
		{"no profile", store, "", 1920, sceneAreas, SourceScene, "", false},
		{"nil store", nil, "tv", 1920, sceneAreas, SourceScene, "", false},
		{"profile wins", store, "tv", 1920, profileAreas, SourceProfile, "tv_1080.png", false},
		{"4k overlay", store, "tv", 3840, profileAreas, SourceProfile, "tv_4k.png", false},
		{"profile without areas", store, "empty", 1920, nil, SourceProfile, "", false},
		{"unknown profile", store, "gone", 1920, sceneAreas, SourceScene, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scene.Scene{
				Canvas:       scene.Canvas{Width: tt.width, Height: tt.width * 9 / 16},
				ProfileID:    tt.id,
				BlockedAreas: sceneAreas,
			}
			res, err := Resolve(ctx, tt.store, s)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(res.Areas) != len(tt.areas) || (len(tt.areas) > 0 && res.Areas[0] != tt.areas[0]) {
				t.Errorf("areas = %+v, want %+v", res.Areas, tt.areas)
			}
			if res.Source != tt.source || res.Overlay != tt.overlay || res.Missing != tt.missing {
				t.Errorf("resolution = %+v", res)
			}
		})
	}
}

type failingStore struct{ MemoryStore }

func (*failingStore) Get(context.Context, string) (*Profile, error) {
	return nil, errors.New(errors.ErrCodeInternal, "backend down")
}

func TestResolveBackendError(t *testing.T) {
	s := &scene.Scene{ProfileID: "tv"}
	if _, err := Resolve(context.Background(), &failingStore{}, s); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Resolve = %v, want backend error", err)
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), "not-a-uri", "backdrop"); err == nil {
		t.Error("NewMongoStore should reject an invalid URI")
	}
}
