package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/z9m/backdrop/pkg/geom"
)

// FileStore keeps every profile in one JSON array on disk, next to a
// directory holding the overlay guide images.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a file-based store. If path is empty it defaults to
// ~/.config/backdrop/overlays.json. The file is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "backdrop", "overlays.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the profile file location.
func (s *FileStore) Path() string { return s.path }

// OverlayDir returns the directory overlay images are stored in.
func (s *FileStore) OverlayDir() string {
	return filepath.Join(filepath.Dir(s.path), "overlays")
}

func (s *FileStore) List(ctx context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b Profile) int { return strings.Compare(a.Name, b.Name) })
	return all, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, notFound(id)
}

func (s *FileStore) Add(ctx context.Context, p Profile) (*Profile, error) {
	p, err := prepare(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(all, func(o Profile) bool { return o.ID == p.ID }) {
		return nil, fmt.Errorf("profile %q already exists", p.ID)
	}
	all = append(all, p)
	if err := s.save(all); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) UpdateAreas(ctx context.Context, id string, areas []geom.Rect) error {
	if err := ValidateAreas(areas); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(o Profile) bool { return o.ID == id })
	if i < 0 {
		return notFound(id)
	}
	all[i].BlockedAreas = slices.Clone(areas)
	return s.save(all)
}

// Delete removes the profile and its overlay images.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(o Profile) bool { return o.ID == id })
	if i < 0 {
		return notFound(id)
	}
	for _, f := range []string{all[i].File1080, all[i].File4K} {
		if f == "" {
			continue
		}
		if err := os.Remove(filepath.Join(s.OverlayDir(), filepath.Base(f))); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove overlay image: %w", err)
		}
	}
	return s.save(slices.Delete(all, i, i+1))
}

func (s *FileStore) Close() error { return nil }

// ImportOverlay copies an image into the overlay directory under the name
// "<id>_<suffix><ext>" and returns that name.
func (s *FileStore) ImportOverlay(src, id, suffix string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open overlay image: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(s.OverlayDir(), 0755); err != nil {
		return "", fmt.Errorf("create overlay dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s%s", id, suffix, filepath.Ext(src))
	out, err := os.Create(filepath.Join(s.OverlayDir(), name))
	if err != nil {
		return "", fmt.Errorf("create overlay image: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copy overlay image: %w", err)
	}
	return name, out.Close()
}

// load reads the profile file. A missing or empty file is an empty store.
func (s *FileStore) load() ([]Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}
	var all []Profile
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse profile file %s: %w", s.path, err)
	}
	return all, nil
}

// save writes through a temporary file so readers never see a partial file.
func (s *FileStore) save(all []Profile) error {
	if all == nil {
		all = []Profile{}
	}
	data, err := json.MarshalIndent(all, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace profile file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
