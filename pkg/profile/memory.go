package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/z9m/backdrop/pkg/geom"
)

// MemoryStore keeps profiles in memory. It is meant for tests and for
// running the server without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemoryStore returns a store seeded with the given profiles.
func NewMemoryStore(seed ...Profile) *MemoryStore {
	m := &MemoryStore{profiles: make(map[string]Profile, len(seed))}
	for _, p := range seed {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *MemoryStore) List(ctx context.Context) ([]Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Profile) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, notFound(id)
	}
	p.BlockedAreas = slices.Clone(p.BlockedAreas)
	return &p, nil
}

func (m *MemoryStore) Add(ctx context.Context, p Profile) (*Profile, error) {
	p, err := prepare(p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[p.ID]; ok {
		return nil, fmt.Errorf("profile %q already exists", p.ID)
	}
	m.profiles[p.ID] = p
	return &p, nil
}

func (m *MemoryStore) UpdateAreas(ctx context.Context, id string, areas []geom.Rect) error {
	if err := ValidateAreas(areas); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return notFound(id)
	}
	p.BlockedAreas = slices.Clone(areas)
	m.profiles[id] = p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return notFound(id)
	}
	delete(m.profiles, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
