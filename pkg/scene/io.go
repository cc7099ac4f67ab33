package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/z9m/backdrop/pkg/errors"
)

// Unmarshal decodes a scene from JSON. Elements without an ID receive a fresh
// UUID so that later passes can address them by ID.
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	AssignIDs(&s)
	return &s, nil
}

// Read decodes a scene from r.
func Read(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile loads a scene from a JSON file.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes the scene as indented JSON. Output is deterministic for a
// given scene value.
func Marshal(s *Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return append(data, '\n'), nil
}

// Write encodes the scene to w.
func Write(w io.Writer, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the scene as JSON to path.
func WriteFile(path string, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// AssignIDs gives every element without an ID a new random UUID.
func AssignIDs(s *Scene) {
	for i := range s.Elements {
		if s.Elements[i].ID == "" {
			s.Elements[i].ID = uuid.NewString()
		}
	}
}
