package kernel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyManifest is returned when a manifest parses but contains no
// components.
var ErrEmptyManifest = errors.New("manifest contains no components")

// Load reads a component manifest from path. The manifest is either a JSON
// array of components or a full structure object; the two forms are
// distinguished by the first JSON token.
func Load(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	s, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return s, nil
}

// Read parses a component manifest from r. Same format rules as Load.
func Read(r io.Reader) (*Structure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Structure, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, ErrEmptyManifest
	}

	var s Structure
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &s.Components); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case '{':
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid JSON: manifest must be an array of components or a structure object")
	}

	if len(s.Components) == 0 {
		return nil, ErrEmptyManifest
	}
	for i, c := range s.Components {
		if c.Name == "" {
			return nil, fmt.Errorf("component %d: missing name", i)
		}
	}
	return &s, nil
}
