package tilemap

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads and validates a map document from a JSON file.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON map document.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}
	return &m, nil
}

// WriteFile writes a map document to a JSON file.
// The document is indented for readability; canonical form is only used
// for fingerprints, never for storage.
func WriteFile(path string, m *Map) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write map file: %w", err)
	}
	return nil
}
