package property

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a list of properties. format is "json" or "yaml".
func Decode(data []byte, format string) ([]Property, error) {
	var props []Property
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("parsing properties json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("parsing properties yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return props, nil
}

// LoadFile reads a JSON or YAML catalog file, chosen by extension, and builds a Catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	props, err := Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}

	return NewCatalog(props)
}
