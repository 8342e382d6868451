package booking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a list of baseline bookings. format is "json" or "yaml".
func Decode(data []byte, format string) ([]Booking, error) {
	var out []Booking
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing bookings json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing bookings yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported bookings format %q", format)
	}
	return out, nil
}

// LoadFile reads baseline bookings from a JSON or YAML file.
func LoadFile(path string) ([]Booking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bookings: %w", err)
	}
	return Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
}
