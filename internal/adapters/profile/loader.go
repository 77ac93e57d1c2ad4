// Package profile reads exported player profiles from JSON or YAML documents.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/ptt/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Format names a profile document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Decode reads one profile document and normalizes it: a flat results
// list is split into the top and recent windows and ranks are filled in.
func Decode(r io.Reader, format Format) (model.Profile, error) {
	var p model.Profile
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return model.Profile{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
			return model.Profile{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	default:
		return model.Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if p.Empty() {
		return model.Profile{}, ErrEmptyProfile
	}
	p.Normalize()
	return p, nil
}

// Load opens path and decodes it using the format implied by its extension.
func Load(path string) (model.Profile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return model.Profile{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	p, err := Decode(f, format)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
