package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LineType is a named dash pattern. An empty Dashes slice draws solid.
// Dash lengths alternate drawn/skipped, in world units.
type LineType struct {
	Name   string    `yaml:"name"`
	Dashes []float64 `yaml:"dashes"`
}

// HatchPattern is a named family of parallel fill lines.
type HatchPattern struct {
	Name     string  `yaml:"name"`
	AngleDeg float64 `yaml:"angle"`
	Spacing  float64 `yaml:"spacing"`
}

// Built-in resources, used when no resource file is configured.
var (
	builtinLineTypes = []LineType{
		{Name: "CONTINUOUS"},
		{Name: "DASHED", Dashes: []float64{6, 3}},
		{Name: "DOTTED", Dashes: []float64{0.5, 3}},
		{Name: "DASHDOT", Dashes: []float64{6, 3, 0.5, 3}},
		{Name: "CENTER", Dashes: []float64{12, 3, 3, 3}},
		{Name: "HIDDEN", Dashes: []float64{3, 1.5}},
	}
	builtinHatches = []HatchPattern{
		{Name: "ANSI31", AngleDeg: 45, Spacing: 3.175},
		{Name: "ANSI32", AngleDeg: 45, Spacing: 9.525},
		{Name: "ANSI37", AngleDeg: 45, Spacing: 3.175},
		{Name: "SOLID", Spacing: 0.1},
	}
)

// LoadLineTypes reads the linetype resource file, or returns the
// built-ins when path is empty or the file does not exist.
func LoadLineTypes(path string) ([]LineType, error) {
	var out []LineType
	ok, err := loadYAML(path, &out)
	if err != nil {
		return nil, fmt.Errorf("config: linetypes: %w", err)
	}
	if !ok {
		return append([]LineType(nil), builtinLineTypes...), nil
	}
	for _, lt := range out {
		if lt.Name == "" {
			return nil, fmt.Errorf("%w: linetype without a name in %s", ErrInvalid, path)
		}
		for _, d := range lt.Dashes {
			if d <= 0 {
				return nil, fmt.Errorf("%w: linetype %q has non-positive dash %v", ErrInvalid, lt.Name, d)
			}
		}
	}
	return out, nil
}

// LoadHatchPatterns reads the hatch resource file, or returns the
// built-ins when path is empty or the file does not exist.
func LoadHatchPatterns(path string) ([]HatchPattern, error) {
	var out []HatchPattern
	ok, err := loadYAML(path, &out)
	if err != nil {
		return nil, fmt.Errorf("config: hatches: %w", err)
	}
	if !ok {
		return append([]HatchPattern(nil), builtinHatches...), nil
	}
	for _, h := range out {
		if h.Name == "" {
			return nil, fmt.Errorf("%w: hatch pattern without a name in %s", ErrInvalid, path)
		}
		if h.Spacing <= 0 {
			return nil, fmt.Errorf("%w: hatch %q spacing %v must be positive", ErrInvalid, h.Name, h.Spacing)
		}
	}
	return out, nil
}

// loadYAML reads and decodes path into dst. ok=false means there was
// nothing to load (empty path or missing file), which is not an error.
func loadYAML(path string, dst any) (bool, error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}
