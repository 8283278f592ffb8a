// Package config loads engine settings with layered precedence:
// compiled defaults, then a TOML file, then DRAFTSMITH_* environment
// variables. It also loads the linetype and hatch pattern resources.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid value")

// Config are the engine settings a drawing session runs with.
type Config struct {
	// PickThreshold is the hit-test distance in world units.
	PickThreshold float64 `toml:"pick_threshold"`
	// SnapTolerance is the object-snap capture distance.
	SnapTolerance float64 `toml:"snap_tolerance"`
	// CloseThreshold closes a LINE chain clicked back near its start.
	CloseThreshold float64 `toml:"close_threshold"`
	// PolarIncrement is the polar-tracking step in degrees.
	PolarIncrement float64 `toml:"polar_increment"`
	// MaxHistory bounds the undo stack; 0 means the default.
	MaxHistory int `toml:"max_history"`

	// Initial input-modifier state.
	OSnap bool `toml:"osnap"`
	Ortho bool `toml:"ortho"`
	Polar bool `toml:"polar"`

	// Defaults applied to new layers and entities.
	DefaultLineType   string  `toml:"default_linetype"`
	DefaultLineWeight float64 `toml:"default_lineweight"`

	// Resource file paths, empty for compiled-in patterns.
	LineTypesPath string `toml:"linetypes_path"`
	HatchesPath   string `toml:"hatches_path"`
}

// Default returns the compiled-in settings.
func Default() Config {
	return Config{
		PickThreshold:     5.0,
		SnapTolerance:     8.0,
		CloseThreshold:    5.0,
		PolarIncrement:    45,
		MaxHistory:        100,
		OSnap:             true,
		DefaultLineType:   "CONTINUOUS",
		DefaultLineWeight: 0.25,
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped
// when path is empty or missing) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No file is fine; defaults plus env apply.
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays DRAFTSMITH_* variables. Unparseable values are
// ignored so a stray variable cannot make the editor unstartable.
func applyEnv(cfg *Config) {
	envFloat("DRAFTSMITH_PICK_THRESHOLD", &cfg.PickThreshold)
	envFloat("DRAFTSMITH_SNAP_TOLERANCE", &cfg.SnapTolerance)
	envFloat("DRAFTSMITH_CLOSE_THRESHOLD", &cfg.CloseThreshold)
	envFloat("DRAFTSMITH_POLAR_INCREMENT", &cfg.PolarIncrement)
	envInt("DRAFTSMITH_MAX_HISTORY", &cfg.MaxHistory)
	envBool("DRAFTSMITH_OSNAP", &cfg.OSnap)
	envBool("DRAFTSMITH_ORTHO", &cfg.Ortho)
	envBool("DRAFTSMITH_POLAR", &cfg.Polar)
	envString("DRAFTSMITH_LINETYPE", &cfg.DefaultLineType)
	envFloat("DRAFTSMITH_LINEWEIGHT", &cfg.DefaultLineWeight)
	envString("DRAFTSMITH_LINETYPES_PATH", &cfg.LineTypesPath)
	envString("DRAFTSMITH_HATCHES_PATH", &cfg.HatchesPath)
}

func envFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*dst = f
		}
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.PickThreshold <= 0 {
		return fmt.Errorf("%w: pick_threshold %v must be positive", ErrInvalid, c.PickThreshold)
	}
	if c.SnapTolerance <= 0 {
		return fmt.Errorf("%w: snap_tolerance %v must be positive", ErrInvalid, c.SnapTolerance)
	}
	if c.CloseThreshold < 0 {
		return fmt.Errorf("%w: close_threshold %v must not be negative", ErrInvalid, c.CloseThreshold)
	}
	if c.PolarIncrement <= 0 || c.PolarIncrement > 180 {
		return fmt.Errorf("%w: polar_increment %v must be in (0, 180]", ErrInvalid, c.PolarIncrement)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("%w: max_history %d must not be negative", ErrInvalid, c.MaxHistory)
	}
	if c.DefaultLineWeight < 0 {
		return fmt.Errorf("%w: default_lineweight %v must not be negative", ErrInvalid, c.DefaultLineWeight)
	}
	return nil
}
