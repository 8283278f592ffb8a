package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draftsmith.toml")
	content := "pick_threshold = 9.5\nmax_history = 25\northo = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DRAFTSMITH_MAX_HISTORY", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PickThreshold != 9.5 {
		t.Errorf("pick_threshold = %v, want 9.5 from file", cfg.PickThreshold)
	}
	if cfg.MaxHistory != 7 {
		t.Errorf("max_history = %d, want 7 from environment over file", cfg.MaxHistory)
	}
	if !cfg.Ortho {
		t.Error("ortho not taken from file")
	}
	if cfg.SnapTolerance != 8.0 {
		t.Errorf("snap_tolerance = %v, want default 8.0", cfg.SnapTolerance)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestEnvGarbageIgnored(t *testing.T) {
	t.Setenv("DRAFTSMITH_SNAP_TOLERANCE", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SnapTolerance != 8.0 {
		t.Errorf("snap_tolerance = %v, want default kept", cfg.SnapTolerance)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pick threshold", func(c *Config) { c.PickThreshold = 0 }},
		{"negative snap tolerance", func(c *Config) { c.SnapTolerance = -1 }},
		{"polar increment over 180", func(c *Config) { c.PolarIncrement = 270 }},
		{"negative history", func(c *Config) { c.MaxHistory = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLineTypesBuiltins(t *testing.T) {
	lts, err := LoadLineTypes("")
	if err != nil {
		t.Fatalf("load builtins: %v", err)
	}
	byName := make(map[string][]float64)
	for _, lt := range lts {
		byName[lt.Name] = lt.Dashes
	}
	if _, ok := byName["CONTINUOUS"]; !ok {
		t.Error("CONTINUOUS missing from builtins")
	}
	if len(byName["DASHED"]) != 2 {
		t.Errorf("DASHED dashes = %v, want 2 entries", byName["DASHED"])
	}
}

func TestLineTypesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linetypes.yaml")
	content := "- name: PHANTOM\n  dashes: [12, 3, 3, 3, 3, 3]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	lts, err := LoadLineTypes(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lts) != 1 || lts[0].Name != "PHANTOM" || len(lts[0].Dashes) != 6 {
		t.Errorf("linetypes = %+v, want one PHANTOM with 6 dashes", lts)
	}
}

func TestHatchValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hatches.yaml")
	content := "- name: BAD\n  angle: 45\n  spacing: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadHatchPatterns(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid for zero spacing", err)
	}
}
