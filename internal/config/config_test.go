package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/streamline"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	opts, err := cfg.TraceOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts != streamline.DefaultOptions() {
		t.Errorf("trace options %+v differ from streamline defaults", opts)
	}
	if !cfg.MethodIsAdaptive() {
		t.Error("LSODA should be adaptive")
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_PartialOverride(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.yaml", "trace:\n  samples: 50\n  bounds: clamp\n")

	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trace.Samples != 50 {
		t.Errorf("samples = %d, want 50", cfg.Trace.Samples)
	}
	if cfg.Trace.Method != streamline.DefaultMethod {
		t.Errorf("method = %q, want default kept", cfg.Trace.Method)
	}
	opts, _ := cfg.TraceOptions()
	if opts.Bounds != field.BoundsClamp {
		t.Errorf("bounds = %v", opts.Bounds)
	}
}

func TestLoadLayered(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "settings.default.yaml", "trace:\n  samples: 50\n  method: RK23\n")
	local := writeFile(t, dir, "settings.yaml", "trace:\n  samples: 70\n")

	cfg, err := LoadLayered(base, filepath.Join(dir, "missing.yaml"), local)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trace.Samples != 70 || cfg.Trace.Method != "RK23" {
		t.Errorf("got samples=%d method=%s", cfg.Trace.Samples, cfg.Trace.Method)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"samples":   "trace:\n  samples: 1\n",
		"method":    "trace:\n  method: Heun\n",
		"bounds":    "trace:\n  bounds: wrap\n",
		"tolerance": "trace:\n  rtol: 0\n",
		"threshold": "processing:\n  speed_threshold: -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, name+".yaml", body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Paths.Field = "valley.json"
	cfg.Processing.SpeedThreshold = 0.5

	if err := Save(p, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("glacier", "arclength")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Trace.Normalize {
		t.Error("arclength preset should normalize")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("glacier", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "long") != nil {
		t.Error("expected nil for nonexistent field")
	}
	if DefaultConfig().Apply("glacier", "nonexistent") {
		t.Error("Apply should report a missing preset")
	}
}

func TestAllPresetsValid(t *testing.T) {
	for fieldName := range Presets {
		for _, name := range ListPresets(fieldName) {
			if err := GetPreset(fieldName, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", fieldName, name, err)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent field")
	}
}
