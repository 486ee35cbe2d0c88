package config

import "sort"

type presetFunc func(*TraceConfig)

// Presets are trace overrides keyed by field name, then preset name.
var Presets = map[string]map[string]presetFunc{
	"glacier": {
		"long": func(t *TraceConfig) {
			t.Duration = 1e6
		},
		"arclength": func(t *TraceConfig) {
			t.Normalize = true
			t.Duration = 20
			t.Samples = 2000
		},
		"quick": func(t *TraceConfig) {
			t.Samples = 500
		},
	},
	"vortex": {
		"orbit": func(t *TraceConfig) {
			t.Normalize = true
			t.Duration = 2 * 3.141592653589793
			t.Samples = 1000
			t.RTol = 1e-6
			t.ATol = 1e-9
		},
		"coarse": func(t *TraceConfig) {
			t.Method = "RK4"
			t.Duration = 10
			t.Samples = 200
		},
	},
	"saddle": {
		"escape": func(t *TraceConfig) {
			t.Duration = 5
			t.Samples = 500
			t.Bounds = "clamp"
		},
	},
	"uniform": {
		"smoke": func(t *TraceConfig) {
			t.Method = "Euler"
			t.Duration = 1
			t.Samples = 11
		},
	},
}

// GetPreset returns the default config with the named preset applied, or nil.
func GetPreset(fieldName, preset string) *Config {
	byField, ok := Presets[fieldName]
	if !ok {
		return nil
	}
	apply, ok := byField[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(&cfg.Trace)
	return cfg
}

// Apply overlays the named preset onto c's trace section.
func (c *Config) Apply(fieldName, preset string) bool {
	apply, ok := Presets[fieldName][preset]
	if ok {
		apply(&c.Trace)
	}
	return ok
}

func ListPresets(fieldName string) []string {
	byField, ok := Presets[fieldName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byField))
	for name := range byField {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
