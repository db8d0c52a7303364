package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Aircraft != "glider" {
		t.Errorf("aircraft: got %s, want glider", cfg.Aircraft)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("carrier", "launch")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Aircraft != "carrier" || got.Start != StartCatapult {
		t.Errorf("aircraft/start: got %s/%s", got.Aircraft, got.Start)
	}
	if got.Ground != cfg.Ground {
		t.Errorf("ground: got %+v, want %+v", got.Ground, cfg.Ground)
	}
	if len(got.Schedule) != len(cfg.Schedule) || got.Schedule[0] != cfg.Schedule[0] {
		t.Errorf("schedule: got %+v, want %+v", got.Schedule, cfg.Schedule)
	}
	if got.Controls["launchbar"] != 1 {
		t.Errorf("launchbar control: got %v, want 1", got.Controls["launchbar"])
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("aircraft: jet\nduration: 5\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Aircraft != "jet" || cfg.Duration != 5 {
		t.Errorf("file values: got %s %v", cfg.Aircraft, cfg.Duration)
	}
	if cfg.Dt != DefaultDt || cfg.Start != StartCruise || cfg.Log.Level != "info" {
		t.Errorf("defaults: got dt %v start %q level %q", cfg.Dt, cfg.Start, cfg.Log.Level)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"no aircraft", func(c *Config) { c.Aircraft = "" }, "aircraft is required"},
		{"zero dt", func(c *Config) { c.Dt = 0 }, "dt must be positive"},
		{"negative duration", func(c *Config) { c.Duration = -1 }, "duration must be positive"},
		{"dt over duration", func(c *Config) { c.Dt = 2; c.Duration = 1 }, "exceeds duration"},
		{"bad start", func(c *Config) { c.Start = "orbit" }, "start"},
		{"bad ground", func(c *Config) { c.Ground.Kind = "lava" }, "ground kind"},
		{"catapult on land", func(c *Config) { c.Start = StartCatapult }, "needs a deck"},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "log level"},
		{"autopilot input", func(c *Config) { c.Autopilot.Enabled = true; c.Autopilot.Input = "" }, "autopilot"},
		{"schedule", func(c *Config) { c.Schedule = []ControlEvent{{Time: -1, Input: "x"}} }, "schedule[0]"},
		{"turbulence magnitude", func(c *Config) { c.Turbulence.Magnitude = 1.5 }, "turbulence magnitude"},
		{"turbulence rate", func(c *Config) { c.Turbulence.Rate = -1 }, "turbulence rate"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		err := cfg.Validate()
		if tt.want == "" {
			if err != nil {
				t.Errorf("%s: got %v, want nil", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: got %v, want error containing %q", tt.name, err, tt.want)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("glider", "thermal")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Wind.Z != 2.5 {
		t.Errorf("thermal lift: got %v, want 2.5", cfg.Wind.Z)
	}
	if cfg.Dt != DefaultDt || cfg.Ground.Kind != GroundFlat {
		t.Errorf("defaults not applied: dt %v ground %q", cfg.Dt, cfg.Ground.Kind)
	}

	// presets hand out copies
	cfg.Wind.Z = 0
	if GetPreset("glider", "thermal").Wind.Z != 2.5 {
		t.Error("preset table modified through a returned copy")
	}
	c := GetPreset("trainer", "takeoff")
	c.Controls["flaps"] = 1
	if GetPreset("trainer", "takeoff").Controls["flaps"] != 0.2 {
		t.Error("preset controls shared with a returned copy")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("glider", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("zeppelin", "cruise") != nil {
		t.Error("expected nil for nonexistent aircraft")
	}
}

func TestEveryPresetValidates(t *testing.T) {
	for ac := range Presets {
		for _, name := range ListPresets(ac) {
			if err := GetPreset(ac, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", ac, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets("trainer")
	want := []string{"approach", "crosswind", "cruise", "rough-air", "takeoff"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent aircraft")
	}
}
