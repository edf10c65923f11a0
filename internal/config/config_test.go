package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.URL != "http://127.0.0.1:7440" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
	if cfg.Drag.HoldDelayMS != 150 || cfg.Drag.MoveThresholdCells != 2 {
		t.Errorf("drag defaults = %+v", cfg.Drag)
	}
}

func TestLoadFromFillsMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  url: http://localhost:9000
drag:
  hold_delay_ms: 300
theme:
  accent: "#FF0000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.URL != "http://localhost:9000" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
	if cfg.Drag.HoldDelayMS != 300 {
		t.Errorf("hold delay = %d, want 300", cfg.Drag.HoldDelayMS)
	}
	if cfg.Drag.MoveThresholdCells != 2 {
		t.Errorf("move threshold = %d, want default 2", cfg.Drag.MoveThresholdCells)
	}
	if cfg.Theme.Accent != "#FF0000" {
		t.Errorf("accent = %q", cfg.Theme.Accent)
	}
	if cfg.Theme.Subtle != DefaultColorScheme().Subtle {
		t.Errorf("subtle = %q, want default", cfg.Theme.Subtle)
	}
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("want parse error")
	}
}

func TestConfigPathEnvOverride(t *testing.T) {
	t.Setenv("CORKBOARD_CONFIG", "/tmp/custom.yaml")
	path, err := getConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/custom.yaml" {
		t.Errorf("path = %q", path)
	}
}
