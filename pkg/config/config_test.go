package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Threshold.Level != 128 {
		t.Errorf("Expected threshold 128, got %d", cfg.Threshold.Level)
	}
	if cfg.Threshold.Invert {
		t.Error("Expected bright pixels to be solid by default")
	}
	if cfg.Processing.NumCores < 1 {
		t.Errorf("Expected at least one core, got %d", cfg.Processing.NumCores)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	marker, err := cfg.Marker()
	if err != nil {
		t.Fatalf("Failed to parse default marker: %v", err)
	}
	r, g, b := marker.RGB255()
	if r != 255 || g != 0 || b != 255 {
		t.Errorf("Expected magenta marker, got (%d,%d,%d)", r, g, b)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Threshold.Level != DefaultThreshold {
		t.Errorf("Expected default threshold, got %d", cfg.Threshold.Level)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Processing.NumCores = 3
	cfg.Threshold.Invert = true
	cfg.Mesh.Scale.Z = 2.5
	cfg.Output.MarkerColor = "#00ff00"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Processing.NumCores != 3 {
		t.Errorf("Expected 3 cores, got %d", loaded.Processing.NumCores)
	}
	if !loaded.Threshold.Invert {
		t.Error("Expected invert to round-trip")
	}
	if loaded.Mesh.Scale.Z != 2.5 {
		t.Errorf("Expected z scale 2.5, got %f", loaded.Mesh.Scale.Z)
	}
	if loaded.Output.MarkerColor != "#00ff00" {
		t.Errorf("Expected marker #00ff00, got %s", loaded.Output.MarkerColor)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"threshold": "threshold:\n  level: 300\n",
		"marker":    "output:\n  markerColor: magenta\n",
		"scale":     "mesh:\n  scale:\n    x: 0\n",
		"yaml":      "processing: [\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
}
