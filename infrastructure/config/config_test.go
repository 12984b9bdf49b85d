package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.Images.MaxDimension != 512 {
		t.Errorf("MaxDimension = %d, want 512", cfg.Images.MaxDimension)
	}
	if cfg.Carousels.Styles.Interval() != 5*time.Second {
		t.Errorf("styles interval = %v, want 5s", cfg.Carousels.Styles.Interval())
	}
	if cfg.Carousels.Results.Interval() != 6*time.Second {
		t.Errorf("results interval = %v, want 6s", cfg.Carousels.Results.Interval())
	}
	if cfg.Model.DownloadTimeout() != 5*time.Minute {
		t.Errorf("download timeout = %v, want 5m", cfg.Model.DownloadTimeout())
	}
	if cfg.Logging.MaxSizeMB != 50 || !cfg.Logging.Compress {
		t.Errorf("logging rotation defaults = %+v", cfg.Logging)
	}
	if got := cfg.Model.Path(); got != filepath.Join("models", "arbitrary-image-stylization-v1-256.onnx") {
		t.Errorf("Model.Path() = %s", got)
	}
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "stylize.yaml",
			content: `
model:
  url: https://example.com/v2/model.onnx
images:
  max_dimension: 256
carousels:
  styles:
    interval_seconds: 3
logging:
  level: debug
`,
		},
		{
			name: "toml",
			file: "stylize.toml",
			content: `
[model]
url = "https://example.com/v2/model.onnx"

[images]
max_dimension = 256

[carousels.styles]
interval_seconds = 3

[logging]
level = "debug"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Model.URL != "https://example.com/v2/model.onnx" {
				t.Errorf("Model.URL = %q", cfg.Model.URL)
			}
			if cfg.Images.MaxDimension != 256 {
				t.Errorf("MaxDimension = %d, want 256", cfg.Images.MaxDimension)
			}
			if cfg.Carousels.Styles.IntervalSeconds != 3 {
				t.Errorf("styles interval = %d, want 3", cfg.Carousels.Styles.IntervalSeconds)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
			}
			// Unset fields keep their defaults.
			if cfg.Carousels.Styles.Count != 5 || cfg.Carousels.Results.IntervalSeconds != 6 {
				t.Errorf("defaults lost: %+v", cfg.Carousels)
			}
			if cfg.Images.PreviewSize != 350 {
				t.Errorf("PreviewSize = %d, want 350", cfg.Images.PreviewSize)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"unknown extension", writeFile(t, dir, "stylize.json", "{}")},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "images: [")},
		{"bad toml", writeFile(t, dir, "bad.toml", "images = ")},
		{"invalid value", writeFile(t, dir, "zero.yaml", "images:\n  max_dimension: 0\n")},
		{"invalid carousel", writeFile(t, dir, "carousel.toml", "[carousels.results]\ncount = 0\n")},
		{"zero download timeout", writeFile(t, dir, "timeout.yaml", "model:\n  url: https://example.com/m.onnx\n  download_timeout_seconds: 0\n")},
		{"negative download timeout", writeFile(t, dir, "timeout.toml", "[model]\ndownload_timeout_seconds = -5\n")},
		{"negative rotation", writeFile(t, dir, "rotation.yaml", "logging:\n  max_backups: -1\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	found, err := Find(dir)
	if err != nil || found != "" {
		t.Fatalf("Find(empty) = %q, %v", found, err)
	}

	writeFile(t, dir, "stylize.toml", "")
	found, err = Find(dir)
	if err != nil || filepath.Base(found) != "stylize.toml" {
		t.Fatalf("Find() = %q, %v, want stylize.toml", found, err)
	}

	// YAML takes precedence.
	writeFile(t, dir, "stylize.yaml", "")
	found, _ = Find(dir)
	if filepath.Base(found) != "stylize.yaml" {
		t.Errorf("Find() = %q, want stylize.yaml", found)
	}
}
