package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"stylize-go/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLogDir(t *testing.T) {
	dir := LogDir(config.LoggingConfig{})
	if filepath.Base(dir) != "logs" || filepath.Base(filepath.Dir(dir)) != "stylize" {
		t.Errorf("LogDir(default) = %s, want .../stylize/logs", dir)
	}

	custom := t.TempDir()
	if got := LogDir(config.LoggingConfig{Dir: custom}); got != custom {
		t.Errorf("LogDir(custom) = %s, want %s", got, custom)
	}
}

func TestSetup(t *testing.T) {
	settings := config.Default().Logging
	settings.Dir = t.TempDir()
	settings.Level = "debug"

	logger, closeFn, err := Setup(settings)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closeFn()

	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	if L() != logger {
		t.Error("Setup should install the logger globally")
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	if _, _, err := Setup(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestContextLogger(t *testing.T) {
	if From(nil) != L() {
		t.Error("From(nil) should return the global logger")
	}
	if From(context.Background()) != L() {
		t.Error("From(empty ctx) should return the global logger")
	}

	logger := slog.New(slog.DiscardHandler)
	ctx := With(context.Background(), logger)
	if From(ctx) != logger {
		t.Error("From should return the attached logger")
	}
}
