// Package logging builds the process logger from LoggingConfig. Dev builds
// print text to stdout; prod builds (-tags prod) write rotating files.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stylize-go/infrastructure/config"
)

// FileName is the active log file inside the log directory.
const FileName = "stylize.log"

// ParseLevel maps a config level name to a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// LogDir returns settings.Dir, or os.UserConfigDir()/stylize/logs when unset.
// UserCacheDir and TempDir are the fallbacks.
func LogDir(settings config.LoggingConfig) string {
	if settings.Dir != "" {
		return settings.Dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, "stylize", "logs")
}

func handlerOptions(settings config.LoggingConfig) (*slog.HandlerOptions, error) {
	level, err := ParseLevel(settings.Level)
	if err != nil {
		return nil, err
	}
	return &slog.HandlerOptions{
		Level:     level,
		AddSource: settings.AddSource,
	}, nil
}

func install(logger *slog.Logger) *slog.Logger {
	globalLogger = logger
	slog.SetDefault(logger)
	return logger
}

var globalLogger *slog.Logger

// L returns the installed logger, or slog.Default() before Setup.
func L() *slog.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return slog.Default()
}

type ctxKey struct{}

// With returns a context carrying logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the context's logger, or L().
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L()
	}
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return L()
}
