//go:build prod

package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stylize-go/infrastructure/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs a text logger writing to LogDir/stylize.log, rotated by
// size and age. The close function flushes and closes the file.
func Setup(settings config.LoggingConfig) (*slog.Logger, func() error, error) {
	opts, err := handlerOptions(settings)
	if err != nil {
		return nil, nil, err
	}

	dir := LogDir(settings)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir %s: %w", dir, err)
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    settings.MaxSizeMB,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAgeDays,
		Compress:   settings.Compress,
		LocalTime:  true,
	}

	logger := install(slog.New(slog.NewTextHandler(lj, opts)))
	return logger, lj.Close, nil
}
