//go:build !prod

package logging

import (
	"log/slog"
	"os"

	"stylize-go/infrastructure/config"
)

// Setup installs a text logger on stdout. The close function is a no-op.
func Setup(settings config.LoggingConfig) (*slog.Logger, func() error, error) {
	opts, err := handlerOptions(settings)
	if err != nil {
		return nil, nil, err
	}

	logger := install(slog.New(slog.NewTextHandler(os.Stdout, opts)))
	return logger, func() error { return nil }, nil
}
