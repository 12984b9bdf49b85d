package onnx

import (
	"context"
	"fmt"

	"stylize-go/infrastructure/logging"
	"stylize-go/infrastructure/modelhub"
)

// Load makes the model available through client and opens it.
// cfg.ModelPath is ignored in favor of the fetched path.
func Load(ctx context.Context, client modelhub.Client, cfg *Config) (*Network, error) {
	path, err := client.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model: %w", err)
	}

	opened := *cfg
	opened.ModelPath = path
	if opened.Logger == nil {
		opened.Logger = logging.From(ctx)
	}
	return Open(&opened)
}
