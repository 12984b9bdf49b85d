// Package main is the entry point for the Style Transfer desktop app.
package main

import (
	"context"
	"os"
	"time"

	"stylize-go/application"
	"stylize-go/core/eventbus"
	"stylize-go/domain/preset"
	"stylize-go/infrastructure/config"
	"stylize-go/infrastructure/logging"
	"stylize-go/infrastructure/modelhub"
	"stylize-go/infrastructure/onnx"
	"stylize-go/presentation"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
)

func main() {
	cfg, err := config.Load(os.Getenv("STYLIZE_CONFIG"))
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logging (dev: console only, prod: rotating file)
	logger, closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		// Fallback to stderr if logging setup fails
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	logger.Info("Starting Style Transfer")

	ctx := logging.With(context.Background(), logger)

	// Fetch and load the model; without it there is nothing to do.
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Model.DownloadTimeout())
	network, err := onnx.Load(fetchCtx, modelhub.New(&modelhub.ClientConfig{
		URL:      cfg.Model.URL,
		Dir:      cfg.Model.Dir,
		FileName: cfg.Model.FileName,
		Timeout:  cfg.Model.DownloadTimeout(),
	}), &onnx.Config{
		LibPath:      cfg.Model.LibPath,
		ContentInput: cfg.Model.ContentInput,
		StyleInput:   cfg.Model.StyleInput,
		Output:       cfg.Model.Output,
		Logger:       logger,
	})
	cancel()
	if err != nil {
		logger.Error("Failed to load model", "error", err)
		os.Exit(1)
	}
	defer network.Close()

	// Initialize event bus
	eventBus := eventbus.NewWithLogger(100, logger)
	defer eventBus.Close()

	// Initialize coordinator
	coordinator, err := application.NewCoordinator(&application.CoordinatorConfig{
		Network:       network,
		EventBus:      eventBus,
		MaxDimension:  cfg.Images.MaxDimension,
		ThumbnailSize: cfg.Images.ThumbnailSize,
		Carousels:     carousels(cfg.Carousels),
		Logger:        logger,
	})
	if err != nil {
		logger.Error("Failed to initialize coordinator", "error", err)
		os.Exit(1)
	}

	// Initialize UI event bridge
	bridge := presentation.NewUIEventBridge(&presentation.BridgeConfig{
		Dispatcher: coordinator,
		EventBus:   eventBus,
		Logger:     logger,
	})

	// Initialize Fyne app
	fyneApp := app.New()
	fyneApp.SetIcon(theme.ColorPaletteIcon())

	mainWindow := presentation.NewMainWindow(&presentation.MainWindowConfig{
		App:           fyneApp,
		Bridge:        bridge,
		Logger:        logger,
		PreviewSize:   float32(cfg.Images.PreviewSize),
		ThumbnailSize: float32(cfg.Images.ThumbnailSize),
		OnClosed:      coordinator.Stop,
	})
	defer mainWindow.Cleanup()

	// Carousels start publishing once the window can receive them.
	coordinator.Start()

	mainWindow.ShowAndRun()

	// Start shutdown timeout - force exit after 10 seconds if cleanup hangs
	go func() {
		time.Sleep(10 * time.Second)
		logger.Warn("Shutdown timeout, forcing exit")
		os.Exit(0)
	}()

	logger.Info("Application shutdown complete")
}

func carousels(cfg config.CarouselsConfig) []application.CarouselConfig {
	return []application.CarouselConfig{
		{
			Name:     preset.StylesCarousel,
			Paths:    preset.Paths(cfg.Styles.Dir, cfg.Styles.Prefix, cfg.Styles.Ext, cfg.Styles.Count),
			Interval: cfg.Styles.Interval(),
		},
		{
			Name:     preset.ResultsCarousel,
			Paths:    preset.Paths(cfg.Results.Dir, cfg.Results.Prefix, cfg.Results.Ext, cfg.Results.Count),
			Interval: cfg.Results.Interval(),
		},
	}
}
