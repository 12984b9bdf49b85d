// Package application provides the application layer that wires the session,
// the preset carousels and the scheduler that drives them.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stylize-go/application/scheduler"
	"stylize-go/application/session"
	"stylize-go/core/command"
	"stylize-go/core/event"
	"stylize-go/core/eventbus"
	"stylize-go/core/state"
	"stylize-go/domain/imageio"
	"stylize-go/domain/preset"
	"stylize-go/domain/transfer"
)

// DefaultThumbnailSize is the edge of the square carousel thumbnails.
const DefaultThumbnailSize = 240

// CarouselConfig describes one preset carousel.
type CarouselConfig struct {
	Name     string
	Paths    []string
	Interval time.Duration
}

// Coordinator routes commands to the session and runs the carousels.
type Coordinator struct {
	session   *session.Session
	scheduler *scheduler.Scheduler
	carousels map[string]*preset.Carousel

	// Dependencies
	eventBus      eventbus.EventBus
	thumbnailSize int
	logger        *slog.Logger
}

// CoordinatorConfig holds configuration for the Coordinator.
type CoordinatorConfig struct {
	Network       transfer.Network
	EventBus      eventbus.EventBus
	MaxDimension  int
	ThumbnailSize int
	Carousels     []CarouselConfig
	Logger        *slog.Logger
}

// NewCoordinator creates the session and registers one periodic task per carousel.
func NewCoordinator(cfg *CoordinatorConfig) (*Coordinator, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ThumbnailSize <= 0 {
		cfg.ThumbnailSize = DefaultThumbnailSize
	}

	c := &Coordinator{
		session: session.New(&session.Config{
			Network:      cfg.Network,
			EventBus:     cfg.EventBus,
			MaxDimension: cfg.MaxDimension,
			Logger:       cfg.Logger,
		}),
		scheduler:     scheduler.New(cfg.Logger),
		carousels:     make(map[string]*preset.Carousel),
		eventBus:      cfg.EventBus,
		thumbnailSize: cfg.ThumbnailSize,
		logger:        cfg.Logger.With("component", "coordinator"),
	}

	for _, cc := range cfg.Carousels {
		carousel, err := preset.NewCarousel(cc.Name, cc.Paths)
		if err != nil {
			return nil, err
		}
		if _, dup := c.carousels[cc.Name]; dup {
			return nil, fmt.Errorf("carousel %s configured twice", cc.Name)
		}
		c.carousels[cc.Name] = carousel

		if err := c.scheduler.Every(cc.Name, cc.Interval, func(ctx context.Context) {
			c.tick(carousel)
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule carousel: %w", err)
		}
	}

	return c, nil
}

// Start begins the session loop and the carousels.
func (c *Coordinator) Start() {
	c.session.Start()
	c.scheduler.Start()
	c.logger.Info("Coordinator started", "carousels", len(c.carousels))
}

// Stop halts the carousels first so no tick runs against a closed session.
func (c *Coordinator) Stop() {
	c.scheduler.Stop()
	c.session.Stop()
	c.logger.Info("Coordinator stopped")
}

// State returns the session's workflow state.
func (c *Coordinator) State() state.WorkflowState {
	return c.session.State()
}

// Dispatch sends a command to the appropriate handler.
func (c *Coordinator) Dispatch(cmd command.Command) error {
	c.logger.Debug("Dispatching command", "command", cmd.CommandName())

	switch cmd := cmd.(type) {
	case *command.SelectPreset:
		return c.handleSelectPreset(cmd)
	default:
		return c.session.Send(cmd)
	}
}

func (c *Coordinator) handleSelectPreset(cmd *command.SelectPreset) error {
	carousel, ok := c.carousels[cmd.Carousel]
	if !ok {
		return fmt.Errorf("unknown carousel %q", cmd.Carousel)
	}

	if !carousel.Contains(cmd.Path) {
		return fmt.Errorf("%q is not a preset of carousel %s", cmd.Path, cmd.Carousel)
	}

	return c.session.Send(command.NewLoadStyle(cmd.Path, command.SourcePreset))
}

// tick advances a carousel and publishes its new thumbnail.
func (c *Coordinator) tick(carousel *preset.Carousel) {
	path, index := carousel.Advance()
	logger := c.logger.With("carousel", carousel.Name(), "path", path, "index", index)

	img, err := imageio.Open(path)
	if err != nil {
		logger.Warn("Failed to load preset", "error", err)
		c.publishEvent(event.NewCarouselFailed(carousel.Name(), path, index, err))
		return
	}

	thumb := imageio.Thumbnail(img, c.thumbnailSize, c.thumbnailSize)
	logger.Debug("Carousel advanced")
	c.publishEvent(event.NewCarouselAdvanced(carousel.Name(), path, index, thumb))
}

func (c *Coordinator) publishEvent(e event.Event) {
	if c.eventBus != nil {
		c.eventBus.Publish(e)
	}
}
