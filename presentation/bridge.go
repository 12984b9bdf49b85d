// Package presentation provides the UI layer with event bridging to the application layer.
package presentation

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"stylize-go/core/command"
	"stylize-go/core/event"
	"stylize-go/core/eventbus"
	"stylize-go/core/state"
)

// Dispatcher accepts commands from the UI. application.Coordinator implements it.
type Dispatcher interface {
	Dispatch(cmd command.Command) error
}

// UIEventBridge bridges UI events to the application layer and routes events back to UI.
// It provides a clean separation between UI and business logic.
type UIEventBridge struct {
	dispatcher Dispatcher
	eventBus   eventbus.EventBus
	logger     *slog.Logger

	// UI callbacks - set by UI components
	callbacks   *UICallbacks
	callbacksMu sync.RWMutex

	// Subscription management
	subscriptionID string
	carouselSubs   []string
	subsMu         sync.Mutex
}

// UICallbacks contains callbacks for UI updates.
// They run on the event bus goroutine; UI mutations must go through fyne.Do.
type UICallbacks struct {
	OnStateChanged func(oldState, newState state.WorkflowState)

	// Images
	OnImageLoaded     func(slot state.Slot, path string, preview image.Image)
	OnImageLoadFailed func(slot state.Slot, path string, err error)

	// Stylization
	OnStylizeStarted   func(runID uint64)
	OnStylizeCompleted func(runID uint64, result image.Image, elapsed time.Duration)
	OnStylizeFailed    func(runID uint64, err error)
	OnStylizeCancelled func(runID uint64)
	OnResultSaved      func(path string)
	OnResultSaveFailed func(path string, err error)
}

// CarouselCallbacks receive the ticks of one carousel, on the event bus goroutine.
type CarouselCallbacks struct {
	OnAdvanced func(path string, index int, thumb image.Image)
	OnFailed   func(path string, index int, err error)
}

// BridgeConfig holds configuration for UIEventBridge.
type BridgeConfig struct {
	Dispatcher Dispatcher
	EventBus   eventbus.EventBus
	Logger     *slog.Logger
}

// NewUIEventBridge creates a new UI event bridge.
func NewUIEventBridge(cfg *BridgeConfig) *UIEventBridge {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &UIEventBridge{
		dispatcher: cfg.Dispatcher,
		eventBus:   cfg.EventBus,
		logger:     cfg.Logger.With("component", "bridge"),
		callbacks:  &UICallbacks{},
	}

	// Subscribe to events
	if b.eventBus != nil {
		b.subscriptionID = b.eventBus.Subscribe(b.handleEvent)
	}

	return b
}

// SetCallbacks sets the UI callbacks.
func (b *UIEventBridge) SetCallbacks(callbacks *UICallbacks) {
	b.callbacksMu.Lock()
	defer b.callbacksMu.Unlock()
	b.callbacks = callbacks
}

// WatchCarousel routes the named carousel's events to callbacks until Close.
func (b *UIEventBridge) WatchCarousel(carousel string, callbacks *CarouselCallbacks) {
	if b.eventBus == nil || callbacks == nil {
		return
	}

	id := b.eventBus.SubscribeCarousel(carousel, func(e event.Event) {
		handleCarouselEvent(callbacks, e)
	})

	b.subsMu.Lock()
	b.carouselSubs = append(b.carouselSubs, id)
	b.subsMu.Unlock()
}

// Close unsubscribes from the event bus.
func (b *UIEventBridge) Close() {
	if b.eventBus == nil {
		return
	}

	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	if b.subscriptionID != "" {
		b.eventBus.Unsubscribe(b.subscriptionID)
		b.subscriptionID = ""
	}
	for _, id := range b.carouselSubs {
		b.eventBus.Unsubscribe(id)
	}
	b.carouselSubs = nil
}

// Command dispatching methods

// LoadContent replaces the content image.
func (b *UIEventBridge) LoadContent(path string, source command.Source) error {
	return b.dispatch(command.NewLoadContent(path, source))
}

// LoadStyle replaces the style image.
func (b *UIEventBridge) LoadStyle(path string, source command.Source) error {
	return b.dispatch(command.NewLoadStyle(path, source))
}

// Stylize starts inference on the current images.
func (b *UIEventBridge) Stylize() error {
	return b.dispatch(&command.Stylize{})
}

// CancelStylize abandons the running stylization.
func (b *UIEventBridge) CancelStylize() error {
	return b.dispatch(&command.CancelStylize{})
}

// SelectPreset uses the preset at path, as shown by carousel, as the style image.
func (b *UIEventBridge) SelectPreset(carousel, path string) error {
	return b.dispatch(&command.SelectPreset{Carousel: carousel, Path: path})
}

// SaveResult exports the last result to path.
func (b *UIEventBridge) SaveResult(path string) error {
	return b.dispatch(&command.SaveResult{Path: path})
}

func (b *UIEventBridge) dispatch(cmd command.Command) error {
	if b.dispatcher == nil {
		b.logger.Warn("No dispatcher, dropping command", "command", cmd.CommandName())
		return nil
	}
	return b.dispatcher.Dispatch(cmd)
}

// Event handling

func (b *UIEventBridge) handleEvent(e event.Event) {
	b.callbacksMu.RLock()
	callbacks := b.callbacks
	b.callbacksMu.RUnlock()

	if callbacks == nil {
		return
	}

	switch evt := e.(type) {
	case *event.StateChanged:
		if callbacks.OnStateChanged != nil {
			callbacks.OnStateChanged(evt.OldState, evt.NewState)
		}

	case *event.ImageLoaded:
		if callbacks.OnImageLoaded != nil {
			callbacks.OnImageLoaded(evt.Slot, evt.Path, evt.Preview)
		}

	case *event.ImageLoadFailed:
		if callbacks.OnImageLoadFailed != nil {
			callbacks.OnImageLoadFailed(evt.Slot, evt.Path, evt.Error)
		}

	case *event.StylizeStarted:
		if callbacks.OnStylizeStarted != nil {
			callbacks.OnStylizeStarted(evt.RunID)
		}

	case *event.StylizeCompleted:
		if callbacks.OnStylizeCompleted != nil {
			callbacks.OnStylizeCompleted(evt.RunID, evt.Result, evt.Elapsed)
		}

	case *event.StylizeFailed:
		if callbacks.OnStylizeFailed != nil {
			callbacks.OnStylizeFailed(evt.RunID, evt.Error)
		}

	case *event.StylizeCancelled:
		if callbacks.OnStylizeCancelled != nil {
			callbacks.OnStylizeCancelled(evt.RunID)
		}

	case *event.ResultSaved:
		if callbacks.OnResultSaved != nil {
			callbacks.OnResultSaved(evt.Path)
		}

	case *event.ResultSaveFailed:
		if callbacks.OnResultSaveFailed != nil {
			callbacks.OnResultSaveFailed(evt.Path, evt.Error)
		}
	}
}

func handleCarouselEvent(callbacks *CarouselCallbacks, e event.Event) {
	switch evt := e.(type) {
	case *event.CarouselAdvanced:
		if callbacks.OnAdvanced != nil {
			callbacks.OnAdvanced(evt.Path, evt.Index, evt.Thumbnail)
		}

	case *event.CarouselFailed:
		if callbacks.OnFailed != nil {
			callbacks.OnFailed(evt.Path, evt.Index, evt.Error)
		}
	}
}
