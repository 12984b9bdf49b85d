// Package session implements the Session Actor that owns the images and runs stylization.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"stylize-go/core/command"
	"stylize-go/core/event"
	"stylize-go/core/eventbus"
	"stylize-go/core/state"
	"stylize-go/domain/imageio"
	"stylize-go/domain/transfer"
)

// Session holds the content and style images as an Actor.
// Commands are processed serially; inference runs on a worker goroutine whose
// completion is fed back into the command queue, so all fields below the
// state group are only touched by the run loop.
type Session struct {
	// State
	state   state.WorkflowState
	stateMu sync.RWMutex

	content   *imageio.Tensor
	style     *imageio.Tensor
	result    *image.NRGBA
	runID     uint64
	runCancel context.CancelFunc

	// Dependencies
	network      transfer.Network
	eventBus     eventbus.EventBus
	maxDimension int
	logger       *slog.Logger

	// Command processing
	cmdChan chan command.Command
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// At most one worker holds the slot. A cancelled run keeps it until the
	// network call returns.
	workerSlot chan struct{}
}

// Config holds configuration for creating a new Session.
type Config struct {
	Network       transfer.Network
	EventBus      eventbus.EventBus
	MaxDimension  int
	Logger        *slog.Logger
	CommandBuffer int
}

// stylizeFinished carries a worker outcome back into the command loop.
type stylizeFinished struct {
	runID   uint64
	result  *imageio.Tensor
	err     error
	elapsed time.Duration
}

func (c *stylizeFinished) CommandName() string {
	return "stylizeFinished"
}

// New creates a new Session actor.
func New(cfg *Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = 100
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = imageio.DefaultMaxDimension
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		state:        state.StateNoImages,
		network:      cfg.Network,
		eventBus:     cfg.EventBus,
		maxDimension: cfg.MaxDimension,
		logger:       cfg.Logger.With("component", "session"),
		cmdChan:      make(chan command.Command, cfg.CommandBuffer),
		ctx:          ctx,
		cancel:       cancel,
		workerSlot:   make(chan struct{}, 1),
	}
}

// Start begins the session's command processing loop.
func (s *Session) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("Session started")
}

// Stop cancels any running stylization and waits for the loop and workers to exit.
func (s *Session) Stop() {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Session stopped")
	case <-time.After(3 * time.Second):
		s.logger.Warn("Session stop timeout")
	}
}

// Send queues a command for processing.
// Returns an error if the session is not accepting commands.
func (s *Session) Send(cmd command.Command) error {
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("session is stopped")
	default:
	}

	select {
	case s.cmdChan <- cmd:
		return nil
	case <-s.ctx.Done():
		return fmt.Errorf("session is stopped")
	default:
		return fmt.Errorf("command queue full")
	}
}

// State returns the current workflow state.
func (s *Session) State() state.WorkflowState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// run is the main command processing loop.
func (s *Session) run() {
	defer s.wg.Done()
	defer s.cleanup()

	for {
		select {
		case <-s.ctx.Done():
			return
		case cmd := <-s.cmdChan:
			s.processCommand(cmd)
		}
	}
}

func (s *Session) cleanup() {
	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
	}
	if err := s.transitionTo(state.StateClosed); err != nil {
		s.logger.Debug("Already closed", "error", err)
	}
}

// processCommand handles a single command.
func (s *Session) processCommand(cmd command.Command) {
	s.logger.Debug("Processing command", "command", cmd.CommandName())

	switch c := cmd.(type) {
	case *command.LoadImage:
		s.handleLoadImage(c)
	case *command.Stylize:
		s.handleStylize(c)
	case *command.CancelStylize:
		s.handleCancelStylize(c)
	case *command.SaveResult:
		s.handleSaveResult(c)
	case *stylizeFinished:
		s.handleStylizeFinished(c)
	default:
		s.logger.Warn("Unknown command", "command", fmt.Sprintf("%T", cmd))
	}
}

// State transition helpers

func (s *Session) transitionTo(newState state.WorkflowState) error {
	s.stateMu.Lock()
	oldState := s.state

	if oldState == newState {
		s.stateMu.Unlock()
		return nil
	}
	if !oldState.CanTransitionTo(newState) {
		s.stateMu.Unlock()
		return state.NewTransitionError(oldState, newState, "invalid transition")
	}

	s.state = newState
	s.stateMu.Unlock()

	s.publishEvent(event.NewStateChanged(oldState, newState))
	s.logger.Info("State changed", "from", oldState, "to", newState)

	return nil
}

// settle moves to the resting state implied by the filled slots.
func (s *Session) settle() {
	target := state.ForImages(s.content != nil, s.style != nil)
	if err := s.transitionTo(target); err != nil {
		s.logger.Error("Failed to settle state", "error", err)
	}
}

func (s *Session) publishEvent(e event.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(e)
	}
}

// Command handlers

func (s *Session) handleLoadImage(cmd *command.LoadImage) {
	slot := cmd.Slot()
	logger := s.logger.With("slot", slot, "path", cmd.Path, "source", cmd.Source)

	tensor, err := imageio.Load(cmd.Path, s.maxDimension)
	if err != nil {
		logger.Error("Failed to load image", "error", err)
		s.publishEvent(event.NewImageLoadFailed(slot, cmd.Path, err))
		return
	}

	preview, err := imageio.ToImage(tensor)
	if err != nil {
		logger.Error("Failed to build preview", "error", err)
		s.publishEvent(event.NewImageLoadFailed(slot, cmd.Path, err))
		return
	}

	switch slot {
	case state.SlotContent:
		s.content = tensor
	case state.SlotStyle:
		s.style = tensor
	}

	w, h := tensor.Size()
	logger.Info("Image loaded", "width", w, "height", h)
	s.publishEvent(event.NewImageLoaded(slot, cmd.Path, preview))

	// The running stylization keeps its inputs; the new image is used next time.
	if s.State() == state.StateProcessing {
		return
	}
	s.settle()
}

func (s *Session) handleStylize(cmd *command.Stylize) {
	if !s.State().CanStylize() {
		s.logger.Warn("Cannot stylize in current state", "state", s.State())
		return
	}

	if err := s.transitionTo(state.StateProcessing); err != nil {
		s.logger.Error("Failed to enter processing state", "error", err)
		return
	}

	s.runID++
	runID := s.runID
	runCtx, runCancel := context.WithCancel(s.ctx)
	s.runCancel = runCancel

	s.publishEvent(event.NewStylizeStarted(runID))
	s.logger.Info("Stylize started", "run", runID)

	s.wg.Add(1)
	go s.work(runCtx, runID, s.content, s.style)
}

// work runs inference off the loop goroutine.
func (s *Session) work(ctx context.Context, runID uint64, content, style *imageio.Tensor) {
	defer s.wg.Done()

	select {
	case s.workerSlot <- struct{}{}:
	case <-ctx.Done():
		s.finish(&stylizeFinished{runID: runID, err: ctx.Err()})
		return
	}
	defer func() { <-s.workerSlot }()

	start := time.Now()
	out, err := transfer.StyleTransfer(ctx, s.network, content, style)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	s.finish(&stylizeFinished{runID: runID, result: out, err: err, elapsed: time.Since(start)})
}

// finish hands the outcome to the loop. It blocks rather than dropping,
// because the loop is the only writer of state.
func (s *Session) finish(msg *stylizeFinished) {
	select {
	case s.cmdChan <- msg:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleStylizeFinished(msg *stylizeFinished) {
	if msg.runID != s.runID || s.State() != state.StateProcessing {
		s.logger.Debug("Discarding stale stylize result", "run", msg.runID, "current", s.runID)
		return
	}

	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
	}

	if msg.err != nil {
		s.settle()
		if errors.Is(msg.err, context.Canceled) {
			s.logger.Info("Stylize cancelled", "run", msg.runID)
			s.publishEvent(event.NewStylizeCancelled(msg.runID))
			return
		}
		s.logger.Error("Stylize failed", "run", msg.runID, "error", msg.err)
		s.publishEvent(event.NewStylizeFailed(msg.runID, msg.err))
		return
	}

	img, err := imageio.ToImage(msg.result)
	if err != nil {
		s.settle()
		s.logger.Error("Stylize produced an invalid result", "run", msg.runID, "error", err)
		s.publishEvent(event.NewStylizeFailed(msg.runID, &transfer.InferenceError{Err: err}))
		return
	}

	s.result = img
	if err := s.transitionTo(state.StateResultShown); err != nil {
		s.logger.Error("Failed to show result", "error", err)
		return
	}
	s.logger.Info("Stylize completed", "run", msg.runID, "elapsed", msg.elapsed)
	s.publishEvent(event.NewStylizeCompleted(msg.runID, img, msg.elapsed))
}

func (s *Session) handleCancelStylize(cmd *command.CancelStylize) {
	if !s.State().CanCancel() {
		s.logger.Debug("Nothing to cancel", "state", s.State())
		return
	}

	runID := s.runID
	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
	}
	// Retire the run now; the worker's late outcome is stale.
	s.runID++

	s.settle()
	s.logger.Info("Stylize cancelled", "run", runID)
	s.publishEvent(event.NewStylizeCancelled(runID))
}

func (s *Session) handleSaveResult(cmd *command.SaveResult) {
	if s.result == nil {
		err := fmt.Errorf("no stylized result to save")
		s.logger.Warn("Save requested without result", "path", cmd.Path)
		s.publishEvent(event.NewResultSaveFailed(cmd.Path, err))
		return
	}

	if err := imageio.Save(cmd.Path, s.result); err != nil {
		s.logger.Error("Failed to save result", "path", cmd.Path, "error", err)
		s.publishEvent(event.NewResultSaveFailed(cmd.Path, err))
		return
	}

	s.logger.Info("Result saved", "path", cmd.Path)
	s.publishEvent(event.NewResultSaved(cmd.Path))
}
