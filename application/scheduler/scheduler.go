// Package scheduler runs named periodic tasks that re-arm after each run.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is the body of a periodic task. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

type periodic struct {
	name     string
	interval time.Duration
	task     Task
}

// Scheduler runs periodic tasks. Each task fires once on Start and then
// again interval after the previous run finished. After Stop returns no task
// body is running and none will start.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	tasks   []periodic
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an idle scheduler.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger: logger.With("component", "scheduler"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every registers task to run every interval. Tasks added after Start begin
// immediately.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("task %s: interval must be positive, got %v", name, interval)
	}
	if task == nil {
		return fmt.Errorf("task %s: nil task", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return fmt.Errorf("task %s: scheduler stopped", name)
	}
	for _, p := range s.tasks {
		if p.name == name {
			return fmt.Errorf("task %s already registered", name)
		}
	}

	p := periodic{name: name, interval: interval, task: task}
	s.tasks = append(s.tasks, p)
	if s.started {
		s.launch(p)
	}
	return nil
}

// Start begins running all registered tasks. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true
	for _, p := range s.tasks {
		s.launch(p)
	}
	s.logger.Info("Scheduler started", "tasks", len(s.tasks))
}

// Stop cancels all tasks and waits for running bodies to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// launch must be called with s.mu held.
func (s *Scheduler) launch(p periodic) {
	s.wg.Add(1)
	go s.loop(p)
}

func (s *Scheduler) loop(p periodic) {
	defer s.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}

		// A tick racing with Stop must not run.
		if s.ctx.Err() != nil {
			return
		}
		s.run(p)
		timer.Reset(p.interval)
	}
}

func (s *Scheduler) run(p periodic) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Periodic task panicked", "task", p.name, "panic", r)
		}
	}()
	p.task(s.ctx)
}
