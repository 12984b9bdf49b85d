// Package event defines all events that can be published by the application.
// Events represent state changes and are consumed by the presentation layer.
package event

import "stylize-go/core/state"

// Event is the base interface for all events.
// Events are published by the application layer and consumed by subscribers.
type Event interface {
	// EventName returns the name of the event for logging/debugging
	EventName() string
}

// CarouselEvent is an event that originates from a specific carousel.
type CarouselEvent interface {
	Event
	// CarouselName returns the source carousel name
	CarouselName() string
}

// baseCarouselEvent provides common implementation for carousel events.
type baseCarouselEvent struct {
	carousel string
}

func (e *baseCarouselEvent) CarouselName() string {
	return e.carousel
}

// StateChanged is published when the workflow state changes.
type StateChanged struct {
	OldState state.WorkflowState
	NewState state.WorkflowState
}

func NewStateChanged(oldState, newState state.WorkflowState) *StateChanged {
	return &StateChanged{OldState: oldState, NewState: newState}
}

func (e *StateChanged) EventName() string {
	return "StateChanged"
}
