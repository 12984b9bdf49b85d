// Package state defines the stylization workflow state machine.
package state

import "fmt"

// WorkflowState represents where the user is in the content/style/stylize flow.
type WorkflowState int

const (
	// StateNoImages is the initial state before any image is picked.
	StateNoImages WorkflowState = iota
	// StateContentOnly indicates only the content image is set.
	StateContentOnly
	// StateStyleOnly indicates only the style image is set.
	StateStyleOnly
	// StateReady indicates both images are set and stylization can start.
	StateReady
	// StateProcessing indicates inference is running.
	StateProcessing
	// StateResultShown indicates a stylized result is displayed.
	StateResultShown
	// StateClosed indicates the window was torn down.
	StateClosed
)

// String returns the string representation of the state.
func (s WorkflowState) String() string {
	switch s {
	case StateNoImages:
		return "NoImages"
	case StateContentOnly:
		return "ContentOnly"
	case StateStyleOnly:
		return "StyleOnly"
	case StateReady:
		return "Ready"
	case StateProcessing:
		return "Processing"
	case StateResultShown:
		return "ResultShown"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// validTransitions defines the allowed state transitions.
// Key is the current state, value is a list of valid target states.
var validTransitions = map[WorkflowState][]WorkflowState{
	StateNoImages:    {StateContentOnly, StateStyleOnly, StateClosed},
	StateContentOnly: {StateContentOnly, StateReady, StateClosed},
	StateStyleOnly:   {StateStyleOnly, StateReady, StateClosed},
	StateReady:       {StateReady, StateProcessing, StateClosed},
	StateProcessing:  {StateResultShown, StateReady, StateClosed},
	StateResultShown: {StateReady, StateProcessing, StateClosed},
	StateClosed:      {},
}

// CanTransitionTo checks if transitioning from the current state to the target state is valid.
func (s WorkflowState) CanTransitionTo(target WorkflowState) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s WorkflowState) IsTerminal() bool {
	return s == StateClosed
}

// CanStylize returns true if the stylize control should be enabled.
func (s WorkflowState) CanStylize() bool {
	return s == StateReady || s == StateResultShown
}

// CanCancel returns true if a running stylization can be cancelled.
func (s WorkflowState) CanCancel() bool {
	return s == StateProcessing
}

// HasContent reports whether the content slot is filled in this state.
func (s WorkflowState) HasContent() bool {
	return s == StateContentOnly || s == StateReady || s == StateProcessing || s == StateResultShown
}

// HasStyle reports whether the style slot is filled in this state.
func (s WorkflowState) HasStyle() bool {
	return s == StateStyleOnly || s == StateReady || s == StateProcessing || s == StateResultShown
}

// ForImages returns the resting state for the given filled slots.
func ForImages(hasContent, hasStyle bool) WorkflowState {
	switch {
	case hasContent && hasStyle:
		return StateReady
	case hasContent:
		return StateContentOnly
	case hasStyle:
		return StateStyleOnly
	default:
		return StateNoImages
	}
}

// Slot identifies which of the two tracked images an operation targets.
type Slot int

const (
	SlotContent Slot = iota
	SlotStyle
)

func (s Slot) String() string {
	switch s {
	case SlotContent:
		return "content"
	case SlotStyle:
		return "style"
	default:
		return fmt.Sprintf("slot(%d)", s)
	}
}

// TransitionError represents an invalid state transition attempt.
type TransitionError struct {
	From   WorkflowState
	To     WorkflowState
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to WorkflowState, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason}
}
