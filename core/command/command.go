// Package command defines all commands that can be sent to the application.
// Commands represent user intentions and are processed by the application layer.
package command

import "stylize-go/core/state"

// Command is the base interface for all commands.
// Commands are sent from the presentation layer to the application layer.
type Command interface {
	// CommandName returns the name of the command for logging/debugging
	CommandName() string
}

// SlotCommand is a command that targets one of the two image slots.
type SlotCommand interface {
	Command
	// Slot returns the target image slot
	Slot() state.Slot
}

// baseSlotCommand provides common implementation for slot commands.
type baseSlotCommand struct {
	slot state.Slot
}

func (c *baseSlotCommand) Slot() state.Slot {
	return c.slot
}
