package command

import "stylize-go/core/state"

// Source describes where an image pick came from.
type Source string

const (
	SourceDialog Source = "dialog"
	SourcePreset Source = "preset"
	SourceDrop   Source = "drop"
)

// LoadImage requests that the file at Path replaces the image in a slot.
type LoadImage struct {
	baseSlotCommand
	Path   string
	Source Source
}

func NewLoadContent(path string, source Source) *LoadImage {
	return &LoadImage{
		baseSlotCommand: baseSlotCommand{slot: state.SlotContent},
		Path:            path,
		Source:          source,
	}
}

func NewLoadStyle(path string, source Source) *LoadImage {
	return &LoadImage{
		baseSlotCommand: baseSlotCommand{slot: state.SlotStyle},
		Path:            path,
		Source:          source,
	}
}

func (c *LoadImage) CommandName() string {
	return "LoadImage"
}

// Stylize starts inference on the current content and style images.
type Stylize struct{}

func (c *Stylize) CommandName() string {
	return "Stylize"
}

// CancelStylize cancels a running stylization. The pending result is discarded.
type CancelStylize struct{}

func (c *CancelStylize) CommandName() string {
	return "CancelStylize"
}

// SelectPreset loads a preset shown by a carousel as the style image.
// Path is the preset the user saw, not whatever the carousel shows next.
type SelectPreset struct {
	Carousel string
	Path     string
}

func (c *SelectPreset) CommandName() string {
	return "SelectPreset"
}

// SaveResult writes the last stylized result to Path. The format follows the extension.
type SaveResult struct {
	Path string
}

func (c *SaveResult) CommandName() string {
	return "SaveResult"
}
