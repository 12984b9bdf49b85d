package event

import (
	"image"
	"time"

	"stylize-go/core/state"
)

// ImageLoaded is published when an image replaces the one in a slot.
type ImageLoaded struct {
	Slot    state.Slot
	Path    string
	Preview image.Image
}

func NewImageLoaded(slot state.Slot, path string, preview image.Image) *ImageLoaded {
	return &ImageLoaded{Slot: slot, Path: path, Preview: preview}
}

func (e *ImageLoaded) EventName() string {
	return "ImageLoaded"
}

// ImageLoadFailed is published when a picked file cannot be read or decoded.
// The previous image in the slot is kept.
type ImageLoadFailed struct {
	Slot  state.Slot
	Path  string
	Error error
}

func NewImageLoadFailed(slot state.Slot, path string, err error) *ImageLoadFailed {
	return &ImageLoadFailed{Slot: slot, Path: path, Error: err}
}

func (e *ImageLoadFailed) EventName() string {
	return "ImageLoadFailed"
}

// StylizeStarted is published when inference is handed to the worker.
type StylizeStarted struct {
	RunID uint64
}

func NewStylizeStarted(runID uint64) *StylizeStarted {
	return &StylizeStarted{RunID: runID}
}

func (e *StylizeStarted) EventName() string {
	return "StylizeStarted"
}

// StylizeCompleted is published with the stylized result.
type StylizeCompleted struct {
	RunID   uint64
	Result  image.Image
	Elapsed time.Duration
}

func NewStylizeCompleted(runID uint64, result image.Image, elapsed time.Duration) *StylizeCompleted {
	return &StylizeCompleted{RunID: runID, Result: result, Elapsed: elapsed}
}

func (e *StylizeCompleted) EventName() string {
	return "StylizeCompleted"
}

// StylizeFailed is published when the network call fails.
type StylizeFailed struct {
	RunID uint64
	Error error
}

func NewStylizeFailed(runID uint64, err error) *StylizeFailed {
	return &StylizeFailed{RunID: runID, Error: err}
}

func (e *StylizeFailed) EventName() string {
	return "StylizeFailed"
}

// StylizeCancelled is published when a running stylization was cancelled.
type StylizeCancelled struct {
	RunID uint64
}

func NewStylizeCancelled(runID uint64) *StylizeCancelled {
	return &StylizeCancelled{RunID: runID}
}

func (e *StylizeCancelled) EventName() string {
	return "StylizeCancelled"
}

// ResultSaved is published after the stylized result was written to disk.
type ResultSaved struct {
	Path string
}

func NewResultSaved(path string) *ResultSaved {
	return &ResultSaved{Path: path}
}

func (e *ResultSaved) EventName() string {
	return "ResultSaved"
}

// ResultSaveFailed is published when the result could not be exported.
type ResultSaveFailed struct {
	Path  string
	Error error
}

func NewResultSaveFailed(path string, err error) *ResultSaveFailed {
	return &ResultSaveFailed{Path: path, Error: err}
}

func (e *ResultSaveFailed) EventName() string {
	return "ResultSaveFailed"
}
