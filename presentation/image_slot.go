package presentation

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ImageSlot shows one image contained in a fixed box, with a caption and a
// placeholder while empty.
type ImageSlot struct {
	widget.BaseWidget

	caption     *widget.Label
	placeholder *widget.Label
	canvas      *canvas.Image
	size        fyne.Size

	imageMu  sync.RWMutex
	image    image.Image
	onTapped func()
	tapMu    sync.Mutex
}

// NewImageSlot creates an empty slot of the given edge length.
func NewImageSlot(caption, placeholder string, edge float32) *ImageSlot {
	s := &ImageSlot{
		caption:     widget.NewLabelWithStyle(caption, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		placeholder: widget.NewLabelWithStyle(placeholder, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		canvas:      canvas.NewImageFromImage(nil),
		size:        fyne.NewSize(edge, edge),
	}
	s.ExtendBaseWidget(s)
	s.canvas.FillMode = canvas.ImageFillContain
	s.canvas.ScaleMode = canvas.ImageScaleSmooth
	s.canvas.SetMinSize(s.size)
	s.canvas.Hide()
	return s
}

// SetImage shows img. A nil image restores the placeholder.
func (s *ImageSlot) SetImage(img image.Image) {
	s.imageMu.Lock()
	s.image = img
	s.imageMu.Unlock()

	s.canvas.Image = img
	if img == nil {
		s.canvas.Hide()
		s.placeholder.Show()
	} else {
		s.placeholder.Hide()
		s.canvas.Show()
	}
	s.canvas.Refresh()
	s.Refresh()
}

// SetPlaceholder changes the text shown while empty and clears the image.
func (s *ImageSlot) SetPlaceholder(text string) {
	s.placeholder.SetText(text)
	s.SetImage(nil)
}

// GetImage returns the current image.
func (s *ImageSlot) GetImage() image.Image {
	s.imageMu.RLock()
	defer s.imageMu.RUnlock()
	return s.image
}

// HasImage reports whether an image is shown.
func (s *ImageSlot) HasImage() bool {
	return s.GetImage() != nil
}

// SetOnTapped sets the tap handler.
func (s *ImageSlot) SetOnTapped(fn func()) {
	s.tapMu.Lock()
	s.onTapped = fn
	s.tapMu.Unlock()
}

// Tapped handles tap events. Taps on an empty slot are ignored.
func (s *ImageSlot) Tapped(_ *fyne.PointEvent) {
	s.tapMu.Lock()
	fn := s.onTapped
	s.tapMu.Unlock()

	if fn != nil && s.HasImage() {
		fn()
	}
}

// CreateRenderer creates the widget renderer.
func (s *ImageSlot) CreateRenderer() fyne.WidgetRenderer {
	frame := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	frame.SetMinSize(s.size)
	body := container.NewStack(frame, container.NewCenter(s.placeholder), s.canvas)
	return widget.NewSimpleRenderer(container.NewBorder(s.caption, nil, nil, nil, body))
}
