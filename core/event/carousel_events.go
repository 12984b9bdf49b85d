package event

import "image"

// CarouselAdvanced is published on each carousel tick with the new thumbnail.
type CarouselAdvanced struct {
	baseCarouselEvent
	Path      string
	Index     int
	Thumbnail image.Image
}

func NewCarouselAdvanced(carousel, path string, index int, thumb image.Image) *CarouselAdvanced {
	return &CarouselAdvanced{
		baseCarouselEvent: baseCarouselEvent{carousel: carousel},
		Path:              path,
		Index:             index,
		Thumbnail:         thumb,
	}
}

func (e *CarouselAdvanced) EventName() string {
	return "CarouselAdvanced"
}

// CarouselFailed is published when a preset file for a tick cannot be loaded.
type CarouselFailed struct {
	baseCarouselEvent
	Path  string
	Index int
	Error error
}

func NewCarouselFailed(carousel, path string, index int, err error) *CarouselFailed {
	return &CarouselFailed{
		baseCarouselEvent: baseCarouselEvent{carousel: carousel},
		Path:              path,
		Index:             index,
		Error:             err,
	}
}

func (e *CarouselFailed) EventName() string {
	return "CarouselFailed"
}
