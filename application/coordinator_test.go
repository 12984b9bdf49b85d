package application

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"stylize-go/core/command"
	"stylize-go/core/event"
	"stylize-go/core/eventbus"
	"stylize-go/core/state"
	"stylize-go/domain/preset"
	"stylize-go/domain/transfer"
)

func writePresets(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := preset.Paths(dir, "style", ".png", n)
	for i, p := range paths {
		img := image.NewNRGBA(image.Rect(0, 0, 20+i, 10))
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.SetNRGBA(x, 0, color.NRGBA{R: uint8(i * 40), A: 255})
		}
		f, err := os.Create(p)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	return paths
}

type carouselRecorder struct {
	mu       sync.Mutex
	advanced []*event.CarouselAdvanced
	failed   []*event.CarouselFailed
}

func (r *carouselRecorder) handle(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch e := e.(type) {
	case *event.CarouselAdvanced:
		r.advanced = append(r.advanced, e)
	case *event.CarouselFailed:
		r.failed = append(r.failed, e)
	}
}

func (r *carouselRecorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.advanced), len(r.failed)
}

func TestNewCoordinator_Errors(t *testing.T) {
	tests := []struct {
		name      string
		carousels []CarouselConfig
	}{
		{"empty paths", []CarouselConfig{{Name: "styles", Interval: time.Second}}},
		{"zero interval", []CarouselConfig{{Name: "styles", Paths: []string{"a.jpg"}}}},
		{"duplicate", []CarouselConfig{
			{Name: "styles", Paths: []string{"a.jpg"}, Interval: time.Second},
			{Name: "styles", Paths: []string{"b.jpg"}, Interval: time.Second},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCoordinator(&CoordinatorConfig{Carousels: tt.carousels}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCoordinator_CarouselTicks(t *testing.T) {
	bus := eventbus.New(100)
	rec := &carouselRecorder{}
	bus.SubscribeCarousel(preset.StylesCarousel, rec.handle)

	paths := writePresets(t, 2)
	// The third entry is missing on disk.
	paths = append(paths, filepath.Join(t.TempDir(), "style3.png"))

	coord, err := NewCoordinator(&CoordinatorConfig{
		EventBus:      bus,
		ThumbnailSize: 24,
		Carousels: []CarouselConfig{
			{Name: preset.StylesCarousel, Paths: paths, Interval: 10 * time.Millisecond},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	coord.Start()
	deadline := time.Now().Add(2 * time.Second)
	for {
		adv, failed := rec.counts()
		if adv >= 2 && failed >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("advanced=%d failed=%d, want at least 2 and 1", adv, failed)
		}
		time.Sleep(5 * time.Millisecond)
	}
	coord.Stop()
	bus.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	first := rec.advanced[0]
	if first.Index != 0 || first.Path != paths[0] {
		t.Errorf("first tick = %d %s, want 0 %s", first.Index, first.Path, paths[0])
	}
	if b := first.Thumbnail.Bounds(); b.Dx() != 24 || b.Dy() != 24 {
		t.Errorf("thumbnail = %dx%d, want 24x24", b.Dx(), b.Dy())
	}
	if rec.failed[0].Index != 2 {
		t.Errorf("failed index = %d, want 2", rec.failed[0].Index)
	}
	for _, e := range rec.advanced {
		if e.Index < 0 || e.Index >= len(paths) {
			t.Errorf("index %d out of range", e.Index)
		}
	}
}

func TestCoordinator_SelectPreset(t *testing.T) {
	bus := eventbus.New(100)
	defer bus.Close()

	loaded := make(chan *event.ImageLoaded, 1)
	bus.Subscribe(func(e event.Event) {
		if e, ok := e.(*event.ImageLoaded); ok {
			loaded <- e
		}
	})
	rec := &carouselRecorder{}
	bus.SubscribeCarousel(preset.StylesCarousel, rec.handle)

	paths := writePresets(t, 3)
	coord, err := NewCoordinator(&CoordinatorConfig{
		Network:  transfer.Identity(),
		EventBus: bus,
		Carousels: []CarouselConfig{
			{Name: preset.StylesCarousel, Paths: paths, Interval: 10 * time.Millisecond},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := coord.Dispatch(&command.SelectPreset{Carousel: "unknown", Path: paths[0]}); err == nil {
		t.Error("expected error for unknown carousel")
	}
	if err := coord.Dispatch(&command.SelectPreset{Carousel: preset.StylesCarousel, Path: "elsewhere.png"}); err == nil {
		t.Error("expected error for a path outside the carousel")
	}

	coord.Start()
	defer coord.Stop()

	// Let the carousel move past the first thumbnail before selecting it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if adv, _ := rec.counts(); adv >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("carousel did not tick twice")
		}
		time.Sleep(5 * time.Millisecond)
	}
	rec.mu.Lock()
	shown := rec.advanced[0].Path
	rec.mu.Unlock()

	if err := coord.Dispatch(&command.SelectPreset{Carousel: preset.StylesCarousel, Path: shown}); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-loaded:
		if e.Slot != state.SlotStyle || e.Path != paths[0] {
			t.Errorf("loaded %v %s, want style %s", e.Slot, e.Path, paths[0])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("preset was not loaded")
	}

	deadline = time.Now().Add(2 * time.Second)
	for coord.State() != state.StateStyleOnly {
		if time.Now().After(deadline) {
			t.Fatalf("State = %v, want StyleOnly", coord.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
