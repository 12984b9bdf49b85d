package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stylize-go/core/event"
)

type mockEvent struct {
	name string
}

func (e *mockEvent) EventName() string {
	return e.name
}

type mockCarouselEvent struct {
	name     string
	carousel string
}

func (e *mockCarouselEvent) EventName() string {
	return e.name
}

func (e *mockCarouselEvent) CarouselName() string {
	return e.carousel
}

// waitOrFail waits for wg or fails the test after timeout.
func waitOrFail(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("Timeout waiting for event delivery")
	}
}

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "test"})
	waitOrFail(t, &wg, time.Second)

	if received.Load() != 1 {
		t.Errorf("Expected 1 event, got %d", received.Load())
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	for i := 0; i < 3; i++ {
		bus.Subscribe(func(e event.Event) {
			received.Add(1)
			wg.Done()
		})
	}

	bus.Publish(&mockEvent{name: "test"})
	waitOrFail(t, &wg, time.Second)

	if received.Load() != 3 {
		t.Errorf("Expected 3 events, got %d", received.Load())
	}
}

func TestEventBus_CarouselFilter(t *testing.T) {
	bus := New(10)

	var stylesReceived, resultsReceived, allReceived atomic.Int32

	bus.SubscribeCarousel("styles", func(e event.Event) {
		stylesReceived.Add(1)
	})
	bus.SubscribeCarousel("results", func(e event.Event) {
		resultsReceived.Add(1)
	})
	bus.Subscribe(func(e event.Event) {
		allReceived.Add(1)
	})

	bus.Publish(&mockCarouselEvent{name: "tick", carousel: "styles"})
	bus.Publish(&mockEvent{name: "plain"})

	// Close drains the queue before returning.
	bus.Close()

	if stylesReceived.Load() != 1 {
		t.Errorf("styles subscriber: expected 1, got %d", stylesReceived.Load())
	}
	if resultsReceived.Load() != 0 {
		t.Errorf("results subscriber: expected 0, got %d", resultsReceived.Load())
	}
	if allReceived.Load() != 2 {
		t.Errorf("all subscriber: expected 2, got %d", allReceived.Load())
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New(10)

	var received atomic.Int32
	subID := bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})
	bus.Unsubscribe(subID)
	// Unknown IDs are ignored.
	bus.Unsubscribe("sub-999")

	bus.Publish(&mockEvent{name: "test"})
	bus.Close()

	if received.Load() != 0 {
		t.Errorf("Expected 0 events after unsubscribe, got %d", received.Load())
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := New(10)

	var received atomic.Int32
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})

	bus.Close()
	bus.Publish(&mockEvent{name: "test"})

	time.Sleep(50 * time.Millisecond)

	if received.Load() != 0 {
		t.Errorf("Expected 0 events after close, got %d", received.Load())
	}

	// Close again should not panic
	bus.Close()
}

func TestEventBus_HandlerPanic(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(func(e event.Event) {
		panic("test panic")
	})
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "test"})
	waitOrFail(t, &wg, time.Second)

	if received.Load() != 1 {
		t.Errorf("Expected 1 event despite panic, got %d", received.Load())
	}
}

func TestEventBus_DeliveryOrder(t *testing.T) {
	bus := New(10)

	var mu sync.Mutex
	var seen []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.Subscribe(func(e event.Event) {
			mu.Lock()
			seen = append(seen, name)
			mu.Unlock()
		})
	}

	bus.Publish(&mockEvent{name: "test"})
	bus.Close()

	want := []string{"first", "second", "third"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	bus := New(100)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup

	const numEvents = 100
	wg.Add(numEvents)

	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	for i := 0; i < numEvents; i++ {
		go bus.Publish(&mockEvent{name: "test"})
	}

	waitOrFail(t, &wg, 5*time.Second)

	if received.Load() != numEvents {
		t.Errorf("Expected %d events, got %d", numEvents, received.Load())
	}
}
