package eventbus

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"stylize-go/core/event"
)

type subscription struct {
	id       string
	handler  EventHandler
	carousel string // empty: all events
}

// channelEventBus is a channel-based implementation of EventBus.
type channelEventBus struct {
	eventChan     chan event.Event
	subscriptions map[string]*subscription
	order         []string
	mu            sync.RWMutex
	closeMu       sync.RWMutex
	closed        bool
	wg            sync.WaitGroup
	nextID        atomic.Uint64
	dropped       atomic.Uint64
	logger        *slog.Logger
}

// New creates a new EventBus with the specified buffer size.
func New(bufferSize int) EventBus {
	return NewWithLogger(bufferSize, nil)
}

// NewWithLogger creates a new EventBus that reports dropped events and handler panics to logger.
func NewWithLogger(bufferSize int, logger *slog.Logger) EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	bus := &channelEventBus{
		eventChan:     make(chan event.Event, bufferSize),
		subscriptions: make(map[string]*subscription),
		logger:        logger,
	}

	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

// Publish publishes an event to all subscribers.
func (b *channelEventBus) Publish(e event.Event) {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.eventChan <- e:
	default:
		n := b.dropped.Add(1)
		b.logger.Warn("Event bus buffer full, event dropped", "event", e.EventName(), "dropped_total", n)
	}
}

// Subscribe subscribes to all events.
func (b *channelEventBus) Subscribe(handler EventHandler) string {
	return b.subscribe("", handler)
}

// SubscribeCarousel subscribes to events from a specific carousel.
func (b *channelEventBus) SubscribeCarousel(carousel string, handler EventHandler) string {
	return b.subscribe(carousel, handler)
}

func (b *channelEventBus) subscribe(carousel string, handler EventHandler) string {
	id := "sub-" + strconv.FormatUint(b.nextID.Add(1), 10)

	b.mu.Lock()
	b.subscriptions[id] = &subscription{
		id:       id,
		handler:  handler,
		carousel: carousel,
	}
	b.order = append(b.order, id)
	b.mu.Unlock()

	return id
}

// Unsubscribe removes a subscription by its ID.
func (b *channelEventBus) Unsubscribe(subscriptionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscriptions[subscriptionID]; !ok {
		return
	}
	delete(b.subscriptions, subscriptionID)
	for i, id := range b.order {
		if id == subscriptionID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Close shuts down the event bus.
func (b *channelEventBus) Close() {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return
	}
	b.closed = true
	close(b.eventChan)
	b.closeMu.Unlock()

	b.wg.Wait()
}

func (b *channelEventBus) dispatch() {
	defer b.wg.Done()

	for e := range b.eventChan {
		b.deliverEvent(e)
	}
}

// deliverEvent delivers an event to matching subscribers in subscription order.
func (b *channelEventBus) deliverEvent(e event.Event) {
	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.order))
	for _, id := range b.order {
		subs = append(subs, b.subscriptions[id])
	}
	b.mu.RUnlock()

	var carousel string
	if ce, ok := e.(event.CarouselEvent); ok {
		carousel = ce.CarouselName()
	}

	for _, sub := range subs {
		if sub.carousel != "" && sub.carousel != carousel {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("Event handler panicked", "event", e.EventName(), "subscription", sub.id, "panic", r)
				}
			}()
			sub.handler(e)
		}()
	}
}
