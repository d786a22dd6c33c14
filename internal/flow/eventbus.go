package flow

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/recall/internal/observe"
)

// EventType names something that happened in a flow.
type EventType string

const (
	EventClipboardLoaded  EventType = "clipboard_loaded"
	EventClipboardFailed  EventType = "clipboard_failed"
	EventEditStarted      EventType = "edit_started"
	EventEditCanceled     EventType = "edit_canceled"
	EventCaptureSubmitted EventType = "capture_submitted"
	EventCaptureCompleted EventType = "capture_completed"
	EventCaptureFailed    EventType = "capture_failed"
	EventSearchSubmitted  EventType = "search_submitted"
	EventSearchCompleted  EventType = "search_completed"
	EventSearchFailed     EventType = "search_failed"
	EventResultsCopied    EventType = "results_copied"
	EventCopyFailed       EventType = "copy_failed"
	EventNewSearch        EventType = "new_search"
	EventViewDismissed    EventType = "view_dismissed"
	EventStaleCompletion  EventType = "stale_completion"
)

// Event is published by a flow controller.
type Event struct {
	Type      EventType
	Timestamp time.Time
	FlowID    string
	Data      map[string]interface{}
}

// EventHandler is a function that handles events.
type EventHandler func(Event)

// EventBus fans flow events out to subscribers such as the log bridge.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]EventHandler
	allHandlers []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types.
func (eb *EventBus) SubscribeAll(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.allHandlers = append(eb.allHandlers, handler)
}

// Publish sends an event to all registered handlers. Handlers run on the
// publishing goroutine and must not publish themselves.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, handler := range eb.handlers[event.Type] {
		handler(event)
	}
	for _, handler := range eb.allHandlers {
		handler(event)
	}
}

// PublishWithData publishes an event with associated data.
func (eb *EventBus) PublishWithData(eventType EventType, flowID string, data map[string]interface{}) {
	eb.Publish(Event{
		Type:   eventType,
		FlowID: flowID,
		Data:   data,
	})
}

// LogTo writes every event to obs at debug level.
func (eb *EventBus) LogTo(obs *observe.Observer) {
	eb.SubscribeAll(func(e Event) {
		obs.Log().Debug().
			Str("event", string(e.Type)).
			Str("flow", e.FlowID).
			Msg("flow event")
	})
}
