package events

import (
    "sync"
    "time"

    "bookingdesk/internal/models"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
)

// Event types.
const (
    TypeBookingRegistered   = "booking.registered"
    TypeBookingTransitioned = "booking.transitioned"
)

// Event is a domain event raised after a committed booking mutation.
type Event struct {
    ID           string                   `json:"id"`
    Type         string                   `json:"type"`
    BookingID    string                   `json:"booking_id"`
    Command      models.Command           `json:"command,omitempty"`
    From         models.Status            `json:"from,omitempty"`
    To           models.Status            `json:"to"`
    Notification models.NotificationEvent `json:"notification"`
    CreatedAt    time.Time                `json:"created_at"`
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
    subscribers map[string][]EventHandler
    mu          sync.RWMutex
    logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler failures are logged to logger.
func NewEventBus(logger *zerolog.Logger) *EventBus {
    if logger == nil {
        nop := zerolog.Nop()
        logger = &nop
    }
    return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every booking event type.
func (b *EventBus) SubscribeAll(handler EventHandler) {
    b.Subscribe(TypeBookingRegistered, handler)
    b.Subscribe(TypeBookingTransitioned, handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event Event) {
    b.mu.RLock()
    handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
    b.mu.RUnlock()

    if event.ID == "" {
        event.ID = uuid.NewString()
    }
    if event.CreatedAt.IsZero() {
        event.CreatedAt = time.Now()
    }

    for _, handler := range handlers {
        // Handlers run synchronously; caller decides concurrency model.
        if err := handler(event); err != nil {
            b.logger.Warn().Err(err).
                Str("event_id", event.ID).
                Str("event_type", event.Type).
                Str("booking_id", event.BookingID).
                Msg("event handler failed")
        }
    }
}
