// Package notify delivers booking notification events to operators and
// downstream systems. Each sink runs behind its own Dispatcher so a slow sink
// never blocks the command that produced the event.
package notify

import (
	"context"
	"fmt"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/metrics"

	"github.com/rs/zerolog"
)

// Notifier delivers one event to an external sink.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event events.Event) error
}

const (
	defaultQueueSize = 256
	defaultTimeout   = 10 * time.Second
)

// Dispatcher queues events for a single Notifier and delivers them in order.
type Dispatcher struct {
	notifier Notifier
	queue    chan events.Event
	timeout  time.Duration
	logger   *zerolog.Logger
}

// NewDispatcher creates a dispatcher with a bounded queue. A size of zero uses the default.
func NewDispatcher(n Notifier, size int, logger *zerolog.Logger) *Dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "notify").Str("sink", n.Name()).Logger()
	return &Dispatcher{
		notifier: n,
		queue:    make(chan events.Event, size),
		timeout:  defaultTimeout,
		logger:   &l,
	}
}

// Attach subscribes the dispatcher to every booking event on bus.
func (d *Dispatcher) Attach(bus *events.EventBus) {
	bus.SubscribeAll(d.Handle)
}

// Handle enqueues an event. It never blocks; a full queue drops the event.
func (d *Dispatcher) Handle(event events.Event) error {
	select {
	case d.queue <- event:
		return nil
	default:
		metrics.IncNotification(d.notifier.Name(), metrics.ResultDropped)
		return fmt.Errorf("%s queue full, dropped event %s", d.notifier.Name(), event.ID)
	}
}

// Run delivers queued events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, event); err != nil {
		metrics.IncNotification(d.notifier.Name(), metrics.ResultError)
		d.logger.Error().Err(err).
			Str("event_id", event.ID).
			Str("booking_id", event.BookingID).
			Msg("notification delivery failed")
		return
	}
	metrics.IncNotification(d.notifier.Name(), metrics.ResultOK)
}
