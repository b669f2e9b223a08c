// Package service implements the booking desk: the transition engine, the
// reschedule handler, intake registration and the read-only query views.
package service

import (
	"errors"
	"time"

	"bookingdesk/internal/booking"
	"bookingdesk/internal/events"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/models"
	"bookingdesk/internal/repository"

	"github.com/rs/zerolog"
)

// EventPublisher delivers committed booking events to collaborators.
type EventPublisher interface {
	Publish(event events.Event)
}

// BookingService is the single owner of booking mutations.
type BookingService struct {
	store  repository.Store
	fsm    *booking.FSM
	bus    EventPublisher
	now    func() time.Time
	logger *zerolog.Logger
}

// Option configures a BookingService.
type Option func(*BookingService)

// WithClock overrides the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

func NewBookingService(store repository.Store, bus EventPublisher, logger *zerolog.Logger, opts ...Option) *BookingService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "booking_service").Logger()
	s := &BookingService{
		store:  store,
		fsm:    booking.NewFSM(),
		bus:    bus,
		now:    time.Now,
		logger: &l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookingService) publish(e events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(e)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, models.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return metrics.ResultInvalidTransition
	case errors.Is(err, models.ErrInvalidInput):
		return metrics.ResultInvalidInput
	default:
		return metrics.ResultError
	}
}
