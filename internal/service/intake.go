package service

import (
	"context"
	"fmt"

	"bookingdesk/internal/events"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/models"

	"github.com/google/uuid"
)

// Register accepts a booking from the intake collaborator. The booking must be
// Pending with its display fields populated. A missing id is assigned, missing
// timestamps are stamped with the current time.
func (s *BookingService) Register(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	in := *b
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if in.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: new bookings must be pending, got %s", models.ErrInvalidInput, in.Status)
	}
	now := s.now()
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = in.CreatedAt
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, &in); err != nil {
		return nil, err
	}
	metrics.IncBookingRegistered()

	s.logger.Info().
		Str("booking_id", in.ID).
		Str("source", in.Source).
		Str("scheduled_date", in.ScheduledDate.String()).
		Msg("booking registered")

	s.publish(events.Event{
		Type:      events.TypeBookingRegistered,
		BookingID: in.ID,
		To:        in.Status,
		Notification: models.NotificationEvent{
			Message:  "New appointment received",
			Severity: models.SeverityInfo,
		},
		CreatedAt: in.CreatedAt,
	})

	return &in, nil
}
