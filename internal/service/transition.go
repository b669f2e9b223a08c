package service

import (
	"context"
	"fmt"

	"bookingdesk/internal/events"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/models"
)

// Apply runs a status command against a booking. The legality check and the
// mutation happen inside one store update, so a rejected command leaves the
// booking exactly as it was.
//
// Reschedule needs a new date and time and must go through RescheduleBooking.
func (s *BookingService) Apply(ctx context.Context, id string, cmd models.Command) (*models.Booking, models.NotificationEvent, error) {
	if !cmd.IsValid() {
		return nil, models.NotificationEvent{}, fmt.Errorf("%w: unknown command %q", models.ErrInvalidInput, cmd)
	}
	if cmd == models.CommandReschedule {
		return nil, models.NotificationEvent{}, fmt.Errorf("%w: reschedule requires a date and time", models.ErrInvalidInput)
	}
	return s.apply(ctx, id, cmd, nil)
}

// ApproveBooking approves a pending or rescheduled booking.
func (s *BookingService) ApproveBooking(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error) {
	return s.Apply(ctx, id, models.CommandApprove)
}

// RejectBooking rejects a pending or rescheduled booking.
func (s *BookingService) RejectBooking(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error) {
	return s.Apply(ctx, id, models.CommandReject)
}

// StartService moves an approved or rescheduled booking in progress.
func (s *BookingService) StartService(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error) {
	return s.Apply(ctx, id, models.CommandStartService)
}

// CompleteService completes a booking that is in progress.
func (s *BookingService) CompleteService(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error) {
	return s.Apply(ctx, id, models.CommandCompleteService)
}

// apply is the one path every mutation takes. mutate, when set, runs on the
// working copy after the legality check and before the status change.
func (s *BookingService) apply(
	ctx context.Context,
	id string,
	cmd models.Command,
	mutate func(b *models.Booking),
) (*models.Booking, models.NotificationEvent, error) {
	var from models.Status

	updated, err := s.store.Update(ctx, id, func(b *models.Booking) error {
		from = b.Status
		if !s.fsm.CanApply(b.Status, cmd) {
			return &models.TransitionError{ID: b.ID, From: b.Status, Command: cmd}
		}
		if mutate != nil {
			mutate(b)
		}
		return s.fsm.Apply(b, cmd, s.now())
	})
	metrics.IncTransition(string(cmd), resultLabel(err))
	if err != nil {
		s.logger.Warn().Err(err).
			Str("booking_id", id).
			Str("command", string(cmd)).
			Msg("command rejected")
		return nil, models.NotificationEvent{}, err
	}

	notification := models.NotificationFor(cmd)
	s.logger.Info().
		Str("booking_id", id).
		Str("command", string(cmd)).
		Str("from", string(from)).
		Str("to", string(updated.Status)).
		Msg("booking transitioned")

	s.publish(events.Event{
		Type:         events.TypeBookingTransitioned,
		BookingID:    id,
		Command:      cmd,
		From:         from,
		To:           updated.Status,
		Notification: notification,
		CreatedAt:    updated.UpdatedAt,
	})

	return updated, notification, nil
}
