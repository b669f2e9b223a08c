package service

import (
	"context"
	"fmt"
	"strings"

	"bookingdesk/internal/models"
)

// RescheduleBooking moves a booking to a new date and time slot and sets it to
// Rescheduled. It is accepted from every status. newDate must be YYYY-MM-DD;
// newTime is an opaque non-empty slot label. Dates in the past are not rejected
// and no double-booking check is made.
func (s *BookingService) RescheduleBooking(ctx context.Context, id, newDate, newTime string) (*models.Booking, models.NotificationEvent, error) {
	date, err := models.ParseDate(newDate)
	if err != nil {
		return nil, models.NotificationEvent{}, err
	}
	slot := strings.TrimSpace(newTime)
	if slot == "" {
		return nil, models.NotificationEvent{}, fmt.Errorf("%w: time is required", models.ErrInvalidInput)
	}

	return s.apply(ctx, id, models.CommandReschedule, func(b *models.Booking) {
		b.ScheduledDate = date
		b.ScheduledTime = slot
	})
}
