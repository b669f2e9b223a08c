package service

import (
	"context"
	"testing"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRescheduleBooking(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Command == models.CommandReschedule &&
			e.From == models.StatusApproved &&
			e.To == models.StatusRescheduled
	})).Once()

	svc, store := newTestService(t, pub)
	seed(t, store, "B1", "John Doe", "Haircut", "Anna", models.StatusApproved)

	updated, note, err := svc.RescheduleBooking(context.Background(), "B1", "2026-04-02", "3:30 PM")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRescheduled, updated.Status)
	assert.Equal(t, models.Date{Year: 2026, Month: time.April, Day: 2}, updated.ScheduledDate)
	assert.Equal(t, "3:30 PM", updated.ScheduledTime)
	assert.Equal(t, "Appointment rescheduled successfully", note.Message)
	assert.Equal(t, models.SeveritySuccess, note.Severity)

	stored, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
	pub.AssertExpectations(t)
}

func TestRescheduleFromEveryStatus(t *testing.T) {
	for _, status := range models.AllStatuses {
		t.Run(string(status), func(t *testing.T) {
			svc, store := newTestService(t, nil)
			seed(t, store, "B1", "John Doe", "Haircut", "Anna", status)

			updated, _, err := svc.RescheduleBooking(context.Background(), "B1", "2026-05-01", "9:00 AM")
			require.NoError(t, err)
			assert.Equal(t, models.StatusRescheduled, updated.Status)
		})
	}
}

func TestRescheduleInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		date string
		slot string
	}{
		{"empty date", "", "9:00 AM"},
		{"bad format", "04/02/2026", "9:00 AM"},
		{"impossible date", "2026-02-30", "9:00 AM"},
		{"empty time", "2026-04-02", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, nil)
			seed(t, store, "B1", "John Doe", "Haircut", "Anna", models.StatusPending)
			before, err := store.Get(context.Background(), "B1")
			require.NoError(t, err)

			_, _, err = svc.RescheduleBooking(context.Background(), "B1", tt.date, tt.slot)
			assert.ErrorIs(t, err, models.ErrInvalidInput)

			after, err := store.Get(context.Background(), "B1")
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestRescheduleUnknownBooking(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, _, err := svc.RescheduleBooking(context.Background(), "missing", "2026-04-02", "9:00 AM")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
