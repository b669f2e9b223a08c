package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/models"
	"bookingdesk/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(event events.Event) {
	m.Called(event)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, pub EventPublisher) (*BookingService, repository.Store) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store := repository.NewMemoryStore()
	svc := NewBookingService(store, pub, &logger, WithClock(func() time.Time { return fixedNow }))
	return svc, store
}

func seed(t *testing.T, store repository.Store, id, customer, serviceName, staff string, status models.Status) {
	t.Helper()
	created := fixedNow.Add(-time.Hour)
	require.NoError(t, store.Insert(context.Background(), &models.Booking{
		ID:            id,
		CustomerName:  customer,
		ServiceName:   serviceName,
		StaffName:     staff,
		ScheduledDate: models.Date{Year: 2026, Month: time.March, Day: 10},
		ScheduledTime: "10:00 AM",
		DurationLabel: "60 min",
		Price:         decimal.RequireFromString("45.50"),
		Status:        status,
		Source:        "website",
		CreatedAt:     created,
		UpdatedAt:     created,
	}))
}

func TestApproveBooking(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.TypeBookingTransitioned &&
			e.BookingID == "B1" &&
			e.From == models.StatusPending &&
			e.To == models.StatusApproved
	})).Once()

	svc, store := newTestService(t, pub)
	seed(t, store, "B1", "John Doe", "Haircut", "Anna", models.StatusPending)

	updated, note, err := svc.ApproveBooking(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
	assert.Equal(t, "Appointment approved successfully", note.Message)
	assert.Equal(t, models.SeveritySuccess, note.Severity)

	stored, err := store.Get(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	pub.AssertExpectations(t)
}

func TestInvalidTransitionLeavesBookingUnchanged(t *testing.T) {
	pub := new(mockPublisher)
	svc, store := newTestService(t, pub)
	seed(t, store, "B2", "Jane Smith", "Massage", "Maria", models.StatusCompleted)
	before, err := store.Get(context.Background(), "B2")
	require.NoError(t, err)

	_, _, err = svc.ApproveBooking(context.Background(), "B2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))

	var te *models.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusCompleted, te.From)
	assert.Equal(t, models.CommandApprove, te.Command)

	after, err := store.Get(context.Background(), "B2")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestWorkflowCommands(t *testing.T) {
	tests := []struct {
		name    string
		from    models.Status
		run     func(*BookingService, context.Context, string) (*models.Booking, models.NotificationEvent, error)
		want    models.Status
		message string
		wantErr error
	}{
		{"reject pending", models.StatusPending, (*BookingService).RejectBooking, models.StatusRejected, "Appointment rejected", nil},
		{"start approved", models.StatusApproved, (*BookingService).StartService, models.StatusInProgress, "Service started", nil},
		{"start rescheduled", models.StatusRescheduled, (*BookingService).StartService, models.StatusInProgress, "Service started", nil},
		{"complete in progress", models.StatusInProgress, (*BookingService).CompleteService, models.StatusCompleted, "Service completed successfully", nil},
		{"approve rescheduled", models.StatusRescheduled, (*BookingService).ApproveBooking, models.StatusApproved, "Appointment approved successfully", nil},
		{"start pending", models.StatusPending, (*BookingService).StartService, "", "", models.ErrInvalidTransition},
		{"complete approved", models.StatusApproved, (*BookingService).CompleteService, "", "", models.ErrInvalidTransition},
		{"reject approved", models.StatusApproved, (*BookingService).RejectBooking, "", "", models.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(mockPublisher)
			pub.On("Publish", mock.Anything).Maybe()
			svc, store := newTestService(t, pub)
			seed(t, store, "B", "John Doe", "Haircut", "Anna", tt.from)

			updated, note, err := tt.run(svc, context.Background(), "B")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.Status)
			assert.Equal(t, tt.message, note.Message)
		})
	}
}

func TestApplyUnknownBooking(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, _, err := svc.ApproveBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestApplyRejectsRescheduleWithoutSlot(t *testing.T) {
	svc, store := newTestService(t, nil)
	seed(t, store, "B1", "John Doe", "Haircut", "Anna", models.StatusPending)

	_, _, err := svc.Apply(context.Background(), "B1", models.CommandReschedule)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = svc.Apply(context.Background(), "B1", models.Command("cancel"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdatedAtStrictlyAdvances(t *testing.T) {
	svc, store := newTestService(t, nil)
	seed(t, store, "B1", "John Doe", "Haircut", "Anna", models.StatusPending)

	first, _, err := svc.ApproveBooking(context.Background(), "B1")
	require.NoError(t, err)
	second, _, err := svc.StartService(context.Background(), "B1")
	require.NoError(t, err)

	// The clock is frozen, yet each mutation still moves UpdatedAt.
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestConcurrentApproveAndReject(t *testing.T) {
	for i := 0; i < 20; i++ {
		svc, store := newTestService(t, nil)
		seed(t, store, "B1", "John Doe", "Haircut", "Anna", models.StatusPending)

		var (
			wg   sync.WaitGroup
			errs [2]error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, errs[0] = svc.ApproveBooking(context.Background(), "B1")
		}()
		go func() {
			defer wg.Done()
			_, _, errs[1] = svc.RejectBooking(context.Background(), "B1")
		}()
		wg.Wait()

		final, err := store.Get(context.Background(), "B1")
		require.NoError(t, err)

		switch {
		case errs[0] == nil:
			assert.ErrorIs(t, errs[1], models.ErrInvalidTransition)
			assert.Equal(t, models.StatusApproved, final.Status)
		case errs[1] == nil:
			assert.ErrorIs(t, errs[0], models.ErrInvalidTransition)
			assert.Equal(t, models.StatusRejected, final.Status)
		default:
			t.Fatalf("both commands failed: %v, %v", errs[0], errs[1])
		}
	}
}

func mockRegistered() interface{} {
	return mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.TypeBookingRegistered && e.To == models.StatusPending
	})
}
