package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("all")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseStatus("Pending")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseCommand(t *testing.T) {
	for _, c := range AllCommands {
		got, err := ParseCommand(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCommand("cancel")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 1}, d)
	assert.Equal(t, "2026-03-01", d.String())

	for _, bad := range []string{"", "2026-02-30", "01-03-2026", "2026/03/01", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2026, 5, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-04", DateOf(ts).String())
	assert.True(t, Date{}.IsZero())
	assert.Equal(t, "", Date{}.String())
}

func TestTransitionError(t *testing.T) {
	var err error = &TransitionError{ID: "b1", From: StatusApproved, Command: CommandReject}

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "reject is not allowed from status approved")
}

func TestNotificationFor(t *testing.T) {
	ev := NotificationFor(CommandApprove)
	assert.Equal(t, "Appointment approved successfully", ev.Message)
	assert.Equal(t, SeveritySuccess, ev.Severity)

	for _, c := range AllCommands {
		assert.NotEmpty(t, NotificationFor(c).Message, c)
	}

	assert.Equal(t, SeverityError, FailureNotification("boom").Severity)
}
