// Package booking provides the booking workflow state machine.
package booking

import (
	"time"

	"bookingdesk/internal/models"
)

// FSM holds the legal-action table: for each status, the enabled commands and
// the status each of them leads to.
type FSM struct {
	transitions map[models.Status]map[models.Command]models.Status
}

// NewFSM creates a new FSM with the booking workflow table.
// Reschedule is enabled from every status, including Rescheduled itself.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[models.Status]map[models.Command]models.Status{
			models.StatusPending: {
				models.CommandApprove:    models.StatusApproved,
				models.CommandReject:     models.StatusRejected,
				models.CommandReschedule: models.StatusRescheduled,
			},
			models.StatusApproved: {
				models.CommandStartService: models.StatusInProgress,
				models.CommandReschedule:   models.StatusRescheduled,
			},
			models.StatusInProgress: {
				models.CommandCompleteService: models.StatusCompleted,
				models.CommandReschedule:      models.StatusRescheduled,
			},
			models.StatusCompleted: {
				models.CommandReschedule: models.StatusRescheduled,
			},
			models.StatusRejected: {
				models.CommandReschedule: models.StatusRescheduled,
			},
			models.StatusRescheduled: {
				models.CommandApprove:      models.StatusApproved,
				models.CommandReject:       models.StatusRejected,
				models.CommandStartService: models.StatusInProgress,
				models.CommandReschedule:   models.StatusRescheduled,
			},
		},
	}
}

// Next returns the status cmd leads to from status, and whether cmd is enabled at all.
func (f *FSM) Next(status models.Status, cmd models.Command) (models.Status, bool) {
	allowed, ok := f.transitions[status]
	if !ok {
		return "", false
	}
	to, ok := allowed[cmd]
	return to, ok
}

// CanApply checks if cmd is enabled for status.
func (f *FSM) CanApply(status models.Status, cmd models.Command) bool {
	_, ok := f.Next(status, cmd)
	return ok
}

// Enabled returns the commands enabled for status, in models.AllCommands order.
func (f *FSM) Enabled(status models.Status) []models.Command {
	allowed := f.transitions[status]
	out := make([]models.Command, 0, len(allowed))
	for _, cmd := range models.AllCommands {
		if _, ok := allowed[cmd]; ok {
			out = append(out, cmd)
		}
	}
	return out
}

// Apply moves b to the status cmd leads to and stamps UpdatedAt.
// On a disallowed command b is left untouched and a *models.TransitionError is returned.
func (f *FSM) Apply(b *models.Booking, cmd models.Command, now time.Time) error {
	to, ok := f.Next(b.Status, cmd)
	if !ok {
		return &models.TransitionError{ID: b.ID, From: b.Status, Command: cmd}
	}
	b.Status = to
	b.Touch(now)
	return nil
}
