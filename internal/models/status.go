package models

import (
	"encoding/json"
	"fmt"
)

// Status is the workflow state of a booking.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusRejected    Status = "rejected"
	StatusRescheduled Status = "rescheduled"
)

// StatusAll is the filter value that matches every status.
const StatusAll = "all"

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusInProgress,
	StatusCompleted,
	StatusRejected,
	StatusRescheduled,
}

// IsValid returns true if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusInProgress,
		StatusCompleted, StatusRejected, StatusRescheduled:
		return true
	}
	return false
}

// IsTerminal returns true for Completed and Rejected. Reschedule is still allowed from them.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}

// UnmarshalJSON rejects unknown status values.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return status, nil
}

// Command is a staff action issued against a booking.
type Command string

const (
	CommandApprove         Command = "approve"
	CommandReject          Command = "reject"
	CommandStartService    Command = "start_service"
	CommandCompleteService Command = "complete_service"
	CommandReschedule      Command = "reschedule"
)

// AllCommands lists every command.
var AllCommands = []Command{
	CommandApprove,
	CommandReject,
	CommandStartService,
	CommandCompleteService,
	CommandReschedule,
}

// IsValid returns true if the command is known.
func (c Command) IsValid() bool {
	switch c {
	case CommandApprove, CommandReject, CommandStartService,
		CommandCompleteService, CommandReschedule:
		return true
	}
	return false
}

func (c Command) String() string {
	return string(c)
}

// ParseCommand converts a string to a Command.
func ParseCommand(s string) (Command, error) {
	cmd := Command(s)
	if !cmd.IsValid() {
		return "", fmt.Errorf("%w: unknown command %q", ErrInvalidInput, s)
	}
	return cmd, nil
}
