package models

// Severity classifies a notification for the delivering collaborator.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// NotificationEvent describes the outcome of a command for an external notifier.
type NotificationEvent struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

var commandNotifications = map[Command]NotificationEvent{
	CommandApprove:         {Message: "Appointment approved successfully", Severity: SeveritySuccess},
	CommandReject:          {Message: "Appointment rejected", Severity: SeverityInfo},
	CommandStartService:    {Message: "Service started", Severity: SeveritySuccess},
	CommandCompleteService: {Message: "Service completed successfully", Severity: SeveritySuccess},
	CommandReschedule:      {Message: "Appointment rescheduled successfully", Severity: SeveritySuccess},
}

// NotificationFor returns the event emitted after cmd succeeds.
func NotificationFor(cmd Command) NotificationEvent {
	if ev, ok := commandNotifications[cmd]; ok {
		return ev
	}
	return NotificationEvent{Message: "Appointment updated", Severity: SeverityInfo}
}

// FailureNotification wraps an error message for display to the operator.
func FailureNotification(msg string) NotificationEvent {
	return NotificationEvent{Message: msg, Severity: SeverityError}
}
