package notify

import (
	"context"

	"bookingdesk/internal/events"
	"bookingdesk/internal/models"

	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	l := logger.With().Str("component", "notifications").Logger()
	return &LogNotifier{logger: &l}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, event events.Event) error {
	level := zerolog.InfoLevel
	if event.Notification.Severity == models.SeverityError {
		level = zerolog.WarnLevel
	}
	n.logger.WithLevel(level).
		Str("event_id", event.ID).
		Str("booking_id", event.BookingID).
		Str("severity", string(event.Notification.Severity)).
		Str("from", string(event.From)).
		Str("to", string(event.To)).
		Msg(event.Notification.Message)
	return nil
}
