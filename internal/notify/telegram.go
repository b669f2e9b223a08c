package notify

import (
	"context"
	"fmt"
	"strings"

	"bookingdesk/internal/events"
	"bookingdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramSender is the subset of *tgbotapi.BotAPI used for delivery.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts notifications to staff chats.
type TelegramNotifier struct {
	sender  TelegramSender
	chatIDs []int64
	limiter *rate.Limiter
}

// NewTelegramNotifier paces sends at perSecond messages across all chats.
func NewTelegramNotifier(sender TelegramSender, chatIDs []int64, perSecond float64) *TelegramNotifier {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &TelegramNotifier{
		sender:  sender,
		chatIDs: chatIDs,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, event events.Event) error {
	text := formatTelegramMessage(event)
	var failed []string
	for _, chatID := range n.chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		if _, err := n.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			failed = append(failed, fmt.Sprintf("%d: %v", chatID, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("telegram send failed for %s", strings.Join(failed, "; "))
	}
	return nil
}

func severityMark(s models.Severity) string {
	switch s {
	case models.SeveritySuccess:
		return "✅"
	case models.SeverityError:
		return "❌"
	default:
		return "ℹ️"
	}
}

func formatTelegramMessage(event events.Event) string {
	var b strings.Builder
	b.WriteString(severityMark(event.Notification.Severity))
	b.WriteString(" ")
	b.WriteString(event.Notification.Message)
	b.WriteString("\nBooking: ")
	b.WriteString(event.BookingID)
	if event.From != "" {
		fmt.Fprintf(&b, "\nStatus: %s -> %s", event.From, event.To)
	} else {
		fmt.Fprintf(&b, "\nStatus: %s", event.To)
	}
	return b.String()
}
