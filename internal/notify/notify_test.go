package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func approvedEvent() events.Event {
	return events.Event{
		ID:           "evt-1",
		Type:         events.TypeBookingTransitioned,
		BookingID:    "B1",
		Command:      models.CommandApprove,
		From:         models.StatusPending,
		To:           models.StatusApproved,
		Notification: models.NotificationFor(models.CommandApprove),
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type chanNotifier struct {
	got chan events.Event
	err error
}

func (n *chanNotifier) Name() string { return "chan" }

func (n *chanNotifier) Notify(_ context.Context, event events.Event) error {
	n.got <- event
	return n.err
}

func TestTelegramNotifierSendsToEveryChat(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 100
	})).Return(nil).Once()
	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == 200
	})).Return(nil).Once()

	n := NewTelegramNotifier(sender, []int64{100, 200}, 1000)
	require.NoError(t, n.Notify(context.Background(), approvedEvent()))
	sender.AssertExpectations(t)
}

func TestTelegramNotifierReportsFailedChats(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything).Return(errors.New("forbidden"))

	n := NewTelegramNotifier(sender, []int64{100}, 1000)
	err := n.Notify(context.Background(), approvedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100: forbidden")
}

func TestFormatTelegramMessage(t *testing.T) {
	text := formatTelegramMessage(approvedEvent())
	assert.Contains(t, text, "Appointment approved successfully")
	assert.Contains(t, text, "Booking: B1")
	assert.Contains(t, text, "pending -> approved")

	registered := events.Event{
		BookingID:    "B9",
		To:           models.StatusPending,
		Notification: models.NotificationEvent{Message: "New appointment received", Severity: models.SeverityInfo},
	}
	assert.Contains(t, formatTelegramMessage(registered), "Status: pending")
}

func TestKafkaNotifier(t *testing.T) {
	w := &recordingWriter{}
	n := NewKafkaNotifier(w)

	require.NoError(t, n.Notify(context.Background(), approvedEvent()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "B1", string(msg.Key))
	assert.Equal(t, []kafka.Header{
		{Key: "event_id", Value: []byte("evt-1")},
		{Key: "event_type", Value: []byte(events.TypeBookingTransitioned)},
	}, msg.Headers)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, models.StatusApproved, decoded.To)
	assert.Equal(t, "Appointment approved successfully", decoded.Notification.Message)
}

func TestKafkaNotifierWriteError(t *testing.T) {
	n := NewKafkaNotifier(&recordingWriter{err: errors.New("broker down")})
	assert.ErrorContains(t, n.Notify(context.Background(), approvedEvent()), "broker down")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	n := NewLogNotifier(&logger)

	require.NoError(t, n.Notify(context.Background(), approvedEvent()))
	assert.Contains(t, buf.String(), `"message":"Appointment approved successfully"`)
	assert.Contains(t, buf.String(), `"booking_id":"B1"`)
}

func TestDispatcherDeliversFromBus(t *testing.T) {
	logger := zerolog.Nop()
	bus := events.NewEventBus(&logger)
	sink := &chanNotifier{got: make(chan events.Event, 1)}
	d := NewDispatcher(sink, 4, &logger)
	d.Attach(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	bus.Publish(approvedEvent())

	select {
	case got := <-sink.got:
		assert.Equal(t, "B1", got.BookingID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	logger := zerolog.Nop()
	d := NewDispatcher(&chanNotifier{got: make(chan events.Event, 1)}, 1, &logger)

	require.NoError(t, d.Handle(approvedEvent()))
	assert.Error(t, d.Handle(approvedEvent()))
}
