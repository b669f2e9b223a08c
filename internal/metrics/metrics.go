package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    transitions = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookingdesk",
            Name:      "transitions_total",
            Help:      "Count of booking commands by command and result.",
        },
        []string{"command", "result"},
    )

    bookingsRegistered = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "bookingdesk",
            Name:      "bookings_registered_total",
            Help:      "Count of bookings handed over by intake.",
        },
    )

    httpRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookingdesk",
            Name:      "http_requests_total",
            Help:      "Count of API requests by route and status code.",
        },
        []string{"route", "code"},
    )

    notificationsDelivered = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookingdesk",
            Name:      "notifications_delivered_total",
            Help:      "Count of notification deliveries by sink and result.",
        },
        []string{"sink", "result"},
    )
)

// Transition results.
const (
    ResultOK                = "ok"
    ResultNotFound          = "not_found"
    ResultInvalidTransition = "invalid_transition"
    ResultInvalidInput      = "invalid_input"
    ResultError             = "error"
    ResultDropped           = "dropped"
)

// Register registers metrics (idempotent).
func Register() {
    once.Do(func() {
        prometheus.MustRegister(transitions, bookingsRegistered, httpRequests, notificationsDelivered)
    })
}

func IncTransition(command, result string) {
    transitions.WithLabelValues(command, result).Inc()
}

func IncBookingRegistered() {
    bookingsRegistered.Inc()
}

func IncHTTP(route, code string) {
    httpRequests.WithLabelValues(route, code).Inc()
}

func IncNotification(sink, result string) {
    notificationsDelivered.WithLabelValues(sink, result).Inc()
}
