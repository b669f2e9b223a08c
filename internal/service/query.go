package service

import (
	"context"
	"fmt"
	"strings"

	"bookingdesk/internal/models"
)

// Filter selects bookings for the work queue.
type Filter struct {
	// Query is matched case-insensitively against customer, service and staff names.
	Query string
	// Status is "all", empty, or a status value.
	Status string
}

type compiledFilter struct {
	query  string
	status models.Status // empty matches all
}

func (f Filter) compile() (compiledFilter, error) {
	c := compiledFilter{query: f.Query}
	raw := strings.TrimSpace(f.Status)
	if raw == "" || raw == models.StatusAll {
		return c, nil
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		return c, err
	}
	c.status = status
	return c, nil
}

func (c compiledFilter) match(b *models.Booking) bool {
	if c.status != "" && b.Status != c.status {
		return false
	}
	return b.Matches(c.query)
}

// FilterBookings returns the bookings matching f, keeping their order.
func FilterBookings(bookings []models.Booking, f Filter) ([]models.Booking, error) {
	c, err := f.compile()
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(bookings))
	for i := range bookings {
		if c.match(&bookings[i]) {
			out = append(out, bookings[i])
		}
	}
	return out, nil
}

// CountByStatus counts bookings per status. Every status is present in the result.
func CountByStatus(bookings []models.Booking) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for i := range bookings {
		counts[bookings[i].Status]++
	}
	return counts
}

// ListBookings returns the filtered work queue in store insertion order.
func (s *BookingService) ListBookings(ctx context.Context, f Filter) ([]models.Booking, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return FilterBookings(all, f)
}

// GetStatusCounts recounts bookings per status from the current store contents.
func (s *BookingService) GetStatusCounts(ctx context.Context) (map[models.Status]int, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return CountByStatus(all), nil
}

// GetBooking returns a single booking.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.Get(ctx, id)
}

// AvailableActions returns the commands enabled for the booking's current status.
func (s *BookingService) AvailableActions(ctx context.Context, id string) ([]models.Command, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fsm.Enabled(b.Status), nil
}
