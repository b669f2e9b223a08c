package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Booking represents a customer's service appointment and its workflow state.
type Booking struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	ServiceName   string          `json:"service_name"`
	StaffName     string          `json:"staff_name"`
	ScheduledDate Date            `json:"scheduled_date"`
	ScheduledTime string          `json:"scheduled_time"` // opaque slot label, e.g. "10:00 AM"
	DurationLabel string          `json:"duration_label"`
	Price         decimal.Decimal `json:"price"`
	Status        Status          `json:"status"`
	Source        string          `json:"source"` // website, mobile, ...
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsTerminal reports whether no ordinary workflow command applies any more.
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// Matches reports whether any of the display names contains query, ignoring case.
// An empty query matches every booking.
func (b *Booking) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{b.CustomerName, b.ServiceName, b.StaffName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Touch moves UpdatedAt forward to now. If the clock has not advanced past the
// stored value, UpdatedAt is bumped by one nanosecond so every mutation is visible.
func (b *Booking) Touch(now time.Time) {
	if !now.After(b.UpdatedAt) {
		now = b.UpdatedAt.Add(time.Nanosecond)
	}
	b.UpdatedAt = now
}

// Validate checks the fields an intake collaborator must populate.
func (b *Booking) Validate() error {
	switch {
	case strings.TrimSpace(b.CustomerName) == "":
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	case strings.TrimSpace(b.ServiceName) == "":
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	case strings.TrimSpace(b.StaffName) == "":
		return fmt.Errorf("%w: staff name is required", ErrInvalidInput)
	case b.ScheduledDate.IsZero():
		return fmt.Errorf("%w: scheduled date is required", ErrInvalidInput)
	case strings.TrimSpace(b.ScheduledTime) == "":
		return fmt.Errorf("%w: scheduled time is required", ErrInvalidInput)
	case !b.Status.IsValid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, b.Status)
	case b.UpdatedAt.Before(b.CreatedAt):
		return fmt.Errorf("%w: updated_at precedes created_at", ErrInvalidInput)
	}
	return nil
}
