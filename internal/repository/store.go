// Package repository provides booking storage backends.
package repository

import (
	"context"

	"bookingdesk/internal/models"
)

// UpdateFunc validates and mutates a booking inside a store's atomic unit.
// Returning an error aborts the update and leaves the stored booking untouched.
type UpdateFunc func(b *models.Booking) error

// Store holds bookings keyed by id and remembers insertion order.
type Store interface {
	// Insert adds a new booking. Returns models.ErrDuplicate if the id is taken.
	Insert(ctx context.Context, b *models.Booking) error

	// Get returns a copy of the booking or models.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Booking, error)

	// List returns a snapshot of all bookings in insertion order.
	List(ctx context.Context) ([]models.Booking, error)

	// Update loads the booking, runs fn and persists the result as one atomic unit.
	// Concurrent updates of the same id are serialized.
	Update(ctx context.Context, id string, fn UpdateFunc) (*models.Booking, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
