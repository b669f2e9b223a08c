package repository

import (
	"context"
	"fmt"
	"sync"

	"bookingdesk/internal/models"
)

// MemoryStore keeps bookings in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.Booking
	order []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*models.Booking)}
}

func (s *MemoryStore) Insert(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[b.ID]; ok {
		return fmt.Errorf("insert %s: %w", b.ID, models.ErrDuplicate)
	}
	stored := *b
	s.byID[b.ID] = &stored
	s.order = append(s.order, b.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, models.ErrNotFound)
	}
	out := *b
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out, nil
}

// Update holds the write lock for the whole read-validate-write so readers never
// observe a half-applied change.
func (s *MemoryStore) Update(_ context.Context, id string, fn UpdateFunc) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", id, models.ErrNotFound)
	}

	working := *b
	if err := fn(&working); err != nil {
		return nil, err
	}
	*b = working

	out := working
	return &out, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
