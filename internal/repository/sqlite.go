package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookingdesk/internal/database"
	"bookingdesk/internal/models"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const bookingColumns = `id, customer_name, service_name, staff_name, scheduled_date, scheduled_time,
	duration_label, price, status, source, notes, created_at, updated_at`

// SQLiteStore persists bookings in SQLite. Every update runs in its own transaction.
type SQLiteStore struct {
	db *database.DB
}

func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) Insert(ctx context.Context, b *models.Booking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CustomerName, b.ServiceName, b.StaffName, b.ScheduledDate.String(), b.ScheduledTime,
		b.DurationLabel, b.Price.String(), string(b.Status), b.Source, b.Notes,
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("insert %s: %w", b.ID, models.ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", b.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return b, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, id string, fn UpdateFunc) (*models.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}

	if err := fn(b); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings SET
			scheduled_date = ?, scheduled_time = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		b.ScheduledDate.String(), b.ScheduledTime, string(b.Status), b.Notes, formatTime(b.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit %s: %w", id, err)
	}
	return b, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b                    models.Booking
		date, price, status  string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&b.ID, &b.CustomerName, &b.ServiceName, &b.StaffName, &date, &b.ScheduledTime,
		&b.DurationLabel, &price, &status, &b.Source, &b.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.ScheduledDate, err = models.ParseDate(date); err != nil {
		return nil, err
	}
	if b.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("price %q: %w", price, err)
	}
	if b.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	return &b, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
