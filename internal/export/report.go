// Package export renders the booking work queue as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"bookingdesk/internal/models"
)

const (
	SheetBookings = "bookings"
	SheetSummary  = "summary"
)

var bookingColumns = []string{
	"ID", "Customer", "Service", "Staff", "Date", "Time",
	"Duration", "Price", "Status", "Source", "Notes", "Created", "Updated",
}

// Filename returns the download name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", t.UTC().Format("20060102_150405"))
}

// WriteBookings writes a workbook with the given bookings and the per-status
// counts to out.
func WriteBookings(out io.Writer, bookings []models.Booking, counts map[models.Status]int) error {
	w := NewExcelizeWriter()
	defer w.Close()

	if err := w.AddSheet(SheetBookings); err != nil {
		return err
	}
	if err := w.WriteHeader(bookingColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range bookings {
		if err := w.WriteRow(bookingRow(&bookings[i])); err != nil {
			return fmt.Errorf("write booking %s: %w", bookings[i].ID, err)
		}
	}

	if err := w.AddSheet(SheetSummary); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"Status", "Count"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	total := 0
	for _, s := range models.AllStatuses {
		total += counts[s]
		if err := w.WriteRow([]interface{}{string(s), counts[s]}); err != nil {
			return err
		}
	}
	if err := w.WriteRow([]interface{}{"total", total}); err != nil {
		return err
	}

	return w.Save(out)
}

func bookingRow(b *models.Booking) []interface{} {
	price, _ := b.Price.Float64()
	return []interface{}{
		b.ID,
		b.CustomerName,
		b.ServiceName,
		b.StaffName,
		b.ScheduledDate.String(),
		b.ScheduledTime,
		b.DurationLabel,
		price,
		string(b.Status),
		b.Source,
		b.Notes,
		b.CreatedAt.UTC().Format(time.RFC3339),
		b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
