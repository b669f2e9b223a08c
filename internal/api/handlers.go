package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bookingdesk/internal/export"
	"bookingdesk/internal/models"
	"bookingdesk/internal/service"
	"bookingdesk/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// BookingService is the part of *service.BookingService the API needs.
type BookingService interface {
	Register(ctx context.Context, b *models.Booking) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	AvailableActions(ctx context.Context, id string) ([]models.Command, error)
	ListBookings(ctx context.Context, f service.Filter) ([]models.Booking, error)
	GetStatusCounts(ctx context.Context) (map[models.Status]int, error)
	ApproveBooking(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error)
	RejectBooking(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error)
	StartService(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error)
	CompleteService(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error)
	RescheduleBooking(ctx context.Context, id, date, slot string) (*models.Booking, models.NotificationEvent, error)
}

type Handlers struct {
	Bookings  BookingService
	Validator *validator.CustomValidator
	Logger    *zerolog.Logger
	Now       func() time.Time
}

type RegisterRequest struct {
	ID            string          `json:"id" validate:"omitempty,max=64"`
	CustomerName  string          `json:"customer_name" validate:"required,max=200"`
	ServiceName   string          `json:"service_name" validate:"required,max=200"`
	StaffName     string          `json:"staff_name" validate:"required,max=200"`
	ScheduledDate string          `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime string          `json:"scheduled_time" validate:"required,max=32"`
	DurationLabel string          `json:"duration_label" validate:"max=32"`
	Price         decimal.Decimal `json:"price"`
	Source        string          `json:"source" validate:"max=32"`
	Notes         string          `json:"notes" validate:"max=2000"`
}

type RescheduleRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,max=32"`
}

type CommandResponse struct {
	Booking      *models.Booking          `json:"booking"`
	Notification models.NotificationEvent `json:"notification"`
}

type ListResponse struct {
	Bookings []models.Booking `json:"bookings"`
	Total    int              `json:"total"`
}

type CountsResponse struct {
	Counts map[models.Status]int `json:"counts"`
}

type ActionsResponse struct {
	BookingID string           `json:"booking_id"`
	Status    models.Status    `json:"status"`
	Actions   []models.Command `json:"actions"`
}

func (h Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, "invalid json")
		return false
	}
	if err := h.Validator.Validate(dst); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, h.Validator.Summary(err))
		return false
	}
	return true
}

func filterFromRequest(r *http.Request) service.Filter {
	q := r.URL.Query()
	return service.Filter{Query: q.Get("q"), Status: q.Get("status")}
}

func (h Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Price.IsNegative() {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, "price must not be negative")
		return
	}
	date, err := models.ParseDate(req.ScheduledDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := h.Bookings.Register(r.Context(), &models.Booking{
		ID:            req.ID,
		CustomerName:  req.CustomerName,
		ServiceName:   req.ServiceName,
		StaffName:     req.StaffName,
		ScheduledDate: date,
		ScheduledTime: req.ScheduledTime,
		DurationLabel: req.DurationLabel,
		Price:         req.Price,
		Status:        models.StatusPending,
		Source:        req.Source,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Bookings.ListBookings(r.Context(), filterFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ListResponse{Bookings: list, Total: len(list)})
}

func (h Handlers) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Bookings.GetStatusCounts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, CountsResponse{Counts: counts})
}

func (h Handlers) Export(w http.ResponseWriter, r *http.Request) {
	list, err := h.Bookings.ListBookings(r.Context(), filterFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, list, service.CountByStatus(list)); err != nil {
		h.Logger.Error().Err(err).Msg("export bookings")
		WriteError(w, http.StatusInternalServerError, CodeInternal, "export failed")
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) Actions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	actions, err := h.Bookings.AvailableActions(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ActionsResponse{BookingID: id, Status: b.Status, Actions: actions})
}

type commandFunc func(ctx context.Context, id string) (*models.Booking, models.NotificationEvent, error)

// command adapts a no-argument booking command to an endpoint.
func (h Handlers) command(run commandFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, note, err := run(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeCommandError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, CommandResponse{Booking: updated, Notification: note})
	}
}

func (h Handlers) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req RescheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	updated, note, err := h.Bookings.RescheduleBooking(r.Context(), chi.URLParam(r, "id"), req.Date, req.Time)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, CommandResponse{Booking: updated, Notification: note})
}
