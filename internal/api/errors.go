package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookingdesk/internal/models"
)

// Error codes.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeDuplicate         = "DUPLICATE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL"
)

type ErrorEnvelope struct {
	Error        APIError                  `json:"error"`
	Notification *models.NotificationEvent `json:"notification,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}

// writeCommandError reports a failed command together with an error notification
// the client can show to the operator.
func writeCommandError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	note := models.FailureNotification(msg)
	WriteJSON(w, status, ErrorEnvelope{
		Error:        APIError{Code: code, Message: msg},
		Notification: &note,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		WriteError(w, status, code, "internal error")
		return
	}
	WriteError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, models.ErrDuplicate):
		return http.StatusConflict, CodeDuplicate
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
