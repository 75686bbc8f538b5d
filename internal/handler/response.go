package handler

// Every JSON error has the same shape:
//
//	{"error": "not_found", "message": "profile not found with id abc123"}
//
// so API clients can parse failures without looking at the status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/team-directory/internal/apperror"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable, e.g. "not_found"
	Message string `json:"message"` // human-readable
}

// writeJSON sends data with status. Headers must be set before
// WriteHeader; anything set after the first body byte is ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a domain error to an HTTP status and error type.
// Anything that is not an AppError is an internal error.
func statusFor(err error) (int, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal_error"
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError sends err as a JSON error. Internal errors get a generic
// message: raw driver errors can leak SQL or file paths.
func writeError(w http.ResponseWriter, err error) {
	status, errorType := statusFor(err)
	msg := "An internal error occurred"
	if status != http.StatusInternalServerError {
		msg = apperror.Message(err, msg)
	}
	writeJSON(w, status, ErrorResponse{Error: errorType, Message: msg})
}
