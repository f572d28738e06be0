package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON and writeError so the API has one
// error shape:
//
//	{"message": "User not found"}
//
// The status code carries the error class; the message is safe to show a
// user as-is.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/profile-explorer/internal/apperror"
)

// maxBodyBytes caps request bodies read by any handler.
const maxBodyBytes = 1 << 20

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
}

// writeJSON sends data as JSON with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps err to a status code and message and sends it.
// Server-side failures are logged with their full cause chain; callers
// only ever see the AppError message or the generic internal message.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, message := http.StatusInternalServerError, apperror.InternalMessage

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = statusFor(appErr)
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.Int("status", status),
			slog.String("error", errorChain(err)),
		)
	}

	writeJSON(w, status, ErrorResponse{Message: message})
}

// statusFor classifies by the AppError's own sentinel. Internal is checked
// first because it wraps causes that may carry other classes.
func statusFor(appErr *apperror.AppError) int {
	switch {
	case errors.Is(appErr.Err, apperror.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(appErr.Err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(appErr.Err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(appErr.Err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(appErr.Err, apperror.ErrUpstreamModel):
		if appErr.Status >= 400 && appErr.Status <= 599 {
			return appErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(appErr.Err, apperror.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorChain renders an error including causes hidden behind AppError
// messages, for logs only.
func errorChain(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Message + ": " + appErr.Err.Error()
	}
	return err.Error()
}
