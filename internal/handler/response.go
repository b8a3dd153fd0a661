package handler

// RESPONSE HELPERS:
// Every endpoint answers with the same envelope so clients parse one shape.
//
//	success: {"statusCode":200,"data":{...},"message":"...","success":true}
//	failure: {"statusCode":404,"message":"...","success":false,"errors":[{"field":"...","message":"..."}]}
//
// Handlers call writeSuccess or writeError; nothing else writes a body.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/videotube/internal/apperror"
)

// Envelope is the success response body.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope is the failure response body.
type ErrorEnvelope struct {
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Success    bool         `json:"success"`
	Errors     []FieldError `json:"errors"`
}

// FieldError points at the request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeJSON sends body with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body is written; once Encode
// writes, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeSuccess wraps data in the success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError is writeError for middleware that rejects a request before
// any handler runs.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	writeError(w, r, logger, err)
}

// writeError maps a service error to a status and the failure envelope.
//
// Only *apperror.AppError messages reach the client, and only for non-5xx
// kinds plus Internal (whose message is written to be shown). Anything else
// gets a generic message; the raw error goes to the log with the request id.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	message := "Something went wrong"
	fields := []FieldError{}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && (status < http.StatusInternalServerError || errors.Is(err, apperror.ErrInternal)) {
		message = appErr.Message
		if appErr.Field != "" {
			fields = append(fields, FieldError{Field: appErr.Field, Message: appErr.Message})
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, status, ErrorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     fields,
	})
}
