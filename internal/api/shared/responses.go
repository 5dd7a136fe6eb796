package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/redact"
)

// ErrorResponse is the error envelope for every non-validation failure.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationErrorDetail locates one invalid input, e.g.
// {"loc": ["body", "translations", 1, "language"], "msg": "...", "type": "type_error.enum"}.
type ValidationErrorDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationErrorResponse is the 422 envelope.
type ValidationErrorResponse struct {
	Detail []ValidationErrorDetail `json:"detail"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// RespondWithError writes {"detail": message} with the given status code.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger.FromContext(r.Context()).Debug("sending error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, ErrorResponse{Detail: message})
}

// RespondWithErrorAndLog writes a safe message to the client and logs the
// redacted error. 5xx responses log at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Detail: userMessage})
}

// RespondWithValidationErrors writes the 422 envelope.
func RespondWithValidationErrors(w http.ResponseWriter, r *http.Request, details []ValidationErrorDetail) {
	logger.FromContext(r.Context()).Debug("request failed validation",
		slog.String("path", r.URL.Path),
		slog.Int("errors", len(details)))

	RespondWithJSON(w, r, http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: details})
}
