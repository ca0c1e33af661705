package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// respondServiceError maps domain errors to HTTP statuses: not-found to
// 404, structurally disallowed actions to 400, everything else to 500.
// Dispatch failures are not mapped here; they ride inside success payloads
// because the underlying records are committed.
func respondServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidOperation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		// Log the route pattern, not the raw path: the path carries the
		// capability token.
		logger.ErrorContext(r.Context(), "request failed", "route", r.Pattern, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
