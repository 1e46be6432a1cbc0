package web

// errors.go centralizes error responses for the API.
//
// Every failure is logged server-side with full detail and the request id,
// while the client gets a short JSON body with an appropriate status code.
// Domain sentinels map to their natural statuses: unknown records are 404,
// claim conflicts are 409.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"redfp/internal/catalog"
	"redfp/internal/core"
	"redfp/internal/store"
)

// ErrorResponse is the JSON body for API failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps err to a status code, logs it, and writes the JSON body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, catalog.ErrUnknownKey):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrCenterClaimed):
		status = http.StatusConflict
	}
	writeError(w, r, status, err.Error())
}

// writeError logs the failure and writes a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	slog.Error("request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON encodes v as JSON with the given status code.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
