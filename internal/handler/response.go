package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/goalwizard/internal/repository"
	"github.com/templui/goalwizard/internal/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// NotFound is the catch-all route, so unmatched requests still get a JSON body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found.")
}

// decodeJSON answers 400 itself when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

// decodeOptionalJSON accepts an empty body; anything else must be valid JSON.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

// writeServiceError maps service and repository errors onto status codes.
// Unknown errors are logged and hidden behind fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, inputErr.Message)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, repository.ErrTargetNotFound):
		writeError(w, http.StatusNotFound, "Target not found.")
	case errors.Is(err, repository.ErrActionNotFound):
		writeError(w, http.StatusNotFound, "Action not found.")
	case errors.Is(err, service.ErrCompleterMissing):
		slog.Error("completion service not configured", "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "OpenAI configuration is missing.")
	default:
		slog.Error(fallback, "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
