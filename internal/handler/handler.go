// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NaiduBugata/MahoAccom/internal/auth"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
	"github.com/NaiduBugata/MahoAccom/internal/service"
)

// Stable machine-checkable error kinds. Clients branch on these, not on
// the human-readable message.
const (
	kindValidation   = "validation_error"
	kindNotFound     = "not_found"
	kindConflict     = "conflict"
	kindPrecondition = "precondition_failed"
	kindAuth         = "auth_error"
	kindRateLimited  = "rate_limited"
	kindServer       = "server_error"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, response{Success: false, Error: kind, Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondError maps domain errors onto HTTP statuses and stable kinds in
// one place. Unexpected errors are logged and reported generically.
func respondError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, kindValidation, ve.Error())
	case errors.Is(err, repository.ErrParticipantNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateRoom),
		errors.Is(err, repository.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, kindConflict, err.Error())
	case errors.Is(err, repository.ErrPaymentRequired),
		errors.Is(err, repository.ErrGenderMismatch),
		errors.Is(err, repository.ErrRoomFull),
		errors.Is(err, repository.ErrRoomOccupied),
		errors.Is(err, repository.ErrCapacityTooLow):
		writeError(w, http.StatusPreconditionFailed, kindPrecondition, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, kindAuth, err.Error())
	case errors.Is(err, service.ErrInactiveAccount):
		writeError(w, http.StatusForbidden, kindAuth, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, kindServer, "internal server error")
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
