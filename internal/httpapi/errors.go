package httpapi

import (
	"encoding/json"
	"net/http"

	"ghostjob-engine/internal/domain"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteKindError maps the engine's error taxonomy onto HTTP statuses.
func WriteKindError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.ErrSecurity:
		status = http.StatusBadRequest
	case domain.ErrValidation:
		status = http.StatusUnprocessableEntity
	case domain.ErrRateLimit:
		status = http.StatusTooManyRequests
	case domain.ErrNetwork:
		status = http.StatusBadGateway
	case domain.ErrBackendDown:
		status = http.StatusServiceUnavailable
	}
	WriteError(w, r, status, string(kind), err.Error())
}
