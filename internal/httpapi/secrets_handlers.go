package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"ghostjob-engine/internal/secrets"
)

type SecretsHandler struct{}

type setKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func (h SecretsHandler) SetValidatorKey(w http.ResponseWriter, r *http.Request) {
	var req setKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "apiKey is required")
		return
	}
	if err := secrets.SetValidatorAPIKey(req.APIKey); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h SecretsHandler) DeleteValidatorKey(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteValidatorAPIKey(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
