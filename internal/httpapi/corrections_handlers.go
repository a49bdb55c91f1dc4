package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/events"
)

type CorrectionsHandler struct {
	Learn Corrections
	Hub   *events.Hub
}

// Submit records a manual correction. CorrectedBy defaults to "user"; the
// realtime marker is reserved for the engine's own repairs.
func (h CorrectionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var c domain.Correction
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(c.SourceURL) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "sourceUrl is required")
		return
	}
	if strings.TrimSpace(c.CorrectedBy) == "" {
		c.CorrectedBy = "user"
	}
	if c.CorrectedBy == domain.RealTimeLearner {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "correctedBy value is reserved")
		return
	}

	added, err := h.Learn.RecordCorrection(r.Context(), c)
	if err != nil {
		WriteError(w, r, http.StatusUnprocessableEntity, "invalid_correction", err.Error())
		return
	}
	if added == 0 {
		WriteError(w, r, http.StatusUnprocessableEntity, "invalid_correction", "no corrected fields supplied")
		return
	}

	if h.Hub != nil {
		h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeCorrectionSaved, map[string]any{
			"sourceUrl": c.SourceURL,
			"fields":    added,
		})
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"recorded": added})
}
