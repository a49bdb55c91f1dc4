package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"ghostjob-engine/internal/app"
)

type AnalyzeHandler struct {
	Analyzer *app.Analyzer
}

type analyzeRequest struct {
	URL string `json:"url"`
	// Content is optional pre-captured page HTML; when absent the engine
	// fetches the URL itself.
	Content string `json:"content,omitempty"`
}

func (h AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "url is required")
		return
	}

	reqID := RequestIDFrom(r.Context())
	res, err := h.Analyzer.Analyze(r.Context(), reqID, strings.TrimSpace(req.URL), req.Content)
	if err != nil {
		WriteKindError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
