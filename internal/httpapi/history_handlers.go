package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"ghostjob-engine/internal/config"
	"ghostjob-engine/internal/store"
)

type HistoryHandler struct {
	DB     *sql.DB
	Learn  Corrections
	CfgVal *atomic.Value
}

func (h HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	if limit <= 0 {
		if c, ok := h.CfgVal.Load().(config.Config); ok {
			limit = c.History.RecentLimit
		}
	}

	items, err := store.History(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"analyses": items, "count": len(items)})
}

func (h HistoryHandler) Factors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	factors, err := store.Factors(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"keyFactors": factors})
}

func (h HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.LoadStats(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	patterns := 0
	if h.Learn != nil {
		if n, err := h.Learn.Count(r.Context()); err == nil {
			patterns = n
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"totalAnalyses":       stats.TotalAnalyses,
		"avgGhostProbability": stats.AvgGhostProbability,
		"riskTiers":           stats.RiskTiers,
		"topPlatforms":        stats.TopPlatforms,
		"learningPatterns":    patterns,
	})
}
