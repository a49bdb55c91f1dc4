package httpapi

import (
	"database/sql"
	"net/http"
	"time"
)

type HealthHandler struct {
	DB *sql.DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			dbOK = false
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":   dbOK,
		"db":   dbOK,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}
