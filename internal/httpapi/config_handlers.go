package httpapi

import (
	"net/http"
	"sync/atomic"

	"ghostjob-engine/internal/config"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.CfgVal.Load().(config.Config); ok {
		WriteJSON(w, http.StatusOK, c)
		return
	}
	WriteError(w, r, http.StatusInternalServerError, "config_missing", "no config loaded")
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"path": h.UserCfgPath})
}

// Reload re-reads the user config file and swaps the snapshot on success.
func (h ConfigHandler) Reload(w http.ResponseWriter, r *http.Request) {
	c, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusUnprocessableEntity, "config_invalid", err.Error())
		return
	}
	if err := config.Validate(c); err != nil {
		WriteError(w, r, http.StatusUnprocessableEntity, "config_invalid", err.Error())
		return
	}
	h.CfgVal.Store(c)
	WriteJSON(w, http.StatusOK, c)
}
