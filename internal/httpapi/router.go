package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter wires every handler. main() may still attach /shutdown on top
// since that needs the server and token.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID, Recover, AccessLog, Cors)

	hh := HealthHandler{DB: d.DB}
	r.Get("/health", hh.Health)

	ah := AnalyzeHandler{Analyzer: d.Analyzer}
	r.Post("/analyze", ah.Analyze)

	hist := HistoryHandler{DB: d.DB, Learn: d.Learn, CfgVal: d.CfgVal}
	r.Get("/history", hist.List)
	r.Get("/history/{id}/factors", hist.Factors)
	r.Get("/stats", hist.Stats)

	corr := CorrectionsHandler{Learn: d.Learn, Hub: d.Hub}
	r.Post("/corrections", corr.Submit)

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	sh := SecretsHandler{}
	r.Post("/secrets/validator", sh.SetValidatorKey)
	r.Delete("/secrets/validator", sh.DeleteValidatorKey)

	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	r.Get("/config", ch.Get)
	r.Get("/config/path", ch.Path)
	r.Post("/config/reload", ch.Reload)

	return r
}
