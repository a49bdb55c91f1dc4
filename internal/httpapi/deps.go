// Package httpapi is the engine's local HTTP surface: analyze, history,
// stats, corrections, live events, and secrets management.
package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"ghostjob-engine/internal/app"
	"ghostjob-engine/internal/config"
	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/events"
)

// Corrections is the handler's view of the learning store.
type Corrections interface {
	RecordCorrection(ctx context.Context, c domain.Correction) (int, error)
	Count(ctx context.Context) (int, error)
}

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub

	Analyzer *app.Analyzer
	Learn    Corrections

	// CfgVal stores config.Config; handlers read the current snapshot.
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
