// Package store persists analysis runs and their per-locality result rows
// behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/relief-analytics/crisis-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// RowFilter specifies criteria for fetching result rows. Rows are always
// ordered by vulnerability index, most vulnerable first.
type RowFilter struct {
	RiskTier string `json:"risk_tier,omitempty"`
	Region   string `json:"region,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis results.
type Store interface {
	// SaveRun persists a run and its result rows. A missing run ID or
	// creation time is filled in by the store.
	SaveRun(ctx context.Context, run *model.AnalysisRun, rows []model.AnalysisRow) error
	GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error)
	LatestRun(ctx context.Context) (*model.AnalysisRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRun, error)
	GetRows(ctx context.Context, runID string, filter RowFilter) ([]model.AnalysisRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(databaseURL)
	case "postgres":
		return NewPostgres(ctx, databaseURL, nil)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}
