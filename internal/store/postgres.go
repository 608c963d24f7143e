package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/relief-analytics/crisis-cli/internal/db"
	"github.com/relief-analytics/crisis-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run": `INSERT INTO analysis_runs (id, params, summary, created_at) VALUES ($1, $2, $3, $4)`,
	"get_run":    `SELECT id, params, summary, created_at FROM analysis_runs WHERE id = $1`,
	"latest_run": `SELECT id, params, summary, created_at FROM analysis_runs ORDER BY created_at DESC LIMIT 1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	params     JSONB NOT NULL,
	summary    JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_rows (
	run_id              TEXT NOT NULL REFERENCES analysis_runs(id),
	locality_code       TEXT NOT NULL,
	state_name          TEXT NOT NULL,
	risk_category       TEXT NOT NULL,
	vulnerability_index DOUBLE PRECISION NOT NULL,
	row                 JSONB NOT NULL,
	PRIMARY KEY (run_id, locality_code)
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_analysis_rows_tier ON analysis_rows(run_id, risk_category);
CREATE INDEX IF NOT EXISTS idx_analysis_rows_state ON analysis_rows(run_id, state_name);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.AnalysisRun, rows []model.AnalysisRow) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal params")
	}
	var summaryJSON []byte
	if run.Summary != nil {
		summaryJSON, err = json.Marshal(run.Summary)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal summary")
		}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, params, summary, created_at) VALUES ($1, $2, $3, $4)`,
		run.ID, paramsJSON, summaryJSON, run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert run")
	}

	copyRows := make([][]any, 0, len(rows))
	for _, r := range rows {
		rowJSON, err := json.Marshal(r)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal row %s", r.LocalityCode)
		}
		copyRows = append(copyRows, []any{
			run.ID, r.LocalityCode, r.RegionName, r.RiskTier, r.VulnerabilityIndex, rowJSON,
		})
	}

	_, err = db.CopyFrom(ctx, s.pool, "analysis_rows",
		[]string{"run_id", "locality_code", "state_name", "risk_category", "vulnerability_index", "row"},
		copyRows,
	)
	return eris.Wrapf(err, "postgres: copy rows for run %s", run.ID)
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, params, summary, created_at FROM analysis_runs WHERE id = $1`,
		runID,
	)
	r, err := scanPostgresRun(row)
	return r, eris.Wrapf(err, "postgres: get run %s", runID)
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.AnalysisRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, params, summary, created_at FROM analysis_runs ORDER BY created_at DESC LIMIT 1`,
	)
	r, err := scanPostgresRun(row)
	return r, eris.Wrap(err, "postgres: latest run")
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.AnalysisRun, error) {
	query := `SELECT id, params, summary, created_at FROM analysis_runs ORDER BY created_at DESC`
	args := []any{}
	argIdx := 1

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.AnalysisRun
	for rows.Next() {
		r, err := scanPostgresRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) GetRows(ctx context.Context, runID string, filter RowFilter) ([]model.AnalysisRow, error) {
	query := `SELECT row FROM analysis_rows WHERE run_id = $1`
	args := []any{runID}
	argIdx := 2

	if filter.RiskTier != "" {
		query += fmt.Sprintf(` AND risk_category = $%d`, argIdx)
		args = append(args, filter.RiskTier)
		argIdx++
	}
	if filter.Region != "" {
		query += fmt.Sprintf(` AND state_name = $%d`, argIdx)
		args = append(args, filter.Region)
		argIdx++
	}
	query += ` ORDER BY vulnerability_index DESC, locality_code ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 10000
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get rows")
	}
	defer rows.Close()

	var out []model.AnalysisRow
	for rows.Next() {
		var rowJSON []byte
		if err := rows.Scan(&rowJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan row")
		}
		var r model.AnalysisRow
		if err := json.Unmarshal(rowJSON, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: get rows iterate")
}

func scanPostgresRun(row pgx.Row) (*model.AnalysisRun, error) {
	var r model.AnalysisRun
	var paramsJSON []byte
	var summaryJSON []byte

	err := row.Scan(&r.ID, &paramsJSON, &summaryJSON, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.New("run not found")
		}
		return nil, eris.Wrap(err, "scan run")
	}

	if err := json.Unmarshal(paramsJSON, &r.Params); err != nil {
		return nil, eris.Wrap(err, "unmarshal params")
	}
	if len(summaryJSON) > 0 {
		r.Summary = &model.Summary{}
		if err := json.Unmarshal(summaryJSON, r.Summary); err != nil {
			return nil, eris.Wrap(err, "unmarshal summary")
		}
	}
	return &r, nil
}
