package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/inventory-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	category       TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	attempts       INTEGER NOT NULL DEFAULT 0,
	items          INTEGER NOT NULL DEFAULT 0,
	artifact_path  TEXT,
	error          TEXT,
	error_category TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_category ON runs(category);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, category string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Category:  category,
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	run.UpdatedAt = run.CreatedAt

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, category, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Category, run.Status, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, attempts, items int, artifactPath string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, attempts = $2, items = $3, artifact_path = $4, updated_at = $5 WHERE id = $6`,
		model.RunStatusComplete, attempts, items, artifactPath, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "postgres: complete run %s", runID)
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, attempts int, category model.ErrorCategory, cause string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, attempts = $2, error = $3, error_category = $4, updated_at = $5 WHERE id = $6`,
		model.RunStatusFailed, attempts, cause, category, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "postgres: fail run %s", runID)
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, category, status, attempts, items, artifact_path, error, error_category, created_at, updated_at
		 FROM runs WHERE id = $1`, runID)

	run, err := scanRun(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("postgres: run not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query, args := buildListQuery(filter, "$")

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
