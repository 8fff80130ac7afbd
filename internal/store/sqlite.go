package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/inventory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	category       TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	attempts       INTEGER NOT NULL DEFAULT 0,
	items          INTEGER NOT NULL DEFAULT 0,
	artifact_path  TEXT,
	error          TEXT,
	error_category TEXT,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_category ON runs(category);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, category string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Category:  category,
		Status:    model.RunStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	run.UpdatedAt = run.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, category, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Category, run.Status, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, attempts, items int, artifactPath string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, attempts = ?, items = ?, artifact_path = ?, updated_at = ? WHERE id = ?`,
		model.RunStatusComplete, attempts, items, artifactPath, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "sqlite: complete run %s", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, attempts int, category model.ErrorCategory, cause string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, attempts = ?, error = ?, error_category = ?, updated_at = ? WHERE id = ?`,
		model.RunStatusFailed, attempts, cause, category, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "sqlite: fail run %s", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, status, attempts, items, artifact_path, error, error_category, created_at, updated_at
		 FROM runs WHERE id = ?`, runID)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Errorf("sqlite: run not found: %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query, args := buildListQuery(filter, "?")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// buildListQuery assembles the ListRuns SQL for the given placeholder style
// ("?" for sqlite, "$" for postgres).
func buildListQuery(filter RunFilter, placeholder string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func() string {
		if placeholder == "?" {
			return "?"
		}
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = "+next())
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, "category = "+next())
	}

	query := `SELECT id, category, status, attempts, items, artifact_path, error, error_category, created_at, updated_at FROM runs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += " LIMIT " + next()

	return query, args
}

// scanRun reads one run row given a Scan function, handling nullable columns.
func scanRun(scan func(dest ...any) error) (*model.Run, error) {
	var (
		run          model.Run
		artifactPath sql.NullString
		errMsg       sql.NullString
		errCat       sql.NullString
	)
	err := scan(
		&run.ID, &run.Category, &run.Status, &run.Attempts, &run.Items,
		&artifactPath, &errMsg, &errCat, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.ArtifactPath = artifactPath.String
	run.Error = errMsg.String
	run.ErrorCategory = model.ErrorCategory(errCat.String)
	return &run, nil
}
