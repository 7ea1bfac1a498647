package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/de-tools/tax-atlas/pkg/models/store"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb"
)

// Store keeps the history of report runs in DuckDB.
type Store interface {
	Record(ctx context.Context, run store.ReportRun) error
	ListByAccount(ctx context.Context, account string, limit int) ([]store.ReportRun, error)
}

type historyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{
		db: db,
	}, nil
}

func (s *historyStore) Record(ctx context.Context, run store.ReportRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO report_runs (
			id, account, period_start, period_end, artifact,
			rows_fetched, rows_kept, status, created_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?
		)`

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query,
			run.ID,
			run.Account,
			run.PeriodStart,
			run.PeriodEnd,
			run.Artifact,
			run.RowsFetched,
			run.RowsKept,
			run.Status,
			run.CreatedAt,
		)
	} else {
		_, err = tx.ExecContext(ctx, query,
			run.ID,
			run.Account,
			run.PeriodStart,
			run.PeriodEnd,
			run.Artifact,
			run.RowsFetched,
			run.RowsKept,
			run.Status,
			run.CreatedAt,
		)
	}

	if err != nil {
		return fmt.Errorf("insert report run: %w", err)
	}
	return nil
}

func (s *historyStore) ListByAccount(ctx context.Context, account string, limit int) ([]store.ReportRun, error) {
	if account == "" {
		return nil, fmt.Errorf("account is required")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, account, period_start, period_end, artifact,
			rows_fetched, rows_kept, status, created_at
		FROM report_runs
		WHERE account = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, account, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]store.ReportRun, error) {
	runs := make([]store.ReportRun, 0)
	for rows.Next() {
		var (
			run      store.ReportRun
			artifact sql.NullString
		)
		if err := rows.Scan(
			&run.ID,
			&run.Account,
			&run.PeriodStart,
			&run.PeriodEnd,
			&artifact,
			&run.RowsFetched,
			&run.RowsKept,
			&run.Status,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		run.Artifact = artifact.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
