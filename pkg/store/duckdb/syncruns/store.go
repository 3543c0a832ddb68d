package syncruns

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
)

// Store records the history of mirror syncs
type Store interface {
	Add(ctx context.Context, run store.SyncRun) error
	List(ctx context.Context, limit int) ([]store.SyncRun, error)
	Last(ctx context.Context, source string) (*store.SyncRun, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) Add(ctx context.Context, run store.SyncRun) error {
	if run.Documents == nil {
		run.Documents = map[string]int{}
	}
	if run.Errors == nil {
		run.Errors = map[string]string{}
	}
	documents, err := json.Marshal(run.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	errs, err := json.Marshal(run.Errors)
	if err != nil {
		return fmt.Errorf("marshal errors: %w", err)
	}

	query := `
		INSERT INTO sync_runs (source, status, started_at, finished_at, documents, errors)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = duckdb.Conn(ctx, s.db).ExecContext(ctx, query,
		run.Source,
		run.Status,
		run.StartedAt,
		run.FinishedAt,
		string(documents),
		string(errs),
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns every run.
func (s *defaultStore) List(ctx context.Context, limit int) ([]store.SyncRun, error) {
	query := `
		SELECT source, status, started_at, finished_at, CAST(documents AS VARCHAR), CAST(errors AS VARCHAR)
		FROM sync_runs
		ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

func (s *defaultStore) Last(ctx context.Context, source string) (*store.SyncRun, error) {
	query := `
		SELECT source, status, started_at, finished_at, CAST(documents AS VARCHAR), CAST(errors AS VARCHAR)
		FROM sync_runs
		WHERE source = ?
		ORDER BY started_at DESC
		LIMIT 1`
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("query last sync run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func scanRuns(rows *sql.Rows) ([]store.SyncRun, error) {
	runs := make([]store.SyncRun, 0)
	for rows.Next() {
		var (
			source, status      string
			started, finished   time.Time
			documents, errsJSON sql.NullString
		)
		if err := rows.Scan(&source, &status, &started, &finished, &documents, &errsJSON); err != nil {
			return nil, err
		}

		run := store.SyncRun{
			Source:     source,
			Status:     status,
			StartedAt:  started,
			FinishedAt: finished,
			Documents:  map[string]int{},
			Errors:     map[string]string{},
		}
		if documents.Valid && documents.String != "" {
			if err := json.Unmarshal([]byte(documents.String), &run.Documents); err != nil {
				return nil, fmt.Errorf("decode documents: %w", err)
			}
		}
		if errsJSON.Valid && errsJSON.String != "" {
			if err := json.Unmarshal([]byte(errsJSON.String), &run.Errors); err != nil {
				return nil, fmt.Errorf("decode errors: %w", err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
