package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/adapters"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/documents"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/syncruns"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Source interface {
	Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error)
}

// Syncer copies every collection of a source into the local DuckDB mirror
type Syncer struct {
	name      string
	source    Source
	db        *sql.DB
	documents documents.Store
	runs      syncruns.Store
	now       func() time.Time
}

func NewSyncer(
	name string,
	source Source,
	db *sql.DB,
	documentStore documents.Store,
	runStore syncruns.Store,
) *Syncer {
	return &Syncer{
		name:      name,
		source:    source,
		db:        db,
		documents: documentStore,
		runs:      runStore,
		now:       time.Now,
	}
}

// Sync fetches all collections concurrently and replaces the mirrored copies of
// those that succeeded. Failed collections keep their previous mirror content.
// An error is returned only when nothing could be synced or the mirror update failed.
func (s *Syncer) Sync(ctx context.Context) (*domain.SyncRun, error) {
	logger := zerolog.Ctx(ctx).With().Str("source", s.name).Logger()

	run := &domain.SyncRun{
		Source:    s.name,
		StartedAt: s.now(),
		Documents: map[domain.Collection]int{},
		Errors:    map[domain.Collection]string{},
	}

	var mu sync.Mutex
	fetched := make(map[domain.Collection][]store.Document, len(domain.Collections))

	var g errgroup.Group
	for _, collection := range domain.Collections {
		g.Go(func() error {
			docs, err := s.source.Fetch(ctx, collection)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn().Err(err).Str("collection", string(collection)).Msg("failed to fetch collection")
				run.Errors[collection] = err.Error()
				return nil
			}
			fetched[collection] = docs
			return nil
		})
	}
	_ = g.Wait()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate transaction: %w", err)
	}
	txCtx := duckdb.WithTransaction(ctx, tx)

	for _, collection := range domain.Collections {
		docs, ok := fetched[collection]
		if !ok {
			continue
		}
		if err := s.documents.Replace(txCtx, collection, docs, run.StartedAt); err != nil {
			s.rollback(ctx, tx)
			return nil, fmt.Errorf("failed to store %s: %w", collection, err)
		}
		run.Documents[collection] = len(docs)
	}

	run.FinishedAt = s.now()
	run.Status = status(run)
	if err := s.runs.Add(txCtx, adapters.MapDomainSyncRunToStore(run)); err != nil {
		s.rollback(ctx, tx)
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}

	logger.Info().
		Str("status", string(run.Status)).
		Int("collections", len(run.Documents)).
		Dur("took", run.FinishedAt.Sub(run.StartedAt)).
		Msg("mirror synced")

	if run.Status == domain.SyncStatusFailed {
		return run, fmt.Errorf("sync %s: every collection failed", s.name)
	}
	return run, nil
}

// History returns the most recent sync runs first
func (s *Syncer) History(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := make([]domain.SyncRun, 0, len(runs))
	for i := range runs {
		result = append(result, *adapters.MapStoreSyncRunToDomain(&runs[i]))
	}
	return result, nil
}

func (s *Syncer) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to rollback sync")
	}
}

func status(run *domain.SyncRun) domain.SyncStatus {
	switch {
	case len(run.Errors) == 0:
		return domain.SyncStatusFinished
	case len(run.Documents) == 0:
		return domain.SyncStatusFailed
	default:
		return domain.SyncStatusPartial
	}
}
