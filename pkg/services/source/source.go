package source

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/documents"
	"github.com/de-tools/pulse-atlas/pkg/store/file"
	"github.com/de-tools/pulse-atlas/pkg/store/pocketbase"
)

// Source fetches the raw documents of a collection
type Source interface {
	Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error)
}

type Options struct {
	PerPage               int
	Timeout               time.Duration
	MaxConcurrentRequests int
}

// Open builds the record source a profile points to. The returned close
// function releases what the source holds and is never nil.
func Open(profile *domain.SourceProfile, opts Options) (Source, func() error, error) {
	noop := func() error { return nil }

	switch profile.Kind {
	case domain.SourceKindPocketBase:
		client, err := pocketbase.NewClient(pocketbase.Settings{
			URL:                   profile.URL,
			Token:                 profile.Token,
			PerPage:               opts.PerPage,
			Timeout:               opts.Timeout,
			MaxConcurrentRequests: opts.MaxConcurrentRequests,
		})
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	case domain.SourceKindFile:
		src, err := file.NewSource(profile.Path)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil

	case domain.SourceKindDuckDB:
		if profile.Path == "" {
			return nil, noop, fmt.Errorf("duckdb source %s requires a path", profile.Name)
		}
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.Path})
		if err != nil {
			return nil, noop, fmt.Errorf("open mirror: %w", err)
		}
		docs, err := documents.NewStore(db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return docs, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported source kind %q", profile.Kind)
	}
}
