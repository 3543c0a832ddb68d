package adapters

import (
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
)

func MapStoreSyncRunToDomain(r *store.SyncRun) *domain.SyncRun {
	if r == nil {
		return nil
	}

	documents := make(map[domain.Collection]int, len(r.Documents))
	for c, n := range r.Documents {
		documents[domain.Collection(c)] = n
	}
	errs := make(map[domain.Collection]string, len(r.Errors))
	for c, e := range r.Errors {
		errs[domain.Collection(c)] = e
	}

	return &domain.SyncRun{
		Source:     r.Source,
		Status:     domain.SyncStatus(r.Status),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Documents:  documents,
		Errors:     errs,
	}
}

func MapDomainSyncRunToStore(r *domain.SyncRun) store.SyncRun {
	documents := make(map[string]int, len(r.Documents))
	for c, n := range r.Documents {
		documents[string(c)] = n
	}
	errs := make(map[string]string, len(r.Errors))
	for c, e := range r.Errors {
		errs[string(c)] = e
	}

	return store.SyncRun{
		Source:     r.Source,
		Status:     string(r.Status),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Documents:  documents,
		Errors:     errs,
	}
}
