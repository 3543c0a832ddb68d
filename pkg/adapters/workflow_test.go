package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
)

func TestMapSyncRun(t *testing.T) {
	started := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	run := &domain.SyncRun{
		Source:     "file:fixtures",
		Status:     domain.SyncStatusPartial,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Documents:  map[domain.Collection]int{domain.CollectionAttendance: 4},
		Errors:     map[domain.Collection]string{domain.CollectionUsers: "read users.json: no such file"},
	}

	stored := MapDomainSyncRunToStore(run)
	assert.Equal(t, "partial", stored.Status)
	assert.Equal(t, map[string]int{"attendance": 4}, stored.Documents)

	assert.Equal(t, run, MapStoreSyncRunToDomain(&stored))
	assert.Nil(t, MapStoreSyncRunToDomain((*store.SyncRun)(nil)))
}
