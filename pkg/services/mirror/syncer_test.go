package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/documents"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb/syncruns"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Document), args.Error(1)
}

type fixture struct {
	source    *mockSource
	documents documents.Store
	syncer    *Syncer
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	documentStore, err := documents.NewStore(db)
	require.NoError(t, err)
	runStore, err := syncruns.NewStore(db)
	require.NoError(t, err)

	source := &mockSource{}
	syncer := NewSyncer("file:test", source, db, documentStore, runStore)
	syncer.now = func() time.Time { return fixedNow }

	return &fixture{
		source:    source,
		documents: documentStore,
		syncer:    syncer,
	}
}

func TestSyncer_Sync(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.source.On("Fetch", mock.Anything, domain.CollectionAttendance).
		Return([]store.Document{{"id": "a1", "status": "present"}, {"id": "a2", "status": "absent"}}, nil)
	f.source.On("Fetch", mock.Anything, domain.CollectionMessages).
		Return([]store.Document{{"id": "m1", "status": "delivered"}}, nil)
	f.source.On("Fetch", mock.Anything, domain.CollectionUsers).
		Return([]store.Document{}, nil)
	f.source.On("Fetch", mock.Anything, domain.CollectionSessions).
		Return(nil, errors.New("connection refused"))

	run, err := f.syncer.Sync(ctx)
	require.NoError(t, err)
	f.source.AssertExpectations(t)

	assert.Equal(t, domain.SyncStatusPartial, run.Status)
	assert.Equal(t, map[domain.Collection]int{
		domain.CollectionAttendance: 2,
		domain.CollectionMessages:   1,
		domain.CollectionUsers:      0,
	}, run.Documents)
	assert.Equal(t, "connection refused", run.Errors[domain.CollectionSessions])

	docs, err := f.documents.Fetch(ctx, domain.CollectionAttendance)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	history, err := f.syncer.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.SyncStatusPartial, history[0].Status)
	assert.Equal(t, 2, history[0].Documents[domain.CollectionAttendance])
}

func TestSyncer_SyncEverythingFails(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.source.On("Fetch", mock.Anything, mock.Anything).Return(nil, errors.New("unauthorized"))

	run, err := f.syncer.Sync(ctx)
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, domain.SyncStatusFailed, run.Status)
	assert.Len(t, run.Errors, len(domain.Collections))

	history, err := f.syncer.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.SyncStatusFailed, history[0].Status)
}

func TestSyncer_FailedCollectionKeepsMirror(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first := f.source.On("Fetch", mock.Anything, mock.Anything).Return([]store.Document{{"id": "x1"}}, nil)
	_, err := f.syncer.Sync(ctx)
	require.NoError(t, err)
	first.Unset()

	f.source.On("Fetch", mock.Anything, domain.CollectionUsers).Return(nil, errors.New("timeout"))
	f.source.On("Fetch", mock.Anything, mock.Anything).Return([]store.Document{}, nil)

	run, err := f.syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusPartial, run.Status)

	users, err := f.documents.Fetch(ctx, domain.CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	attendance, err := f.documents.Fetch(ctx, domain.CollectionAttendance)
	require.NoError(t, err)
	assert.Empty(t, attendance)
}

func TestRunner_StopsOnCancel(t *testing.T) {
	f := setupFixture(t)
	f.source.On("Fetch", mock.Anything, mock.Anything).Return([]store.Document{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(f.syncer, time.Hour)
	go runner.Run(ctx)

	progress := <-runner.Progress()
	require.NoError(t, progress.Err)
	assert.Equal(t, domain.SyncStatusFinished, progress.Run.Status)

	cancel()
	select {
	case <-runner.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}
