package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var syncedAt = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: s,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_ReplaceSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = ?`)).
		WithArgs("attendance").
		WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO documents (collection, id, payload, synced_at)`))
	prep.ExpectExec().
		WithArgs("attendance", "a1", `{"id":"a1","status":"present"}`, syncedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("attendance", "#1", `{"status":"absent"}`, syncedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = s.Replace(context.Background(), domain.CollectionAttendance, []store.Document{
		{"id": "a1", "status": "present"},
		{"status": "absent"},
	}, syncedAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ReplaceRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = ?`)).
		WithArgs("users").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = s.Replace(context.Background(), domain.CollectionUsers, []store.Document{{"id": "u1"}}, syncedAt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ReplaceUsesContextTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = ?`)).
		WithArgs("sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := duckdb.WithTransaction(context.Background(), tx)

	require.NoError(t, s.Replace(ctx, domain.CollectionSessions, nil, syncedAt))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_StatsSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM documents WHERE collection = ?`)).
		WithArgs("messages").
		WillReturnRows(sqlmock.NewRows([]string{"documents_count", "last_synced_at"}).AddRow(int64(4), syncedAt))

	collection := domain.CollectionMessages
	stats, err := s.Stats(context.Background(), &collection)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.DocumentsCount)
	require.NotNil(t, stats.LastSyncedAt)
	assert.Equal(t, syncedAt, *stats.LastSyncedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RoundTrip(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	docs := []store.Document{
		{"id": "m2", "status": "failed", "recipient": "bob"},
		{"id": "m1", "status": "delivered", "responseTime": 2.5},
	}
	require.NoError(t, f.store.Replace(ctx, domain.CollectionMessages, docs, syncedAt))

	t.Run("fetch", func(t *testing.T) {
		got, err := f.store.Fetch(ctx, domain.CollectionMessages)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "m1", got[0].ID())
		assert.Equal(t, json.Number("2.5"), got[0]["responseTime"])
		assert.Equal(t, "bob", got[1]["recipient"])
	})

	t.Run("other collections are empty", func(t *testing.T) {
		got, err := f.store.Fetch(ctx, domain.CollectionUsers)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("replace drops stale documents", func(t *testing.T) {
		require.NoError(t, f.store.Replace(ctx, domain.CollectionMessages, docs[:1], syncedAt.Add(time.Hour)))

		got, err := f.store.List(ctx, domain.CollectionMessages)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "m2", got[0].ID)
		assert.Equal(t, "messages", got[0].Collection)
		assert.Equal(t, syncedAt.Add(time.Hour).Unix(), got[0].SyncedAt.Unix())
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := f.store.Stats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.DocumentsCount)
		require.NotNil(t, stats.LastSyncedAt)

		users := domain.CollectionUsers
		stats, err = f.store.Stats(ctx, &users)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.DocumentsCount)
		assert.Nil(t, stats.LastSyncedAt)
	})
}
