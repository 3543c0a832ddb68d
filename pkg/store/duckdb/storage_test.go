package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_CreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mirror.db")
	db, err := NewDB(Settings{DbPath: dbPath})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO documents (collection, id, payload, synced_at) VALUES (?, ?, ?, now())`,
		"attendance", "a1", `{"id":"a1","status":"present"}`,
	)
	require.NoError(t, err)

	var status string
	err = db.QueryRow(`SELECT payload->>'status' FROM documents WHERE id = ?`, "a1").Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "present", status)

	var runs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sync_runs`).Scan(&runs))
	assert.Equal(t, 0, runs)
}

func TestConn(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	assert.Same(t, db, Conn(ctx, db))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.Same(t, tx, Conn(WithTransaction(ctx, tx), db))
}
