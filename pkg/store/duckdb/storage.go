package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const DocumentsTableSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection VARCHAR NOT NULL,
		id VARCHAR NOT NULL,
		payload JSON NOT NULL,
		synced_at TIMESTAMP NOT NULL,
		PRIMARY KEY (collection, id)
	);
`
const SyncRunsTableSchema = `
	CREATE TABLE IF NOT EXISTS sync_runs (
		source VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		documents JSON,
		errors JSON
	);
`

var bootQueries = []string{
	DocumentsTableSchema,
	SyncRunsTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
