package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/de-tools/pulse-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

// Store keeps a local mirror of the document collections in DuckDB.
// It serves as a record source for the metrics engine through Fetch.
type Store interface {
	Replace(ctx context.Context, collection domain.Collection, docs []store.Document, syncedAt time.Time) error
	Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error)
	List(ctx context.Context, collection domain.Collection) ([]store.StoredDocument, error)
	Stats(ctx context.Context, collection *domain.Collection) (*store.MirrorStats, error)
}

type documentStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &documentStore{
		db: db,
	}, nil
}

// Replace swaps the mirrored content of a collection for docs. It runs in the
// transaction bound to ctx, or in its own one.
func (s *documentStore) Replace(ctx context.Context, collection domain.Collection, docs []store.Document, syncedAt time.Time) error {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return s.replace(ctx, tx, collection, docs, syncedAt)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := s.replace(ctx, tx, collection, docs, syncedAt); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Msg("failed to rollback mirror update")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *documentStore) replace(ctx context.Context, tx *sql.Tx, collection domain.Collection, docs []store.Document, syncedAt time.Time) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, string(collection)); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	if len(docs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, payload, synced_at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		_, err = stmt.ExecContext(ctx, string(collection), documentID(doc, i), string(payload), syncedAt)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return nil
}

// documentID falls back to the position for documents without an id
func documentID(doc store.Document, position int) string {
	if id := doc.ID(); id != "" {
		return id
	}
	return "#" + strconv.Itoa(position)
}

func (s *documentStore) Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error) {
	stored, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	docs := make([]store.Document, 0, len(stored))
	for _, d := range stored {
		docs = append(docs, d.Payload)
	}
	return docs, nil
}

func (s *documentStore) List(ctx context.Context, collection domain.Collection) ([]store.StoredDocument, error) {
	query := `
		SELECT collection, id, CAST(payload AS VARCHAR), synced_at
		FROM documents
		WHERE collection = ?
		ORDER BY id
	`
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, string(collection))
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	return scanDocumentRows(rows)
}

func (s *documentStore) Stats(ctx context.Context, collection *domain.Collection) (*store.MirrorStats, error) {
	query := `SELECT COUNT(*) AS documents_count, MAX(synced_at) AS last_synced_at FROM documents`
	var args []any
	if collection != nil {
		query += " WHERE collection = ?"
		args = append(args, string(*collection))
	}

	var total int64
	var last sql.NullTime
	if err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&total, &last); err != nil {
		return nil, fmt.Errorf("get mirror stats: %w", err)
	}

	var lastSynced *time.Time
	if last.Valid {
		t := last.Time
		lastSynced = &t
	}
	return &store.MirrorStats{DocumentsCount: total, LastSyncedAt: lastSynced}, nil
}

func scanDocumentRows(rows *sql.Rows) ([]store.StoredDocument, error) {
	docs := make([]store.StoredDocument, 0)
	for rows.Next() {
		var (
			collection, id, payload string
			syncedAt                time.Time
		)
		if err := rows.Scan(&collection, &id, &payload, &syncedAt); err != nil {
			return nil, err
		}

		doc := store.Document{}
		dec := json.NewDecoder(strings.NewReader(payload))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
		}
		docs = append(docs, store.StoredDocument{
			Collection: collection,
			ID:         id,
			Payload:    doc,
			SyncedAt:   syncedAt,
		})
	}
	return docs, rows.Err()
}
