package store

import "time"

// Document is a raw record as returned by the document store
type Document map[string]any

func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// StoredDocument is a Document persisted in the local mirror
type StoredDocument struct {
	Collection string
	ID         string
	Payload    Document
	SyncedAt   time.Time
}

type MirrorStats struct {
	DocumentsCount int64
	LastSyncedAt   *time.Time
}
