package domain

import "time"

type SyncStatus string

const (
	SyncStatusFinished SyncStatus = "finished"
	SyncStatusPartial  SyncStatus = "partial"
	SyncStatusFailed   SyncStatus = "failed"
)

// SyncRun describes one copy of the document store into the local mirror
type SyncRun struct {
	Source     string
	Status     SyncStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  map[Collection]int
	Errors     map[Collection]string
}
