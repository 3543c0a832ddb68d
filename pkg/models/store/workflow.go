package store

import "time"

// SyncRun is a row of the sync_runs table
type SyncRun struct {
	Source     string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  map[string]int
	Errors     map[string]string
}
