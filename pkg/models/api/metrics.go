package api

import (
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RefreshResponse struct {
	Snapshot *domain.Snapshot `json:"snapshot"`
	// Warnings lists collections that could not be fetched and were computed as empty
	Warnings []string `json:"warnings,omitempty"`
}

type SyncRun struct {
	Source     string            `json:"source"`
	Status     string            `json:"status"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Documents  map[string]int    `json:"documents"`
	Errors     map[string]string `json:"errors,omitempty"`
}
