package api

import (
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

type Template struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

type GenerateReportRequest struct {
	Template    string `json:"template"`
	Period      string `json:"period,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GeneratedBy string `json:"generatedBy,omitempty"`
}

type ReportListItem struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	Name        string               `json:"name"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Summary     domain.ReportSummary `json:"summary"`
}

type ScheduleRequest struct {
	Template  string            `json:"template"`
	Frequency string            `json:"frequency,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

type ArtifactResponse struct {
	FileName string `json:"fileName"`
	Location string `json:"location"`
}
