package adapters

import (
	"github.com/de-tools/pulse-atlas/pkg/models/api"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

func MapTemplateDomainToApi(t domain.ReportTemplate) api.Template {
	sections := make([]string, 0, len(t.Sections))
	for _, s := range t.Sections {
		sections = append(sections, string(s))
	}
	return api.Template{
		Name:     t.Name,
		Title:    t.Title,
		Sections: sections,
	}
}

func MapReportDomainToApiListItem(r *domain.Report) api.ReportListItem {
	return api.ReportListItem{
		ID:          r.ID,
		Type:        r.Type,
		Name:        r.Name,
		GeneratedAt: r.GeneratedAt,
		Summary:     r.Summary,
	}
}

func MapSyncRunDomainToApi(r domain.SyncRun) api.SyncRun {
	documents := make(map[string]int, len(r.Documents))
	for c, n := range r.Documents {
		documents[string(c)] = n
	}
	errs := make(map[string]string, len(r.Errors))
	for c, e := range r.Errors {
		errs[string(c)] = e
	}
	return api.SyncRun{
		Source:     r.Source,
		Status:     string(r.Status),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Documents:  documents,
		Errors:     errs,
	}
}
