package report

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPeriod    = "current"
	defaultAuthor    = "System"
	defaultFrequency = "daily"
	dateLayout       = "2006-01-02"
)

// MetricsProvider exposes the current metrics snapshot
type MetricsProvider interface {
	Snapshot() *domain.Snapshot
}

// GenerateOptions overrides report metadata. Empty fields fall back to defaults.
type GenerateOptions struct {
	Period      string `json:"period,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GeneratedBy string `json:"generatedBy,omitempty"`
}

func (o GenerateOptions) asMap() map[string]string {
	m := map[string]string{}
	for k, v := range map[string]string{
		"period":      o.Period,
		"startDate":   o.StartDate,
		"endDate":     o.EndDate,
		"generatedBy": o.GeneratedBy,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// Builder generates reports from the current metrics and keeps them in memory
type Builder struct {
	metrics   MetricsProvider
	templates map[string]domain.ReportTemplate
	now       func() time.Time
	newID     func(now time.Time) string

	mu      sync.RWMutex
	reports []*domain.Report
}

type Option func(*Builder)

func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithIDGenerator replaces the report id generator
func WithIDGenerator(newID func(now time.Time) string) Option {
	return func(b *Builder) {
		b.newID = newID
	}
}

func NewBuilder(metrics MetricsProvider, opts ...Option) *Builder {
	b := &Builder{
		metrics:   metrics,
		templates: registerTemplates(),
		now:       time.Now,
		newID:     newReportID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func newReportID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("RPT-%d-%s", now.UnixMilli(), suffix)
}

// Templates returns the registered templates in their listing order
func (b *Builder) Templates() []domain.ReportTemplate {
	templates := make([]domain.ReportTemplate, 0, len(b.templates))
	for _, name := range templateOrder {
		if t, ok := b.templates[name]; ok {
			templates = append(templates, t)
		}
	}
	return templates
}

func (b *Builder) Template(name string) (domain.ReportTemplate, bool) {
	t, ok := b.templates[name]
	return t, ok
}

// Generate builds a report from the named template and stores it
func (b *Builder) Generate(ctx context.Context, templateName string, opts GenerateOptions) (*domain.Report, error) {
	template, ok := b.templates[templateName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTemplate, templateName)
	}

	now := b.now()
	today := now.Format(dateLayout)
	report := &domain.Report{
		ID:          b.newID(now),
		Type:        templateName,
		Name:        template.Title,
		GeneratedAt: now,
		Metadata: domain.ReportMetadata{
			Period:      valueOr(opts.Period, defaultPeriod),
			StartDate:   valueOr(opts.StartDate, today),
			EndDate:     valueOr(opts.EndDate, today),
			GeneratedBy: valueOr(opts.GeneratedBy, defaultAuthor),
		},
	}

	v := view{snapshot: b.metrics.Snapshot(), now: now}
	sections := make(domain.Sections, 0, len(template.Sections))
	for _, id := range template.Sections {
		sections = append(sections, resolveSection(id, v))
	}
	report.Sections = sections
	report.Summary = Summary(report)

	b.mu.Lock()
	b.reports = append(b.reports, report)
	b.mu.Unlock()

	zerolog.Ctx(ctx).Info().
		Str("report_id", report.ID).
		Str("type", report.Type).
		Int("sections", len(report.Sections)).
		Msg("report generated")

	return report, nil
}

// Summary digests a report. Data points come from its overview section, if any.
func Summary(report *domain.Report) domain.ReportSummary {
	summary := domain.ReportSummary{
		Type:          report.Type,
		GeneratedAt:   report.GeneratedAt,
		SectionsCount: len(report.Sections),
	}
	if section, ok := report.Sections.Get(domain.SectionOverview); ok {
		if m, ok := section.Content.Get("metrics"); ok {
			if overview, ok := m.(*domain.OverviewMetrics); ok {
				summary.DataPoints = overview.DataPoints
			}
		}
	}
	return summary
}

// Get returns the report with the given id
func (b *Builder) Get(id string) (*domain.Report, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, r := range b.reports {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// GetAll returns the stored reports in generation order
func (b *Builder) GetAll() []*domain.Report {
	b.mu.RLock()
	defer b.mu.RUnlock()
	reports := make([]*domain.Report, len(b.reports))
	copy(reports, b.reports)
	return reports
}

// Delete removes every report with the given id. Deleting an unknown id is not an error.
func (b *Builder) Delete(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.reports[:0]
	for _, r := range b.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	clear(b.reports[len(kept):])
	b.reports = kept
}

// ScheduleReport describes a recurring generation of templateName. It does not run anything.
func (b *Builder) ScheduleReport(templateName, frequency string, opts GenerateOptions) domain.Schedule {
	now := b.now()
	return domain.Schedule{
		ID:           fmt.Sprintf("SCHED-%d", now.UnixMilli()),
		TemplateName: templateName,
		Frequency:    valueOr(frequency, defaultFrequency),
		NextRun:      now,
		Options:      opts.asMap(),
		Status:       domain.ScheduleActive,
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
