package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

var contentTypes = map[domain.ExportFormat]string{
	domain.ExportJSON: "application/json",
	domain.ExportCSV:  "text/csv",
	domain.ExportXLSX: "application/json",
	domain.ExportPDF:  "application/pdf",
	domain.ExportYAML: "application/yaml",
}

// Export renders a stored report in the given format
func (b *Builder) Export(id string, format domain.ExportFormat) (*domain.Artifact, error) {
	report, ok := b.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	}
	return Render(report, format, b.now())
}

// Render encodes report as an artifact. now stamps the file name.
func Render(report *domain.Report, format domain.ExportFormat, now time.Time) (*domain.Artifact, error) {
	artifact := &domain.Artifact{
		FileName:    fmt.Sprintf("Report_%s_%d.%s", report.Type, now.UnixMilli(), format),
		Format:      format,
		ContentType: contentTypes[format],
	}

	var err error
	switch format {
	case domain.ExportJSON, domain.ExportPDF:
		// the pdf export is a placeholder around the json dump
		artifact.Data, err = json.MarshalIndent(report, "", "  ")
	case domain.ExportCSV:
		artifact.Data, err = reportCSV(report)
	case domain.ExportXLSX:
		artifact.Sheets = sheets(report)
		artifact.Data, err = json.MarshalIndent(artifact.Sheets, "", "  ")
	case domain.ExportYAML:
		artifact.Data, err = EncodeYAML(report)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export report %s as %s: %w", report.ID, format, err)
	}
	return artifact, nil
}

func reportCSV(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Report Type", report.Type},
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{""},
	}
	for _, section := range report.Sections {
		rows = append(rows, []string{sectionName(section)})
		for _, field := range section.Content {
			leaves, err := flattenValue(field.Key, field.Value, false)
			if err != nil {
				return nil, err
			}
			for _, l := range leaves {
				rows = append(rows, []string{l.path, l.value})
			}
		}
		rows = append(rows, []string{""})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheets maps each section to a sheet named after its title
func sheets(report *domain.Report) map[string]domain.Fields {
	result := make(map[string]domain.Fields, len(report.Sections))
	for _, section := range report.Sections {
		content := section.Content
		if content == nil {
			content = domain.Fields{}
		}
		result[sectionName(section)] = content
	}
	return result
}

func sectionName(section domain.ReportSection) string {
	if section.Title != "" {
		return section.Title
	}
	return string(section.ID)
}

// EncodeYAML encodes v with two-space indentation
func EncodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportMetrics dumps a metrics snapshot as json, yaml or Metric,Value csv rows
func ExportMetrics(snapshot *domain.Snapshot, format domain.ExportFormat) ([]byte, error) {
	if snapshot == nil {
		snapshot = &domain.Snapshot{}
	}

	switch format {
	case domain.ExportJSON:
		return json.MarshalIndent(snapshot, "", "  ")
	case domain.ExportYAML:
		return EncodeYAML(snapshot)
	case domain.ExportCSV:
		leaves, err := flattenValue("", snapshot, true)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		rows := [][]string{{"Metric", "Value"}}
		for _, l := range leaves {
			rows = append(rows, []string{l.path, l.value})
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}
