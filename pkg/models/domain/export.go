package domain

import "fmt"

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
	ExportYAML ExportFormat = "yaml"
)

var ExportFormats = []ExportFormat{ExportJSON, ExportCSV, ExportXLSX, ExportPDF, ExportYAML}

func ParseExportFormat(s string) (ExportFormat, error) {
	for _, f := range ExportFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Artifact is an exported report ready to be written somewhere
type Artifact struct {
	FileName    string
	Format      ExportFormat
	ContentType string
	Data        []byte
	// Sheets is only set for the spreadsheet export, keyed by section title
	Sheets map[string]Fields
}
