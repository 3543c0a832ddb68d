package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/fatih/color"
)

type TableConfig struct {
	NameWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  32,
		ValueWidth: 72,
	}
}

// Reporter prints reports as one table per section
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value any) string {
			return fmt.Sprintf("| %-*s | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, truncate(formatValue(value), c.config.ValueWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"heading": color.New(color.Bold).SprintFunc(),
		"sectionTitle": func(s domain.ReportSection) string {
			if s.Title == "" {
				return string(s.ID)
			}
			return s.Title
		},
	}

	tmpl := `
{{heading .Name}} ({{.ID}})
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}} by {{.Metadata.GeneratedBy}}
Period: {{.Metadata.Period}}, {{.Metadata.StartDate}} to {{.Metadata.EndDate}}
{{range .Sections}}
=== {{sectionTitle .}} ===
{{separator}}
{{formatRow "Name" "Value"}}
{{separator}}
{{range .Content}}{{formatRow .Key .Value}}
{{end}}{{separator}}
{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case int, int64, float64, bool:
		return fmt.Sprint(val)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
