package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/fatih/color"
)

const snapshotTemplate = `Metrics computed at {{.ComputedAt.Format "2006-01-02 15:04:05"}}
{{with .Overview}}
System health: {{health .SystemHealth.Status}} ({{.SystemHealth.Overall}})
Records: {{.TotalRecords}} (attendance {{.DataPoints.Attendance}}, messages {{.DataPoints.Messages}}, users {{.DataPoints.Users}}, sessions {{.DataPoints.Sessions}})
{{end}}{{with .Attendance}}
=== Attendance ===
Attendance rate: {{.AttendanceRate}}%
Present / absent / late: {{.PresentCount}} / {{.AbsentCount}} / {{.LateCount}}
Average time in / out: {{.AverageTimeIn}} / {{.AverageTimeOut}}
{{end}}{{with .Messaging}}
=== Messaging ===
Messages: {{.TotalMessages}}
Delivery rate: {{.DeliveryRate}}%
Failure rate: {{rate .FailureRate}}
{{end}}{{with .Users}}
=== Users ===
Active: {{.ActiveUsers}} of {{.TotalUsers}} ({{.ActivePercentage}}%)
New this month: {{.NewUsersThisMonth}}
{{end}}{{with .Sessions}}
=== Sessions ===
Sessions: {{.TotalSessions}} ({{.ActiveSessions}} active)
Average duration: {{.AverageSessionDuration}} min
{{end}}`

// Reporter prints metrics snapshots to the console
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	funcs := template.FuncMap{
		"health": healthColor,
		"rate": func(d domain.Decimal) string {
			if d > 10 {
				return color.RedString("%s%%", d)
			}
			return d.String() + "%"
		},
	}
	return &Reporter{
		writer: writer,
		tmpl:   template.Must(template.New("snapshot").Funcs(funcs).Parse(snapshotTemplate)),
	}
}

func (c *Reporter) Handle(snapshot *domain.Snapshot) error {
	if snapshot.IsEmpty() {
		_, err := fmt.Fprintln(c.writer, "No metrics have been computed")
		return err
	}
	return c.tmpl.Execute(c.writer, snapshot)
}

func healthColor(status domain.HealthStatus) string {
	switch status {
	case domain.HealthExcellent:
		return color.GreenString(string(status))
	case domain.HealthGood:
		return color.YellowString(string(status))
	default:
		return color.RedString(string(status))
	}
}
