package report

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuilder_ExportMissingReport(t *testing.T) {
	b, _ := newTestBuilder(&domain.Snapshot{})

	for _, format := range domain.ExportFormats {
		artifact, err := b.Export("missing-id", format)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, format)
		assert.Nil(t, artifact)
	}
}

func TestBuilder_ExportUnsupportedFormat(t *testing.T) {
	b, _ := newTestBuilder(&domain.Snapshot{})
	report, err := b.Generate(context.Background(), TemplateUser, GenerateOptions{})
	require.NoError(t, err)

	_, err = b.Export(report.ID, "docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestBuilder_ExportJSONRoundTrip(t *testing.T) {
	b, _ := newTestBuilder(testSnapshot())

	for _, name := range templateOrder {
		t.Run(name, func(t *testing.T) {
			report, err := b.Generate(context.Background(), name, GenerateOptions{})
			require.NoError(t, err)

			artifact, err := b.Export(report.ID, domain.ExportJSON)
			require.NoError(t, err)
			assert.Equal(t, "Report_"+name+"_1792067400000.json", artifact.FileName)
			assert.Equal(t, "application/json", artifact.ContentType)

			var decoded struct {
				ID       string                     `json:"id"`
				Sections map[string]json.RawMessage `json:"sections"`
			}
			require.NoError(t, json.Unmarshal(artifact.Data, &decoded))
			assert.Equal(t, report.ID, decoded.ID)

			var ids []string
			for _, id := range report.Sections.IDs() {
				ids = append(ids, string(id))
			}
			var got []string
			for id := range decoded.Sections {
				got = append(got, id)
			}
			assert.ElementsMatch(t, ids, got)
		})
	}
}

func TestBuilder_ExportJSONKeepsSectionOrder(t *testing.T) {
	b, _ := newTestBuilder(testSnapshot())
	report, err := b.Generate(context.Background(), TemplateExecutive, GenerateOptions{})
	require.NoError(t, err)

	artifact, err := b.Export(report.ID, domain.ExportJSON)
	require.NoError(t, err)

	data := string(artifact.Data)
	last := -1
	for _, id := range []string{`"overview"`, `"key_metrics"`, `"highlights"`, `"recommendations"`} {
		idx := strings.Index(data, id+": {")
		require.Greater(t, idx, last, id)
		last = idx
	}
	assert.Contains(t, data, `"rate": 80.00`)
}

func TestRender_CSV(t *testing.T) {
	report := &domain.Report{
		ID:          "RPT-1",
		Type:        "custom",
		GeneratedAt: fixedNow,
		Sections: domain.Sections{
			{
				ID:    "alpha",
				Title: "Alpha",
				Content: domain.Fields{
					{Key: "count", Value: 3},
					{Key: "nested", Value: domain.Fields{
						{Key: "rate", Value: domain.Decimal(80)},
						{Key: "label", Value: "x, y"},
					}},
					{Key: "list", Value: []string{"a", "b"}},
					{Key: "byKey", Value: map[string]int{"b": 2, "a": 1}},
					{Key: "empty", Value: map[string]int{}},
					{Key: "stub", Value: domain.StubValue},
				},
			},
			{ID: "bogus"},
		},
	}

	artifact, err := Render(report, domain.ExportCSV, fixedNow)
	require.NoError(t, err)

	want := strings.Join([]string{
		"Report Type,custom",
		"Generated At,2026-10-15T12:30:00Z",
		"",
		"Alpha",
		"count,3",
		"nested.rate,80.00",
		`nested.label,"x, y"`,
		`list,"[""a"",""b""]"`,
		"byKey.a,1",
		"byKey.b,2",
		"empty,{}",
		"stub,unimplemented",
		"",
		"bogus",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, string(artifact.Data))
	assert.Equal(t, "Report_custom_1792067400000.csv", artifact.FileName)
	assert.Equal(t, "text/csv", artifact.ContentType)
}

func TestRender_CSVIsDeterministic(t *testing.T) {
	b, _ := newTestBuilder(testSnapshot())
	report, err := b.Generate(context.Background(), TemplateComprehensive, GenerateOptions{})
	require.NoError(t, err)

	first, err := Render(report, domain.ExportCSV, fixedNow)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Render(report, domain.ExportCSV, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, first.Data, again.Data)
	}
	assert.Contains(t, string(first.Data), "metrics.systemHealth.status,Excellent\n")
	assert.Contains(t, string(first.Data), "metrics.dataPoints.attendance,10\n")
}

func TestRender_Sheets(t *testing.T) {
	b, _ := newTestBuilder(&domain.Snapshot{})
	report, err := b.Generate(context.Background(), TemplateUser, GenerateOptions{})
	require.NoError(t, err)
	report.Sections = append(report.Sections, domain.ReportSection{ID: "bogus"})

	artifact, err := Render(report, domain.ExportXLSX, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Report_user_1792067400000.xlsx", artifact.FileName)
	require.Len(t, artifact.Sheets, 5)
	assert.Contains(t, artifact.Sheets, "User Overview")
	assert.Contains(t, artifact.Sheets, "Role Distribution")
	assert.Contains(t, artifact.Sheets, "Department Analysis")
	assert.Contains(t, artifact.Sheets, "User Activity Summary")
	assert.Equal(t, domain.Fields{}, artifact.Sheets["bogus"])

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(artifact.Data, &decoded))
	assert.Equal(t, "0%", decoded["User Overview"]["activePercentage"])
}

func TestRender_PDFPlaceholder(t *testing.T) {
	b, _ := newTestBuilder(&domain.Snapshot{})
	report, err := b.Generate(context.Background(), TemplateSession, GenerateOptions{})
	require.NoError(t, err)

	pdf, err := Render(report, domain.ExportPDF, fixedNow)
	require.NoError(t, err)
	asJSON, err := Render(report, domain.ExportJSON, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "Report_session_1792067400000.pdf", pdf.FileName)
	assert.Equal(t, asJSON.Data, pdf.Data)
}

func TestRender_YAML(t *testing.T) {
	b, _ := newTestBuilder(testSnapshot())
	report, err := b.Generate(context.Background(), TemplateAttendance, GenerateOptions{})
	require.NoError(t, err)

	artifact, err := Render(report, domain.ExportYAML, fixedNow)
	require.NoError(t, err)

	var decoded struct {
		Type     string                    `yaml:"type"`
		Sections map[string]map[string]any `yaml:"sections"`
	}
	require.NoError(t, yaml.Unmarshal(artifact.Data, &decoded))
	assert.Equal(t, "attendance", decoded.Type)
	assert.Len(t, decoded.Sections, 4)
	assert.Equal(t, "Attendance Overview", decoded.Sections["attendance_overview"]["title"])
}

func TestExportMetrics(t *testing.T) {
	snapshot := &domain.Snapshot{
		ComputedAt: fixedNow,
		Attendance: &domain.AttendanceMetrics{
			AttendanceRate: 80,
			WeeklyTrend:    []domain.DailyPresence{{Date: "2026-10-15", Present: 8}},
		},
	}

	data, err := ExportMetrics(snapshot, domain.ExportCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Metric,Value", lines[0])
	assert.Equal(t, "computedAt,2026-10-15T12:30:00Z", lines[1])
	assert.Contains(t, lines, "attendance.attendanceRate,80.00")
	assert.Contains(t, lines, "attendance.weeklyTrend.0.date,2026-10-15")
	assert.Contains(t, lines, "attendance.weeklyTrend.0.present,8")

	data, err = ExportMetrics(snapshot, domain.ExportJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"attendanceRate": 80.00`)

	_, err = ExportMetrics(snapshot, domain.ExportPDF)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
