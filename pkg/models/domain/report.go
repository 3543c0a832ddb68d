package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// SectionID identifies a report section resolver
type SectionID string

const (
	SectionOverview           SectionID = "overview"
	SectionKeyMetrics         SectionID = "key_metrics"
	SectionHighlights         SectionID = "highlights"
	SectionRecommendations    SectionID = "recommendations"
	SectionAttendanceOverview SectionID = "attendance_overview"
	SectionDailyStats         SectionID = "daily_stats"
	SectionWeeklyTrend        SectionID = "weekly_trend"
	SectionMonthlySummary     SectionID = "monthly_summary"
	SectionMessagingOverview  SectionID = "messaging_overview"
	SectionDeliveryStats      SectionID = "delivery_stats"
	SectionRecipientAnalysis  SectionID = "recipient_analysis"
	SectionTrends             SectionID = "trends"
	SectionUserOverview       SectionID = "user_overview"
	SectionRoleDistribution   SectionID = "role_distribution"
	SectionDepartmentAnalysis SectionID = "department_analysis"
	SectionActivitySummary    SectionID = "activity_summary"
	SectionSessionOverview    SectionID = "session_overview"
	SectionPeakHours          SectionID = "peak_hours"
	SectionDurationAnalysis   SectionID = "duration_analysis"
	SectionUserActivity       SectionID = "user_activity"
	SectionAttendance         SectionID = "attendance"
	SectionMessaging          SectionID = "messaging"
	SectionUsers              SectionID = "users"
	SectionSessions           SectionID = "sessions"
)

// Field is a single named value of section content
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered mapping. It encodes as a JSON/YAML object keeping insertion order.
type Fields []Field

func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for _, field := range f {
		keys = append(keys, field.Key)
	}
	return keys
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f Fields) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range f {
		value := &yaml.Node{}
		if err := value.Encode(field.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: field.Key}, value)
	}
	return node, nil
}

// ReportSection is one titled block of a report. A section without a title
// and content is the result of an unknown identifier and encodes as {}.
type ReportSection struct {
	ID      SectionID `json:"-" yaml:"-"`
	Title   string    `json:"title,omitempty" yaml:"title,omitempty"`
	Content Fields    `json:"content,omitempty" yaml:"content,omitempty"`
}

// Sections keeps report sections in template order and encodes them as an
// object keyed by section id.
type Sections []ReportSection

func (s Sections) Get(id SectionID) (ReportSection, bool) {
	for _, section := range s {
		if section.ID == id {
			return section, true
		}
	}
	return ReportSection{}, false
}

func (s Sections) IDs() []SectionID {
	ids := make([]SectionID, 0, len(s))
	for _, section := range s {
		ids = append(ids, section.ID)
	}
	return ids
}

func (s Sections) fields() Fields {
	fields := make(Fields, 0, len(s))
	for _, section := range s {
		fields = append(fields, Field{Key: string(section.ID), Value: section})
	}
	return fields
}

func (s Sections) MarshalJSON() ([]byte, error) {
	return s.fields().MarshalJSON()
}

func (s Sections) MarshalYAML() (interface{}, error) {
	return s.fields().MarshalYAML()
}

type ReportMetadata struct {
	Period      string `json:"period" yaml:"period"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	GeneratedBy string `json:"generatedBy" yaml:"generatedBy"`
}

type ReportSummary struct {
	Type          string     `json:"type" yaml:"type"`
	GeneratedAt   time.Time  `json:"generatedAt" yaml:"generatedAt"`
	SectionsCount int        `json:"sectionsCount" yaml:"sectionsCount"`
	DataPoints    DataPoints `json:"dataPoints" yaml:"dataPoints"`
}

// Report is immutable once generated
type Report struct {
	ID          string         `json:"id" yaml:"id"`
	Type        string         `json:"type" yaml:"type"`
	Name        string         `json:"name" yaml:"name"`
	GeneratedAt time.Time      `json:"generatedAt" yaml:"generatedAt"`
	Metadata    ReportMetadata `json:"metadata" yaml:"metadata"`
	Sections    Sections       `json:"sections" yaml:"sections"`
	Summary     ReportSummary  `json:"summary" yaml:"summary"`
}

// ReportTemplate is a named, ordered list of sections
type ReportTemplate struct {
	Name     string      `json:"name"`
	Title    string      `json:"title"`
	Sections []SectionID `json:"sections"`
}

type ScheduleStatus string

const ScheduleActive ScheduleStatus = "Active"

// Schedule describes a recurring report generation. Running it is left to an external scheduler.
type Schedule struct {
	ID           string            `json:"id"`
	TemplateName string            `json:"reportType"`
	Frequency    string            `json:"frequency"`
	NextRun      time.Time         `json:"nextRun"`
	Options      map[string]string `json:"options"`
	Status       ScheduleStatus    `json:"status"`
}
