package domain

import (
	"math"
	"strconv"
	"time"
)

// Domain names a metrics group inside a Snapshot
type Domain string

const (
	DomainAttendance Domain = "attendance"
	DomainMessaging  Domain = "messaging"
	DomainUsers      Domain = "users"
	DomainSessions   Domain = "sessions"
	DomainOverview   Domain = "overview"
)

var Domains = []Domain{
	DomainAttendance,
	DomainMessaging,
	DomainUsers,
	DomainSessions,
	DomainOverview,
}

func ParseDomain(s string) (Domain, bool) {
	for _, d := range Domains {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Decimal is a value rounded to two decimals. It always renders with two
// fraction digits, so 80 is written as 80.00.
type Decimal float64

func NewDecimal(v float64) Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Decimal(math.Round(v*100) / 100)
}

// Ratio returns part/total*100 as a Decimal, or 0 when total is 0
func Ratio(part, total int) Decimal {
	if total <= 0 {
		return 0
	}
	return NewDecimal(float64(part) / float64(total) * 100)
}

func (d Decimal) Float64() float64 {
	return float64(d)
}

func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*d = Decimal(v)
	return nil
}

func (d Decimal) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Stub marks a figure that is reported but not derived from data
type Stub string

const StubValue Stub = "unimplemented"

type DailyPresence struct {
	Date    string `json:"date" yaml:"date"`
	Present int    `json:"present" yaml:"present"`
}

type MonthlyTrend struct {
	Total   int     `json:"total" yaml:"total"`
	Present int     `json:"present" yaml:"present"`
	Rate    Decimal `json:"rate" yaml:"rate"`
}

type AttendanceMetrics struct {
	TotalRecords   int             `json:"totalRecords" yaml:"totalRecords"`
	PresentCount   int             `json:"presentCount" yaml:"presentCount"`
	AbsentCount    int             `json:"absentCount" yaml:"absentCount"`
	LateCount      int             `json:"lateCount" yaml:"lateCount"`
	AttendanceRate Decimal         `json:"attendanceRate" yaml:"attendanceRate"`
	AverageTimeIn  string          `json:"averageTimeIn" yaml:"averageTimeIn"`
	AverageTimeOut string          `json:"averageTimeOut" yaml:"averageTimeOut"`
	DailyAverage   Decimal         `json:"dailyAverage" yaml:"dailyAverage"`
	WeeklyTrend    []DailyPresence `json:"weeklyTrend" yaml:"weeklyTrend"`
	MonthlyTrend   MonthlyTrend    `json:"monthlyTrend" yaml:"monthlyTrend"`
}

type DeliveryCount struct {
	Total     int `json:"total" yaml:"total"`
	Delivered int `json:"delivered" yaml:"delivered"`
}

type MessagingMetrics struct {
	TotalMessages       int                      `json:"totalMessages" yaml:"totalMessages"`
	SentCount           int                      `json:"sentCount" yaml:"sentCount"`
	DeliveredCount      int                      `json:"deliveredCount" yaml:"deliveredCount"`
	FailedCount         int                      `json:"failedCount" yaml:"failedCount"`
	DeliveryRate        Decimal                  `json:"deliveryRate" yaml:"deliveryRate"`
	FailureRate         Decimal                  `json:"failureRate" yaml:"failureRate"`
	MessagesByRecipient map[string]int           `json:"messagesByRecipient" yaml:"messagesByRecipient"`
	MessagesByDate      map[string]DeliveryCount `json:"messagesByDate" yaml:"messagesByDate"`
	AverageResponseTime Decimal                  `json:"averageResponseTime" yaml:"averageResponseTime"`
}

type LastLogin struct {
	Name      string `json:"name" yaml:"name"`
	LastLogin string `json:"lastLogin" yaml:"lastLogin"`
}

type UserMetrics struct {
	TotalUsers        int            `json:"totalUsers" yaml:"totalUsers"`
	ActiveUsers       int            `json:"activeUsers" yaml:"activeUsers"`
	InactiveUsers     int            `json:"inactiveUsers" yaml:"inactiveUsers"`
	ActivePercentage  Decimal        `json:"activePercentage" yaml:"activePercentage"`
	NewUsersThisMonth int            `json:"newUsersThisMonth" yaml:"newUsersThisMonth"`
	UsersByRole       map[string]int `json:"usersByRole" yaml:"usersByRole"`
	UsersByDepartment map[string]int `json:"usersByDepartment" yaml:"usersByDepartment"`
	LastLoginTrend    []LastLogin    `json:"lastLoginTrend" yaml:"lastLoginTrend"`
}

type PeakHour struct {
	Hour  string `json:"hour" yaml:"hour"`
	Count int    `json:"count" yaml:"count"`
}

type SessionMetrics struct {
	TotalSessions          int            `json:"totalSessions" yaml:"totalSessions"`
	ActiveSessions         int            `json:"activeSessions" yaml:"activeSessions"`
	AverageSessionDuration int            `json:"averageSessionDuration" yaml:"averageSessionDuration"`
	PeakHours              []PeakHour     `json:"peakHours" yaml:"peakHours"`
	SessionsByDate         map[string]int `json:"sessionsByDate" yaml:"sessionsByDate"`
	UserSessionCount       map[string]int `json:"userSessionCount" yaml:"userSessionCount"`
}

type HealthStatus string

const (
	HealthExcellent      HealthStatus = "Excellent"
	HealthGood           HealthStatus = "Good"
	HealthNeedsAttention HealthStatus = "Needs Attention"
)

type SystemHealth struct {
	DataIntegrity    float64      `json:"dataIntegrity" yaml:"dataIntegrity"`
	ResponseTime     float64      `json:"responseTime" yaml:"responseTime"`
	Uptime           float64      `json:"uptime" yaml:"uptime"`
	UserSatisfaction float64      `json:"userSatisfaction" yaml:"userSatisfaction"`
	Overall          Decimal      `json:"overall" yaml:"overall"`
	Status           HealthStatus `json:"status" yaml:"status"`
}

type DataPoints struct {
	Attendance int `json:"attendance" yaml:"attendance"`
	Messages   int `json:"messages" yaml:"messages"`
	Users      int `json:"users" yaml:"users"`
	Sessions   int `json:"sessions" yaml:"sessions"`
}

type OverviewMetrics struct {
	TotalRecords int          `json:"totalRecords" yaml:"totalRecords"`
	SystemHealth SystemHealth `json:"systemHealth" yaml:"systemHealth"`
	LastUpdated  time.Time    `json:"lastUpdated" yaml:"lastUpdated"`
	DataPoints   DataPoints   `json:"dataPoints" yaml:"dataPoints"`
}

// Snapshot is an immutable set of metrics computed from a single record pull.
// A nil member means the domain has not been computed.
type Snapshot struct {
	ComputedAt time.Time          `json:"computedAt" yaml:"computedAt"`
	Attendance *AttendanceMetrics `json:"attendance,omitempty" yaml:"attendance,omitempty"`
	Messaging  *MessagingMetrics  `json:"messaging,omitempty" yaml:"messaging,omitempty"`
	Users      *UserMetrics       `json:"users,omitempty" yaml:"users,omitempty"`
	Sessions   *SessionMetrics    `json:"sessions,omitempty" yaml:"sessions,omitempty"`
	Overview   *OverviewMetrics   `json:"overview,omitempty" yaml:"overview,omitempty"`
}

func (s *Snapshot) IsEmpty() bool {
	return s == nil || (s.Attendance == nil && s.Messaging == nil && s.Users == nil &&
		s.Sessions == nil && s.Overview == nil)
}

// Metric returns the metrics object of a domain and whether it is present
func (s *Snapshot) Metric(d Domain) (any, bool) {
	if s == nil {
		return nil, false
	}
	switch d {
	case DomainAttendance:
		if s.Attendance != nil {
			return s.Attendance, true
		}
	case DomainMessaging:
		if s.Messaging != nil {
			return s.Messaging, true
		}
	case DomainUsers:
		if s.Users != nil {
			return s.Users, true
		}
	case DomainSessions:
		if s.Sessions != nil {
			return s.Sessions, true
		}
	case DomainOverview:
		if s.Overview != nil {
			return s.Overview, true
		}
	}
	return nil, false
}
