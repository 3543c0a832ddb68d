package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

const topLimit = 5

type Recommendation struct {
	Priority   string `json:"priority" yaml:"priority"`
	Area       string `json:"area" yaml:"area"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

var recommendations = []Recommendation{
	{
		Priority:   "High",
		Area:       "Attendance Tracking",
		Suggestion: "Implement automated reminders for users with poor attendance records",
	},
	{
		Priority:   "Medium",
		Area:       "Messaging System",
		Suggestion: "Review and optimize message delivery pipeline for better performance",
	},
	{
		Priority:   "Medium",
		Area:       "User Engagement",
		Suggestion: "Develop engagement strategies for inactive users",
	},
	{
		Priority:   "Low",
		Area:       "System Optimization",
		Suggestion: "Schedule regular database maintenance and optimization",
	},
}

type RecipientCount struct {
	Name         string `json:"name" yaml:"name"`
	MessageCount int    `json:"messageCount" yaml:"messageCount"`
}

type DayVolume struct {
	Date      string `json:"date" yaml:"date"`
	Total     int    `json:"total" yaml:"total"`
	Delivered int    `json:"delivered" yaml:"delivered"`
}

type UserSessions struct {
	UserID       string `json:"userId" yaml:"userId"`
	SessionCount int    `json:"sessionCount" yaml:"sessionCount"`
}

// view reads a snapshot and substitutes defaults for absent domains
type view struct {
	snapshot *domain.Snapshot
	now      time.Time
}

func (v view) attendance() (domain.AttendanceMetrics, bool) {
	if v.snapshot == nil || v.snapshot.Attendance == nil {
		return domain.AttendanceMetrics{AverageTimeIn: "N/A", AverageTimeOut: "N/A"}, false
	}
	return *v.snapshot.Attendance, true
}

func (v view) messaging() (domain.MessagingMetrics, bool) {
	if v.snapshot == nil || v.snapshot.Messaging == nil {
		return domain.MessagingMetrics{}, false
	}
	return *v.snapshot.Messaging, true
}

func (v view) users() (domain.UserMetrics, bool) {
	if v.snapshot == nil || v.snapshot.Users == nil {
		return domain.UserMetrics{}, false
	}
	return *v.snapshot.Users, true
}

func (v view) sessions() (domain.SessionMetrics, bool) {
	if v.snapshot == nil || v.snapshot.Sessions == nil {
		return domain.SessionMetrics{}, false
	}
	return *v.snapshot.Sessions, true
}

func (v view) overview() (*domain.OverviewMetrics, bool) {
	if v.snapshot == nil || v.snapshot.Overview == nil {
		return nil, false
	}
	return v.snapshot.Overview, true
}

type resolver func(v view) domain.ReportSection

var resolvers = map[domain.SectionID]resolver{
	domain.SectionOverview:           overviewSection,
	domain.SectionKeyMetrics:         keyMetricsSection,
	domain.SectionHighlights:         highlightsSection,
	domain.SectionRecommendations:    recommendationsSection,
	domain.SectionAttendanceOverview: attendanceOverviewSection,
	domain.SectionDailyStats:         dailyStatsSection,
	domain.SectionWeeklyTrend:        weeklyTrendSection,
	domain.SectionMonthlySummary:     monthlySummarySection,
	domain.SectionMessagingOverview:  messagingOverviewSection,
	domain.SectionDeliveryStats:      deliveryStatsSection,
	domain.SectionRecipientAnalysis:  recipientAnalysisSection,
	domain.SectionTrends:             trendsSection,
	domain.SectionUserOverview:       userOverviewSection,
	domain.SectionRoleDistribution:   roleDistributionSection,
	domain.SectionDepartmentAnalysis: departmentAnalysisSection,
	domain.SectionActivitySummary:    activitySummarySection,
	domain.SectionSessionOverview:    sessionOverviewSection,
	domain.SectionPeakHours:          peakHoursSection,
	domain.SectionDurationAnalysis:   durationAnalysisSection,
	domain.SectionUserActivity:       userActivitySection,
	domain.SectionAttendance:         attendanceOverviewSection,
	domain.SectionMessaging:          messagingOverviewSection,
	domain.SectionUsers:              userOverviewSection,
	domain.SectionSessions:           sessionOverviewSection,
}

// resolveSection builds a section from the snapshot. Unknown ids give an empty section.
func resolveSection(id domain.SectionID, v view) domain.ReportSection {
	r, ok := resolvers[id]
	if !ok {
		return domain.ReportSection{ID: id}
	}
	section := r(v)
	section.ID = id
	return section
}

func percent(d domain.Decimal, present bool) string {
	if !present {
		return "0%"
	}
	return d.String() + "%"
}

func overviewSection(v view) domain.ReportSection {
	var metrics any = domain.Fields{}
	if o, ok := v.overview(); ok {
		metrics = o
	}
	return domain.ReportSection{
		Title: "System Overview",
		Content: domain.Fields{
			{Key: "description", Value: "Summary of key system metrics and data points"},
			{Key: "metrics", Value: metrics},
			{Key: "dataQuality", Value: "High"},
			{Key: "lastUpdated", Value: v.now},
		},
	}
}

func keyMetricsSection(v view) domain.ReportSection {
	a, aok := v.attendance()
	m, mok := v.messaging()
	u, uok := v.users()
	return domain.ReportSection{
		Title: "Key Performance Indicators",
		Content: domain.Fields{
			{Key: "attendance", Value: domain.Fields{
				{Key: "rate", Value: rateValue(a.AttendanceRate, aok)},
				{Key: "trend", Value: "Stable"},
				{Key: "target", Value: "95%"},
			}},
			{Key: "messaging", Value: domain.Fields{
				{Key: "deliveryRate", Value: rateValue(m.DeliveryRate, mok)},
				{Key: "trend", Value: "Improving"},
				{Key: "target", Value: "99%"},
			}},
			{Key: "users", Value: domain.Fields{
				{Key: "activePercentage", Value: rateValue(u.ActivePercentage, uok)},
				{Key: "trend", Value: "Stable"},
				{Key: "target", Value: "90%"},
			}},
		},
	}
}

// rateValue is the computed rate, or a plain 0 when the domain is absent
func rateValue(d domain.Decimal, present bool) any {
	if !present {
		return 0
	}
	return d
}

func highlightsSection(v view) domain.ReportSection {
	a, aok := v.attendance()
	m, mok := v.messaging()
	u, _ := v.users()
	status := "N/A"
	if o, ok := v.overview(); ok {
		status = string(o.SystemHealth.Status)
	}
	return domain.ReportSection{
		Title: "Key Highlights",
		Content: domain.Fields{
			{Key: "highlights", Value: []string{
				fmt.Sprintf("Attendance Rate: %s", percent(a.AttendanceRate, aok)),
				fmt.Sprintf("Message Delivery Rate: %s", percent(m.DeliveryRate, mok)),
				fmt.Sprintf("Active Users: %d out of %d", u.ActiveUsers, u.TotalUsers),
				fmt.Sprintf("New Users This Month: %d", u.NewUsersThisMonth),
				fmt.Sprintf("System Health: %s", status),
			}},
			{Key: "insights", Value: []string{
				"Overall system performance is stable",
				"Messaging delivery rates remain high",
				"User engagement metrics show positive trends",
			}},
		},
	}
}

func recommendationsSection(_ view) domain.ReportSection {
	return domain.ReportSection{
		Title: "Recommendations",
		Content: domain.Fields{
			{Key: "recommendations", Value: recommendations},
		},
	}
}

func attendanceOverviewSection(v view) domain.ReportSection {
	a, ok := v.attendance()
	return domain.ReportSection{
		Title: "Attendance Overview",
		Content: domain.Fields{
			{Key: "totalRecords", Value: a.TotalRecords},
			{Key: "present", Value: a.PresentCount},
			{Key: "absent", Value: a.AbsentCount},
			{Key: "late", Value: a.LateCount},
			{Key: "attendanceRate", Value: percent(a.AttendanceRate, ok)},
			{Key: "averageTimeIn", Value: a.AverageTimeIn},
			{Key: "averageTimeOut", Value: a.AverageTimeOut},
		},
	}
}

// dailyStatsSection reports max, min and variance as stubs: they are not derived from data
func dailyStatsSection(v view) domain.ReportSection {
	a, ok := v.attendance()
	return domain.ReportSection{
		Title: "Daily Statistics",
		Content: domain.Fields{
			{Key: "dailyAverage", Value: rateValue(a.DailyAverage, ok)},
			{Key: "maxDaily", Value: domain.StubValue},
			{Key: "minDaily", Value: domain.StubValue},
			{Key: "variance", Value: domain.StubValue},
		},
	}
}

func weeklyTrendSection(v view) domain.ReportSection {
	a, _ := v.attendance()
	trend := a.WeeklyTrend
	if trend == nil {
		trend = []domain.DailyPresence{}
	}
	return domain.ReportSection{
		Title: "Weekly Trend",
		Content: domain.Fields{
			{Key: "trend", Value: trend},
			{Key: "summary", Value: "Weekly attendance pattern analysis"},
			{Key: "insights", Value: domain.StubValue},
		},
	}
}

func monthlySummarySection(v view) domain.ReportSection {
	a, ok := v.attendance()
	return domain.ReportSection{
		Title: "Monthly Summary",
		Content: domain.Fields{
			{Key: "totalDays", Value: a.MonthlyTrend.Total},
			{Key: "presentDays", Value: a.MonthlyTrend.Present},
			{Key: "attendanceRate", Value: percent(a.MonthlyTrend.Rate, ok)},
			{Key: "comparison", Value: "vs previous month"},
		},
	}
}

func messagingOverviewSection(v view) domain.ReportSection {
	m, ok := v.messaging()
	return domain.ReportSection{
		Title: "Messaging Overview",
		Content: domain.Fields{
			{Key: "totalMessages", Value: m.TotalMessages},
			{Key: "sent", Value: m.SentCount},
			{Key: "delivered", Value: m.DeliveredCount},
			{Key: "failed", Value: m.FailedCount},
			{Key: "deliveryRate", Value: percent(m.DeliveryRate, ok)},
			{Key: "failureRate", Value: percent(m.FailureRate, ok)},
		},
	}
}

func deliveryStatsSection(v view) domain.ReportSection {
	m, ok := v.messaging()
	return domain.ReportSection{
		Title: "Delivery Statistics",
		Content: domain.Fields{
			{Key: "averageDeliveryTime", Value: rateValue(m.AverageResponseTime, ok)},
			{Key: "successRate", Value: rateValue(m.DeliveryRate, ok)},
			{Key: "failurePatterns", Value: "Analyze and document any failure patterns"},
		},
	}
}

func recipientAnalysisSection(v view) domain.ReportSection {
	m, _ := v.messaging()
	byRecipient := nonNil(m.MessagesByRecipient)
	top := make([]RecipientCount, 0, topLimit)
	for _, e := range topCounts(byRecipient, topLimit) {
		top = append(top, RecipientCount{Name: e.key, MessageCount: e.count})
	}
	return domain.ReportSection{
		Title: "Recipient Analysis",
		Content: domain.Fields{
			{Key: "recipientBreakdown", Value: byRecipient},
			{Key: "topRecipients", Value: top},
			{Key: "distributionPattern", Value: "Message distribution across recipients"},
		},
	}
}

func trendsSection(v view) domain.ReportSection {
	m, _ := v.messaging()
	byDate := m.MessagesByDate
	if byDate == nil {
		byDate = map[string]domain.DeliveryCount{}
	}
	totals := make(map[string]int, len(byDate))
	for date, c := range byDate {
		totals[date] = c.Total
	}
	peak := make([]DayVolume, 0, topLimit)
	for _, e := range topCounts(totals, topLimit) {
		peak = append(peak, DayVolume{Date: e.key, Total: e.count, Delivered: byDate[e.key].Delivered})
	}
	return domain.ReportSection{
		Title: "Message Trends",
		Content: domain.Fields{
			{Key: "dateBreakdown", Value: byDate},
			{Key: "peakDays", Value: peak},
			{Key: "trend", Value: "Overall messaging trend analysis"},
		},
	}
}

func userOverviewSection(v view) domain.ReportSection {
	u, ok := v.users()
	return domain.ReportSection{
		Title: "User Overview",
		Content: domain.Fields{
			{Key: "totalUsers", Value: u.TotalUsers},
			{Key: "activeUsers", Value: u.ActiveUsers},
			{Key: "inactiveUsers", Value: u.InactiveUsers},
			{Key: "activePercentage", Value: percent(u.ActivePercentage, ok)},
			{Key: "newUsersThisMonth", Value: u.NewUsersThisMonth},
		},
	}
}

func roleDistributionSection(v view) domain.ReportSection {
	u, _ := v.users()
	return domain.ReportSection{
		Title: "Role Distribution",
		Content: domain.Fields{
			{Key: "roleBreakdown", Value: nonNil(u.UsersByRole)},
			{Key: "summary", Value: "Distribution of users across different roles"},
		},
	}
}

func departmentAnalysisSection(v view) domain.ReportSection {
	u, _ := v.users()
	return domain.ReportSection{
		Title: "Department Analysis",
		Content: domain.Fields{
			{Key: "departmentBreakdown", Value: nonNil(u.UsersByDepartment)},
			{Key: "summary", Value: "Distribution of users across departments"},
		},
	}
}

// activitySummarySection reports activeNow as a stub: no live presence data exists
func activitySummarySection(v view) domain.ReportSection {
	u, _ := v.users()
	trend := u.LastLoginTrend
	if trend == nil {
		trend = []domain.LastLogin{}
	}
	return domain.ReportSection{
		Title: "User Activity Summary",
		Content: domain.Fields{
			{Key: "lastLoginTrend", Value: trend},
			{Key: "activeNow", Value: domain.StubValue},
			{Key: "summary", Value: "Current user activity status"},
		},
	}
}

func sessionOverviewSection(v view) domain.ReportSection {
	s, _ := v.sessions()
	return domain.ReportSection{
		Title: "Session Overview",
		Content: domain.Fields{
			{Key: "totalSessions", Value: s.TotalSessions},
			{Key: "activeSessions", Value: s.ActiveSessions},
			{Key: "averageDuration", Value: fmt.Sprintf("%d minutes", s.AverageSessionDuration)},
			{Key: "summary", Value: "Current session statistics"},
		},
	}
}

func peakHoursSection(v view) domain.ReportSection {
	s, _ := v.sessions()
	peaks := s.PeakHours
	if peaks == nil {
		peaks = []domain.PeakHour{}
	}
	return domain.ReportSection{
		Title: "Peak Hours Analysis",
		Content: domain.Fields{
			{Key: "peakHours", Value: peaks},
			{Key: "summary", Value: "System usage patterns by hour"},
		},
	}
}

func durationAnalysisSection(v view) domain.ReportSection {
	s, _ := v.sessions()
	return domain.ReportSection{
		Title: "Session Duration Analysis",
		Content: domain.Fields{
			{Key: "averageDuration", Value: s.AverageSessionDuration},
			{Key: "distribution", Value: "Session duration distribution"},
			{Key: "patterns", Value: "Identified session patterns"},
		},
	}
}

func userActivitySection(v view) domain.ReportSection {
	s, _ := v.sessions()
	perUser := nonNil(s.UserSessionCount)
	top := make([]UserSessions, 0, topLimit)
	for _, e := range topCounts(perUser, topLimit) {
		top = append(top, UserSessions{UserID: e.key, SessionCount: e.count})
	}
	return domain.ReportSection{
		Title: "User Activity",
		Content: domain.Fields{
			{Key: "userSessions", Value: perUser},
			{Key: "topUsers", Value: top},
			{Key: "summary", Value: "Most active users on the system"},
		},
	}
}

type keyCount struct {
	key   string
	count int
}

// topCounts returns the n largest entries, ties broken by key
func topCounts(counts map[string]int, n int) []keyCount {
	entries := make([]keyCount, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, keyCount{key: k, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
