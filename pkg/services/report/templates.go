package report

import "github.com/de-tools/pulse-atlas/pkg/models/domain"

const (
	TemplateExecutive     = "executive"
	TemplateAttendance    = "attendance"
	TemplateMessaging     = "messaging"
	TemplateUser          = "user"
	TemplateSession       = "session"
	TemplateComprehensive = "comprehensive"
)

// templateOrder is the listing order of the built-in templates
var templateOrder = []string{
	TemplateExecutive,
	TemplateAttendance,
	TemplateMessaging,
	TemplateUser,
	TemplateSession,
	TemplateComprehensive,
}

func registerTemplates() map[string]domain.ReportTemplate {
	return map[string]domain.ReportTemplate{
		TemplateExecutive: {
			Name:  TemplateExecutive,
			Title: "Executive Summary",
			Sections: []domain.SectionID{
				domain.SectionOverview,
				domain.SectionKeyMetrics,
				domain.SectionHighlights,
				domain.SectionRecommendations,
			},
		},
		TemplateAttendance: {
			Name:  TemplateAttendance,
			Title: "Attendance Report",
			Sections: []domain.SectionID{
				domain.SectionAttendanceOverview,
				domain.SectionDailyStats,
				domain.SectionWeeklyTrend,
				domain.SectionMonthlySummary,
			},
		},
		TemplateMessaging: {
			Name:  TemplateMessaging,
			Title: "Messaging Report",
			Sections: []domain.SectionID{
				domain.SectionMessagingOverview,
				domain.SectionDeliveryStats,
				domain.SectionRecipientAnalysis,
				domain.SectionTrends,
			},
		},
		TemplateUser: {
			Name:  TemplateUser,
			Title: "User Analytics Report",
			Sections: []domain.SectionID{
				domain.SectionUserOverview,
				domain.SectionRoleDistribution,
				domain.SectionDepartmentAnalysis,
				domain.SectionActivitySummary,
			},
		},
		TemplateSession: {
			Name:  TemplateSession,
			Title: "Session Report",
			Sections: []domain.SectionID{
				domain.SectionSessionOverview,
				domain.SectionPeakHours,
				domain.SectionDurationAnalysis,
				domain.SectionUserActivity,
			},
		},
		TemplateComprehensive: {
			Name:  TemplateComprehensive,
			Title: "Comprehensive Report",
			Sections: []domain.SectionID{
				domain.SectionOverview,
				domain.SectionAttendance,
				domain.SectionMessaging,
				domain.SectionUsers,
				domain.SectionSessions,
				domain.SectionRecommendations,
			},
		},
	}
}
