package metrics

import (
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

// Fixed component scores of the system health figure. They are not measured.
const (
	healthDataIntegrity    = 95
	healthResponseTime     = 98
	healthUptime           = 99.9
	healthUserSatisfaction = 92
)

func (c calculator) overview() *domain.OverviewMetrics {
	r := c.records
	return &domain.OverviewMetrics{
		// sessions and users are deliberately left out of the record total
		TotalRecords: len(r.Attendance) + len(r.Messages),
		SystemHealth: systemHealth(),
		LastUpdated:  c.now,
		DataPoints: domain.DataPoints{
			Attendance: len(r.Attendance),
			Messages:   len(r.Messages),
			Users:      len(r.Users),
			Sessions:   len(r.Sessions),
		},
	}
}

func systemHealth() domain.SystemHealth {
	h := domain.SystemHealth{
		DataIntegrity:    healthDataIntegrity,
		ResponseTime:     healthResponseTime,
		Uptime:           healthUptime,
		UserSatisfaction: healthUserSatisfaction,
	}
	h.Overall = domain.NewDecimal((h.DataIntegrity + h.ResponseTime + h.Uptime + h.UserSatisfaction) / 4)
	h.Status = HealthStatus(h.Overall.Float64())
	return h
}

// HealthStatus classifies a health score
func HealthStatus(score float64) domain.HealthStatus {
	switch {
	case score >= 95:
		return domain.HealthExcellent
	case score >= 85:
		return domain.HealthGood
	default:
		return domain.HealthNeedsAttention
	}
}
