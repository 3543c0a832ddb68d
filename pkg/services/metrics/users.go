package metrics

import (
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

func (c calculator) users() *domain.UserMetrics {
	records := c.records.Users
	statuses := countBy(records, func(r domain.UserRecord) string { return r.Status })

	newThisMonth := 0
	trend := make([]domain.LastLogin, 0, len(records))
	for _, r := range records {
		if r.JoinedDate != nil && c.inCurrentMonth(*r.JoinedDate) {
			newThisMonth++
		}
		trend = append(trend, domain.LastLogin{
			Name:      keyOr(r.Name, ""),
			LastLogin: keyOr(r.LastLogin, neverLogged),
		})
	}

	return &domain.UserMetrics{
		TotalUsers:        len(records),
		ActiveUsers:       statuses[domain.UserActive],
		InactiveUsers:     statuses[domain.UserInactive],
		ActivePercentage:  domain.Ratio(statuses[domain.UserActive], len(records)),
		NewUsersThisMonth: newThisMonth,
		UsersByRole: countBy(records, func(r domain.UserRecord) string {
			return keyOr(r.Role, unknownKey)
		}),
		UsersByDepartment: countBy(records, func(r domain.UserRecord) string {
			return keyOr(r.Department, unknownKey)
		}),
		LastLoginTrend: trend,
	}
}
