package metrics

import (
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

const trendDays = 7

func (c calculator) attendance() *domain.AttendanceMetrics {
	records := c.records.Attendance
	statuses := countBy(records, func(r domain.AttendanceRecord) string { return r.Status })

	timesIn := make([]*string, 0, len(records))
	timesOut := make([]*string, 0, len(records))
	for _, r := range records {
		timesIn = append(timesIn, r.TimeIn)
		timesOut = append(timesOut, r.TimeOut)
	}

	byDate := c.attendanceByDate()
	return &domain.AttendanceMetrics{
		TotalRecords:   len(records),
		PresentCount:   statuses[domain.AttendancePresent],
		AbsentCount:    statuses[domain.AttendanceAbsent],
		LateCount:      statuses[domain.AttendanceLate],
		AttendanceRate: domain.Ratio(statuses[domain.AttendancePresent], len(records)),
		AverageTimeIn:  averageClockTime(timesIn),
		AverageTimeOut: averageClockTime(timesOut),
		DailyAverage:   dailyAverage(byDate),
		WeeklyTrend:    c.weeklyTrend(byDate),
		MonthlyTrend:   c.monthlyTrend(byDate),
	}
}

func (c calculator) attendanceByDate() map[string][]domain.AttendanceRecord {
	byDate := make(map[string][]domain.AttendanceRecord)
	for _, r := range c.records.Attendance {
		key := c.dateKey(r.Date)
		byDate[key] = append(byDate[key], r)
	}
	return byDate
}

func presentIn(records []domain.AttendanceRecord) int {
	n := 0
	for _, r := range records {
		if r.Status == domain.AttendancePresent {
			n++
		}
	}
	return n
}

// dailyAverage is the mean number of present records per recorded day
func dailyAverage(byDate map[string][]domain.AttendanceRecord) domain.Decimal {
	if len(byDate) == 0 {
		return 0
	}
	total := 0
	for _, records := range byDate {
		total += presentIn(records)
	}
	return domain.NewDecimal(float64(total) / float64(len(byDate)))
}

// weeklyTrend covers the seven days ending today, oldest first
func (c calculator) weeklyTrend(byDate map[string][]domain.AttendanceRecord) []domain.DailyPresence {
	trend := make([]domain.DailyPresence, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		date := c.now.AddDate(0, 0, -i).Format(dateLayout)
		trend = append(trend, domain.DailyPresence{
			Date:    date,
			Present: presentIn(byDate[date]),
		})
	}
	return trend
}

func (c calculator) monthlyTrend(byDate map[string][]domain.AttendanceRecord) domain.MonthlyTrend {
	var trend domain.MonthlyTrend
	for date, records := range byDate {
		day, err := time.Parse(dateLayout, date)
		if err != nil || !c.inCurrentMonth(day) {
			continue
		}
		trend.Total += len(records)
		trend.Present += presentIn(records)
	}
	trend.Rate = domain.Ratio(trend.Present, trend.Total)
	return trend
}
