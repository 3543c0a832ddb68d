package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

const peakHoursLimit = 5

func (c calculator) sessions() *domain.SessionMetrics {
	records := c.records.Sessions

	active := 0
	durations := make([]*float64, 0, len(records))
	for _, r := range records {
		if r.Active {
			active++
		}
		durations = append(durations, r.Duration)
	}

	avgDuration := 0
	if avg, ok := mean(durations); ok {
		avgDuration = int(math.Round(avg))
	}

	return &domain.SessionMetrics{
		TotalSessions:          len(records),
		ActiveSessions:         active,
		AverageSessionDuration: avgDuration,
		PeakHours:              c.peakHours(),
		SessionsByDate: countBy(records, func(r domain.SessionRecord) string {
			if r.StartTime == nil {
				return unknownKey
			}
			return r.StartTime.In(c.now.Location()).Format(dateLayout)
		}),
		UserSessionCount: countBy(records, func(r domain.SessionRecord) string {
			return keyOr(r.UserID, unknownKey)
		}),
	}
}

// peakHours ranks start hours by session count, busiest first
func (c calculator) peakHours() []domain.PeakHour {
	var counts [24]int
	for _, r := range c.records.Sessions {
		if r.StartTime == nil {
			continue
		}
		counts[r.StartTime.In(c.now.Location()).Hour()]++
	}

	hours := make([]int, 0, 24)
	for hour, n := range counts {
		if n > 0 {
			hours = append(hours, hour)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return counts[hours[i]] > counts[hours[j]]
	})
	if len(hours) > peakHoursLimit {
		hours = hours[:peakHoursLimit]
	}

	peaks := make([]domain.PeakHour, 0, len(hours))
	for _, hour := range hours {
		peaks = append(peaks, domain.PeakHour{
			Hour:  fmt.Sprintf("%d:00", hour),
			Count: counts[hour],
		})
	}
	return peaks
}
