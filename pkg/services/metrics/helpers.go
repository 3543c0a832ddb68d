package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

const (
	dateLayout = "2006-01-02"

	notAvailable = "N/A"
	unknownKey   = "Unknown"
	neverLogged  = "Never"
)

type calculator struct {
	records domain.RecordSet
	now     time.Time
}

func (c calculator) today() string {
	return c.now.Format(dateLayout)
}

// dateKey normalizes a date field to its calendar day. Records without a date
// are counted on today's date.
func (c calculator) dateKey(date *string) string {
	if date == nil {
		return c.today()
	}
	s := strings.TrimSpace(*date)
	if len(s) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return s[:len(dateLayout)]
		}
	}
	if s == "" {
		return c.today()
	}
	return s
}

func (c calculator) inCurrentMonth(t time.Time) bool {
	return t.Year() == c.now.Year() && t.Month() == c.now.Month()
}

// clockMinutes parses "HH:MM" (seconds are ignored) into minutes since midnight
func clockMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// averageClockTime averages "HH:MM" values and renders the mean as "H:MM"
func averageClockTime(values []*string) string {
	total, n := 0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		m, ok := clockMinutes(*v)
		if !ok {
			continue
		}
		total += m
		n++
	}
	if n == 0 {
		return notAvailable
	}
	avg := int(math.Round(float64(total) / float64(n)))
	return fmt.Sprintf("%d:%02d", avg/60, avg%60)
}

func mean(values []*float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func keyOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func countBy[T any](items []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}
