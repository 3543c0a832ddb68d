package terminal

import (
	"bytes"
	"testing"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	t.Run("empty snapshot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewReporter(&buf).Handle(&domain.Snapshot{}))
		assert.Equal(t, "No metrics have been computed\n", buf.String())
	})

	t.Run("overview and messaging", func(t *testing.T) {
		var buf bytes.Buffer
		snapshot := &domain.Snapshot{
			ComputedAt: fixedNow,
			Overview: &domain.OverviewMetrics{
				TotalRecords: 12,
				SystemHealth: domain.SystemHealth{Overall: 98.5, Status: domain.HealthExcellent},
				DataPoints:   domain.DataPoints{Attendance: 10, Messages: 2},
			},
			Messaging: &domain.MessagingMetrics{TotalMessages: 2, DeliveryRate: 50, FailureRate: 50},
		}

		require.NoError(t, NewReporter(&buf).Handle(snapshot))
		out := buf.String()
		assert.Contains(t, out, "System health: Excellent (98.50)")
		assert.Contains(t, out, "Records: 12 (attendance 10, messages 2, users 0, sessions 0)")
		assert.Contains(t, out, "Failure rate: 50.00%")
		assert.NotContains(t, out, "=== Attendance ===")
	})
}
