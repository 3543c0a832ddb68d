package metrics

import (
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
)

func (c calculator) messaging() *domain.MessagingMetrics {
	records := c.records.Messages
	statuses := countBy(records, func(r domain.MessageRecord) string { return r.Status })

	responseTimes := make([]*float64, 0, len(records))
	for _, r := range records {
		responseTimes = append(responseTimes, r.ResponseTime)
	}
	avgResponse, _ := mean(responseTimes)

	return &domain.MessagingMetrics{
		TotalMessages:  len(records),
		SentCount:      statuses[domain.MessageSent],
		DeliveredCount: statuses[domain.MessageDelivered],
		FailedCount:    statuses[domain.MessageFailed],
		DeliveryRate:   domain.Ratio(statuses[domain.MessageDelivered], len(records)),
		FailureRate:    domain.Ratio(statuses[domain.MessageFailed], len(records)),
		MessagesByRecipient: countBy(records, func(r domain.MessageRecord) string {
			return keyOr(r.Recipient, unknownKey)
		}),
		MessagesByDate:      c.messagesByDate(),
		AverageResponseTime: domain.NewDecimal(avgResponse),
	}
}

func (c calculator) messagesByDate() map[string]domain.DeliveryCount {
	byDate := make(map[string]domain.DeliveryCount)
	for _, r := range c.records.Messages {
		key := c.dateKey(r.Date)
		bucket := byDate[key]
		bucket.Total++
		if r.Status == domain.MessageDelivered {
			bucket.Delivered++
		}
		byDate[key] = bucket
	}
	return byDate
}
