package adapters

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func MapStoreDocumentToAttendance(doc store.Document) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:      doc.ID(),
		Date:    optString(doc, "date"),
		Status:  stringOf(doc, "status"),
		TimeIn:  optString(doc, "timeIn"),
		TimeOut: optString(doc, "timeOut"),
	}
}

func MapStoreDocumentToMessage(doc store.Document) domain.MessageRecord {
	return domain.MessageRecord{
		ID:           doc.ID(),
		Date:         optString(doc, "date"),
		Status:       stringOf(doc, "status"),
		Recipient:    optString(doc, "recipient"),
		ResponseTime: optNumber(doc, "responseTime"),
	}
}

func MapStoreDocumentToUser(doc store.Document) domain.UserRecord {
	return domain.UserRecord{
		ID:         doc.ID(),
		Name:       optString(doc, "name"),
		Status:     stringOf(doc, "status"),
		Role:       optString(doc, "role"),
		Department: optString(doc, "department"),
		JoinedDate: optTime(doc, "joinedDate"),
		LastLogin:  optString(doc, "lastLogin"),
	}
}

func MapStoreDocumentToSession(doc store.Document) domain.SessionRecord {
	active, _ := doc["active"].(bool)
	return domain.SessionRecord{
		ID:        doc.ID(),
		UserID:    optString(doc, "userId"),
		Active:    active,
		StartTime: optTime(doc, "startTime"),
		Duration:  optNumber(doc, "duration"),
	}
}

func MapStoreDocumentsToAttendance(docs []store.Document) []domain.AttendanceRecord {
	records := make([]domain.AttendanceRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, MapStoreDocumentToAttendance(doc))
	}
	return records
}

func MapStoreDocumentsToMessages(docs []store.Document) []domain.MessageRecord {
	records := make([]domain.MessageRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, MapStoreDocumentToMessage(doc))
	}
	return records
}

func MapStoreDocumentsToUsers(docs []store.Document) []domain.UserRecord {
	records := make([]domain.UserRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, MapStoreDocumentToUser(doc))
	}
	return records
}

func MapStoreDocumentsToSessions(docs []store.Document) []domain.SessionRecord {
	records := make([]domain.SessionRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, MapStoreDocumentToSession(doc))
	}
	return records
}

// ParseTimestamp accepts RFC 3339 and date-only strings as well as epoch milliseconds
func ParseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	case int:
		return time.UnixMilli(int64(t)).UTC(), true
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	}
	return time.Time{}, false
}

func stringOf(doc store.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func optString(doc store.Document, key string) *string {
	s, ok := doc[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func optNumber(doc store.Document, key string) *float64 {
	var v float64
	switch n := doc[key].(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	return &v
}

func optTime(doc store.Document, key string) *time.Time {
	t, ok := ParseTimestamp(doc[key])
	if !ok {
		return nil
	}
	return &t
}
