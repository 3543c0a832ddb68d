package domain

import "time"

// Collection is a document-store collection the metrics are computed from
type Collection string

const (
	CollectionAttendance Collection = "attendance"
	CollectionMessages   Collection = "messages"
	CollectionUsers      Collection = "users"
	CollectionSessions   Collection = "sessions"
)

// Collections lists every collection in load order
var Collections = []Collection{
	CollectionAttendance,
	CollectionMessages,
	CollectionUsers,
	CollectionSessions,
}

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"

	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageFailed    = "failed"

	UserActive   = "active"
	UserInactive = "inactive"
)

// Optional fields are nil when the source document lacks them or holds a value of the wrong type.

type AttendanceRecord struct {
	ID      string
	Date    *string // 2006-01-02
	Status  string
	TimeIn  *string // 15:04
	TimeOut *string
}

type MessageRecord struct {
	ID           string
	Date         *string
	Status       string
	Recipient    *string
	ResponseTime *float64
}

type UserRecord struct {
	ID         string
	Name       *string
	Status     string
	Role       *string
	Department *string
	JoinedDate *time.Time
	LastLogin  *string
}

type SessionRecord struct {
	ID        string
	UserID    *string
	Active    bool
	StartTime *time.Time
	Duration  *float64 // minutes
}

// RecordSet is one pull of the four collections
type RecordSet struct {
	Attendance []AttendanceRecord
	Messages   []MessageRecord
	Users      []UserRecord
	Sessions   []SessionRecord
}

func (r RecordSet) Len(c Collection) int {
	switch c {
	case CollectionAttendance:
		return len(r.Attendance)
	case CollectionMessages:
		return len(r.Messages)
	case CollectionUsers:
		return len(r.Users)
	case CollectionSessions:
		return len(r.Sessions)
	}
	return 0
}
