package model

import "time"

// EventData is the nested payload of an event.
type EventData struct {
	Content string `json:"content"`
}

// EventDraft is the request body for creating a new activity event. It is
// built fresh for each submission and not persisted.
type EventDraft struct {
	Type         Category  `json:"type"`
	SourceUserID string    `json:"sourceUserId"`
	TargetUserID string    `json:"targetUserId"`
	Data         EventData `json:"data"`
	Timestamp    string    `json:"timestamp"`
}

// EventTimestampLayout matches the millisecond precision ISO-8601 form
// used on the wire.
const EventTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NewEventDraft stamps a draft with the given submission time in UTC.
func NewEventDraft(
	category Category,
	sourceUserID string,
	targetUserID string,
	content string,
	at time.Time,
) EventDraft {
	return EventDraft{
		Type:         category,
		SourceUserID: sourceUserID,
		TargetUserID: targetUserID,
		Data:         EventData{Content: content},
		Timestamp:    at.UTC().Format(EventTimestampLayout),
	}
}

// Submission is a recorded event submission kept in the local history.
type Submission struct {
	ID           string    `db:"id"`
	Type         Category  `db:"type"`
	TargetUserID string    `db:"target_user_id"`
	Content      string    `db:"content"`
	StatusCode   int       `db:"status_code"`
	Message      string    `db:"message"`
	Succeeded    bool      `db:"succeeded"`
	SubmittedAt  time.Time `db:"submitted_at"`
}
