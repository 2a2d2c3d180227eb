package model

import (
	"time"

	"github.com/pkg/errors"
)

// Notification is a single entry of a user's activity feed as returned by
// the backend. Field names follow the backend wire format.
type Notification struct {
	// ID is unique within one feed snapshot.
	ID string `json:"_id" db:"id"`

	// Type is the notification category. Values outside the known set are
	// kept verbatim.
	Type Category `json:"type" db:"type"`

	// Content is free-form text supplied by the backend.
	Content string `json:"content" db:"content"`

	// Timestamp is the ISO-8601 creation time as sent by the server.
	Timestamp string `json:"timestamp" db:"timestamp"`
}

// CreatedAt parses Timestamp.
func (n Notification) CreatedAt() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, n.Timestamp)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing timestamp of notification %s", n.ID)
	}
	return t, nil
}

// LocalTime renders the creation time in the local zone. Unparseable
// timestamps are returned as sent.
func (n Notification) LocalTime() string {
	t, err := n.CreatedAt()
	if err != nil {
		return n.Timestamp
	}
	return t.Local().Format("Jan 02 2006, 15:04:05")
}
