package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventDraftWireShape(t *testing.T) {
	at := time.Date(2025, 6, 1, 14, 30, 5, 123_000_000, time.FixedZone("CEST", 2*60*60))
	draft := NewEventDraft(CategoryPost, "user123", "u9", "hi", at)

	assert.Equal(t, "2025-06-01T12:30:05.123Z", draft.Timestamp)

	raw, err := json.Marshal(draft)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "post",
		"sourceUserId": "user123",
		"targetUserId": "u9",
		"data": {"content": "hi"},
		"timestamp": "2025-06-01T12:30:05.123Z"
	}`, string(raw))
}

func TestNotificationLocalTimeFallsBackToRaw(t *testing.T) {
	n := Notification{ID: "1", Timestamp: "yesterday"}
	assert.Equal(t, "yesterday", n.LocalTime())

	_, err := n.CreatedAt()
	assert.Error(t, err)

	n.Timestamp = "2025-01-01T00:00:00.000Z"
	ts, err := n.CreatedAt()
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
}
