package store

import (
	"context"
	"time"

	"github.com/nhle/insyd/internal/model"
)

// Snapshot is the last feed persisted for a user.
type Snapshot struct {
	UserID    string
	Items     []model.Notification
	FetchedAt time.Time
}

// Store defines the persistence interface for the local cache: the last
// successful feed snapshot and the history of submitted events.
type Store interface {
	// === Feed snapshot ===

	ReplaceSnapshot(ctx context.Context, userID string, items []model.Notification) error
	LoadSnapshot(ctx context.Context, userID string) (*Snapshot, error)
	RemoveFromSnapshot(ctx context.Context, id string) error

	// === Submission history ===

	RecordSubmission(ctx context.Context, sub model.Submission) error
	ListSubmissions(ctx context.Context, limit int) ([]model.Submission, error)

	Close() error
}
