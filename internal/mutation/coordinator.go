// Package mutation performs deletions against the backend and reconciles
// the local feed with the outcome.
package mutation

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/logging"
)

// ErrDeleteInFlight is returned when a deletion for the same id has not
// finished yet.
var ErrDeleteInFlight = errors.New("delete already in progress")

// DeleteError reports a deletion the backend did not confirm.
type DeleteError struct {
	ID  string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deleting notification %s: %v", e.ID, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// Deleter removes a notification on the backend.
type Deleter interface {
	DeleteNotification(ctx context.Context, id string) error
}

// SnapshotRemover drops a notification from the local cache.
type SnapshotRemover interface {
	RemoveFromSnapshot(ctx context.Context, id string) error
}

// Coordinator runs deletions. Each id is tracked while its request is in
// flight so the UI can mark the row busy. Deletions of different ids run
// independently.
type Coordinator struct {
	client   Deleter
	feed     *feed.Store
	tracker  *feed.Tracker
	snapshot SnapshotRemover
	log      logrus.FieldLogger
}

// NewCoordinator creates a Coordinator. snapshot and log may be nil.
func NewCoordinator(
	client Deleter,
	f *feed.Store,
	tracker *feed.Tracker,
	snapshot SnapshotRemover,
	log logrus.FieldLogger,
) *Coordinator {
	if log == nil {
		log = logging.Discard()
	}
	return &Coordinator{
		client:   client,
		feed:     f,
		tracker:  tracker,
		snapshot: snapshot,
		log:      log.WithField("component", "mutation"),
	}
}

// Tracker returns the set of ids with a deletion in flight.
func (c *Coordinator) Tracker() *feed.Tracker {
	return c.tracker
}

// DeleteNotification asks the backend to delete id. Only a confirmed
// deletion removes the item from the feed. On failure the feed is left as
// it was and a *DeleteError is returned. The id stops being tracked in
// every case.
func (c *Coordinator) DeleteNotification(ctx context.Context, id string) error {
	if !c.tracker.Begin(id) {
		return ErrDeleteInFlight
	}
	defer c.tracker.End(id)

	log := c.log.WithField("notification_id", id)

	if err := c.client.DeleteNotification(ctx, id); err != nil {
		log.WithError(err).Warn("delete failed")
		return &DeleteError{ID: id, Err: err}
	}

	// The session may have ended while the request was in flight.
	if ctx.Err() != nil {
		log.Debug("discarding delete confirmation after session end")
		return nil
	}

	if !c.feed.Remove(id) {
		log.Debug("deleted notification was no longer in the feed")
	}

	if c.snapshot != nil {
		if err := c.snapshot.RemoveFromSnapshot(ctx, id); err != nil {
			log.WithError(err).Warn("unable to update cached snapshot")
		}
	}

	log.Info("notification deleted")
	return nil
}
