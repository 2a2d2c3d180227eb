package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/store"
	"github.com/nhle/insyd/tests/testutil"
)

func feedOf(ids ...string) []model.Notification {
	out := make([]model.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Notification{
			ID:        id,
			Type:      model.CategoryComment,
			Content:   "content " + id,
			Timestamp: "2025-01-01T00:00:00.000Z",
		})
	}
	return out
}

func TestSnapshotRoundTripKeepsServerOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceSnapshot(ctx, "user123", feedOf("c", "a", "b")))

	snap, err := s.LoadSnapshot(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "c", snap.Items[0].ID)
	assert.Equal(t, "a", snap.Items[1].ID)
	assert.Equal(t, "b", snap.Items[2].ID)
	assert.Equal(t, model.CategoryComment, snap.Items[0].Type)
	assert.Equal(t, "content c", snap.Items[0].Content)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestSnapshotReplaceDiscardsPrevious(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceSnapshot(ctx, "user123", feedOf("1", "2")))
	require.NoError(t, s.ReplaceSnapshot(ctx, "user123", nil))

	snap, err := s.LoadSnapshot(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestSnapshotReplaceLargeFeed(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ids := make([]string, 6500)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%05d", i)
	}

	require.NoError(t, s.ReplaceSnapshot(ctx, "user123", feedOf("small")))
	require.NoError(t, s.ReplaceSnapshot(ctx, "user123", feedOf(ids...)))

	snap, err := s.LoadSnapshot(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, snap.Items, len(ids))
	assert.Equal(t, "n00000", snap.Items[0].ID)
	assert.Equal(t, "n00500", snap.Items[500].ID)
	assert.Equal(t, "n06499", snap.Items[len(ids)-1].ID)
}

func TestSnapshotIsPerUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceSnapshot(ctx, "a", feedOf("1")))
	require.NoError(t, s.ReplaceSnapshot(ctx, "b", feedOf("2", "3")))

	snap, err := s.LoadSnapshot(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)

	snap, err = s.LoadSnapshot(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.True(t, snap.FetchedAt.IsZero())
}

func TestRemoveFromSnapshot(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceSnapshot(ctx, "user123", feedOf("1", "2", "3")))

	require.NoError(t, s.RemoveFromSnapshot(ctx, "2"))
	require.NoError(t, s.RemoveFromSnapshot(ctx, "missing"))

	snap, err := s.LoadSnapshot(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "1", snap.Items[0].ID)
	assert.Equal(t, "3", snap.Items[1].ID)
}

func TestSubmissionHistory(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordSubmission(ctx, model.Submission{
		Type:         model.CategoryLike,
		TargetUserID: "u1",
		StatusCode:   201,
		Message:      "Event sent successfully!",
		Succeeded:    true,
		SubmittedAt:  base,
	}))
	require.NoError(t, s.RecordSubmission(ctx, model.Submission{
		Type:         model.CategoryPost,
		TargetUserID: "u9",
		Content:      "hi",
		StatusCode:   429,
		Message:      "rate limited",
		SubmittedAt:  base.Add(time.Minute),
	}))

	subs, err := s.ListSubmissions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, model.CategoryPost, subs[0].Type)
	assert.False(t, subs[0].Succeeded)
	assert.Equal(t, "rate limited", subs[0].Message)
	assert.Equal(t, 429, subs[0].StatusCode)
	assert.True(t, subs[1].Succeeded)
	assert.NotEmpty(t, subs[1].ID)
	assert.True(t, base.Equal(subs[1].SubmittedAt))

	limited, err := s.ListSubmissions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "u9", limited[0].TargetUserID)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := t.TempDir() + "/cache.db"

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceSnapshot(context.Background(), "user123", feedOf("1")))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.LoadSnapshot(context.Background(), "user123")
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
}
