package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/nhle/insyd/internal/model"
)

// snapshotBatchSize bounds the rows per INSERT so a statement stays under
// SQLite's bind variable limit.
const snapshotBatchSize = 500

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating cache directory")
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite db")
	}

	// An in-memory database is private to its connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enabling WAL mode")
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "running migrations")
	}

	return s, nil
}

// newWithDB wraps an already opened handle without running migrations.
func newWithDB(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return errors.Wrap(err, "checking schema_version table")
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return errors.Wrap(err, "reading schema version")
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return errors.Wrapf(err, "applying migration v%d", m.version)
		}
	}

	return nil
}

// ReplaceSnapshot stores items as the cached feed of userID, replacing
// whatever was cached before, in one transaction.
func (s *SQLiteStore) ReplaceSnapshot(
	ctx context.Context,
	userID string,
	items []model.Notification,
) error {
	wrapMsg := "unable to replace feed snapshot"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	defer tx.Rollback()

	query, args, err := sq.Delete("feed_snapshot").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	for start := 0; start < len(items); start += snapshotBatchSize {
		end := min(start+snapshotBatchSize, len(items))

		insert := sq.Insert("feed_snapshot").
			Columns("user_id", "position", "id", "type", "content", "timestamp")
		for i := start; i < end; i++ {
			n := items[i]
			insert = insert.Values(userID, i, n.ID, string(n.Type), n.Content, n.Timestamp)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return errors.Wrap(err, wrapMsg)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, wrapMsg)
		}
	}

	query, args, err = sq.Insert("snapshot_meta").
		Columns("user_id", "fetched_at").
		Values(userID, time.Now().UTC()).
		Options("OR REPLACE").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return errors.Wrap(tx.Commit(), wrapMsg)
}

// LoadSnapshot returns the cached feed of userID in server order. A user
// that was never cached yields an empty snapshot with a zero FetchedAt.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	wrapMsg := "unable to load feed snapshot"

	query, args, err := sq.Select("id", "type", "content", "timestamp").
		From("feed_snapshot").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	items := []model.Notification{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	snap := &Snapshot{UserID: userID, Items: items}

	query, args, err = sq.Select("fetched_at").
		From("snapshot_meta").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	var fetchedAt []time.Time
	if err := s.db.SelectContext(ctx, &fetchedAt, query, args...); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if len(fetchedAt) > 0 {
		snap.FetchedAt = fetchedAt[0]
	}

	return snap, nil
}

// RemoveFromSnapshot deletes a notification from every cached snapshot.
// Removing an id that is not cached is not an error.
func (s *SQLiteStore) RemoveFromSnapshot(ctx context.Context, id string) error {
	wrapMsg := "unable to remove notification from snapshot"

	query, args, err := sq.Delete("feed_snapshot").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// RecordSubmission appends an entry to the submission history. An empty ID
// is filled with a new UUID and a zero SubmittedAt with the current time.
func (s *SQLiteStore) RecordSubmission(ctx context.Context, sub model.Submission) error {
	wrapMsg := "unable to record submission"

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	query, args, err := sq.Insert("submissions").
		Columns(
			"id",
			"type",
			"target_user_id",
			"content",
			"status_code",
			"message",
			"succeeded",
			"submitted_at").
		Values(
			sub.ID,
			string(sub.Type),
			sub.TargetUserID,
			sub.Content,
			sub.StatusCode,
			sub.Message,
			sub.Succeeded,
			sub.SubmittedAt.UTC()).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// ListSubmissions returns the most recent submissions first. A non-positive
// limit returns all of them.
func (s *SQLiteStore) ListSubmissions(ctx context.Context, limit int) ([]model.Submission, error) {
	wrapMsg := "unable to list submissions"

	builder := sq.Select(
		"id",
		"type",
		"target_user_id",
		"content",
		"status_code",
		"message",
		"succeeded",
		"submitted_at").
		From("submissions").
		OrderBy("submitted_at DESC", "rowid DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	subs := []model.Submission{}
	if err := s.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return subs, nil
}
