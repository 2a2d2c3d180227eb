package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/insyd/internal/model"
)

func TestReplaceSnapshotRollsBackOnInsertFailure(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	// Set up the expectations.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM feed_snapshot WHERE user_id = \\?").
		WithArgs("user123").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO feed_snapshot").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := newWithDB(sqlx.NewDb(db, "sqlite"))
	err = s.ReplaceSnapshot(context.Background(), "user123", []model.Notification{
		{ID: "1", Type: model.CategoryLike},
	})
	assert.Error(err)
	assert.Contains(err.Error(), "unable to replace feed snapshot")
	assert.Contains(err.Error(), "disk full")

	// Verify that all mock expectations were met.
	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestRemoveFromSnapshotWrapsErrors(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	mock.ExpectExec("DELETE FROM feed_snapshot WHERE id = \\?").
		WithArgs("42").
		WillReturnError(errors.New("locked"))

	s := newWithDB(sqlx.NewDb(db, "sqlite"))
	err = s.RemoveFromSnapshot(context.Background(), "42")
	assert.Error(err)
	assert.Contains(err.Error(), "unable to remove notification from snapshot")

	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}
