package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/models"
)

func newMockDB(t *testing.T) (*enrollmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &enrollmentRepository{db: db}, mock
}

func enrollmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "org_id", "campaign_id", "lead_id", "current_step", "status",
		"next_run_at", "last_error", "attempt_count", "created_at", "updated_at",
	})
}

func TestEnrollmentRepository_ListDue(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	t.Run("returns due enrollments in order", func(t *testing.T) {
		rows := enrollmentRows().
			AddRow(1, 1, 10, 100, 0, "active", now.Add(-time.Hour), nil, 0, now, now).
			AddRow(2, 1, 10, 101, 2, "active", now.Add(-time.Minute), nil, 1, now, now)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'active' AND next_run_at <= $1")).
			WithArgs(now, 50).
			WillReturnRows(rows)

		due, err := repo.ListDue(context.Background(), now, 50)
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, 1, due[0].ID)
		assert.Equal(t, models.EnrollmentStatusActive, due[0].Status)
		assert.Equal(t, 2, due[1].CurrentStep)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'active'")).
			WithArgs(now, 50).
			WillReturnRows(enrollmentRows())

		due, err := repo.ListDue(context.Background(), now, 50)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'active'")).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.ListDue(context.Background(), now, 50)
		assert.Error(t, err)
	})
}

func TestEnrollmentRepository_Claim(t *testing.T) {
	repo, mock := newMockDB(t)
	claimQuery := regexp.QuoteMeta("SET status = 'processing'")

	t.Run("wins the claim", func(t *testing.T) {
		mock.ExpectExec(claimQuery).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.Claim(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("loses the claim", func(t *testing.T) {
		mock.ExpectExec(claimQuery).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.Claim(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("exec failure", func(t *testing.T) {
		mock.ExpectExec(claimQuery).
			WithArgs(7).
			WillReturnError(errors.New("deadlock detected"))

		_, err := repo.Claim(context.Background(), 7)
		assert.Error(t, err)
	})
}

func TestEnrollmentRepository_Release(t *testing.T) {
	repo, mock := newMockDB(t)
	runAt := time.Now().Add(time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'active', next_run_at = $2")).
		WithArgs(7, runAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Release(context.Background(), 7, runAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_ReleaseStale(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE status = 'processing' AND updated_at < $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	released, err := repo.ReleaseStale(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, released)
}

func TestEnrollmentRepository_Update(t *testing.T) {
	repo, mock := newMockDB(t)
	updateQuery := regexp.QuoteMeta("SET current_step = $1")

	t.Run("persists advancer state", func(t *testing.T) {
		runAt := time.Now().Add(24 * time.Hour)
		e := &models.Enrollment{
			ID:          7,
			CurrentStep: 1,
			Status:      models.EnrollmentStatusActive,
			NextRunAt:   &runAt,
		}

		mock.ExpectExec(updateQuery).
			WithArgs(1, models.EnrollmentStatusActive, runAt, nil, 0, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), e))
	})

	t.Run("missing row", func(t *testing.T) {
		e := &models.Enrollment{ID: 99, Status: models.EnrollmentStatusDone}

		mock.ExpectExec(updateQuery).
			WithArgs(0, models.EnrollmentStatusDone, nil, nil, 0, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), e)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEnrollmentRepository_GetByID(t *testing.T) {
	repo, mock := newMockDB(t)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		lastErr := "timeout"
		rows := enrollmentRows().
			AddRow(7, 1, 10, 100, 2, "error", nil, lastErr, 3, now, now)

		mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments")).
			WithArgs(7).
			WillReturnRows(rows)

		e, err := repo.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentStatusError, e.Status)
		assert.Equal(t, 3, e.AttemptCount)
		require.NotNil(t, e.LastError)
		assert.Equal(t, "timeout", *e.LastError)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments")).
			WithArgs(99).
			WillReturnRows(enrollmentRows())

		_, err := repo.GetByID(context.Background(), 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
