package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

func TestDeregistrationRepositoryFindPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeregistrationRepository(db)

	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM deregistration_requests").
		WithArgs("stu-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "instructor_id", "reason", "status", "created_at", "decided_at"}).
			AddRow("req-1", "stu-1", "course-1", "inst-1", "inactive", "pending", created, nil))

	request, err := repo.FindPending(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, "req-1", request.ID)
	require.Equal(t, models.DeregistrationPending, request.Status)
	require.Nil(t, request.DecidedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeregistrationRepositoryUpdatePendingAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeregistrationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE deregistration_requests")).
		WithArgs("req-1", "inst-2", "stopped attending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePending(context.Background(), "req-1", "inst-2", "stopped attending")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeregistrationRepositoryDecideApproveRemovesEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeregistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deregistration_requests")).
		WithArgs("req-1", models.DeregistrationApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2")).
		WithArgs("stu-1", "course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	request := &models.DeregistrationRequest{ID: "req-1", StudentID: "stu-1", CourseID: "course-1"}
	require.NoError(t, repo.Decide(context.Background(), request, models.DeregistrationApproved))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeregistrationRepositoryDecideRejectKeepsEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeregistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deregistration_requests")).
		WithArgs("req-1", models.DeregistrationRejected, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	request := &models.DeregistrationRequest{ID: "req-1", StudentID: "stu-1", CourseID: "course-1"}
	require.NoError(t, repo.Decide(context.Background(), request, models.DeregistrationRejected))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeregistrationRepositoryDecideLostRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeregistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deregistration_requests")).
		WithArgs("req-1", models.DeregistrationApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	request := &models.DeregistrationRequest{ID: "req-1", StudentID: "stu-1", CourseID: "course-1"}
	err := repo.Decide(context.Background(), request, models.DeregistrationApproved)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
