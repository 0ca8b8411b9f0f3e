package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

// DeregistrationRepository stores instructor-raised requests to remove a
// student from a course. At most one pending request may exist per
// (student, course) pair, enforced by a partial unique index.
type DeregistrationRepository struct {
	db *sqlx.DB
}

// NewDeregistrationRepository constructs the repository.
func NewDeregistrationRepository(db *sqlx.DB) *DeregistrationRepository {
	return &DeregistrationRepository{db: db}
}

// FindPending returns the pending request for a (student, course) pair, or
// sql.ErrNoRows when none exists.
func (r *DeregistrationRepository) FindPending(ctx context.Context, studentID, courseID string) (*models.DeregistrationRequest, error) {
	const query = `SELECT id, student_id, course_id, instructor_id, reason, status, created_at, decided_at
        FROM deregistration_requests
        WHERE student_id = $1 AND course_id = $2 AND status = 'pending'`
	var request models.DeregistrationRequest
	if err := r.db.GetContext(ctx, &request, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByID returns a request by ID.
func (r *DeregistrationRepository) FindByID(ctx context.Context, id string) (*models.DeregistrationRequest, error) {
	const query = `SELECT id, student_id, course_id, instructor_id, reason, status, created_at, decided_at
        FROM deregistration_requests WHERE id = $1`
	var request models.DeregistrationRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a new pending request.
func (r *DeregistrationRepository) Create(ctx context.Context, request *models.DeregistrationRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	request.Status = models.DeregistrationPending
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO deregistration_requests (id, student_id, course_id, instructor_id, reason, status, created_at)
        VALUES (:id, :student_id, :course_id, :instructor_id, :reason, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create deregistration request: %w", err)
	}
	return nil
}

// UpdatePending overwrites the reason and requesting instructor of an
// existing pending request. Repeated requests for the same pair update in
// place instead of stacking.
func (r *DeregistrationRepository) UpdatePending(ctx context.Context, id, instructorID, reason string) error {
	const query = `UPDATE deregistration_requests
        SET instructor_id = $2, reason = $3, created_at = $4
        WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, instructorID, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update deregistration request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deregistration rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns requests joined with student, instructor and course names,
// optionally filtered by status. Newest first.
func (r *DeregistrationRepository) List(ctx context.Context, status string) ([]models.DeregistrationDetail, error) {
	query := `SELECT d.id, d.student_id, d.course_id, d.instructor_id, d.reason, d.status, d.created_at, d.decided_at,
            s.username AS student_name, i.username AS instructor_name, c.name AS course_name
        FROM deregistration_requests d
        JOIN users s ON s.id = d.student_id
        JOIN users i ON i.id = d.instructor_id
        JOIN courses c ON c.id = d.course_id`
	args := []any{}
	if status != "" {
		query += ` WHERE d.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY d.created_at DESC`

	requests := []models.DeregistrationDetail{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list deregistration requests: %w", err)
	}
	return requests, nil
}

// Decide marks a pending request approved or rejected. Approval also removes
// the enrollment in the same transaction, so the request is never stamped
// approved while the student remains enrolled.
func (r *DeregistrationRepository) Decide(ctx context.Context, request *models.DeregistrationRequest, status models.DeregistrationStatus) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin decide: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const update = `UPDATE deregistration_requests
        SET status = $2, decided_at = $3
        WHERE id = $1 AND status = 'pending'`
	res, err := tx.ExecContext(ctx, update, request.ID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decide deregistration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decide rows affected: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if status == models.DeregistrationApproved {
		const remove = `DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`
		if _, err = tx.ExecContext(ctx, remove, request.StudentID, request.CourseID); err != nil {
			return fmt.Errorf("remove enrollment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit decide: %w", err)
	}
	return nil
}
