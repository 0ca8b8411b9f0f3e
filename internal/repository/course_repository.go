package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

// CourseRepository handles persistence of courses and their instructor
// assignments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses joined with their university names.
func (r *CourseRepository) List(ctx context.Context) ([]models.CourseDetail, error) {
	const query = `SELECT c.id, c.name, c.duration_weeks, c.type, c.university_id, u.name AS university_name
        FROM courses c
        JOIN universities u ON u.id = c.university_id
        ORDER BY c.name`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, name, duration_weeks, type, university_id FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID returns a course with its university name.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	const query = `SELECT c.id, c.name, c.duration_weeks, c.type, c.university_id, u.name AS university_name
        FROM courses c
        JOIN universities u ON u.id = c.university_id
        WHERE c.id = $1`
	var course models.CourseDetail
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByName returns a course by its unique name.
func (r *CourseRepository) FindByName(ctx context.Context, name string) (*models.Course, error) {
	const query = `SELECT id, name, duration_weeks, type, university_id FROM courses WHERE name = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, name); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	const query = `INSERT INTO courses (id, name, duration_weeks, type, university_id)
        VALUES (:id, :name, :duration_weeks, :type, :university_id)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Delete removes a course and, via FK cascade, its enrollments and content
// tree. Returns sql.ErrNoRows for an unknown ID so a second delete of the
// same course reports not-found instead of silently succeeding.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsInstructorAssigned checks the course/instructor assignment relation.
func (r *CourseRepository) IsInstructorAssigned(ctx context.Context, courseID, instructorID string) (bool, error) {
	const query = `SELECT 1 FROM course_instructors WHERE course_id = $1 AND instructor_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, courseID, instructorID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check instructor assignment: %w", err)
	}
	return true, nil
}

// AssignInstructor links an instructor to a course.
func (r *CourseRepository) AssignInstructor(ctx context.Context, courseID, instructorID string) error {
	const query = `INSERT INTO course_instructors (course_id, instructor_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, courseID, instructorID); err != nil {
		return fmt.Errorf("assign instructor: %w", err)
	}
	return nil
}

// UnassignInstructor removes the link between an instructor and a course.
func (r *CourseRepository) UnassignInstructor(ctx context.Context, courseID, instructorID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_instructors WHERE course_id = $1 AND instructor_id = $2`, courseID, instructorID)
	if err != nil {
		return fmt.Errorf("unassign instructor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unassign instructor rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListInstructors returns the instructors assigned to a course.
func (r *CourseRepository) ListInstructors(ctx context.Context, courseID string) ([]models.Instructor, error) {
	const query = `SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.created_at,
        ip.phone_number, ip.bio
        FROM course_instructors ci
        JOIN users u ON u.id = ci.instructor_id
        JOIN instructor_profiles ip ON ip.user_id = u.id
        WHERE ci.course_id = $1
        ORDER BY u.username`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, courseID); err != nil {
		return nil, fmt.Errorf("list course instructors: %w", err)
	}
	return instructors, nil
}

// ListByInstructor returns the courses an instructor is assigned to.
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.CourseDetail, error) {
	const query = `SELECT c.id, c.name, c.duration_weeks, c.type, c.university_id, u.name AS university_name
        FROM course_instructors ci
        JOIN courses c ON c.id = ci.course_id
        JOIN universities u ON u.id = c.university_id
        WHERE ci.instructor_id = $1
        ORDER BY c.name`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, instructorID); err != nil {
		return nil, fmt.Errorf("list courses by instructor: %w", err)
	}
	return courses, nil
}
