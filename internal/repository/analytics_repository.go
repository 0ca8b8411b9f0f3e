package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

// AnalyticsRepository runs the read-only aggregate queries behind the
// analyst views. Per-course rows come from the course_performance view so
// courses without enrollments still show up with a zero count.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// PlatformStats counts the entities shown on the analyst dashboard.
func (r *AnalyticsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM users WHERE role = 'student') AS students,
        (SELECT COUNT(*) FROM users WHERE role = 'instructor') AS instructors,
        (SELECT COUNT(*) FROM courses) AS courses,
        (SELECT COUNT(*) FROM enrollments) AS enrollments`
	var stats models.PlatformStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return &stats, nil
}

// CoursePerformance lists every course with its enrollment count and
// average marks rounded to two decimals.
func (r *AnalyticsRepository) CoursePerformance(ctx context.Context) ([]models.CoursePerformance, error) {
	const query = `SELECT course_id, course_name, university_name, enrollments, avg_marks
        FROM course_performance ORDER BY course_name`
	rows := []models.CoursePerformance{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("course performance: %w", err)
	}
	return rows, nil
}

// CourseSummary returns the aggregate row for a single course.
func (r *AnalyticsRepository) CourseSummary(ctx context.Context, courseID string) (*models.CourseSummary, error) {
	const query = `SELECT c.id AS course_id, c.name AS course_name, u.name AS university_name,
            COUNT(e.id) AS enrollments,
            ROUND(AVG(e.marks)::numeric, 2) AS avg_marks,
            MIN(e.marks) AS min_marks,
            MAX(e.marks) AS max_marks
        FROM courses c
        JOIN universities u ON u.id = c.university_id
        LEFT JOIN enrollments e ON e.course_id = c.id
        WHERE c.id = $1
        GROUP BY c.id, c.name, u.name`
	var summary models.CourseSummary
	if err := r.db.GetContext(ctx, &summary, query, courseID); err != nil {
		return nil, err
	}
	return &summary, nil
}

// MarksDistribution groups a course's graded enrollments by mark value.
func (r *AnalyticsRepository) MarksDistribution(ctx context.Context, courseID string) ([]models.MarksBucket, error) {
	const query = `SELECT marks, COUNT(*) AS students
        FROM enrollments
        WHERE course_id = $1 AND marks IS NOT NULL
        GROUP BY marks ORDER BY marks`
	buckets := []models.MarksBucket{}
	if err := r.db.SelectContext(ctx, &buckets, query, courseID); err != nil {
		return nil, fmt.Errorf("marks distribution: %w", err)
	}
	return buckets, nil
}

// InstructorPerformance aggregates taught courses and graded students per
// instructor. Instructors with no assigned courses still appear.
func (r *AnalyticsRepository) InstructorPerformance(ctx context.Context) ([]models.InstructorPerformance, error) {
	const query = `SELECT u.id AS instructor_id, u.first_name, u.last_name,
            COUNT(DISTINCT ci.course_id) AS courses,
            COUNT(DISTINCT e.student_id) AS students,
            ROUND(AVG(e.marks)::numeric, 2) AS avg_marks
        FROM users u
        LEFT JOIN course_instructors ci ON ci.instructor_id = u.id
        LEFT JOIN enrollments e ON e.course_id = ci.course_id
        WHERE u.role = 'instructor'
        GROUP BY u.id, u.first_name, u.last_name
        ORDER BY u.first_name, u.last_name`
	rows := []models.InstructorPerformance{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("instructor performance: %w", err)
	}
	return rows, nil
}

// StudentPerformance averages each student's marks across enrollments.
func (r *AnalyticsRepository) StudentPerformance(ctx context.Context) ([]models.StudentPerformance, error) {
	const query = `SELECT u.id AS student_id, u.first_name, u.last_name,
            ROUND(AVG(e.marks)::numeric, 2) AS avg_marks
        FROM users u
        LEFT JOIN enrollments e ON e.student_id = u.id
        WHERE u.role = 'student'
        GROUP BY u.id, u.first_name, u.last_name
        ORDER BY u.first_name, u.last_name`
	rows := []models.StudentPerformance{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("student performance: %w", err)
	}
	return rows, nil
}

// StudentCourseMarks lists every (student, course, marks) row for the
// per-course breakdown behind the student report.
func (r *AnalyticsRepository) StudentCourseMarks(ctx context.Context) ([]models.StudentCourseMark, error) {
	const query = `SELECT e.student_id, c.name AS course_name, e.marks
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        ORDER BY e.student_id, c.name`
	rows := []models.StudentCourseMark{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("student course marks: %w", err)
	}
	return rows, nil
}

// UniversityPerformance aggregates courses and distinct students per
// university.
func (r *AnalyticsRepository) UniversityPerformance(ctx context.Context) ([]models.UniversityPerformance, error) {
	const query = `SELECT u.id AS university_id, u.name AS university_name,
            COUNT(DISTINCT c.id) AS total_courses,
            COUNT(DISTINCT e.student_id) AS total_students,
            ROUND(AVG(e.marks)::numeric, 2) AS avg_marks
        FROM universities u
        LEFT JOIN courses c ON c.university_id = u.id
        LEFT JOIN enrollments e ON e.course_id = c.id
        GROUP BY u.id, u.name
        ORDER BY u.name`
	rows := []models.UniversityPerformance{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("university performance: %w", err)
	}
	return rows, nil
}

// UniversityCourses lists course-level rows for the university report.
func (r *AnalyticsRepository) UniversityCourses(ctx context.Context) ([]models.UniversityCourse, error) {
	const query = `SELECT c.university_id, c.id AS course_id, c.name AS course_name, c.duration_weeks,
            COUNT(e.id) AS students,
            ROUND(AVG(e.marks)::numeric, 2) AS avg_marks,
            MAX(e.due_by) AS due_by
        FROM courses c
        LEFT JOIN enrollments e ON e.course_id = c.id
        GROUP BY c.university_id, c.id, c.name, c.duration_weeks
        ORDER BY c.name`
	rows := []models.UniversityCourse{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("university courses: %w", err)
	}
	return rows, nil
}

// CourseInstructors lists the instructors assigned to each course.
func (r *AnalyticsRepository) CourseInstructors(ctx context.Context) ([]models.CourseInstructorName, error) {
	const query = `SELECT ci.course_id, u.first_name, u.last_name
        FROM course_instructors ci
        JOIN users u ON u.id = ci.instructor_id
        ORDER BY ci.course_id, u.first_name`
	rows := []models.CourseInstructorName{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("course instructors: %w", err)
	}
	return rows, nil
}
