package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type studentEnrollmentRepository interface {
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	FindByPair(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	DeleteByPair(ctx context.Context, studentID, courseID string) error
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.EnrolledCourse, error)
	EnrolledCourseIDs(ctx context.Context, studentID string) ([]string, error)
}

type studentCourseRepository interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ListInstructors(ctx context.Context, courseID string) ([]models.Instructor, error)
}

type studentContentRepository interface {
	ModuleTree(ctx context.Context, courseID string) ([]models.ModuleNode, error)
}

type studentProfileLoader interface {
	Profile(ctx context.Context, userID string) (*models.Profile, error)
}

// StudentService covers the student-facing operations: exploring the
// catalog, enrolling and the dashboard, grades and course views.
type StudentService struct {
	enrollments studentEnrollmentRepository
	courses     studentCourseRepository
	content     studentContentRepository
	profiles    studentProfileLoader
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(enrollments studentEnrollmentRepository, courses studentCourseRepository, content studentContentRepository, profiles studentProfileLoader, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{enrollments: enrollments, courses: courses, content: content, profiles: profiles, logger: logger}
}

// Dashboard returns the student's profile plus their enrolled courses.
func (s *StudentService) Dashboard(ctx context.Context, studentID string) (*dto.StudentDashboard, error) {
	profile, err := s.profiles.Profile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courses, err := s.enrollments.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled courses")
	}
	return &dto.StudentDashboard{Profile: *profile, Courses: courses}, nil
}

// Grades returns the student's enrollments with grading state and the GPA,
// the mean of non-null marks rounded to two decimals. No graded courses
// yields zero.
func (s *StudentService) Grades(ctx context.Context, studentID string) (*models.GradeReport, error) {
	courses, err := s.enrollments.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}

	var sum float64
	var graded int
	for _, c := range courses {
		if c.Marks != nil {
			sum += *c.Marks
			graded++
		}
	}
	var gpa float64
	if graded > 0 {
		gpa = math.Round(sum/float64(graded)*100) / 100
	}

	return &models.GradeReport{Courses: courses, GPA: gpa}, nil
}

// Explore lists the whole catalog annotated with the caller's enrollments.
func (s *StudentService) Explore(ctx context.Context, studentID string) ([]models.ExploreCourse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	enrolledIDs, err := s.enrollments.EnrolledCourseIDs(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	enrolled := make(map[string]struct{}, len(enrolledIDs))
	for _, id := range enrolledIDs {
		enrolled[id] = struct{}{}
	}

	result := make([]models.ExploreCourse, 0, len(courses))
	for _, c := range courses {
		_, ok := enrolled[c.ID]
		result = append(result, models.ExploreCourse{CourseDetail: c, Enrolled: ok})
	}
	return result, nil
}

// Enroll adds the caller to a course. Re-enrolling is a conflict and leaves
// any existing grades untouched.
func (s *StudentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if _, err := s.courses.FindDetailByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	exists, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in course")
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}

	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("course_id", courseID))
	return enrollment, nil
}

// Unenroll removes the caller from a course.
func (s *StudentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	if err := s.enrollments.DeleteByPair(ctx, studentID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "not enrolled in course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll")
	}
	s.logger.Info("student unenrolled", zap.String("student_id", studentID), zap.String("course_id", courseID))
	return nil
}

// CourseView returns the full course page for an enrolled student. Access
// requires an enrollment.
func (s *StudentService) CourseView(ctx context.Context, studentID, courseID string) (*dto.StudentCourseView, error) {
	enrollment, err := s.enrollments.FindByPair(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	course, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	instructors, err := s.courses.ListInstructors(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}
	instructorInfos := make([]models.UserInfo, 0, len(instructors))
	for _, i := range instructors {
		instructorInfos = append(instructorInfos, models.UserInfo{
			ID:        i.ID,
			Username:  i.Username,
			Email:     i.Email,
			FirstName: i.FirstName,
			LastName:  i.LastName,
			Role:      i.Role,
		})
	}

	modules, err := s.content.ModuleTree(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content tree")
	}

	return &dto.StudentCourseView{
		Course:      *course,
		Instructors: instructorInfos,
		Modules:     modules,
		Enrollment:  *enrollment,
	}, nil
}
