package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByName(ctx context.Context, name string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	IsInstructorAssigned(ctx context.Context, courseID, instructorID string) (bool, error)
	AssignInstructor(ctx context.Context, courseID, instructorID string) error
	UnassignInstructor(ctx context.Context, courseID, instructorID string) error
}

type courseUniversityRepository interface {
	FindByID(ctx context.Context, id string) (*models.University, error)
}

type courseInstructorRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CourseService manages the admin-side course catalog and instructor
// assignments.
type CourseService struct {
	courses      courseRepository
	universities courseUniversityRepository
	users        courseInstructorRepository
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses courseRepository, universities courseUniversityRepository, users courseInstructorRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{courses: courses, universities: universities, users: users, validator: validate, logger: logger}
}

// List returns all courses with their university names.
func (s *CourseService) List(ctx context.Context) ([]models.CourseDetail, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Create adds a course. The name is unique, the university must exist and
// the type must be one of the known values when given.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	var courseType *models.CourseType
	if req.Type != nil && *req.Type != "" {
		t := models.CourseType(*req.Type)
		if !t.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course type %q", *req.Type))
		}
		courseType = &t
	}

	if _, err := s.universities.FindByID(ctx, req.UniversityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load university")
	}

	if _, err := s.courses.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course name")
	}

	course := &models.Course{
		Name:          req.Name,
		DurationWeeks: req.DurationWeeks,
		Type:          courseType,
		UniversityID:  req.UniversityID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("name", course.Name))
	return course, nil
}

// Delete removes a course and cascades enrollments, assignments and the
// content tree. A second delete of the same ID yields not found.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// AssignInstructor links an instructor to a course.
func (s *CourseService) AssignInstructor(ctx context.Context, courseID string, req dto.AssignInstructorRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	instructor, err := s.users.FindByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if instructor.Role != models.RoleInstructor {
		return appErrors.Clone(appErrors.ErrValidation, "user is not an instructor")
	}

	assigned, err := s.courses.IsInstructorAssigned(ctx, courseID, req.InstructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if assigned {
		return appErrors.Clone(appErrors.ErrConflict, "instructor already assigned to course")
	}

	if err := s.courses.AssignInstructor(ctx, courseID, req.InstructorID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign instructor")
	}
	return nil
}

// UnassignInstructor removes an instructor from a course.
func (s *CourseService) UnassignInstructor(ctx context.Context, courseID, instructorID string) error {
	if err := s.courses.UnassignInstructor(ctx, courseID, instructorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "instructor not assigned to course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign instructor")
	}
	return nil
}
