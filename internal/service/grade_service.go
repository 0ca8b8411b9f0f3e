package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type gradeEnrollmentRepository interface {
	FindByPair(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	UpdateGrade(ctx context.Context, studentID, courseID string, marks *float64, letterGrade *string) error
}

type gradeCourseRepository interface {
	IsInstructorAssigned(ctx context.Context, courseID, instructorID string) (bool, error)
}

type deregistrationRepository interface {
	FindPending(ctx context.Context, studentID, courseID string) (*models.DeregistrationRequest, error)
	FindByID(ctx context.Context, id string) (*models.DeregistrationRequest, error)
	Create(ctx context.Context, request *models.DeregistrationRequest) error
	UpdatePending(ctx context.Context, id, instructorID, reason string) error
	List(ctx context.Context, status string) ([]models.DeregistrationDetail, error)
	Decide(ctx context.Context, request *models.DeregistrationRequest, status models.DeregistrationStatus) error
}

// GradeService covers grading and the deregistration workflow: instructors
// set or clear grades and raise removal requests, admins review and decide
// them.
type GradeService struct {
	enrollments     gradeEnrollmentRepository
	courses         gradeCourseRepository
	deregistrations deregistrationRepository
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(enrollments gradeEnrollmentRepository, courses gradeCourseRepository, deregistrations deregistrationRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{enrollments: enrollments, courses: courses, deregistrations: deregistrations, validator: validate, logger: logger}
}

// UpdateGrade sets or clears a student's marks and letter grade. A nil
// field clears the stored value, so the two are independently erasable.
func (s *GradeService) UpdateGrade(ctx context.Context, instructorID, courseID, studentID string, req dto.UpdateGradeRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if err := s.requireAssignment(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	if err := s.enrollments.UpdateGrade(ctx, studentID, courseID, req.Marks, req.LetterGrade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}

	s.logger.Info("grade updated",
		zap.String("course_id", courseID),
		zap.String("student_id", studentID),
		zap.String("instructor_id", instructorID))

	enrollment, err := s.enrollments.FindByPair(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload enrollment")
	}
	return enrollment, nil
}

// RequestDeregistration raises a removal request for an enrolled student.
// A pending request for the same pair is updated in place, never duplicated.
func (s *GradeService) RequestDeregistration(ctx context.Context, instructorID, courseID, studentID string, req dto.DeregistrationRequestPayload) (*models.DeregistrationRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid deregistration payload")
	}
	if err := s.requireAssignment(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	if _, err := s.enrollments.FindByPair(ctx, studentID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	pending, err := s.deregistrations.FindPending(ctx, studentID, courseID)
	switch {
	case err == nil:
		if err := s.deregistrations.UpdatePending(ctx, pending.ID, instructorID, req.Reason); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
		}
		return s.findRequest(ctx, pending.ID)
	case errors.Is(err, sql.ErrNoRows):
		request := &models.DeregistrationRequest{
			StudentID:    studentID,
			CourseID:     courseID,
			InstructorID: instructorID,
			Reason:       req.Reason,
		}
		if err := s.deregistrations.Create(ctx, request); err != nil {
			if isUniqueViolation(err) {
				// Lost the race to a concurrent submission. The partial
				// unique index guarantees the pending row now exists.
				if pending, findErr := s.deregistrations.FindPending(ctx, studentID, courseID); findErr == nil {
					if err := s.deregistrations.UpdatePending(ctx, pending.ID, instructorID, req.Reason); err != nil {
						return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
					}
					return s.findRequest(ctx, pending.ID)
				}
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
		}
		return request, nil
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending request")
	}
}

// ListDeregistrations returns requests for admin review, optionally
// filtered by status.
func (s *GradeService) ListDeregistrations(ctx context.Context, status string) ([]models.DeregistrationDetail, error) {
	if status != "" && !models.DeregistrationStatus(status).Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}
	requests, err := s.deregistrations.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// DecideDeregistration resolves a pending request. Approval removes the
// enrollment and stamps the decision in one transaction; rejection stamps
// only. Deciding a non-pending request fails the precondition.
func (s *GradeService) DecideDeregistration(ctx context.Context, id string, req dto.DeregistrationDecisionRequest) (*models.DeregistrationRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	request, err := s.deregistrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if request.Status != models.DeregistrationPending {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "request already decided")
	}

	status := models.DeregistrationRejected
	if req.Decision == "approve" {
		status = models.DeregistrationApproved
	}

	if err := s.deregistrations.Decide(ctx, request, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "request already decided")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide request")
	}

	s.logger.Info("deregistration decided", zap.String("request_id", id), zap.String("status", string(status)))
	return s.findRequest(ctx, id)
}

func (s *GradeService) requireAssignment(ctx context.Context, instructorID, courseID string) error {
	assigned, err := s.courses.IsInstructorAssigned(ctx, courseID, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course assignment")
	}
	if !assigned {
		return appErrors.Clone(appErrors.ErrForbidden, "not assigned to course")
	}
	return nil
}

func (s *GradeService) findRequest(ctx context.Context, id string) (*models.DeregistrationRequest, error) {
	request, err := s.deregistrations.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload request")
	}
	return request, nil
}
