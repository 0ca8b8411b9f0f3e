package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type adminUserRepository interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListInstructors(ctx context.Context) ([]models.Instructor, error)
	Delete(ctx context.Context, id string, role models.UserRole) error
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

// UserService covers the admin-side management of student and instructor
// accounts. Creation reuses the signup flow with the role pinned.
type UserService struct {
	repo   adminUserRepository
	auth   *AuthService
	logger *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo adminUserRepository, auth *AuthService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, auth: auth, logger: logger}
}

// ListStudents returns all students with their profiles.
func (s *UserService) ListStudents(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// ListInstructors returns all instructors with their profiles.
func (s *UserService) ListInstructors(ctx context.Context) ([]models.Instructor, error) {
	instructors, err := s.repo.ListInstructors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// CreateStudent registers a student account on behalf of an admin.
func (s *UserService) CreateStudent(ctx context.Context, req models.SignupRequest) (*models.UserInfo, error) {
	req.Role = string(models.RoleStudent)
	return s.auth.Signup(ctx, req)
}

// CreateInstructor registers an instructor account on behalf of an admin.
func (s *UserService) CreateInstructor(ctx context.Context, req models.SignupRequest) (*models.UserInfo, error) {
	req.Role = string(models.RoleInstructor)
	return s.auth.Signup(ctx, req)
}

// DeleteStudent removes a student and, via FK cascade, its profile and
// enrollments. Admins cannot delete their own account through this path
// because the role filter never matches.
func (s *UserService) DeleteStudent(ctx context.Context, actorID, studentID string) error {
	return s.deleteUser(ctx, actorID, studentID, models.RoleStudent)
}

// DeleteInstructor removes an instructor and its course assignments.
func (s *UserService) DeleteInstructor(ctx context.Context, actorID, instructorID string) error {
	return s.deleteUser(ctx, actorID, instructorID, models.RoleInstructor)
}

func (s *UserService) deleteUser(ctx context.Context, actorID, targetID string, role models.UserRole) error {
	if actorID == targetID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete own account")
	}
	if err := s.repo.Delete(ctx, targetID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.String("user_id", targetID), zap.String("role", string(role)))
	return nil
}

// Dashboard returns the admin entity counts.
func (s *UserService) Dashboard(ctx context.Context) (*models.AdminStats, error) {
	stats, err := s.repo.AdminStats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}
	return stats, nil
}
