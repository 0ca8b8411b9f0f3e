package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type mockAdminUserRepo struct {
	users       map[string]models.UserRole
	deletedID   string
	deletedRole models.UserRole
	stats       *models.AdminStats
}

func (m *mockAdminUserRepo) ListStudents(ctx context.Context) ([]models.Student, error) {
	return []models.Student{}, nil
}

func (m *mockAdminUserRepo) ListInstructors(ctx context.Context) ([]models.Instructor, error) {
	return []models.Instructor{}, nil
}

func (m *mockAdminUserRepo) Delete(ctx context.Context, id string, role models.UserRole) error {
	if m.users[id] != role {
		return sql.ErrNoRows
	}
	m.deletedID = id
	m.deletedRole = role
	return nil
}

func (m *mockAdminUserRepo) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return m.stats, nil
}

func newUserService(repo *mockAdminUserRepo) *UserService {
	return NewUserService(repo, newAuthService(&mockUserRepo{}), zap.NewNop())
}

func TestUserServiceDeleteStudent(t *testing.T) {
	repo := &mockAdminUserRepo{users: map[string]models.UserRole{"stu-1": models.RoleStudent}}
	svc := newUserService(repo)

	require.NoError(t, svc.DeleteStudent(context.Background(), "admin-1", "stu-1"))
	assert.Equal(t, "stu-1", repo.deletedID)
	assert.Equal(t, models.RoleStudent, repo.deletedRole)
}

func TestUserServiceDeleteOwnAccountForbidden(t *testing.T) {
	repo := &mockAdminUserRepo{users: map[string]models.UserRole{"admin-1": models.RoleStudent}}
	svc := newUserService(repo)

	err := svc.DeleteStudent(context.Background(), "admin-1", "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deletedID)
}

func TestUserServiceDeleteInstructorWrongRole(t *testing.T) {
	repo := &mockAdminUserRepo{users: map[string]models.UserRole{"stu-1": models.RoleStudent}}
	svc := newUserService(repo)

	err := svc.DeleteInstructor(context.Background(), "admin-1", "stu-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateStudentPinsRole(t *testing.T) {
	userRepo := &mockUserRepo{}
	svc := NewUserService(&mockAdminUserRepo{}, newAuthService(userRepo), zap.NewNop())

	info, err := svc.CreateStudent(context.Background(), models.SignupRequest{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "password",
		FirstName: "Bob",
		Role:      "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, info.Role)
	require.NotNil(t, userRepo.createdStudent)
	assert.Equal(t, "Beginner", userRepo.createdStudent.SkillLevel)
}

func TestUserServiceDashboard(t *testing.T) {
	repo := &mockAdminUserRepo{stats: &models.AdminStats{Users: 10, Students: 6, Instructors: 2}}
	svc := newUserService(repo)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Users)
	assert.Equal(t, 6, stats.Students)
}
