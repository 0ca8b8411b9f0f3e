package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type mockUserRepo struct {
	usersByEmail    map[string]*models.User
	usersByUsername map[string]*models.User
	usersByID       map[string]*models.User
	studentProfiles map[string]*models.StudentProfile
	instructors     map[string]*models.InstructorProfile

	createdUser       *models.User
	createdStudent    *models.StudentProfile
	createdInstructor *models.InstructorProfile
	updatedUser       *models.User
	updatedStudent    *models.StudentProfile
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := m.usersByUsername[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User, student *models.StudentProfile, instructor *models.InstructorProfile) error {
	m.createdUser = user
	m.createdStudent = student
	m.createdInstructor = instructor
	return nil
}

func (m *mockUserRepo) FindStudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	if p, ok := m.studentProfiles[userID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindInstructorProfile(ctx context.Context, userID string) (*models.InstructorProfile, error) {
	if p, ok := m.instructors[userID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User, student *models.StudentProfile, instructor *models.InstructorProfile) error {
	m.updatedUser = user
	m.updatedStudent = student
	return nil
}

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret:      "secret",
		TokenExpiry: time.Hour,
		Issuer:      "eduhub",
	})
}

func TestAuthServiceSignupStudentStartsAsBeginner(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newAuthService(repo)

	age := 21
	info, err := svc.Signup(context.Background(), models.SignupRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password",
		FirstName: "Alice",
		Role:      "student",
		Age:       &age,
		Country:   "Portugal",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, info.Role)
	require.NotNil(t, repo.createdStudent)
	assert.Equal(t, "Beginner", repo.createdStudent.SkillLevel)
	assert.Nil(t, repo.createdInstructor)
	assert.NotEqual(t, "password", repo.createdUser.PasswordHash)
}

func TestAuthServiceSignupUnknownRole(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password",
		FirstName: "Alice",
		Role:      "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{usersByEmail: map[string]*models.User{
		"alice@example.com": {ID: "u1", Email: "alice@example.com"},
	}}
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Username:  "alice2",
		Email:     "alice@example.com",
		Password:  "password",
		FirstName: "Alice",
		Role:      "student",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.createdUser)
}

func TestAuthServiceSignupDuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{usersByUsername: map[string]*models.User{
		"alice": {ID: "u1", Username: "alice"},
	}}
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Username:  "alice",
		Email:     "new@example.com",
		Password:  "password",
		FirstName: "Alice",
		Role:      "instructor",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{usersByEmail: map[string]*models.User{
		"alice@example.com": {ID: "u1", Username: "alice", Email: "alice@example.com", PasswordHash: string(hash), Role: models.RoleStudent},
	}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleStudent, res.User.Role)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{usersByEmail: map[string]*models.User{
		"alice@example.com": {ID: "u1", Email: "alice@example.com", PasswordHash: string(hash)},
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceProfileIncludesStudentSection(t *testing.T) {
	repo := &mockUserRepo{
		usersByID: map[string]*models.User{
			"u1": {ID: "u1", Username: "alice", Role: models.RoleStudent},
		},
		studentProfiles: map[string]*models.StudentProfile{
			"u1": {UserID: "u1", SkillLevel: "Beginner"},
		},
	}
	svc := newAuthService(repo)

	profile, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, profile.Student)
	assert.Equal(t, "Beginner", profile.Student.SkillLevel)
	assert.Nil(t, profile.Instructor)
}

func TestAuthServiceValidateTokenBadSignature(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})
	other := NewAuthService(&mockUserRepo{}, validator.New(), zap.NewNop(), AuthConfig{Secret: "different", TokenExpiry: time.Hour})

	token, err := other.generateAccessToken(&models.User{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
