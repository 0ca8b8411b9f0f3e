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

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type mockGradeEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
}

func (m *mockGradeEnrollmentRepo) FindByPair(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[pairKey(studentID, courseID)]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeEnrollmentRepo) UpdateGrade(ctx context.Context, studentID, courseID string, marks *float64, letterGrade *string) error {
	e, ok := m.enrollments[pairKey(studentID, courseID)]
	if !ok {
		return sql.ErrNoRows
	}
	e.Marks = marks
	e.LetterGrade = letterGrade
	return nil
}

type mockGradeCourseRepo struct {
	assignments map[string]map[string]bool
}

func (m *mockGradeCourseRepo) IsInstructorAssigned(ctx context.Context, courseID, instructorID string) (bool, error) {
	return m.assignments[courseID][instructorID], nil
}

type mockDeregistrationRepo struct {
	requests map[string]*models.DeregistrationRequest
	details  []models.DeregistrationDetail

	createCount int
	updateCount int
	decided     *models.DeregistrationRequest
}

func (m *mockDeregistrationRepo) FindPending(ctx context.Context, studentID, courseID string) (*models.DeregistrationRequest, error) {
	for _, r := range m.requests {
		if r.StudentID == studentID && r.CourseID == courseID && r.Status == models.DeregistrationPending {
			return r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockDeregistrationRepo) FindByID(ctx context.Context, id string) (*models.DeregistrationRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDeregistrationRepo) Create(ctx context.Context, request *models.DeregistrationRequest) error {
	m.createCount++
	request.ID = "req-new"
	request.Status = models.DeregistrationPending
	if m.requests == nil {
		m.requests = make(map[string]*models.DeregistrationRequest)
	}
	m.requests[request.ID] = request
	return nil
}

func (m *mockDeregistrationRepo) UpdatePending(ctx context.Context, id, instructorID, reason string) error {
	m.updateCount++
	r, ok := m.requests[id]
	if !ok || r.Status != models.DeregistrationPending {
		return sql.ErrNoRows
	}
	r.InstructorID = instructorID
	r.Reason = reason
	return nil
}

func (m *mockDeregistrationRepo) List(ctx context.Context, status string) ([]models.DeregistrationDetail, error) {
	return m.details, nil
}

func (m *mockDeregistrationRepo) Decide(ctx context.Context, request *models.DeregistrationRequest, status models.DeregistrationStatus) error {
	r, ok := m.requests[request.ID]
	if !ok || r.Status != models.DeregistrationPending {
		return sql.ErrNoRows
	}
	now := time.Now().UTC()
	r.Status = status
	r.DecidedAt = &now
	m.decided = r
	return nil
}

func newGradeService(enrollments *mockGradeEnrollmentRepo, deregistrations *mockDeregistrationRepo) *GradeService {
	courses := &mockGradeCourseRepo{assignments: map[string]map[string]bool{"c1": {"inst-1": true}}}
	return NewGradeService(enrollments, courses, deregistrations, validator.New(), zap.NewNop())
}

func TestGradeServiceUpdateGrade(t *testing.T) {
	enrollments := &mockGradeEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1"},
	}}
	svc := newGradeService(enrollments, &mockDeregistrationRepo{})

	marks := 88.5
	grade := "A"
	enrollment, err := svc.UpdateGrade(context.Background(), "inst-1", "c1", "stu-1", dto.UpdateGradeRequest{Marks: &marks, LetterGrade: &grade})
	require.NoError(t, err)
	assert.Equal(t, 88.5, *enrollment.Marks)
	assert.Equal(t, "A", *enrollment.LetterGrade)
}

func TestGradeServiceUpdateGradeClearsFields(t *testing.T) {
	marks := 70.0
	grade := "B"
	enrollments := &mockGradeEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1", Marks: &marks, LetterGrade: &grade},
	}}
	svc := newGradeService(enrollments, &mockDeregistrationRepo{})

	enrollment, err := svc.UpdateGrade(context.Background(), "inst-1", "c1", "stu-1", dto.UpdateGradeRequest{})
	require.NoError(t, err)
	assert.Nil(t, enrollment.Marks)
	assert.Nil(t, enrollment.LetterGrade)
}

func TestGradeServiceUpdateGradeUnassignedInstructor(t *testing.T) {
	enrollments := &mockGradeEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1"},
	}}
	svc := newGradeService(enrollments, &mockDeregistrationRepo{})

	marks := 50.0
	_, err := svc.UpdateGrade(context.Background(), "inst-2", "c1", "stu-1", dto.UpdateGradeRequest{Marks: &marks})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceUpdateGradeMissingEnrollment(t *testing.T) {
	svc := newGradeService(&mockGradeEnrollmentRepo{}, &mockDeregistrationRepo{})

	marks := 50.0
	_, err := svc.UpdateGrade(context.Background(), "inst-1", "c1", "stu-9", dto.UpdateGradeRequest{Marks: &marks})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceRequestDeregistrationCreates(t *testing.T) {
	enrollments := &mockGradeEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1"},
	}}
	deregistrations := &mockDeregistrationRepo{}
	svc := newGradeService(enrollments, deregistrations)

	request, err := svc.RequestDeregistration(context.Background(), "inst-1", "c1", "stu-1", dto.DeregistrationRequestPayload{Reason: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, models.DeregistrationPending, request.Status)
	assert.Equal(t, 1, deregistrations.createCount)
}

func TestGradeServiceRequestDeregistrationUpdatesPendingInPlace(t *testing.T) {
	enrollments := &mockGradeEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1"},
	}}
	deregistrations := &mockDeregistrationRepo{requests: map[string]*models.DeregistrationRequest{
		"req-1": {ID: "req-1", StudentID: "stu-1", CourseID: "c1", InstructorID: "inst-1", Reason: "old reason", Status: models.DeregistrationPending},
	}}
	svc := newGradeService(enrollments, deregistrations)

	request, err := svc.RequestDeregistration(context.Background(), "inst-1", "c1", "stu-1", dto.DeregistrationRequestPayload{Reason: "new reason"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", request.ID)
	assert.Equal(t, "new reason", request.Reason)
	assert.Zero(t, deregistrations.createCount)
	assert.Equal(t, 1, deregistrations.updateCount)
}

func TestGradeServiceRequestDeregistrationNotEnrolled(t *testing.T) {
	svc := newGradeService(&mockGradeEnrollmentRepo{}, &mockDeregistrationRepo{})

	_, err := svc.RequestDeregistration(context.Background(), "inst-1", "c1", "stu-9", dto.DeregistrationRequestPayload{Reason: "inactive"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceDecideApprove(t *testing.T) {
	deregistrations := &mockDeregistrationRepo{requests: map[string]*models.DeregistrationRequest{
		"req-1": {ID: "req-1", StudentID: "stu-1", CourseID: "c1", Status: models.DeregistrationPending},
	}}
	svc := newGradeService(&mockGradeEnrollmentRepo{}, deregistrations)

	request, err := svc.DecideDeregistration(context.Background(), "req-1", dto.DeregistrationDecisionRequest{Decision: "approve"})
	require.NoError(t, err)
	assert.Equal(t, models.DeregistrationApproved, request.Status)
	assert.NotNil(t, request.DecidedAt)
}

func TestGradeServiceDecideReject(t *testing.T) {
	deregistrations := &mockDeregistrationRepo{requests: map[string]*models.DeregistrationRequest{
		"req-1": {ID: "req-1", StudentID: "stu-1", CourseID: "c1", Status: models.DeregistrationPending},
	}}
	svc := newGradeService(&mockGradeEnrollmentRepo{}, deregistrations)

	request, err := svc.DecideDeregistration(context.Background(), "req-1", dto.DeregistrationDecisionRequest{Decision: "reject"})
	require.NoError(t, err)
	assert.Equal(t, models.DeregistrationRejected, request.Status)
}

func TestGradeServiceDecideAlreadyDecided(t *testing.T) {
	deregistrations := &mockDeregistrationRepo{requests: map[string]*models.DeregistrationRequest{
		"req-1": {ID: "req-1", StudentID: "stu-1", CourseID: "c1", Status: models.DeregistrationApproved},
	}}
	svc := newGradeService(&mockGradeEnrollmentRepo{}, deregistrations)

	_, err := svc.DecideDeregistration(context.Background(), "req-1", dto.DeregistrationDecisionRequest{Decision: "reject"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceDecideInvalidPayload(t *testing.T) {
	svc := newGradeService(&mockGradeEnrollmentRepo{}, &mockDeregistrationRepo{})

	_, err := svc.DecideDeregistration(context.Background(), "req-1", dto.DeregistrationDecisionRequest{Decision: "maybe"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceListDeregistrationsUnknownStatus(t *testing.T) {
	svc := newGradeService(&mockGradeEnrollmentRepo{}, &mockDeregistrationRepo{})

	_, err := svc.ListDeregistrations(context.Background(), "stalled")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
