package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub-labs/eduhub-api/internal/middleware"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	"github.com/eduhub-labs/eduhub-api/internal/service"
)

type fakeEnrollmentRepo struct {
	enrolled map[string]bool // courseID -> enrolled
	created  *models.Enrollment
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	return f.enrolled[courseID], nil
}

func (f *fakeEnrollmentRepo) FindByPair(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if f.enrolled[courseID] {
		return &models.Enrollment{ID: "e1", StudentID: studentID, CourseID: courseID}, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "e-new"
	f.created = enrollment
	return nil
}

func (f *fakeEnrollmentRepo) DeleteByPair(ctx context.Context, studentID, courseID string) error {
	if !f.enrolled[courseID] {
		return sql.ErrNoRows
	}
	return nil
}

func (f *fakeEnrollmentRepo) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.EnrolledCourse, error) {
	return []models.EnrolledCourse{}, nil
}

func (f *fakeEnrollmentRepo) EnrolledCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	ids := []string{}
	for id, ok := range f.enrolled {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeCourseRepo struct {
	courses map[string]*models.CourseDetail
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.CourseDetail, error) {
	out := []models.CourseDetail{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourseRepo) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) ListInstructors(ctx context.Context, courseID string) ([]models.Instructor, error) {
	return []models.Instructor{}, nil
}

type fakeContentRepo struct{}

func (f *fakeContentRepo) ModuleTree(ctx context.Context, courseID string) ([]models.ModuleNode, error) {
	return []models.ModuleNode{}, nil
}

type fakeProfileLoader struct{}

func (f *fakeProfileLoader) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return &models.Profile{User: models.User{ID: userID, Role: models.RoleStudent}}, nil
}

func newStudentHandler(enrollments *fakeEnrollmentRepo) *StudentHandler {
	courses := &fakeCourseRepo{courses: map[string]*models.CourseDetail{
		"c1": {Course: models.Course{ID: "c1", Name: "Algorithms"}, UniversityName: "MIT"},
	}}
	svc := service.NewStudentService(enrollments, courses, &fakeContentRepo{}, &fakeProfileLoader{}, nil)
	return NewStudentHandler(svc)
}

func studentContext(t *testing.T, method, target string, courseID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Params = gin.Params{{Key: "id", Value: courseID}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	return c, rec
}

func TestStudentHandlerEnroll(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{enrolled: map[string]bool{}}
	handler := newStudentHandler(enrollments)

	c, rec := studentContext(t, http.MethodPost, "/student/courses/c1/enroll", "c1")
	handler.Enroll(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, enrollments.created)
	assert.Equal(t, "stu-1", enrollments.created.StudentID)
}

func TestStudentHandlerEnrollDuplicate(t *testing.T) {
	enrollments := &fakeEnrollmentRepo{enrolled: map[string]bool{"c1": true}}
	handler := newStudentHandler(enrollments)

	c, rec := studentContext(t, http.MethodPost, "/student/courses/c1/enroll", "c1")
	handler.Enroll(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestStudentHandlerUnenrollNotEnrolled(t *testing.T) {
	handler := newStudentHandler(&fakeEnrollmentRepo{enrolled: map[string]bool{}})

	c, rec := studentContext(t, http.MethodDelete, "/student/courses/c1/enroll", "c1")
	handler.Unenroll(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentHandlerCourseViewForbiddenWhenUnenrolled(t *testing.T) {
	handler := newStudentHandler(&fakeEnrollmentRepo{enrolled: map[string]bool{}})

	c, rec := studentContext(t, http.MethodGet, "/student/courses/c1", "c1")
	handler.CourseView(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStudentHandlerDashboardRequiresClaims(t *testing.T) {
	handler := newStudentHandler(&fakeEnrollmentRepo{})

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)

	handler.Dashboard(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
