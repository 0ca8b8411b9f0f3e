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

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment // keyed student|course
	courses     []models.EnrolledCourse
	createErr   error
	created     *models.Enrollment
}

func pairKey(studentID, courseID string) string { return studentID + "|" + courseID }

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	_, ok := m.enrollments[pairKey(studentID, courseID)]
	return ok, nil
}

func (m *mockEnrollmentRepo) FindByPair(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[pairKey(studentID, courseID)]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = enrollment
	if m.enrollments == nil {
		m.enrollments = make(map[string]*models.Enrollment)
	}
	m.enrollments[pairKey(enrollment.StudentID, enrollment.CourseID)] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) DeleteByPair(ctx context.Context, studentID, courseID string) error {
	key := pairKey(studentID, courseID)
	if _, ok := m.enrollments[key]; !ok {
		return sql.ErrNoRows
	}
	delete(m.enrollments, key)
	return nil
}

func (m *mockEnrollmentRepo) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.EnrolledCourse, error) {
	return m.courses, nil
}

func (m *mockEnrollmentRepo) EnrolledCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	ids := []string{}
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

type mockCourseCatalog struct {
	courses     map[string]*models.CourseDetail
	instructors []models.Instructor
}

func (m *mockCourseCatalog) List(ctx context.Context) ([]models.CourseDetail, error) {
	out := []models.CourseDetail{}
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCourseCatalog) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseCatalog) ListInstructors(ctx context.Context, courseID string) ([]models.Instructor, error) {
	return m.instructors, nil
}

type mockContentTree struct {
	modules []models.ModuleNode
}

func (m *mockContentTree) ModuleTree(ctx context.Context, courseID string) ([]models.ModuleNode, error) {
	return m.modules, nil
}

type mockProfileLoader struct {
	profile *models.Profile
}

func (m *mockProfileLoader) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	if m.profile == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return m.profile, nil
}

func courseDetail(id, name string) *models.CourseDetail {
	return &models.CourseDetail{Course: models.Course{ID: id, Name: name}, UniversityName: "MIT"}
}

func newStudentService(enrollments *mockEnrollmentRepo, catalog *mockCourseCatalog) *StudentService {
	return NewStudentService(enrollments, catalog, &mockContentTree{}, &mockProfileLoader{profile: &models.Profile{}}, zap.NewNop())
}

func TestStudentServiceEnroll(t *testing.T) {
	enrollments := &mockEnrollmentRepo{}
	catalog := &mockCourseCatalog{courses: map[string]*models.CourseDetail{"c1": courseDetail("c1", "Algorithms")}}
	svc := newStudentService(enrollments, catalog)

	enrollment, err := svc.Enroll(context.Background(), "stu-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", enrollment.StudentID)
	assert.Equal(t, "c1", enrollment.CourseID)
	assert.NotNil(t, enrollments.created)
}

func TestStudentServiceEnrollUnknownCourse(t *testing.T) {
	svc := newStudentService(&mockEnrollmentRepo{}, &mockCourseCatalog{})

	_, err := svc.Enroll(context.Background(), "stu-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceEnrollTwiceConflicts(t *testing.T) {
	enrollments := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1"},
	}}
	catalog := &mockCourseCatalog{courses: map[string]*models.CourseDetail{"c1": courseDetail("c1", "Algorithms")}}
	svc := newStudentService(enrollments, catalog)

	_, err := svc.Enroll(context.Background(), "stu-1", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUnenrollNotEnrolled(t *testing.T) {
	svc := newStudentService(&mockEnrollmentRepo{}, &mockCourseCatalog{})

	err := svc.Unenroll(context.Background(), "stu-1", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGradesGPA(t *testing.T) {
	m1, m2 := 85.0, 71.5
	enrollments := &mockEnrollmentRepo{courses: []models.EnrolledCourse{
		{CourseID: "c1", CourseName: "Algorithms", Marks: &m1},
		{CourseID: "c2", CourseName: "Databases", Marks: &m2},
		{CourseID: "c3", CourseName: "Networks"},
	}}
	svc := newStudentService(enrollments, &mockCourseCatalog{})

	report, err := svc.Grades(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 78.25, report.GPA)
	assert.Len(t, report.Courses, 3)
}

func TestStudentServiceGradesNoGradedCourses(t *testing.T) {
	enrollments := &mockEnrollmentRepo{courses: []models.EnrolledCourse{
		{CourseID: "c1", CourseName: "Algorithms"},
	}}
	svc := newStudentService(enrollments, &mockCourseCatalog{})

	report, err := svc.Grades(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Zero(t, report.GPA)
}

func TestStudentServiceExploreAnnotatesEnrollment(t *testing.T) {
	enrollments := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1"},
	}}
	catalog := &mockCourseCatalog{courses: map[string]*models.CourseDetail{
		"c1": courseDetail("c1", "Algorithms"),
		"c2": courseDetail("c2", "Databases"),
	}}
	svc := newStudentService(enrollments, catalog)

	courses, err := svc.Explore(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	byID := map[string]bool{}
	for _, c := range courses {
		byID[c.ID] = c.Enrolled
	}
	assert.True(t, byID["c1"])
	assert.False(t, byID["c2"])
}

func TestStudentServiceCourseViewRequiresEnrollment(t *testing.T) {
	catalog := &mockCourseCatalog{courses: map[string]*models.CourseDetail{"c1": courseDetail("c1", "Algorithms")}}
	svc := newStudentService(&mockEnrollmentRepo{}, catalog)

	_, err := svc.CourseView(context.Background(), "stu-1", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCourseView(t *testing.T) {
	marks := 90.0
	enrollments := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		pairKey("stu-1", "c1"): {ID: "e1", StudentID: "stu-1", CourseID: "c1", Marks: &marks},
	}}
	catalog := &mockCourseCatalog{
		courses: map[string]*models.CourseDetail{"c1": courseDetail("c1", "Algorithms")},
		instructors: []models.Instructor{
			{User: models.User{ID: "inst-1", Username: "prof", Role: models.RoleInstructor}},
		},
	}
	svc := newStudentService(enrollments, catalog)

	view, err := svc.CourseView(context.Background(), "stu-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", view.Course.Name)
	require.Len(t, view.Instructors, 1)
	assert.Equal(t, "prof", view.Instructors[0].Username)
	assert.Equal(t, 90.0, *view.Enrollment.Marks)
}
