package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/models"
	"github.com/eduhub-labs/eduhub-api/pkg/config"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	coursesCalls int
	courses      []models.CoursePerformance
	summary      *models.CourseSummary
	distribution []models.MarksBucket
}

func (m *mockAnalyticsRepo) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	return &models.PlatformStats{Students: 5}, nil
}

func (m *mockAnalyticsRepo) CoursePerformance(ctx context.Context) ([]models.CoursePerformance, error) {
	m.coursesCalls++
	return m.courses, nil
}

func (m *mockAnalyticsRepo) CourseSummary(ctx context.Context, courseID string) (*models.CourseSummary, error) {
	if m.summary == nil {
		return nil, sql.ErrNoRows
	}
	return m.summary, nil
}

func (m *mockAnalyticsRepo) MarksDistribution(ctx context.Context, courseID string) ([]models.MarksBucket, error) {
	return m.distribution, nil
}

func (m *mockAnalyticsRepo) InstructorPerformance(ctx context.Context) ([]models.InstructorPerformance, error) {
	return []models.InstructorPerformance{}, nil
}

func (m *mockAnalyticsRepo) StudentPerformance(ctx context.Context) ([]models.StudentPerformance, error) {
	return []models.StudentPerformance{}, nil
}

func (m *mockAnalyticsRepo) StudentCourseMarks(ctx context.Context) ([]models.StudentCourseMark, error) {
	return []models.StudentCourseMark{}, nil
}

func (m *mockAnalyticsRepo) UniversityPerformance(ctx context.Context) ([]models.UniversityPerformance, error) {
	return []models.UniversityPerformance{}, nil
}

func (m *mockAnalyticsRepo) UniversityCourses(ctx context.Context) ([]models.UniversityCourse, error) {
	return []models.UniversityCourse{}, nil
}

func (m *mockAnalyticsRepo) CourseInstructors(ctx context.Context) ([]models.CourseInstructorName, error) {
	return []models.CourseInstructorName{}, nil
}

type mockCacheStore struct {
	entries map[string][]byte
	sets    int
}

func (m *mockCacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func performanceRows() []models.CoursePerformance {
	avg := 78.25
	return []models.CoursePerformance{
		{CourseID: "c1", CourseName: "Algorithms", UniversityName: "MIT", Enrollments: 42, AvgMarks: &avg},
		{CourseID: "c2", CourseName: "New Elective", UniversityName: "MIT", Enrollments: 0},
	}
}

func newAnalyticsService(repo *mockAnalyticsRepo, cache *mockCacheStore, cfg config.AnalyticsConfig) *AnalyticsService {
	return NewAnalyticsService(repo, cache, NewMetricsService(), cfg, config.ExportsConfig{MaxRows: 100}, zap.NewNop())
}

func TestAnalyticsServiceCoursesCacheDisabled(t *testing.T) {
	repo := &mockAnalyticsRepo{courses: performanceRows()}
	cache := &mockCacheStore{}
	svc := newAnalyticsService(repo, cache, config.AnalyticsConfig{CacheEnabled: false})

	_, err := svc.Courses(context.Background())
	require.NoError(t, err)
	_, err = svc.Courses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.coursesCalls)
	assert.Zero(t, cache.sets)
}

func TestAnalyticsServiceCoursesCacheEnabled(t *testing.T) {
	repo := &mockAnalyticsRepo{courses: performanceRows()}
	cache := &mockCacheStore{}
	svc := newAnalyticsService(repo, cache, config.AnalyticsConfig{CacheEnabled: true, CacheTTL: time.Minute})

	first, err := svc.Courses(context.Background())
	require.NoError(t, err)
	second, err := svc.Courses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.coursesCalls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
}

func TestAnalyticsServiceCourseAnalysisUnknownCourse(t *testing.T) {
	svc := newAnalyticsService(&mockAnalyticsRepo{}, &mockCacheStore{}, config.AnalyticsConfig{})

	_, err := svc.CourseAnalysis(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAnalyticsServiceExportCoursesCSV(t *testing.T) {
	repo := &mockAnalyticsRepo{courses: performanceRows()}
	svc := newAnalyticsService(repo, &mockCacheStore{}, config.AnalyticsConfig{})

	payload, contentType, err := svc.ExportCourses(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "course,university,enrollments,avg_marks"))
	assert.Contains(t, body, "Algorithms,MIT,42,78.25")
	assert.Contains(t, body, "New Elective,MIT,0,")
}

func TestAnalyticsServiceExportCoursesPDF(t *testing.T) {
	repo := &mockAnalyticsRepo{courses: performanceRows()}
	svc := newAnalyticsService(repo, &mockCacheStore{}, config.AnalyticsConfig{})

	payload, contentType, err := svc.ExportCourses(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestAnalyticsServiceExportCoursesUnknownFormat(t *testing.T) {
	svc := newAnalyticsService(&mockAnalyticsRepo{}, &mockCacheStore{}, config.AnalyticsConfig{})

	_, _, err := svc.ExportCourses(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
