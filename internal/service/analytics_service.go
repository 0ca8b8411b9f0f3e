package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/models"
	"github.com/eduhub-labs/eduhub-api/pkg/config"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
	"github.com/eduhub-labs/eduhub-api/pkg/export"
)

type analyticsRepository interface {
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
	CoursePerformance(ctx context.Context) ([]models.CoursePerformance, error)
	CourseSummary(ctx context.Context, courseID string) (*models.CourseSummary, error)
	MarksDistribution(ctx context.Context, courseID string) ([]models.MarksBucket, error)
	InstructorPerformance(ctx context.Context) ([]models.InstructorPerformance, error)
	StudentPerformance(ctx context.Context) ([]models.StudentPerformance, error)
	StudentCourseMarks(ctx context.Context) ([]models.StudentCourseMark, error)
	UniversityPerformance(ctx context.Context) ([]models.UniversityPerformance, error)
	UniversityCourses(ctx context.Context) ([]models.UniversityCourse, error)
	CourseInstructors(ctx context.Context) ([]models.CourseInstructorName, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AnalyticsService serves the analyst read-only aggregate views. When the
// cache flag is on, list payloads are served from Redis with a TTL;
// otherwise every request recomputes from the database.
type AnalyticsService struct {
	repo    analyticsRepository
	cache   cacheStore
	metrics *MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	cfg     config.AnalyticsConfig
	exports config.ExportsConfig
	logger  *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(repo analyticsRepository, cache cacheStore, metrics *MetricsService, cfg config.AnalyticsConfig, exports config.ExportsConfig, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		cfg:     cfg,
		exports: exports,
		logger:  logger,
	}
}

// Dashboard returns the analyst entity counts.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.PlatformStats, error) {
	stats, err := s.repo.PlatformStats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load platform stats")
	}
	return stats, nil
}

// Courses returns the per-course aggregate list. Courses with zero
// enrollments appear with a zero count and null average.
func (s *AnalyticsService) Courses(ctx context.Context) ([]models.CoursePerformance, error) {
	var cached []models.CoursePerformance
	if s.readCache(ctx, "analytics:courses", &cached) {
		return cached, nil
	}

	courses, err := s.repo.CoursePerformance(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course performance")
	}
	s.writeCache(ctx, "analytics:courses", courses)
	return courses, nil
}

// CourseAnalysis returns the single-course summary plus the marks
// distribution over graded enrollments.
func (s *AnalyticsService) CourseAnalysis(ctx context.Context, courseID string) (*models.CourseAnalysis, error) {
	summary, err := s.repo.CourseSummary(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course summary")
	}

	distribution, err := s.repo.MarksDistribution(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks distribution")
	}

	return &models.CourseAnalysis{Summary: *summary, Distribution: distribution}, nil
}

// Instructors returns the per-instructor aggregates.
func (s *AnalyticsService) Instructors(ctx context.Context) ([]models.InstructorPerformance, error) {
	var cached []models.InstructorPerformance
	if s.readCache(ctx, "analytics:instructors", &cached) {
		return cached, nil
	}

	instructors, err := s.repo.InstructorPerformance(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor performance")
	}
	s.writeCache(ctx, "analytics:instructors", instructors)
	return instructors, nil
}

// Students returns the per-student averages and the per-course breakdown.
func (s *AnalyticsService) Students(ctx context.Context) (*models.StudentAnalysis, error) {
	var cached models.StudentAnalysis
	if s.readCache(ctx, "analytics:students", &cached) {
		return &cached, nil
	}

	students, err := s.repo.StudentPerformance(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student performance")
	}
	marks, err := s.repo.StudentCourseMarks(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course marks")
	}

	analysis := &models.StudentAnalysis{Students: students, CourseMarks: marks}
	s.writeCache(ctx, "analytics:students", analysis)
	return analysis, nil
}

// Universities returns the university-level report.
func (s *AnalyticsService) Universities(ctx context.Context) (*models.UniversityAnalysis, error) {
	var cached models.UniversityAnalysis
	if s.readCache(ctx, "analytics:universities", &cached) {
		return &cached, nil
	}

	universities, err := s.repo.UniversityPerformance(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load university performance")
	}
	courses, err := s.repo.UniversityCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load university courses")
	}
	instructors, err := s.repo.CourseInstructors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course instructors")
	}

	analysis := &models.UniversityAnalysis{Universities: universities, Courses: courses, Instructors: instructors}
	s.writeCache(ctx, "analytics:universities", analysis)
	return analysis, nil
}

// ExportCourses renders the course performance table as CSV or PDF bytes.
func (s *AnalyticsService) ExportCourses(ctx context.Context, format string) ([]byte, string, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, "", err
	}
	if s.exports.MaxRows > 0 && len(courses) > s.exports.MaxRows {
		courses = courses[:s.exports.MaxRows]
	}

	data := export.Dataset{
		Headers: []string{"course", "university", "enrollments", "avg_marks"},
		Rows:    make([]map[string]string, 0, len(courses)),
	}
	for _, c := range courses {
		avg := ""
		if c.AvgMarks != nil {
			avg = strconv.FormatFloat(*c.AvgMarks, 'f', 2, 64)
		}
		data.Rows = append(data.Rows, map[string]string{
			"course":      c.CourseName,
			"university":  c.UniversityName,
			"enrollments": strconv.Itoa(c.Enrollments),
			"avg_marks":   avg,
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(data, "Course Performance")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *AnalyticsService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return false
	}
	start := time.Now()
	err := s.cache.Get(ctx, key, dest)
	hit := err == nil
	s.metrics.RecordCacheOperation(hit, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return hit
}

func (s *AnalyticsService) writeCache(ctx context.Context, key string, value interface{}) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return
	}
	start := time.Now()
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.metrics.ObserveCacheWrite(time.Since(start))
}
