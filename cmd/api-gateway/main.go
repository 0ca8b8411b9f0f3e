package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/eduhub-labs/eduhub-api/api/swagger"
	"github.com/eduhub-labs/eduhub-api/internal/handler"
	"github.com/eduhub-labs/eduhub-api/internal/middleware"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	"github.com/eduhub-labs/eduhub-api/internal/repository"
	"github.com/eduhub-labs/eduhub-api/internal/service"
	"github.com/eduhub-labs/eduhub-api/pkg/cache"
	"github.com/eduhub-labs/eduhub-api/pkg/config"
	"github.com/eduhub-labs/eduhub-api/pkg/database"
	"github.com/eduhub-labs/eduhub-api/pkg/logger"
	corsmiddleware "github.com/eduhub-labs/eduhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduhub-labs/eduhub-api/pkg/middleware/requestid"
)

// @title EduHub API
// @version 1.0.0
// @description Role-based education platform API
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(db, cfg.Database.SchemaFile); err != nil {
			logr.Sugar().Fatalw("failed to apply schema", "error", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Analytics.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	deregistrationRepo := repository.NewDeregistrationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:      cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, authSvc, logr)
	universitySvc := service.NewUniversityService(universityRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, universityRepo, userRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, validate, logr)
	studentSvc := service.NewStudentService(enrollmentRepo, courseRepo, contentRepo, authSvc, logr)
	contentSvc := service.NewContentService(contentRepo, courseRepo, enrollmentRepo, validate, logr)
	gradeSvc := service.NewGradeService(enrollmentRepo, courseRepo, deregistrationRepo, validate, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheRepo, metricsSvc, cfg.Analytics, cfg.Exports, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	adminHandler := handler.NewAdminHandler(userSvc, universitySvc, courseSvc, enrollmentSvc, gradeSvc)
	instructorHandler := handler.NewInstructorHandler(contentSvc, gradeSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/profile", middleware.JWT(authSvc), authHandler.Profile)
		auth.PUT("/profile", middleware.JWT(authSvc), authHandler.UpdateProfile)
	}

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/students", adminHandler.ListStudents)
		admin.POST("/students", adminHandler.CreateStudent)
		admin.DELETE("/students/:id", adminHandler.DeleteStudent)
		admin.GET("/instructors", adminHandler.ListInstructors)
		admin.POST("/instructors", adminHandler.CreateInstructor)
		admin.DELETE("/instructors/:id", adminHandler.DeleteInstructor)
		admin.GET("/universities", adminHandler.ListUniversities)
		admin.POST("/universities", adminHandler.CreateUniversity)
		admin.DELETE("/universities/:id", adminHandler.DeleteUniversity)
		admin.GET("/courses", adminHandler.ListCourses)
		admin.POST("/courses", adminHandler.CreateCourse)
		admin.DELETE("/courses/:id", adminHandler.DeleteCourse)
		admin.POST("/courses/:id/instructors", adminHandler.AssignInstructor)
		admin.DELETE("/courses/:id/instructors/:instructorId", adminHandler.UnassignInstructor)
		admin.GET("/enrollments", adminHandler.ListEnrollments)
		admin.POST("/enrollments", adminHandler.CreateEnrollment)
		admin.DELETE("/enrollments/:id", adminHandler.DeleteEnrollment)
		admin.GET("/deregistration-requests", adminHandler.ListDeregistrationRequests)
		admin.PUT("/deregistration-requests/:id/decide", adminHandler.DecideDeregistrationRequest)
	}

	instructor := api.Group("/instructor", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleInstructor))
	{
		instructor.GET("/courses", instructorHandler.Courses)
		instructor.GET("/courses/:id", instructorHandler.CourseView)
		instructor.POST("/courses/:id/modules", instructorHandler.CreateModule)
		instructor.DELETE("/modules/:id", instructorHandler.DeleteModule)
		instructor.POST("/modules/:id/topics", instructorHandler.CreateTopic)
		instructor.DELETE("/topics/:id", instructorHandler.DeleteTopic)
		instructor.POST("/topics/:id/subtopics", instructorHandler.CreateSubtopic)
		instructor.DELETE("/subtopics/:id", instructorHandler.DeleteSubtopic)
		instructor.POST("/subtopics/:id/contents", instructorHandler.CreateContent)
		instructor.DELETE("/contents/:id", instructorHandler.DeleteContent)
		instructor.POST("/topics/:id/assignments", instructorHandler.CreateTopicAssignment)
		instructor.POST("/subtopics/:id/assignments", instructorHandler.CreateSubtopicAssignment)
		instructor.DELETE("/assignments/topic/:id", instructorHandler.DeleteTopicAssignment)
		instructor.DELETE("/assignments/subtopic/:id", instructorHandler.DeleteSubtopicAssignment)
		instructor.PUT("/courses/:id/students/:studentId/grade", instructorHandler.UpdateGrade)
		instructor.POST("/courses/:id/students/:studentId/deregistration-request", instructorHandler.RequestDeregistration)
	}

	student := api.Group("/student", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/dashboard", studentHandler.Dashboard)
		student.GET("/grades", studentHandler.Grades)
		student.GET("/courses", studentHandler.Explore)
		student.GET("/courses/:id", studentHandler.CourseView)
		student.POST("/courses/:id/enroll", studentHandler.Enroll)
		student.DELETE("/courses/:id/enroll", studentHandler.Unenroll)
	}

	analyst := api.Group("/analyst", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAnalyst))
	{
		analyst.GET("/dashboard", analyticsHandler.Dashboard)
		analyst.GET("/courses", analyticsHandler.Courses)
		analyst.GET("/courses/export", analyticsHandler.ExportCourses)
		analyst.GET("/courses/:id", analyticsHandler.CourseAnalysis)
		analyst.GET("/instructors", analyticsHandler.Instructors)
		analyst.GET("/students", analyticsHandler.Students)
		analyst.GET("/universities", analyticsHandler.Universities)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
