package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduhub-labs/eduhub-api/internal/service"
	"github.com/eduhub-labs/eduhub-api/pkg/response"
)

// AnalyticsHandler wires the analyst read-only aggregate endpoints.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new handler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Dashboard godoc
// @Summary Analyst dashboard counts
// @Tags Analyst
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analyst/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Courses godoc
// @Summary Per-course enrollment counts and average marks
// @Tags Analyst
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analyst/courses [get]
func (h *AnalyticsHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// CourseAnalysis godoc
// @Summary Single-course summary and marks distribution
// @Tags Analyst
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analyst/courses/{id} [get]
func (h *AnalyticsHandler) CourseAnalysis(c *gin.Context) {
	analysis, err := h.service.CourseAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis)
}

// Instructors godoc
// @Summary Per-instructor aggregates
// @Tags Analyst
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analyst/instructors [get]
func (h *AnalyticsHandler) Instructors(c *gin.Context) {
	instructors, err := h.service.Instructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors)
}

// Students godoc
// @Summary Per-student averages with course breakdown
// @Tags Analyst
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analyst/students [get]
func (h *AnalyticsHandler) Students(c *gin.Context) {
	analysis, err := h.service.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis)
}

// Universities godoc
// @Summary University-level report
// @Tags Analyst
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analyst/universities [get]
func (h *AnalyticsHandler) Universities(c *gin.Context) {
	analysis, err := h.service.Universities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis)
}

// ExportCourses godoc
// @Summary Export the course performance table
// @Tags Analyst
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /analyst/courses/export [get]
func (h *AnalyticsHandler) ExportCourses(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportCourses(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("course-performance-%s.%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
