package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhub-labs/eduhub-api/internal/service"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
	"github.com/eduhub-labs/eduhub-api/pkg/response"
)

// StudentHandler wires the student endpoints: dashboard, grades, catalog
// exploration and self-service enrollment.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dashboard, err := h.service.Dashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard)
}

// Grades godoc
// @Summary Grades and GPA
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/grades [get]
func (h *StudentHandler) Grades(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	report, err := h.service.Grades(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Explore godoc
// @Summary Explore the course catalog
// @Description All courses annotated with the caller's enrollment state
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses [get]
func (h *StudentHandler) Explore(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courses, err := h.service.Explore(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Student
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/courses/{id}/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll godoc
// @Summary Leave a course
// @Tags Student
// @Produce json
// @Param id path string true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /student/courses/{id}/enroll [delete]
func (h *StudentHandler) Unenroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Unenroll(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CourseView godoc
// @Summary Enrolled course page
// @Description Course, instructors, content tree and own enrollment
// @Tags Student
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /student/courses/{id} [get]
func (h *StudentHandler) CourseView(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	view, err := h.service.CourseView(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
