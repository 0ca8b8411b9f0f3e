package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	"github.com/eduhub-labs/eduhub-api/internal/service"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
	"github.com/eduhub-labs/eduhub-api/pkg/response"
)

// AdminHandler wires the admin management endpoints: accounts,
// universities, courses, enrollments and deregistration decisions.
type AdminHandler struct {
	users        *service.UserService
	universities *service.UniversityService
	courses      *service.CourseService
	enrollments  *service.EnrollmentService
	grades       *service.GradeService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(users *service.UserService, universities *service.UniversityService, courses *service.CourseService, enrollments *service.EnrollmentService, grades *service.GradeService) *AdminHandler {
	return &AdminHandler{users: users, universities: universities, courses: courses, enrollments: enrollments, grades: grades}
}

// Dashboard godoc
// @Summary Admin dashboard counts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.users.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// ListStudents godoc
// @Summary List students
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.users.ListStudents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// CreateStudent godoc
// @Summary Create a student account
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/students [post]
func (h *AdminHandler) CreateStudent(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	user, err := h.users.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// DeleteStudent godoc
// @Summary Delete a student
// @Tags Admin
// @Produce json
// @Param id path string true "Student ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id} [delete]
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.users.DeleteStudent(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListInstructors godoc
// @Summary List instructors
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/instructors [get]
func (h *AdminHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.users.ListInstructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors)
}

// CreateInstructor godoc
// @Summary Create an instructor account
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/instructors [post]
func (h *AdminHandler) CreateInstructor(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}

	user, err := h.users.CreateInstructor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// DeleteInstructor godoc
// @Summary Delete an instructor
// @Tags Admin
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/instructors/{id} [delete]
func (h *AdminHandler) DeleteInstructor(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.users.DeleteInstructor(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListUniversities godoc
// @Summary List universities
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/universities [get]
func (h *AdminHandler) ListUniversities(c *gin.Context) {
	universities, err := h.universities.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, universities)
}

// CreateUniversity godoc
// @Summary Create a university
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateUniversityRequest true "University payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/universities [post]
func (h *AdminHandler) CreateUniversity(c *gin.Context) {
	var req dto.CreateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid university payload"))
		return
	}

	university, err := h.universities.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, university)
}

// DeleteUniversity godoc
// @Summary Delete a university and its courses
// @Tags Admin
// @Produce json
// @Param id path string true "University ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/universities/{id} [delete]
func (h *AdminHandler) DeleteUniversity(c *gin.Context) {
	if err := h.universities.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCourses godoc
// @Summary List courses
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/courses [get]
func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/courses [post]
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// DeleteCourse godoc
// @Summary Delete a course and its content tree
// @Tags Admin
// @Produce json
// @Param id path string true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/courses/{id} [delete]
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignInstructor godoc
// @Summary Assign an instructor to a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.AssignInstructorRequest true "Assignment payload"
// @Success 204 "No Content"
// @Failure 409 {object} response.Envelope
// @Router /admin/courses/{id}/instructors [post]
func (h *AdminHandler) AssignInstructor(c *gin.Context) {
	var req dto.AssignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	if err := h.courses.AssignInstructor(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnassignInstructor godoc
// @Summary Remove an instructor from a course
// @Tags Admin
// @Produce json
// @Param id path string true "Course ID"
// @Param instructorId path string true "Instructor ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/courses/{id}/instructors/{instructorId} [delete]
func (h *AdminHandler) UnassignInstructor(c *gin.Context) {
	if err := h.courses.UnassignInstructor(c.Request.Context(), c.Param("id"), c.Param("instructorId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEnrollments godoc
// @Summary List enrollments
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/enrollments [get]
func (h *AdminHandler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.enrollments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments)
}

// CreateEnrollment godoc
// @Summary Enroll a student in a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/enrollments [post]
func (h *AdminHandler) CreateEnrollment(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// DeleteEnrollment godoc
// @Summary Delete an enrollment
// @Tags Admin
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /admin/enrollments/{id} [delete]
func (h *AdminHandler) DeleteEnrollment(c *gin.Context) {
	if err := h.enrollments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListDeregistrationRequests godoc
// @Summary List deregistration requests
// @Tags Admin
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /admin/deregistration-requests [get]
func (h *AdminHandler) ListDeregistrationRequests(c *gin.Context) {
	requests, err := h.grades.ListDeregistrations(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// DecideDeregistrationRequest godoc
// @Summary Approve or reject a deregistration request
// @Description Approval removes the enrollment in the same transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.DeregistrationDecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /admin/deregistration-requests/{id}/decide [put]
func (h *AdminHandler) DecideDeregistrationRequest(c *gin.Context) {
	var req dto.DeregistrationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	request, err := h.grades.DecideDeregistration(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request)
}
