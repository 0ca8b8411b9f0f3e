package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/service"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
	"github.com/eduhub-labs/eduhub-api/pkg/response"
)

// InstructorHandler wires the instructor endpoints: assigned courses, the
// content tree, grading and deregistration requests.
type InstructorHandler struct {
	content *service.ContentService
	grades  *service.GradeService
}

// NewInstructorHandler creates a new handler.
func NewInstructorHandler(content *service.ContentService, grades *service.GradeService) *InstructorHandler {
	return &InstructorHandler{content: content, grades: grades}
}

// Courses godoc
// @Summary List assigned courses
// @Tags Instructor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructor/courses [get]
func (h *InstructorHandler) Courses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courses, err := h.content.Courses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// CourseView godoc
// @Summary Course with content tree and roster
// @Tags Instructor
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /instructor/courses/{id} [get]
func (h *InstructorHandler) CourseView(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	view, err := h.content.CourseView(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// CreateModule godoc
// @Summary Add a module to a course
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CreateModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /instructor/courses/{id}/modules [post]
func (h *InstructorHandler) CreateModule(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid module payload"))
		return
	}
	module, err := h.content.CreateModule(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// DeleteModule godoc
// @Summary Delete a module and its subtree
// @Tags Instructor
// @Produce json
// @Param id path string true "Module ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /instructor/modules/{id} [delete]
func (h *InstructorHandler) DeleteModule(c *gin.Context) {
	h.deleteNode(c, h.content.DeleteModule)
}

// CreateTopic godoc
// @Summary Add a topic to a module
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body dto.CreateTopicRequest true "Topic payload"
// @Success 201 {object} response.Envelope
// @Router /instructor/modules/{id}/topics [post]
func (h *InstructorHandler) CreateTopic(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid topic payload"))
		return
	}
	topic, err := h.content.CreateTopic(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

// DeleteTopic godoc
// @Summary Delete a topic and its subtree
// @Tags Instructor
// @Produce json
// @Param id path string true "Topic ID"
// @Success 204 "No Content"
// @Router /instructor/topics/{id} [delete]
func (h *InstructorHandler) DeleteTopic(c *gin.Context) {
	h.deleteNode(c, h.content.DeleteTopic)
}

// CreateSubtopic godoc
// @Summary Add a subtopic, optionally with its first content item
// @Description The subtopic and the optional content insert share one transaction
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param payload body dto.CreateSubtopicRequest true "Subtopic payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /instructor/topics/{id}/subtopics [post]
func (h *InstructorHandler) CreateSubtopic(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateSubtopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subtopic payload"))
		return
	}
	subtopic, err := h.content.CreateSubtopic(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subtopic)
}

// DeleteSubtopic godoc
// @Summary Delete a subtopic and its contents
// @Tags Instructor
// @Produce json
// @Param id path string true "Subtopic ID"
// @Success 204 "No Content"
// @Router /instructor/subtopics/{id} [delete]
func (h *InstructorHandler) DeleteSubtopic(c *gin.Context) {
	h.deleteNode(c, h.content.DeleteSubtopic)
}

// CreateContent godoc
// @Summary Add a content item to a subtopic
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Subtopic ID"
// @Param payload body dto.CreateContentRequest true "Content payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /instructor/subtopics/{id}/contents [post]
func (h *InstructorHandler) CreateContent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid content payload"))
		return
	}
	content, err := h.content.CreateContent(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, content)
}

// DeleteContent godoc
// @Summary Delete a content item
// @Tags Instructor
// @Produce json
// @Param id path string true "Content ID"
// @Success 204 "No Content"
// @Router /instructor/contents/{id} [delete]
func (h *InstructorHandler) DeleteContent(c *gin.Context) {
	h.deleteNode(c, h.content.DeleteContent)
}

// CreateTopicAssignment godoc
// @Summary Add a homework item to a topic
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /instructor/topics/{id}/assignments [post]
func (h *InstructorHandler) CreateTopicAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.content.CreateTopicAssignment(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// CreateSubtopicAssignment godoc
// @Summary Add a homework item to a subtopic
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Subtopic ID"
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /instructor/subtopics/{id}/assignments [post]
func (h *InstructorHandler) CreateSubtopicAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.content.CreateSubtopicAssignment(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// DeleteTopicAssignment godoc
// @Summary Delete a topic homework item
// @Tags Instructor
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 "No Content"
// @Router /instructor/assignments/topic/{id} [delete]
func (h *InstructorHandler) DeleteTopicAssignment(c *gin.Context) {
	h.deleteNode(c, h.content.DeleteTopicAssignment)
}

// DeleteSubtopicAssignment godoc
// @Summary Delete a subtopic homework item
// @Tags Instructor
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 "No Content"
// @Router /instructor/assignments/subtopic/{id} [delete]
func (h *InstructorHandler) DeleteSubtopicAssignment(c *gin.Context) {
	h.deleteNode(c, h.content.DeleteSubtopicAssignment)
}

// UpdateGrade godoc
// @Summary Set or clear a student's grade
// @Description A missing field clears the stored value
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Param payload body dto.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor/courses/{id}/students/{studentId}/grade [put]
func (h *InstructorHandler) UpdateGrade(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	enrollment, err := h.grades.UpdateGrade(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment)
}

// RequestDeregistration godoc
// @Summary Request removal of a student from a course
// @Description Repeat requests update the pending row in place
// @Tags Instructor
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Param payload body dto.DeregistrationRequestPayload true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor/courses/{id}/students/{studentId}/deregistration-request [post]
func (h *InstructorHandler) RequestDeregistration(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.DeregistrationRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid deregistration payload"))
		return
	}
	request, err := h.grades.RequestDeregistration(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

func (h *InstructorHandler) deleteNode(c *gin.Context, del func(ctx context.Context, instructorID, id string) error) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := del(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
