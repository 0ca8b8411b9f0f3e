package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub-labs/eduhub-api/internal/dto"
	"github.com/eduhub-labs/eduhub-api/internal/models"
	appErrors "github.com/eduhub-labs/eduhub-api/pkg/errors"
)

type contentRepository interface {
	CreateModule(ctx context.Context, module *models.CourseModule) error
	DeleteModule(ctx context.Context, id string) error
	CreateTopic(ctx context.Context, topic *models.ModuleTopic) error
	DeleteTopic(ctx context.Context, id string) error
	CreateSubtopic(ctx context.Context, subtopic *models.TopicSubtopic, firstContent *models.SubtopicContent) error
	DeleteSubtopic(ctx context.Context, id string) error
	CreateContent(ctx context.Context, content *models.SubtopicContent) error
	DeleteContent(ctx context.Context, id string) error
	CreateTopicAssignment(ctx context.Context, assignment *models.TopicAssignment) error
	DeleteTopicAssignment(ctx context.Context, id string) error
	CreateSubtopicAssignment(ctx context.Context, assignment *models.SubtopicAssignment) error
	DeleteSubtopicAssignment(ctx context.Context, id string) error
	CourseIDForModule(ctx context.Context, moduleID string) (string, error)
	CourseIDForTopic(ctx context.Context, topicID string) (string, error)
	CourseIDForSubtopic(ctx context.Context, subtopicID string) (string, error)
	CourseIDForContent(ctx context.Context, contentID string) (string, error)
	CourseIDForTopicAssignment(ctx context.Context, assignmentID string) (string, error)
	CourseIDForSubtopicAssignment(ctx context.Context, assignmentID string) (string, error)
	ModuleTree(ctx context.Context, courseID string) ([]models.ModuleNode, error)
}

type instructorCourseRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.CourseDetail, error)
	IsInstructorAssigned(ctx context.Context, courseID, instructorID string) (bool, error)
}

type rosterRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error)
}

// ContentService covers the instructor-facing course content management.
// Every operation on the tree resolves the owning course and verifies the
// acting instructor is assigned to it.
type ContentService struct {
	content     contentRepository
	courses     instructorCourseRepository
	enrollments rosterRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewContentService constructs a ContentService instance.
func NewContentService(content contentRepository, courses instructorCourseRepository, enrollments rosterRepository, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContentService{content: content, courses: courses, enrollments: enrollments, validator: validate, logger: logger}
}

// Courses lists the instructor's assigned courses.
func (s *ContentService) Courses(ctx context.Context, instructorID string) ([]models.CourseDetail, error) {
	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// CourseView returns the instructor's working view of an assigned course.
func (s *ContentService) CourseView(ctx context.Context, instructorID, courseID string) (*dto.InstructorCourseView, error) {
	if err := s.requireAssignment(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	course, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	modules, err := s.content.ModuleTree(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content tree")
	}

	roster, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	return &dto.InstructorCourseView{Course: *course, Modules: modules, Roster: roster}, nil
}

// CreateModule adds a module to an assigned course.
func (s *ContentService) CreateModule(ctx context.Context, instructorID, courseID string, req dto.CreateModuleRequest) (*models.CourseModule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	if err := s.requireAssignment(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	module := &models.CourseModule{CourseID: courseID, Title: req.Title}
	if err := s.content.CreateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}

// DeleteModule removes a module and its subtree.
func (s *ContentService) DeleteModule(ctx context.Context, instructorID, moduleID string) error {
	if err := s.requireOwnership(ctx, instructorID, moduleID, s.content.CourseIDForModule, "module"); err != nil {
		return err
	}
	return s.deleteNode(ctx, moduleID, s.content.DeleteModule, "module")
}

// CreateTopic adds a topic to a module in an assigned course.
func (s *ContentService) CreateTopic(ctx context.Context, instructorID, moduleID string, req dto.CreateTopicRequest) (*models.ModuleTopic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}
	if err := s.requireOwnership(ctx, instructorID, moduleID, s.content.CourseIDForModule, "module"); err != nil {
		return nil, err
	}

	topic := &models.ModuleTopic{ModuleID: moduleID, Title: req.Title}
	if err := s.content.CreateTopic(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create topic")
	}
	return topic, nil
}

// DeleteTopic removes a topic and its subtree.
func (s *ContentService) DeleteTopic(ctx context.Context, instructorID, topicID string) error {
	if err := s.requireOwnership(ctx, instructorID, topicID, s.content.CourseIDForTopic, "topic"); err != nil {
		return err
	}
	return s.deleteNode(ctx, topicID, s.content.DeleteTopic, "topic")
}

// CreateSubtopic adds a subtopic, optionally with its first content item.
// The two inserts share one transaction: an invalid or failing content
// payload means neither row persists.
func (s *ContentService) CreateSubtopic(ctx context.Context, instructorID, topicID string, req dto.CreateSubtopicRequest) (*models.TopicSubtopic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subtopic payload")
	}
	if err := s.requireOwnership(ctx, instructorID, topicID, s.content.CourseIDForTopic, "topic"); err != nil {
		return nil, err
	}

	var firstContent *models.SubtopicContent
	if req.Content != nil {
		content, err := s.buildContent(*req.Content)
		if err != nil {
			return nil, err
		}
		firstContent = content
	}

	subtopic := &models.TopicSubtopic{TopicID: topicID, Title: req.Title}
	if err := s.content.CreateSubtopic(ctx, subtopic, firstContent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subtopic")
	}
	return subtopic, nil
}

// DeleteSubtopic removes a subtopic and its contents.
func (s *ContentService) DeleteSubtopic(ctx context.Context, instructorID, subtopicID string) error {
	if err := s.requireOwnership(ctx, instructorID, subtopicID, s.content.CourseIDForSubtopic, "subtopic"); err != nil {
		return err
	}
	return s.deleteNode(ctx, subtopicID, s.content.DeleteSubtopic, "subtopic")
}

// CreateContent adds a content item to a subtopic.
func (s *ContentService) CreateContent(ctx context.Context, instructorID, subtopicID string, req dto.CreateContentRequest) (*models.SubtopicContent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid content payload")
	}
	if err := s.requireOwnership(ctx, instructorID, subtopicID, s.content.CourseIDForSubtopic, "subtopic"); err != nil {
		return nil, err
	}

	content, err := s.buildContent(req)
	if err != nil {
		return nil, err
	}
	content.SubtopicID = subtopicID

	if err := s.content.CreateContent(ctx, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create content")
	}
	return content, nil
}

// DeleteContent removes a content item.
func (s *ContentService) DeleteContent(ctx context.Context, instructorID, contentID string) error {
	if err := s.requireOwnership(ctx, instructorID, contentID, s.content.CourseIDForContent, "content"); err != nil {
		return err
	}
	return s.deleteNode(ctx, contentID, s.content.DeleteContent, "content")
}

// CreateTopicAssignment adds a homework item to a topic.
func (s *ContentService) CreateTopicAssignment(ctx context.Context, instructorID, topicID string, req dto.CreateAssignmentRequest) (*models.TopicAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.requireOwnership(ctx, instructorID, topicID, s.content.CourseIDForTopic, "topic"); err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	assignment := &models.TopicAssignment{TopicID: topicID, Title: req.Title, Description: req.Description, DueDate: dueDate}
	if err := s.content.CreateTopicAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// DeleteTopicAssignment removes a topic homework item.
func (s *ContentService) DeleteTopicAssignment(ctx context.Context, instructorID, assignmentID string) error {
	if err := s.requireOwnership(ctx, instructorID, assignmentID, s.content.CourseIDForTopicAssignment, "assignment"); err != nil {
		return err
	}
	return s.deleteNode(ctx, assignmentID, s.content.DeleteTopicAssignment, "assignment")
}

// CreateSubtopicAssignment adds a homework item to a subtopic.
func (s *ContentService) CreateSubtopicAssignment(ctx context.Context, instructorID, subtopicID string, req dto.CreateAssignmentRequest) (*models.SubtopicAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.requireOwnership(ctx, instructorID, subtopicID, s.content.CourseIDForSubtopic, "subtopic"); err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	assignment := &models.SubtopicAssignment{SubtopicID: subtopicID, Title: req.Title, Description: req.Description, DueDate: dueDate}
	if err := s.content.CreateSubtopicAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// DeleteSubtopicAssignment removes a subtopic homework item.
func (s *ContentService) DeleteSubtopicAssignment(ctx context.Context, instructorID, assignmentID string) error {
	if err := s.requireOwnership(ctx, instructorID, assignmentID, s.content.CourseIDForSubtopicAssignment, "assignment"); err != nil {
		return err
	}
	return s.deleteNode(ctx, assignmentID, s.content.DeleteSubtopicAssignment, "assignment")
}

// buildContent validates the type-specific rules and shapes the row. Videos
// need a positive duration, notes default their file format to PDF, books
// carry title and url only.
func (s *ContentService) buildContent(req dto.CreateContentRequest) (*models.SubtopicContent, error) {
	contentType := models.ContentType(req.ContentType)
	if !contentType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown content type %q", req.ContentType))
	}

	content := &models.SubtopicContent{
		ContentType: contentType,
		Title:       req.Title,
		URL:         req.URL,
	}

	switch contentType {
	case models.ContentTypeVideo:
		if req.DurationMinutes == nil || *req.DurationMinutes <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "video requires a positive duration_minutes")
		}
		content.DurationMinutes = req.DurationMinutes
	case models.ContentTypeNotes:
		format := "PDF"
		if req.FileFormat != nil && *req.FileFormat != "" {
			format = *req.FileFormat
		}
		content.FileFormat = &format
	}

	return content, nil
}

func (s *ContentService) requireAssignment(ctx context.Context, instructorID, courseID string) error {
	assigned, err := s.courses.IsInstructorAssigned(ctx, courseID, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course assignment")
	}
	if !assigned {
		return appErrors.Clone(appErrors.ErrForbidden, "not assigned to course")
	}
	return nil
}

func (s *ContentService) requireOwnership(ctx context.Context, instructorID, nodeID string, resolve func(context.Context, string) (string, error), kind string) error {
	courseID, err := resolve(ctx, nodeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, kind+" not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve owning course")
	}
	return s.requireAssignment(ctx, instructorID, courseID)
}

func (s *ContentService) deleteNode(ctx context.Context, id string, del func(context.Context, string) error, kind string) error {
	if err := del(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, kind+" not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete "+kind)
	}
	return nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	dueDate, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "due_date must be YYYY-MM-DD")
	}
	return &dueDate, nil
}
