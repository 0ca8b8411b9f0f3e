package dto

// CreateModuleRequest adds a module to a course.
type CreateModuleRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// CreateTopicRequest adds a topic to a module.
type CreateTopicRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// CreateContentRequest adds a content item to a subtopic. Videos need a
// positive duration, notes default their file format to PDF, books carry
// title and url only.
type CreateContentRequest struct {
	ContentType     string  `json:"content_type" validate:"required"`
	Title           string  `json:"title" validate:"required,max=200"`
	URL             string  `json:"url" validate:"required"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	FileFormat      *string `json:"file_format,omitempty"`
}

// CreateSubtopicRequest adds a subtopic, optionally with its first content
// item in the same transaction.
type CreateSubtopicRequest struct {
	Title   string                `json:"title" validate:"required,max=200"`
	Content *CreateContentRequest `json:"content,omitempty"`
}

// CreateAssignmentRequest adds a homework item to a topic or subtopic.
type CreateAssignmentRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}
