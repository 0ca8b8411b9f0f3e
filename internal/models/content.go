package models

import "time"

// ContentType enumerates the kinds of subtopic content items.
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeNotes ContentType = "notes"
	ContentTypeBook  ContentType = "book"
)

// Valid reports whether the content type is a known value.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeVideo, ContentTypeNotes, ContentTypeBook:
		return true
	}
	return false
}

// CourseModule is the top level of the course content tree. Position is
// assigned as max(sibling positions)+1 at insert time; gaps left by deletes
// are expected and never reused.
type CourseModule struct {
	ID       string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	Title    string `db:"title" json:"title"`
	Position int    `db:"position" json:"position"`
}

// ModuleTopic is the second level of the content tree.
type ModuleTopic struct {
	ID       string `db:"id" json:"id"`
	ModuleID string `db:"module_id" json:"module_id"`
	Title    string `db:"title" json:"title"`
	Position int    `db:"position" json:"position"`
}

// TopicSubtopic is the third level of the content tree.
type TopicSubtopic struct {
	ID       string `db:"id" json:"id"`
	TopicID  string `db:"topic_id" json:"topic_id"`
	Title    string `db:"title" json:"title"`
	Position int    `db:"position" json:"position"`
}

// SubtopicContent is a leaf of the content tree: a video, notes document,
// or online book. DurationMinutes is set for videos, FileFormat for notes.
type SubtopicContent struct {
	ID              string      `db:"id" json:"id"`
	SubtopicID      string      `db:"subtopic_id" json:"subtopic_id"`
	ContentType     ContentType `db:"content_type" json:"content_type"`
	Title           string      `db:"title" json:"title"`
	URL             string      `db:"url" json:"url"`
	DurationMinutes *int        `db:"duration_minutes" json:"duration_minutes,omitempty"`
	FileFormat      *string     `db:"file_format" json:"file_format,omitempty"`
	Position        int         `db:"position" json:"position"`
}

// TopicAssignment is a homework item attached to a topic.
type TopicAssignment struct {
	ID          string     `db:"id" json:"id"`
	TopicID     string     `db:"topic_id" json:"topic_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
}

// SubtopicAssignment is a homework item attached to a subtopic.
type SubtopicAssignment struct {
	ID          string     `db:"id" json:"id"`
	SubtopicID  string     `db:"subtopic_id" json:"subtopic_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
}

// SubtopicNode is a subtopic with its contents and assignments.
type SubtopicNode struct {
	TopicSubtopic
	Contents    []SubtopicContent    `json:"contents"`
	Assignments []SubtopicAssignment `json:"assignments"`
}

// TopicNode is a topic with its subtopics and assignments.
type TopicNode struct {
	ModuleTopic
	Subtopics   []SubtopicNode    `json:"subtopics"`
	Assignments []TopicAssignment `json:"assignments"`
}

// ModuleNode is a module with its topics.
type ModuleNode struct {
	CourseModule
	Topics []TopicNode `json:"topics"`
}
