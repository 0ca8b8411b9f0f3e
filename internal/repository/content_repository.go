package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

// ContentRepository handles persistence of the course content hierarchy:
// modules, topics, subtopics, content items and assignments. Every insert
// computes the new sibling position as max(existing)+1 inside the statement
// itself, so positions are strictly increasing and gaps left by deletes are
// never reused.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func deleteRow(ctx context.Context, db *sqlx.DB, query, id string) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateModule inserts a module at the next sibling position.
func (r *ContentRepository) CreateModule(ctx context.Context, module *models.CourseModule) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	const query = `INSERT INTO course_modules (id, course_id, title, position)
        VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM course_modules WHERE course_id = $2))
        RETURNING position`
	if err := r.db.QueryRowxContext(ctx, query, module.ID, module.CourseID, module.Title).Scan(&module.Position); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// DeleteModule removes a module and its whole subtree via FK cascade.
func (r *ContentRepository) DeleteModule(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM course_modules WHERE id = $1`, id)
}

// FindModule returns a module by ID.
func (r *ContentRepository) FindModule(ctx context.Context, id string) (*models.CourseModule, error) {
	const query = `SELECT id, course_id, title, position FROM course_modules WHERE id = $1`
	var module models.CourseModule
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// CreateTopic inserts a topic at the next sibling position.
func (r *ContentRepository) CreateTopic(ctx context.Context, topic *models.ModuleTopic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	const query = `INSERT INTO module_topics (id, module_id, title, position)
        VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM module_topics WHERE module_id = $2))
        RETURNING position`
	if err := r.db.QueryRowxContext(ctx, query, topic.ID, topic.ModuleID, topic.Title).Scan(&topic.Position); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// DeleteTopic removes a topic and cascades to its subtopics.
func (r *ContentRepository) DeleteTopic(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM module_topics WHERE id = $1`, id)
}

// CreateSubtopic inserts a subtopic and, when firstContent is non-nil, the
// subtopic's first content item in the same transaction. A failure on either
// insert rolls back the whole operation so the subtopic never persists
// without its intended first content.
func (r *ContentRepository) CreateSubtopic(ctx context.Context, subtopic *models.TopicSubtopic, firstContent *models.SubtopicContent) error {
	if subtopic.ID == "" {
		subtopic.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create subtopic: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertSubtopic = `INSERT INTO topic_subtopics (id, topic_id, title, position)
        VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM topic_subtopics WHERE topic_id = $2))
        RETURNING position`
	if err = tx.QueryRowxContext(ctx, insertSubtopic, subtopic.ID, subtopic.TopicID, subtopic.Title).Scan(&subtopic.Position); err != nil {
		return fmt.Errorf("create subtopic: %w", err)
	}

	if firstContent != nil {
		if firstContent.ID == "" {
			firstContent.ID = uuid.NewString()
		}
		firstContent.SubtopicID = subtopic.ID
		firstContent.Position = 1
		const insertContent = `INSERT INTO subtopic_contents (id, subtopic_id, content_type, title, url, duration_minutes, file_format, position)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err = tx.ExecContext(ctx, insertContent,
			firstContent.ID, firstContent.SubtopicID, firstContent.ContentType, firstContent.Title,
			firstContent.URL, firstContent.DurationMinutes, firstContent.FileFormat, firstContent.Position); err != nil {
			return fmt.Errorf("create first content: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create subtopic: %w", err)
	}
	return nil
}

// DeleteSubtopic removes a subtopic and cascades to its contents.
func (r *ContentRepository) DeleteSubtopic(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM topic_subtopics WHERE id = $1`, id)
}

// CreateContent inserts a content item at the next sibling position.
func (r *ContentRepository) CreateContent(ctx context.Context, content *models.SubtopicContent) error {
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	const query = `INSERT INTO subtopic_contents (id, subtopic_id, content_type, title, url, duration_minutes, file_format, position)
        VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT COALESCE(MAX(position), 0) + 1 FROM subtopic_contents WHERE subtopic_id = $2))
        RETURNING position`
	if err := r.db.QueryRowxContext(ctx, query,
		content.ID, content.SubtopicID, content.ContentType, content.Title,
		content.URL, content.DurationMinutes, content.FileFormat).Scan(&content.Position); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// DeleteContent removes a single content item.
func (r *ContentRepository) DeleteContent(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM subtopic_contents WHERE id = $1`, id)
}

// CreateTopicAssignment inserts a homework item under a topic.
func (r *ContentRepository) CreateTopicAssignment(ctx context.Context, assignment *models.TopicAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	const query = `INSERT INTO topic_assignments (id, topic_id, title, description, due_date)
        VALUES (:id, :topic_id, :title, :description, :due_date)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create topic assignment: %w", err)
	}
	return nil
}

// DeleteTopicAssignment removes a topic homework item.
func (r *ContentRepository) DeleteTopicAssignment(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM topic_assignments WHERE id = $1`, id)
}

// CreateSubtopicAssignment inserts a homework item under a subtopic.
func (r *ContentRepository) CreateSubtopicAssignment(ctx context.Context, assignment *models.SubtopicAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	const query = `INSERT INTO subtopic_assignments (id, subtopic_id, title, description, due_date)
        VALUES (:id, :subtopic_id, :title, :description, :due_date)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create subtopic assignment: %w", err)
	}
	return nil
}

// DeleteSubtopicAssignment removes a subtopic homework item.
func (r *ContentRepository) DeleteSubtopicAssignment(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM subtopic_assignments WHERE id = $1`, id)
}

// CourseIDForModule resolves the owning course of a module.
func (r *ContentRepository) CourseIDForModule(ctx context.Context, moduleID string) (string, error) {
	var courseID string
	err := r.db.GetContext(ctx, &courseID, `SELECT course_id FROM course_modules WHERE id = $1`, moduleID)
	return courseID, err
}

// CourseIDForTopic resolves the owning course of a topic.
func (r *ContentRepository) CourseIDForTopic(ctx context.Context, topicID string) (string, error) {
	const query = `SELECT m.course_id FROM module_topics t
        JOIN course_modules m ON m.id = t.module_id
        WHERE t.id = $1`
	var courseID string
	err := r.db.GetContext(ctx, &courseID, query, topicID)
	return courseID, err
}

// CourseIDForSubtopic resolves the owning course of a subtopic.
func (r *ContentRepository) CourseIDForSubtopic(ctx context.Context, subtopicID string) (string, error) {
	const query = `SELECT m.course_id FROM topic_subtopics st
        JOIN module_topics t ON t.id = st.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE st.id = $1`
	var courseID string
	err := r.db.GetContext(ctx, &courseID, query, subtopicID)
	return courseID, err
}

// CourseIDForContent resolves the owning course of a content item.
func (r *ContentRepository) CourseIDForContent(ctx context.Context, contentID string) (string, error) {
	const query = `SELECT m.course_id FROM subtopic_contents c
        JOIN topic_subtopics st ON st.id = c.subtopic_id
        JOIN module_topics t ON t.id = st.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE c.id = $1`
	var courseID string
	err := r.db.GetContext(ctx, &courseID, query, contentID)
	return courseID, err
}

// CourseIDForTopicAssignment resolves the owning course of a topic assignment.
func (r *ContentRepository) CourseIDForTopicAssignment(ctx context.Context, assignmentID string) (string, error) {
	const query = `SELECT m.course_id FROM topic_assignments a
        JOIN module_topics t ON t.id = a.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE a.id = $1`
	var courseID string
	err := r.db.GetContext(ctx, &courseID, query, assignmentID)
	return courseID, err
}

// CourseIDForSubtopicAssignment resolves the owning course of a subtopic assignment.
func (r *ContentRepository) CourseIDForSubtopicAssignment(ctx context.Context, assignmentID string) (string, error) {
	const query = `SELECT m.course_id FROM subtopic_assignments a
        JOIN topic_subtopics st ON st.id = a.subtopic_id
        JOIN module_topics t ON t.id = st.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE a.id = $1`
	var courseID string
	err := r.db.GetContext(ctx, &courseID, query, assignmentID)
	return courseID, err
}

// ModuleTree loads the full ordered content hierarchy of a course.
func (r *ContentRepository) ModuleTree(ctx context.Context, courseID string) ([]models.ModuleNode, error) {
	var modules []models.CourseModule
	const moduleQuery = `SELECT id, course_id, title, position FROM course_modules
        WHERE course_id = $1 ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &modules, moduleQuery, courseID); err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}

	var topics []models.ModuleTopic
	const topicQuery = `SELECT t.id, t.module_id, t.title, t.position FROM module_topics t
        JOIN course_modules m ON m.id = t.module_id
        WHERE m.course_id = $1 ORDER BY t.position, t.id`
	if err := r.db.SelectContext(ctx, &topics, topicQuery, courseID); err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	var subtopics []models.TopicSubtopic
	const subtopicQuery = `SELECT st.id, st.topic_id, st.title, st.position FROM topic_subtopics st
        JOIN module_topics t ON t.id = st.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE m.course_id = $1 ORDER BY st.position, st.id`
	if err := r.db.SelectContext(ctx, &subtopics, subtopicQuery, courseID); err != nil {
		return nil, fmt.Errorf("load subtopics: %w", err)
	}

	var contents []models.SubtopicContent
	const contentQuery = `SELECT c.id, c.subtopic_id, c.content_type, c.title, c.url, c.duration_minutes, c.file_format, c.position
        FROM subtopic_contents c
        JOIN topic_subtopics st ON st.id = c.subtopic_id
        JOIN module_topics t ON t.id = st.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE m.course_id = $1 ORDER BY c.position, c.id`
	if err := r.db.SelectContext(ctx, &contents, contentQuery, courseID); err != nil {
		return nil, fmt.Errorf("load contents: %w", err)
	}

	var topicAssignments []models.TopicAssignment
	const topicAssignmentQuery = `SELECT a.id, a.topic_id, a.title, a.description, a.due_date
        FROM topic_assignments a
        JOIN module_topics t ON t.id = a.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE m.course_id = $1 ORDER BY a.due_date NULLS LAST, a.title`
	if err := r.db.SelectContext(ctx, &topicAssignments, topicAssignmentQuery, courseID); err != nil {
		return nil, fmt.Errorf("load topic assignments: %w", err)
	}

	var subtopicAssignments []models.SubtopicAssignment
	const subtopicAssignmentQuery = `SELECT a.id, a.subtopic_id, a.title, a.description, a.due_date
        FROM subtopic_assignments a
        JOIN topic_subtopics st ON st.id = a.subtopic_id
        JOIN module_topics t ON t.id = st.topic_id
        JOIN course_modules m ON m.id = t.module_id
        WHERE m.course_id = $1 ORDER BY a.due_date NULLS LAST, a.title`
	if err := r.db.SelectContext(ctx, &subtopicAssignments, subtopicAssignmentQuery, courseID); err != nil {
		return nil, fmt.Errorf("load subtopic assignments: %w", err)
	}

	// Assemble bottom-up so each level is complete before its parent copies it.
	subtopicNodes := make(map[string]*models.SubtopicNode, len(subtopics))
	for i := range subtopics {
		st := subtopics[i]
		subtopicNodes[st.ID] = &models.SubtopicNode{TopicSubtopic: st, Contents: []models.SubtopicContent{}, Assignments: []models.SubtopicAssignment{}}
	}
	for _, c := range contents {
		if node, ok := subtopicNodes[c.SubtopicID]; ok {
			node.Contents = append(node.Contents, c)
		}
	}
	for _, a := range subtopicAssignments {
		if node, ok := subtopicNodes[a.SubtopicID]; ok {
			node.Assignments = append(node.Assignments, a)
		}
	}

	topicNodes := make(map[string]*models.TopicNode, len(topics))
	for i := range topics {
		t := topics[i]
		topicNodes[t.ID] = &models.TopicNode{ModuleTopic: t, Subtopics: []models.SubtopicNode{}, Assignments: []models.TopicAssignment{}}
	}
	for _, st := range subtopics {
		if node, ok := topicNodes[st.TopicID]; ok {
			node.Subtopics = append(node.Subtopics, *subtopicNodes[st.ID])
		}
	}
	for _, a := range topicAssignments {
		if node, ok := topicNodes[a.TopicID]; ok {
			node.Assignments = append(node.Assignments, a)
		}
	}

	tree := make([]models.ModuleNode, 0, len(modules))
	for _, m := range modules {
		node := models.ModuleNode{CourseModule: m, Topics: []models.TopicNode{}}
		for _, t := range topics {
			if t.ModuleID == m.ID {
				node.Topics = append(node.Topics, *topicNodes[t.ID])
			}
		}
		tree = append(tree, node)
	}

	return tree, nil
}
