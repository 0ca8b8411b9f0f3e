package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

func TestContentRepositoryCreateModuleAssignsNextPosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO course_modules")).
		WithArgs(sqlmock.AnyArg(), "course-1", "Basics").
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(3))

	module := &models.CourseModule{CourseID: "course-1", Title: "Basics"}
	require.NoError(t, repo.CreateModule(context.Background(), module))
	require.Equal(t, 3, module.Position)
	require.NotEmpty(t, module.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryCreateSubtopicWithFirstContent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO topic_subtopics")).
		WithArgs(sqlmock.AnyArg(), "topic-1", "Pointers").
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subtopic_contents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	subtopic := &models.TopicSubtopic{TopicID: "topic-1", Title: "Pointers"}
	duration := 15
	content := &models.SubtopicContent{ContentType: models.ContentTypeVideo, Title: "Intro", URL: "https://example.com/v", DurationMinutes: &duration}
	require.NoError(t, repo.CreateSubtopic(context.Background(), subtopic, content))
	require.Equal(t, 1, subtopic.Position)
	require.Equal(t, subtopic.ID, content.SubtopicID)
	require.Equal(t, 1, content.Position)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryCreateSubtopicRollsBackOnContentFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO topic_subtopics")).
		WithArgs(sqlmock.AnyArg(), "topic-1", "Pointers").
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subtopic_contents")).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	subtopic := &models.TopicSubtopic{TopicID: "topic-1", Title: "Pointers"}
	content := &models.SubtopicContent{ContentType: models.ContentTypeBook, Title: "Book", URL: "https://example.com/b"}
	err := repo.CreateSubtopic(context.Background(), subtopic, content)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryDeleteModuleMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_modules WHERE id = $1")).
		WithArgs("module-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteModule(context.Background(), "module-404")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryModuleTreeOrdersSiblings(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, title, position FROM course_modules")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "position"}).
			AddRow("m1", "course-1", "Basics", 1).
			AddRow("m2", "course-1", "Advanced", 3))
	mock.ExpectQuery("SELECT t.id, t.module_id").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "title", "position"}).
			AddRow("t1", "m1", "Syntax", 1))
	mock.ExpectQuery("SELECT st.id, st.topic_id").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "title", "position"}).
			AddRow("st1", "t1", "Variables", 1))
	mock.ExpectQuery("SELECT c.id, c.subtopic_id").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "subtopic_id", "content_type", "title", "url", "duration_minutes", "file_format", "position"}).
			AddRow("c1", "st1", "video", "Intro", "https://example.com/v", 10, nil, 1))
	mock.ExpectQuery("SELECT a.id, a.topic_id").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "title", "description", "due_date"}))
	mock.ExpectQuery("SELECT a.id, a.subtopic_id").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "subtopic_id", "title", "description", "due_date"}))

	tree, err := repo.ModuleTree(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, "Basics", tree[0].Title)
	require.Len(t, tree[0].Topics, 1)
	require.Len(t, tree[0].Topics[0].Subtopics, 1)
	require.Len(t, tree[0].Topics[0].Subtopics[0].Contents, 1)
	require.Empty(t, tree[1].Topics)
	require.NoError(t, mock.ExpectationsWereMet())
}
