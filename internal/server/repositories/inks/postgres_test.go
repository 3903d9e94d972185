package inks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+inks\s*\(id,\s*user_id,\s*body,\s*type,\s*tags,\s*mood\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+created_at\s*$`
	listQ   = `(?s)^SELECT\s+id,\s*user_id,\s*body,\s*type,\s*tags,\s*mood,\s*created_at\s+FROM\s+inks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$2\s*$`
)

var inkColumns = []string{"id", "user_id", "body", "type", "tags", "mood", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_WithMood(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs("i-1", "u-1", "hello #go 🔥", "thought", "{#go}", "🔥").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	ink := &models.Ink{ID: "i-1", UserID: "u-1", Body: "hello #go 🔥", Type: content.TypeThought,
		Tags: []string{"#go"}, Mood: "🔥"}
	require.NoError(t, repo.Create(context.Background(), ink))
	assert.True(t, ink.CreatedAt.Equal(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_EmptyMoodIsNull(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs("i-1", "u-1", "plain", "thought", "{}", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	ink := &models.Ink{ID: "i-1", UserID: "u-1", Body: "plain", Type: content.TypeThought}
	require.NoError(t, repo.Create(context.Background(), ink))
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Ink{ID: "i-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	t1 := time.Now()
	t0 := t1.Add(-time.Hour)
	rows := sqlmock.NewRows(inkColumns).
		AddRow("i-2", "u-1", "did you know?", "fact", "{}", nil, t1).
		AddRow("i-1", "u-1", "#a #b 🙂", "thought", "{#a,#b}", "🙂", t0)
	mock.ExpectQuery(listQ).WithArgs("u-1", 20).WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "i-2", got[0].ID)
	assert.Equal(t, content.TypeFact, got[0].Type)
	assert.Equal(t, "", got[0].Mood)
	assert.Equal(t, []string{}, got[0].Tags)
	assert.Equal(t, []string{"#a", "#b"}, got[1].Tags)
	assert.Equal(t, "🙂", got[1].Mood)
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs("u-1", 5).WillReturnRows(sqlmock.NewRows(inkColumns))

	got, err := repo.ListByUser(context.Background(), "u-1", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByUser_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WillReturnError(errors.New("boom"))

	_, err := repo.ListByUser(context.Background(), "u-1", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: boom")
}

func TestListByUser_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(inkColumns).
		AddRow("i-1", "u-1", "x", "thought", "{}", nil, time.Now()).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(listQ).WillReturnRows(rows)

	_, err := repo.ListByUser(context.Background(), "u-1", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row broke")
}
