package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/document-manager/internal/testhelpers"
)

func tagRows(id, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
		AddRow(id, name, "operator", time.Now())
}

func TestTagRepositoryFindByName(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewTagRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_by, created_at")).
		WithArgs("safety").
		WillReturnRows(tagRows("t1", "safety"))

	tag, err := repo.FindByName(context.Background(), "safety")
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "t1", tag.ID)
	assert.Equal(t, "safety", tag.Name)
}

func TestTagRepositoryFindByNameNotFound(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewTagRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_by, created_at")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	tag, err := repo.FindByName(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestTagRepositoryCreate(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewTagRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tags")).
		WithArgs(sqlmock.AnyArg(), "draft", "operator", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-new"))

	tag, err := repo.Create(context.Background(), "draft", "operator")
	require.NoError(t, err)
	assert.Equal(t, "t-new", tag.ID)
	assert.Equal(t, "draft", tag.Name)
	assert.Equal(t, "operator", tag.CreatedBy)
}

// A concurrent batch creating the same name first makes the insert a no-op;
// the existing row is looked up and returned.
func TestTagRepositoryCreateConflictFallsBackToLookup(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewTagRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tags")).
		WithArgs(sqlmock.AnyArg(), "draft", "operator", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_by, created_at")).
		WithArgs("draft").
		WillReturnRows(tagRows("t-existing", "draft"))

	tag, err := repo.Create(context.Background(), "draft", "operator")
	require.NoError(t, err)
	assert.Equal(t, "t-existing", tag.ID)
}

func TestTagRepositoryList(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewTagRepository(db, testhelpers.NewTestLogger())

	rows := sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
		AddRow("t1", "manuals", "operator", time.Now()).
		AddRow("t2", "safety", "operator", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_by, created_at")).
		WillReturnRows(rows)

	tags, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "manuals", tags[0].Name)
	assert.Equal(t, "safety", tags[1].Name)
}

func TestClassificationRepositoryCreateConflict(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewClassificationRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classifications")).
		WithArgs(sqlmock.AnyArg(), "public", "operator", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_by, created_at")).
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
			AddRow("c-existing", "public", "someone", time.Now()))

	c, err := repo.Create(context.Background(), "public", "operator")
	require.NoError(t, err)
	assert.Equal(t, "c-existing", c.ID)
}
