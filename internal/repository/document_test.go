package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/document-manager/internal/models"
	"github.com/jonesrussell/document-manager/internal/testhelpers"
)

func testDocument() *models.Document {
	return &models.Document{
		Title:       "Operator Manual",
		ProductCode: "PC-1042",
		Edition:     "3rd",
		PublishDate: "2024-06",
		PageCount:   120,
		Filename:    "manual.pdf",
		StoragePath: "/store/manual.pdf",
		UploadedBy:  "operator",
	}
}

func TestDocumentRepositoryCreate(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewDocumentRepository(db, testhelpers.NewTestLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_tags")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_classifications")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	doc := testDocument()
	id, err := repo.Create(context.Background(), doc, []string{"t1"}, []string{"c1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentRepositoryCreateNoAssociations(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewDocumentRepository(db, testhelpers.NewTestLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.Create(context.Background(), testDocument(), nil, nil)
	require.NoError(t, err)
}

// The document row and its joins commit together or not at all.
func TestDocumentRepositoryCreateRollsBackOnLinkFailure(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewDocumentRepository(db, testhelpers.NewTestLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO document_tags")).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), testDocument(), []string{"t1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link tag")
}

func TestDocumentRepositoryCreateRollsBackOnInsertFailure(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewDocumentRepository(db, testhelpers.NewTestLogger())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), testDocument(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert document")
}

func documentRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "product_code", "edition", "publish_date", "page_count",
		"notes", "filename", "storage_path", "uploaded_by", "created_at", "updated_at",
	}).AddRow(id, "Operator Manual", "PC-1042", "3rd", "2024-06", 120,
		"", "manual.pdf", "/store/manual.pdf", "operator", time.Now(), time.Now())
}

func TestDocumentRepositoryGetByID(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewDocumentRepository(db, testhelpers.NewTestLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs("d1").
		WillReturnRows(documentRows("d1"))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN document_tags")).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
			AddRow("t1", "safety", "operator", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN document_classifications")).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}))

	doc, err := repo.GetByID(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Operator Manual", doc.Title)
	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "safety", doc.Tags[0].Name)
	assert.Empty(t, doc.Classifications)
}

func TestDocumentRepositoryList(t *testing.T) {
	db, mock := testhelpers.NewMockDB(t)
	repo := NewDocumentRepository(db, testhelpers.NewTestLogger())

	rows := sqlmock.NewRows([]string{
		"id", "title", "product_code", "edition", "publish_date", "page_count",
		"notes", "filename", "storage_path", "uploaded_by", "created_at", "updated_at",
	}).
		AddRow("d2", "Newer", "PC-2", "", "2025", 10, "", "n.pdf", "/store/n.pdf", "op", time.Now(), time.Now()).
		AddRow("d1", "Older", "PC-1", "", "2024", 20, "", "o.pdf", "/store/o.pdf", "op", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WillReturnRows(rows)

	docs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Newer", docs[0].Title)
}
