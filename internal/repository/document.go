package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/models"
)

// DocumentRepository persists documents and their tag/classification
// associations. Each document is its own transaction: either the document
// row and all of its joins commit together, or nothing does.
type DocumentRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewDocumentRepository(db *sql.DB, log logger.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a document with its tag and classification links in a
// single transaction and returns the new document ID.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document, tagIDs, classificationIDs []string) (string, error) {
	doc.ID = uuid.New().String()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Error("Failed to rollback document transaction",
					logger.Error(rbErr),
				)
			}
		}
	}()

	query := `
		INSERT INTO documents (
			id, title, product_code, edition, publish_date, page_count,
			notes, filename, storage_path, uploaded_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = tx.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.ProductCode,
		doc.Edition,
		doc.PublishDate,
		doc.PageCount,
		doc.Notes,
		doc.Filename,
		doc.StoragePath,
		doc.UploadedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		err = fmt.Errorf("insert document: %w", err)
		return "", err
	}

	for _, tagID := range tagIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO document_tags (document_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			doc.ID, tagID,
		); err != nil {
			err = fmt.Errorf("link tag %s: %w", tagID, err)
			return "", err
		}
	}

	for _, classificationID := range classificationIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO document_classifications (document_id, classification_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			doc.ID, classificationID,
		); err != nil {
			err = fmt.Errorf("link classification %s: %w", classificationID, err)
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit document: %w", err)
		return "", err
	}

	return doc.ID, nil
}

// GetByID returns a document with its tags and classifications attached.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, title, product_code, edition, publish_date, page_count,
		       notes, filename, storage_path, uploaded_by, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var doc models.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Title,
		&doc.ProductCode,
		&doc.Edition,
		&doc.PublishDate,
		&doc.PageCount,
		&doc.Notes,
		&doc.Filename,
		&doc.StoragePath,
		&doc.UploadedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}

	if doc.Tags, err = r.documentTags(ctx, id); err != nil {
		return nil, err
	}
	if doc.Classifications, err = r.documentClassifications(ctx, id); err != nil {
		return nil, err
	}

	return &doc, nil
}

// List returns all documents ordered by creation time, newest first.
// Associations are not loaded.
func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	query := `
		SELECT id, title, product_code, edition, publish_date, page_count,
		       notes, filename, storage_path, uploaded_by, created_at, updated_at
		FROM documents
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if scanErr := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.ProductCode,
			&doc.Edition,
			&doc.PublishDate,
			&doc.PageCount,
			&doc.Notes,
			&doc.Filename,
			&doc.StoragePath,
			&doc.UploadedBy,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan document: %w", scanErr)
		}
		docs = append(docs, doc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate documents: %w", rowsErr)
	}

	return docs, nil
}

func (r *DocumentRepository) documentTags(ctx context.Context, documentID string) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.created_by, t.created_at
		FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY t.name
	`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("query document tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if scanErr := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedBy, &tag.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan document tag: %w", scanErr)
		}
		tags = append(tags, tag)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate document tags: %w", rowsErr)
	}
	return tags, nil
}

func (r *DocumentRepository) documentClassifications(ctx context.Context, documentID string) ([]models.Classification, error) {
	query := `
		SELECT c.id, c.name, c.created_by, c.created_at
		FROM classifications c
		JOIN document_classifications dc ON dc.classification_id = c.id
		WHERE dc.document_id = $1
		ORDER BY c.name
	`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("query document classifications: %w", err)
	}
	defer rows.Close()

	classifications := make([]models.Classification, 0)
	for rows.Next() {
		var c models.Classification
		if scanErr := rows.Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan document classification: %w", scanErr)
		}
		classifications = append(classifications, c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate document classifications: %w", rowsErr)
	}
	return classifications, nil
}
