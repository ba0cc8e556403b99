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

// ClassificationRepository provides idempotent-by-name lookup and creation
// of classifications, with the same conflict contract as TagRepository.
type ClassificationRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewClassificationRepository(db *sql.DB, log logger.Logger) *ClassificationRepository {
	return &ClassificationRepository{
		db:     db,
		logger: log,
	}
}

// FindByName returns the classification with the given name, or nil when no
// such classification exists.
func (r *ClassificationRepository) FindByName(ctx context.Context, name string) (*models.Classification, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM classifications
		WHERE name = $1
	`

	var c models.Classification
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&c.ID,
		&c.Name,
		&c.CreatedBy,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query classification: %w", err)
	}

	return &c, nil
}

// Create inserts a classification, falling back to a lookup when a
// concurrent batch created the same name first.
func (r *ClassificationRepository) Create(ctx context.Context, name, createdBy string) (*models.Classification, error) {
	c := &models.Classification{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO classifications (id, name, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		c.ID,
		c.Name,
		c.CreatedBy,
		c.CreatedAt,
	).Scan(&c.ID)

	if errors.Is(err, sql.ErrNoRows) {
		existing, findErr := r.FindByName(ctx, name)
		if findErr != nil {
			return nil, fmt.Errorf("lookup after conflict: %w", findErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("classification %q vanished after conflict", name)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert classification: %w", err)
	}

	r.logger.Debug("Classification created",
		logger.String("classification_id", c.ID),
		logger.String("classification_name", c.Name),
	)

	return c, nil
}

// List returns all classifications ordered by name.
func (r *ClassificationRepository) List(ctx context.Context) ([]models.Classification, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM classifications
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	classifications := make([]models.Classification, 0)
	for rows.Next() {
		var c models.Classification
		if scanErr := rows.Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan classification: %w", scanErr)
		}
		classifications = append(classifications, c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate classifications: %w", rowsErr)
	}

	return classifications, nil
}
