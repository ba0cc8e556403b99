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

// TagRepository provides idempotent-by-name lookup and creation of tags.
// Names are stored normalized; a unique index on name resolves concurrent
// creation across simultaneous batches.
type TagRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewTagRepository(db *sql.DB, log logger.Logger) *TagRepository {
	return &TagRepository{
		db:     db,
		logger: log,
	}
}

// FindByName returns the tag with the given normalized name, or nil when no
// such tag exists.
func (r *TagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM tags
		WHERE name = $1
	`

	var tag models.Tag
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&tag.ID,
		&tag.Name,
		&tag.CreatedBy,
		&tag.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tag: %w", err)
	}

	return &tag, nil
}

// Create inserts a tag with the given normalized name. When another batch
// created the same name concurrently, the insert is a no-op and the existing
// row is looked up and returned instead.
func (r *TagRepository) Create(ctx context.Context, name, createdBy string) (*models.Tag, error) {
	tag := &models.Tag{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO tags (id, name, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		tag.ID,
		tag.Name,
		tag.CreatedBy,
		tag.CreatedAt,
	).Scan(&tag.ID)

	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race to a concurrent batch; the row exists now.
		existing, findErr := r.FindByName(ctx, name)
		if findErr != nil {
			return nil, fmt.Errorf("lookup after conflict: %w", findErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("tag %q vanished after conflict", name)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	r.logger.Debug("Tag created",
		logger.String("tag_id", tag.ID),
		logger.String("tag_name", tag.Name),
	)

	return tag, nil
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM tags
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if scanErr := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedBy, &tag.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan tag: %w", scanErr)
		}
		tags = append(tags, tag)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate tags: %w", rowsErr)
	}

	return tags, nil
}
