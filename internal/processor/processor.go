// Package processor persists a batch of validated documents. Records are
// handled strictly sequentially; one record's failure is recorded and never
// halts or rolls back the rest of the batch.
package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/document-manager/internal/events"
	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/metadata"
	"github.com/jonesrussell/document-manager/internal/models"
	"github.com/jonesrussell/document-manager/internal/validation"
)

// ErrUserRequired is returned when no uploading user was resolved. This is a
// precondition for the whole run, not a per-item failure.
var ErrUserRequired = errors.New("uploading user is required")

// FileStore persists raw document bytes and returns an addressable path.
type FileStore interface {
	StoreFile(content []byte, suggestedName string) (string, error)
}

// PageCounter inspects a PDF for its page count. Zero means unknown.
type PageCounter interface {
	DetectPageCount(content []byte) int
}

// TagStore resolves and creates tags by normalized name.
type TagStore interface {
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	Create(ctx context.Context, name, createdBy string) (*models.Tag, error)
}

// ClassificationStore resolves and creates classifications by name.
type ClassificationStore interface {
	FindByName(ctx context.Context, name string) (*models.Classification, error)
	Create(ctx context.Context, name, createdBy string) (*models.Classification, error)
}

// DocumentStore persists one document and its associations atomically.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document, tagIDs, classificationIDs []string) (string, error)
}

// Processor runs the batch-persistence stage of the ingestion pipeline.
type Processor struct {
	files           FileStore
	pages           PageCounter
	tags            TagStore
	classifications ClassificationStore
	documents       DocumentStore
	publisher       *events.Publisher
	logger          logger.Logger
}

func New(
	files FileStore,
	pages PageCounter,
	tags TagStore,
	classifications ClassificationStore,
	documents DocumentStore,
	publisher *events.Publisher,
	log logger.Logger,
) *Processor {
	return &Processor{
		files:           files,
		pages:           pages,
		tags:            tags,
		classifications: classifications,
		documents:       documents,
		publisher:       publisher,
		logger:          log,
	}
}

// batchCache caches tags and classifications resolved during one batch,
// keyed by normalized name. The first record to reference a brand-new name
// creates it; every later record in the batch reuses the same row.
type batchCache struct {
	tags            map[string]*models.Tag
	classifications map[string]*models.Classification
}

func newBatchCache() *batchCache {
	return &batchCache{
		tags:            make(map[string]*models.Tag),
		classifications: make(map[string]*models.Classification),
	}
}

// Process persists each metadata record independently and returns the
// accumulated per-item outcomes. With onlyValid set, records carrying
// validation errors are filtered out first; records with only warnings are
// still processed. A missing user aborts the whole run.
func (p *Processor) Process(
	ctx context.Context,
	user *models.User,
	records []models.DocumentMetadata,
	files map[string]models.UploadedFile,
	onlyValid bool,
) (*models.BatchResult, error) {
	if user == nil || user.Username == "" {
		return nil, ErrUserRequired
	}

	if onlyValid {
		records = filterValid(records, files)
	}

	result := models.NewBatchResult()
	cache := newBatchCache()

	for _, record := range records {
		if err := p.processOne(ctx, user, record, files, cache); err != nil {
			p.logger.Warn("Document processing failed",
				logger.String("filename", record.Filename),
				logger.Error(err),
			)
			result.RecordFailure(record.Filename, err.Error())
			continue
		}
		result.RecordSuccess(record.Filename, record.Title)
	}

	p.publisher.PublishAsync(events.DocumentEvent{
		EventType:  events.EventBatchCompleted,
		UploadedBy: user.Username,
		Succeeded:  result.SuccessCount,
		Failed:     result.FailedCount,
	})

	p.logger.Info("Batch processed",
		logger.String("uploaded_by", user.Username),
		logger.Int("succeeded", result.SuccessCount),
		logger.Int("failed", result.FailedCount),
	)

	return result, nil
}

// processOne persists a single record: store bytes, detect pages where the
// metadata did not supply a count, resolve taxonomy entities, then commit
// the document with its links in one transaction.
func (p *Processor) processOne(
	ctx context.Context,
	user *models.User,
	record models.DocumentMetadata,
	files map[string]models.UploadedFile,
	cache *batchCache,
) error {
	file, ok := files[record.Filename]
	if !ok {
		return errors.New("PDF file not found")
	}

	content, err := file.Bytes()
	if err != nil {
		return fmt.Errorf("read file content: %w", err)
	}

	storagePath, err := p.files.StoreFile(content, record.Filename)
	if err != nil {
		return fmt.Errorf("store file: %w", err)
	}

	pageCount := record.PageCount
	if pageCount <= 0 {
		pageCount = p.pages.DetectPageCount(content)
	}

	tagIDs, err := p.resolveTags(ctx, user, record.Tags, cache)
	if err != nil {
		return err
	}

	classificationIDs, err := p.resolveClassifications(ctx, user, record.Classifications, cache)
	if err != nil {
		return err
	}

	doc := &models.Document{
		Title:       record.Title,
		ProductCode: record.ProductCode,
		Edition:     record.Edition,
		PublishDate: composePublishDate(record.PublishYear, record.PublishMonth),
		PageCount:   pageCount,
		Notes:       record.Notes,
		Filename:    record.Filename,
		StoragePath: storagePath,
		UploadedBy:  user.Username,
	}

	documentID, err := p.documents.Create(ctx, doc, tagIDs, classificationIDs)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	p.publisher.PublishAsync(events.DocumentEvent{
		EventType:  events.EventDocumentCreated,
		DocumentID: documentID,
		Filename:   record.Filename,
		Title:      record.Title,
		UploadedBy: user.Username,
	})

	return nil
}

func (p *Processor) resolveTags(ctx context.Context, user *models.User, list string, cache *batchCache) ([]string, error) {
	ids := make([]string, 0)
	for _, name := range metadata.SplitNames(list) {
		if cached, ok := cache.tags[name]; ok {
			ids = append(ids, cached.ID)
			continue
		}

		tag, err := p.tags.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find tag %q: %w", name, err)
		}
		if tag == nil {
			if tag, err = p.tags.Create(ctx, name, user.Username); err != nil {
				return nil, fmt.Errorf("create tag %q: %w", name, err)
			}
		}

		cache.tags[name] = tag
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (p *Processor) resolveClassifications(ctx context.Context, user *models.User, list string, cache *batchCache) ([]string, error) {
	ids := make([]string, 0)
	for _, name := range metadata.SplitNames(list) {
		if cached, ok := cache.classifications[name]; ok {
			ids = append(ids, cached.ID)
			continue
		}

		c, err := p.classifications.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find classification %q: %w", name, err)
		}
		if c == nil {
			if c, err = p.classifications.Create(ctx, name, user.Username); err != nil {
				return nil, fmt.Errorf("create classification %q: %w", name, err)
			}
		}

		cache.classifications[name] = c
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// filterValid drops records carrying validation errors. Records with only
// warnings survive.
func filterValid(records []models.DocumentMetadata, files map[string]models.UploadedFile) []models.DocumentMetadata {
	filenames := make(map[string]bool, len(files))
	for name := range files {
		filenames[name] = true
	}

	errored := validation.ErroredFilenames(records, filenames)
	filtered := make([]models.DocumentMetadata, 0, len(records))
	for _, record := range records {
		if !errored[record.Filename] {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// composePublishDate builds "YYYY" or "YYYY-MM" from the metadata fields.
func composePublishDate(year, month string) string {
	if year == "" {
		return ""
	}
	if month == "" {
		return year
	}
	return year + "-" + month
}
