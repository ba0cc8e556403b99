package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/metadata"
	"github.com/jonesrussell/document-manager/internal/models"
	"github.com/jonesrussell/document-manager/internal/processor"
	"github.com/jonesrussell/document-manager/internal/template"
	"github.com/jonesrussell/document-manager/internal/upload"
	"github.com/jonesrussell/document-manager/internal/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UserContextKey is the gin context key the auth middleware stores the
// resolved operator under.
const UserContextKey = "user"

// TagLister provides existing tag names for the template reference sheet.
type TagLister interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// ClassificationLister provides existing classification names for the
// template reference sheet.
type ClassificationLister interface {
	List(ctx context.Context) ([]models.Classification, error)
}

// IngestHandler exposes the bulk-ingestion pipeline over HTTP: template
// generation, validation, and batch processing.
type IngestHandler struct {
	extractor       *upload.Extractor
	generator       *template.Generator
	processor       *processor.Processor
	tags            TagLister
	classifications ClassificationLister
	logger          logger.Logger
}

func NewIngestHandler(
	extractor *upload.Extractor,
	generator *template.Generator,
	proc *processor.Processor,
	tags TagLister,
	classifications ClassificationLister,
	log logger.Logger,
) *IngestHandler {
	return &IngestHandler{
		extractor:       extractor,
		generator:       generator,
		processor:       proc,
		tags:            tags,
		classifications: classifications,
		logger:          log,
	}
}

// GenerateTemplate returns a pre-filled metadata workbook for the uploaded
// files. Read-only; no entities are created.
func (h *IngestHandler) GenerateTemplate(c *gin.Context) {
	files, cleanup, err := h.formFiles(c)
	defer cleanup()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
		return
	}

	extracted, err := h.extractor.Extract(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract files", "details": err.Error()})
		return
	}
	defer extracted.Cleanup()

	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list tags", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate template"})
		return
	}

	classifications, err := h.classifications.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list classifications", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate template"})
		return
	}

	data, err := h.generator.Generate(extracted.Files, tags, classifications)
	if err != nil {
		h.logger.Error("Failed to generate template", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate template"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="document-metadata-template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Validate reconciles the uploaded files against the metadata source and
// returns the structured result. Safe to call repeatedly; it has no side
// effects.
func (h *IngestHandler) Validate(c *gin.Context) {
	files, cleanup, err := h.formFiles(c)
	defer cleanup()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
		return
	}

	extracted, err := h.extractor.Extract(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract files", "details": err.Error()})
		return
	}
	defer extracted.Cleanup()

	records, err := h.parseMetadata(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata source", "details": err.Error()})
		return
	}

	result := validation.Validate(records, extracted.Filenames)

	h.logger.Info("Batch validated",
		logger.Int("total_documents", result.TotalDocuments),
		logger.Int("valid_documents", result.ValidDocuments),
		logger.Int("errors", len(result.Errors)),
		logger.Int("warnings", len(result.Warnings)),
	)

	c.JSON(http.StatusOK, result)
}

// Process persists the batch and returns per-item outcomes. Only structural
// failures produce an error status; per-document failures are reported
// inside the result body.
func (h *IngestHandler) Process(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Uploading user is required"})
		return
	}

	files, cleanup, err := h.formFiles(c)
	defer cleanup()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "details": err.Error()})
		return
	}

	extracted, err := h.extractor.Extract(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract files", "details": err.Error()})
		return
	}
	defer extracted.Cleanup()

	records, err := h.parseMetadata(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata source", "details": err.Error()})
		return
	}

	onlyValid, _ := strconv.ParseBool(c.PostForm("only_valid"))

	result, err := h.processor.Process(c.Request.Context(), user, records, extracted.Files, onlyValid)
	if err != nil {
		if errors.Is(err, processor.ErrUserRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Uploading user is required"})
			return
		}
		h.logger.Error("Batch processing failed",
			logger.String("uploaded_by", user.Username),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process batch"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// formFiles resolves the multipart "files" parts. Loose documents are read
// into memory; archive parts are spooled to a scratch file so extraction can
// stream from disk and memory stays bounded regardless of archive size. The
// returned cleanup removes any spooled archives and is always safe to call.
func (h *IngestHandler) formFiles(c *gin.Context) ([]models.UploadedFile, func(), error) {
	noop := func() {}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, fmt.Errorf("read multipart form: %w", err)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return nil, noop, errors.New("no files uploaded")
	}

	var spool archiveSpool
	files := make([]models.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		if isArchive(fh.Filename) {
			path, spoolErr := spool.write(fh)
			if spoolErr != nil {
				spool.cleanup()
				return nil, noop, spoolErr
			}
			files = append(files, models.UploadedFile{
				Filename:  fh.Filename,
				Path:      path,
				SizeBytes: fh.Size,
			})
			continue
		}

		content, readErr := readPart(fh)
		if readErr != nil {
			spool.cleanup()
			return nil, noop, readErr
		}
		files = append(files, models.UploadedFile{
			Filename:  fh.Filename,
			Content:   content,
			SizeBytes: fh.Size,
		})
	}

	return files, spool.cleanup, nil
}

// archiveSpool holds uploaded archives on disk for the duration of one
// request so the archive never has to fit in memory.
type archiveSpool struct {
	dir string
}

func (s *archiveSpool) write(fh *multipart.FileHeader) (string, error) {
	if s.dir == "" {
		dir, err := os.MkdirTemp("", "document-manager-upload-*")
		if err != nil {
			return "", fmt.Errorf("create spool dir: %w", err)
		}
		s.dir = dir
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, filepath.Base(fh.Filename))
	dst, err := os.Create(path) // #nosec G304 -- spool dir + basename
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("spool upload %q: %w", fh.Filename, err)
	}
	if err = dst.Close(); err != nil {
		return "", fmt.Errorf("spool upload %q: %w", fh.Filename, err)
	}
	return path, nil
}

func (s *archiveSpool) cleanup() {
	if s.dir != "" {
		_ = os.RemoveAll(s.dir)
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return content, nil
}

func isArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}

// parseMetadata resolves the metadata source for a request. An edited-JSON
// payload takes precedence; the spreadsheet is not parsed at all when one is
// supplied.
func (h *IngestHandler) parseMetadata(c *gin.Context) ([]models.DocumentMetadata, error) {
	if edited := c.PostForm("edited_metadata"); edited != "" {
		return metadata.ParseJSON([]byte(edited))
	}

	fh, err := c.FormFile("metadata")
	if err != nil {
		return nil, errors.New("metadata source is required: supply a metadata workbook or edited_metadata JSON")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open metadata workbook: %w", err)
	}
	defer f.Close()

	return metadata.ParseWorkbook(f)
}

func currentUser(c *gin.Context) *models.User {
	val, ok := c.Get(UserContextKey)
	if !ok {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
