// Package upload resolves the set of candidate document files for one
// pipeline invocation, flattening ZIP archives and normalizing filenames.
package upload

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/models"
)

const (
	documentExt = ".pdf"
	archiveExt  = ".zip"
)

// Result holds the canonical filename set and the filename -> file lookup
// for one batch. When an archive was extracted, ScratchDir points at the
// private extraction directory; the caller owns its cleanup.
type Result struct {
	Filenames  map[string]bool
	Files      map[string]models.UploadedFile
	ScratchDir string
}

// Cleanup removes the scratch directory, if any.
func (r *Result) Cleanup() {
	if r.ScratchDir != "" {
		_ = os.RemoveAll(r.ScratchDir)
	}
}

// Extractor produces the uploaded-document set for a batch.
type Extractor struct {
	logger logger.Logger
}

func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{
		logger: log,
	}
}

// Extract walks the submitted files and returns the set of document
// filenames plus a filename -> content lookup. A batch is either one ZIP
// archive or a set of loose documents; archive entries are flattened to
// their basenames and streamed to scratch storage. Entries that are not
// documents are silently ignored. Duplicate basenames collapse to one entry.
// A corrupt archive aborts extraction.
func (e *Extractor) Extract(files []models.UploadedFile) (*Result, error) {
	result := &Result{
		Filenames: make(map[string]bool),
		Files:     make(map[string]models.UploadedFile),
	}

	for _, f := range files {
		name := filepath.Base(f.Filename)
		switch {
		case hasExt(name, archiveExt):
			if err := e.extractArchive(&f, result); err != nil {
				result.Cleanup()
				return nil, fmt.Errorf("extract archive %q: %w", name, err)
			}
		case hasExt(name, documentExt):
			e.add(result, models.UploadedFile{
				Filename:  name,
				Content:   f.Content,
				Path:      f.Path,
				SizeBytes: f.SizeBytes,
			})
		default:
			e.logger.Debug("Ignoring non-document upload",
				logger.String("filename", name),
			)
		}
	}

	return result, nil
}

// extractArchive streams document entries out of a ZIP archive into a
// scratch directory. Internal directory structure is discarded; only the
// entry basename survives. The archive itself is read from its spool path
// when one is set, so neither side of the extraction buffers the whole
// archive in memory.
func (e *Extractor) extractArchive(archive *models.UploadedFile, result *Result) error {
	zr, closeArchive, err := openArchive(archive)
	if err != nil {
		return err
	}
	defer closeArchive()

	if result.ScratchDir == "" {
		dir, mkErr := os.MkdirTemp("", "document-manager-batch-*")
		if mkErr != nil {
			return fmt.Errorf("create scratch dir: %w", mkErr)
		}
		result.ScratchDir = dir
	}

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !hasExt(entry.Name, documentExt) {
			continue
		}

		name := filepath.Base(entry.Name)
		scratchPath := filepath.Join(result.ScratchDir, name)

		size, copyErr := e.copyEntry(entry, scratchPath)
		if copyErr != nil {
			return fmt.Errorf("extract entry %q: %w", entry.Name, copyErr)
		}

		e.add(result, models.UploadedFile{
			Filename:  name,
			Path:      scratchPath,
			SizeBytes: size,
		})
	}

	e.logger.Info("Archive extracted",
		logger.String("archive", archive.Filename),
		logger.Int("documents", len(result.Filenames)),
		logger.String("scratch_dir", result.ScratchDir),
	)

	return nil
}

// openArchive opens a ZIP from its spool path when present, reading entry
// data straight from disk. Archives held in memory are wrapped directly.
func openArchive(archive *models.UploadedFile) (*zip.Reader, func(), error) {
	if archive.Path != "" {
		rc, err := zip.OpenReader(archive.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive: %w", err)
		}
		return &rc.Reader, func() { _ = rc.Close() }, nil
	}

	if archive.Content == nil {
		return nil, nil, models.ErrNoContent
	}

	zr, err := zip.NewReader(bytes.NewReader(archive.Content), int64(len(archive.Content)))
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	return zr, func() {}, nil
}

func (e *Extractor) copyEntry(entry *zip.File, dest string) (int64, error) {
	rc, err := entry.Open()
	if err != nil {
		return 0, fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()

	out, err := os.Create(dest) // #nosec G304 -- dest is scratch dir + basename
	if err != nil {
		return 0, fmt.Errorf("create scratch file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, rc)
	if err != nil {
		return 0, fmt.Errorf("copy entry: %w", err)
	}
	return size, nil
}

func (e *Extractor) add(result *Result, file models.UploadedFile) {
	result.Filenames[file.Filename] = true
	result.Files[file.Filename] = file
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
