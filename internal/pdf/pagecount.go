// Package pdf provides best-effort PDF inspection for the ingestion
// pipeline.
package pdf

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jonesrussell/document-manager/internal/logger"
)

// PageCounter detects the page count of a PDF document.
type PageCounter struct {
	logger logger.Logger
}

func NewPageCounter(log logger.Logger) *PageCounter {
	return &PageCounter{
		logger: log,
	}
}

// DetectPageCount returns the number of pages in the document, or zero when
// the document cannot be inspected. Detection failures never propagate; an
// unknown page count is advisory only.
func (p *PageCounter) DetectPageCount(content []byte) int {
	if len(content) == 0 {
		return 0
	}

	count, err := api.PageCount(bytes.NewReader(content), nil)
	if err != nil {
		p.logger.Debug("Page count detection failed",
			logger.Error(err),
		)
		return 0
	}
	return count
}
