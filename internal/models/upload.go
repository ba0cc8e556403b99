package models

import (
	"errors"
	"os"
)

// ErrNoContent is returned by Bytes when a file has neither in-memory
// content nor a scratch path.
var ErrNoContent = errors.New("uploaded file has no content")

// UploadedFile is one file submitted to the ingestion pipeline. It lives only
// for the duration of a single pipeline invocation and is never persisted as
// an entity. Filename is always a basename with any path prefix stripped.
//
// Loose uploads carry their content in memory; archive entries are streamed
// to a scratch location and carry a Path instead.
type UploadedFile struct {
	Filename  string
	Content   []byte
	Path      string
	SizeBytes int64
}

// Bytes returns the file content, reading from the scratch path when the
// content is not held in memory.
func (f *UploadedFile) Bytes() ([]byte, error) {
	if f.Content != nil {
		return f.Content, nil
	}
	if f.Path != "" {
		return os.ReadFile(f.Path)
	}
	return nil, ErrNoContent
}

// DocumentMetadata describes a single candidate document as parsed from the
// metadata source (spreadsheet or edited JSON). Tags and Classifications are
// comma-joined lists; tag names are already normalized by the parser.
type DocumentMetadata struct {
	Filename        string `json:"filename"`
	Title           string `json:"title"`
	ProductCode     string `json:"product_code"`
	Edition         string `json:"edition,omitempty"`
	PublishMonth    string `json:"publish_month,omitempty"` // two digits, "01".."12"
	PublishYear     string `json:"publish_year,omitempty"`
	PageCount       int    `json:"page_count,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Tags            string `json:"tags,omitempty"`
	Classifications string `json:"classifications,omitempty"`
}
