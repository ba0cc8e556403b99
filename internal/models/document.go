package models

import "time"

// Document represents a stored repository document and its metadata.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	ProductCode string    `json:"product_code" db:"product_code"`
	Edition     string    `json:"edition,omitempty" db:"edition"`
	PublishDate string    `json:"publish_date,omitempty" db:"publish_date"` // "YYYY" or "YYYY-MM"
	PageCount   int       `json:"page_count,omitempty" db:"page_count"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	Filename    string    `json:"filename" db:"filename"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Tags            []Tag            `json:"tags,omitempty"`
	Classifications []Classification `json:"classifications,omitempty"`
}

// Tag is a free-form label attached to documents. Names are unique after
// normalization (trimmed, inner whitespace collapsed, lowercased).
type Tag struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Classification is a controlled taxonomy entry attached to documents.
type Classification struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User identifies the operator performing an upload. Resolved by the HTTP
// layer and threaded explicitly into the pipeline.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
