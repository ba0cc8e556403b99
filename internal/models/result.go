package models

// Issue severities used in ValidationIssue.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationIssue is a single problem found while reconciling and validating
// a batch. Errors block a document from counting as valid; warnings do not.
type ValidationIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ValidationResult is the outcome of validating one batch.
// ValidDocuments = TotalDocuments - distinct documents carrying >=1 error.
type ValidationResult struct {
	TotalDocuments int               `json:"total_documents"`
	ValidDocuments int               `json:"valid_documents"`
	Errors         []ValidationIssue `json:"errors"`
	Warnings       []ValidationIssue `json:"warnings"`
}

// BatchResult is the outcome of processing one batch. It accumulates per-item
// successes and failures; a single item's failure never rolls back the rest.
type BatchResult struct {
	SuccessCount      int               `json:"success_count"`
	FailedCount       int               `json:"failed_count"`
	TotalProcessed    int               `json:"total_processed"`
	SuccessfulUploads map[string]string `json:"successful_uploads"` // filename -> assigned title
	FailedUploads     []string          `json:"failed_uploads"`     // "filename - reason"
	Errors            []string          `json:"errors"`
}

// NewBatchResult returns an empty result ready for accumulation.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		SuccessfulUploads: make(map[string]string),
		FailedUploads:     make([]string, 0),
		Errors:            make([]string, 0),
	}
}

// RecordSuccess marks one document as processed.
func (r *BatchResult) RecordSuccess(filename, title string) {
	r.SuccessCount++
	r.TotalProcessed++
	r.SuccessfulUploads[filename] = title
}

// RecordFailure marks one document as failed without affecting siblings.
func (r *BatchResult) RecordFailure(filename, reason string) {
	r.FailedCount++
	r.TotalProcessed++
	r.FailedUploads = append(r.FailedUploads, filename+" - "+reason)
	r.Errors = append(r.Errors, reason)
}
