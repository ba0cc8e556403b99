// Package validation cross-references parsed metadata against the uploaded
// file set and applies per-record business rules. Validation is pure: it has
// no side effects and may be called repeatedly while an operator iterates on
// their metadata.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonesrussell/document-manager/internal/models"
)

// Issue titles.
const (
	IssueMissingFile        = "Missing File"
	IssueExtraFile          = "Extra File"
	IssueMissingTitle       = "Missing Title"
	IssueMissingProductCode = "Missing Product Code"
	IssueMissingPublishYear = "Missing Publish Year"
	IssueMissingPageCount   = "Missing Page Count"
)

// Validate reconciles metadata records against the uploaded filename set and
// runs field validation. A record whose file is absent gets exactly one
// Missing File error and no field validation; uploaded files no record
// references get one Extra File warning each, appended in filename order.
// A record can carry several errors but counts as one invalid document.
func Validate(metadata []models.DocumentMetadata, filenames map[string]bool) models.ValidationResult {
	result := models.ValidationResult{
		TotalDocuments: len(metadata),
		Errors:         make([]models.ValidationIssue, 0),
		Warnings:       make([]models.ValidationIssue, 0),
	}

	referenced := make(map[string]bool, len(metadata))
	invalid := 0

	for _, record := range metadata {
		referenced[record.Filename] = true

		if !filenames[record.Filename] {
			result.Errors = append(result.Errors, models.ValidationIssue{
				Title:       IssueMissingFile,
				Description: fmt.Sprintf("metadata references %q but no such file was uploaded", record.Filename),
				Severity:    models.SeverityError,
			})
			invalid++
			continue
		}

		errs, warns := validateFields(record)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
		if len(errs) > 0 {
			invalid++
		}
	}

	result.Warnings = append(result.Warnings, extraFileWarnings(filenames, referenced)...)
	result.ValidDocuments = result.TotalDocuments - invalid

	return result
}

// validateFields applies the per-record field rules. Title, product code and
// publish year are required; a missing or non-positive page count is
// advisory only.
func validateFields(record models.DocumentMetadata) (errs, warns []models.ValidationIssue) {
	if strings.TrimSpace(record.Title) == "" {
		errs = append(errs, issue(IssueMissingTitle, record.Filename, "title is required", models.SeverityError))
	}
	if strings.TrimSpace(record.ProductCode) == "" {
		errs = append(errs, issue(IssueMissingProductCode, record.Filename, "product code is required", models.SeverityError))
	}
	if strings.TrimSpace(record.PublishYear) == "" {
		errs = append(errs, issue(IssueMissingPublishYear, record.Filename, "publish year is required", models.SeverityError))
	}
	if record.PageCount <= 0 {
		warns = append(warns, issue(IssueMissingPageCount, record.Filename, "page count is missing or not positive", models.SeverityWarning))
	}
	return errs, warns
}

func extraFileWarnings(filenames, referenced map[string]bool) []models.ValidationIssue {
	extra := make([]string, 0)
	for name := range filenames {
		if !referenced[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	warns := make([]models.ValidationIssue, 0, len(extra))
	for _, name := range extra {
		warns = append(warns, models.ValidationIssue{
			Title:       IssueExtraFile,
			Description: fmt.Sprintf("uploaded file %q is not referenced by any metadata record", name),
			Severity:    models.SeverityWarning,
		})
	}
	return warns
}

// ErroredFilenames returns the set of filenames whose records carry at least
// one error, derived from the metadata list. Used by only-valid processing.
func ErroredFilenames(metadata []models.DocumentMetadata, filenames map[string]bool) map[string]bool {
	errored := make(map[string]bool)
	for _, record := range metadata {
		if !filenames[record.Filename] {
			errored[record.Filename] = true
			continue
		}
		if errs, _ := validateFields(record); len(errs) > 0 {
			errored[record.Filename] = true
		}
	}
	return errored
}

func issue(title, filename, detail, severity string) models.ValidationIssue {
	return models.ValidationIssue{
		Title:       title,
		Description: fmt.Sprintf("%s: %s", filename, detail),
		Severity:    severity,
	}
}
