// Package template builds the pre-filled metadata workbook operators use to
// seed a bulk upload.
package template

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/metadata"
	"github.com/jonesrussell/document-manager/internal/models"
)

// ReferenceSheetName lists known tags and classifications for the operator.
const ReferenceSheetName = "Reference"

// Headers is the fixed header row of the data sheet. Column order matches
// the parser's column layout.
var Headers = []string{
	"filename", "title", "product_code", "edition", "publish_month",
	"publish_year", "page_count", "notes", "tags", "classifications",
}

// months are the twelve allowed values of the publish_month dropdown.
var months = []string{
	"01 (Jan)", "02 (Feb)", "03 (Mar)", "04 (Apr)", "05 (May)", "06 (Jun)",
	"07 (Jul)", "08 (Aug)", "09 (Sep)", "10 (Oct)", "11 (Nov)", "12 (Dec)",
}

// PageCounter inspects a PDF for its page count. Zero means unknown.
type PageCounter interface {
	DetectPageCount(content []byte) int
}

// Generator produces metadata workbook skeletons. Purely advisory; it never
// validates anything.
type Generator struct {
	pages  PageCounter
	logger logger.Logger
}

func NewGenerator(pages PageCounter, log logger.Logger) *Generator {
	return &Generator{
		pages:  pages,
		logger: log,
	}
}

// Generate returns workbook bytes with one pre-filled row per uploaded
// filename, a dropdown-constrained month column, auto-detected page counts
// where inspection succeeds, and a reference sheet of existing tag and
// classification names.
func (g *Generator) Generate(
	files map[string]models.UploadedFile,
	tags []models.Tag,
	classifications []models.Classification,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", metadata.SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(metadata.SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	filenames := sortedFilenames(files)
	for i, name := range filenames {
		row := i + 2
		if err := f.SetCellValue(metadata.SheetName, fmt.Sprintf("A%d", row), name); err != nil {
			return nil, fmt.Errorf("set filename row %d: %w", row, err)
		}

		file := files[name]
		content, readErr := file.Bytes()
		if readErr != nil {
			continue // page count stays blank; detection is best-effort
		}
		if count := g.pages.DetectPageCount(content); count > 0 {
			if err := f.SetCellValue(metadata.SheetName, fmt.Sprintf("G%d", row), count); err != nil {
				return nil, fmt.Errorf("set page count row %d: %w", row, err)
			}
		}
	}

	if err := g.addMonthDropdown(f, len(filenames)); err != nil {
		return nil, err
	}

	if err := g.addReferenceSheet(f, tags, classifications); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	g.logger.Info("Template generated",
		logger.Int("filenames", len(filenames)),
		logger.Int("tags", len(tags)),
		logger.Int("classifications", len(classifications)),
	)

	return buf.Bytes(), nil
}

// addMonthDropdown constrains the publish_month column to the twelve fixed
// values. The dropdown always covers at least one data row so an operator
// adding rows by hand still gets it.
func (g *Generator) addMonthDropdown(f *excelize.File, rows int) error {
	if rows < 1 {
		rows = 1
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("E2:E%d", rows+1)
	if err := dv.SetDropList(months); err != nil {
		return fmt.Errorf("set month drop list: %w", err)
	}
	if err := f.AddDataValidation(metadata.SheetName, dv); err != nil {
		return fmt.Errorf("add month validation: %w", err)
	}
	return nil
}

func (g *Generator) addReferenceSheet(f *excelize.File, tags []models.Tag, classifications []models.Classification) error {
	if _, err := f.NewSheet(ReferenceSheetName); err != nil {
		return fmt.Errorf("create reference sheet: %w", err)
	}

	if err := f.SetCellValue(ReferenceSheetName, "A1", "Existing tags"); err != nil {
		return fmt.Errorf("set reference header: %w", err)
	}
	if err := f.SetCellValue(ReferenceSheetName, "B1", "Existing classifications"); err != nil {
		return fmt.Errorf("set reference header: %w", err)
	}

	for i, tag := range tags {
		if err := f.SetCellValue(ReferenceSheetName, fmt.Sprintf("A%d", i+2), tag.Name); err != nil {
			return fmt.Errorf("set tag reference: %w", err)
		}
	}
	for i, c := range classifications {
		if err := f.SetCellValue(ReferenceSheetName, fmt.Sprintf("B%d", i+2), c.Name); err != nil {
			return fmt.Errorf("set classification reference: %w", err)
		}
	}
	return nil
}

func sortedFilenames(files map[string]models.UploadedFile) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
