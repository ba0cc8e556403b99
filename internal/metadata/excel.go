package metadata

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/document-manager/internal/models"
)

// Column indices for the metadata workbook (0-based).
const (
	colFilename       = 0 // Column A
	colTitle          = 1 // Column B
	colProductCode    = 2 // Column C
	colEdition        = 3 // Column D
	colPublishMonth   = 4 // Column E
	colPublishYear    = 5 // Column F
	colPageCount      = 6 // Column G
	colNotes          = 7 // Column H
	colTags           = 8 // Column I
	colClassification = 9 // Column J
)

// SheetName is the data sheet both the template generator and the parser use.
const SheetName = "Documents"

// ParseWorkbook reads document metadata from an Excel workbook. Row 1 is the
// header row and is skipped; rows with an empty filename cell are skipped
// entirely. An unreadable workbook is a structural failure for the whole run.
func ParseWorkbook(r io.Reader) ([]models.DocumentMetadata, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		// Fall back to the first sheet for workbooks not produced by the
		// template generator.
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	records := make([]models.DocumentMetadata, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		filename := strings.TrimSpace(cell(row, colFilename))
		if filename == "" {
			continue
		}

		records = append(records, models.DocumentMetadata{
			Filename:        filename,
			Title:           strings.TrimSpace(cell(row, colTitle)),
			ProductCode:     strings.TrimSpace(cell(row, colProductCode)),
			Edition:         strings.TrimSpace(cell(row, colEdition)),
			PublishMonth:    NormalizeMonth(cell(row, colPublishMonth)),
			PublishYear:     strings.TrimSpace(cell(row, colPublishYear)),
			PageCount:       parsePageCount(cell(row, colPageCount)),
			Notes:           strings.TrimSpace(cell(row, colNotes)),
			Tags:            NormalizeTagList(cell(row, colTags)),
			Classifications: NormalizeTagList(cell(row, colClassification)),
		})
	}

	return records, nil
}

// cell returns the value at idx or "" for short rows. excelize trims
// trailing empty cells from GetRows output.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parsePageCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
