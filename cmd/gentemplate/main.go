// Command gentemplate writes an empty metadata import template for manual
// distribution. The service generates pre-filled templates at
// POST /api/v1/documents/template; this produces the blank variant.
// Usage: go run cmd/gentemplate/main.go
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/document-manager/internal/metadata"
	"github.com/jonesrussell/document-manager/internal/template"
)

func main() {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", metadata.SheetName); err != nil {
		log.Fatal(err)
	}

	for i, h := range template.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue(metadata.SheetName, cell, h); err != nil {
			log.Fatal(err)
		}
	}

	// Example row
	example := []string{
		"manual-rev3.pdf", "Operator Manual Rev 3", "PC-1042", "3rd",
		"06 (Jun)", "2024", "120", "Replaces rev 2", "safety,manuals", "Public",
	}
	for i, v := range example {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue(metadata.SheetName, cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Instructions sheet
	if _, err := f.NewSheet("Instructions"); err != nil {
		log.Fatal(err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"filename - Required. Must match an uploaded PDF filename exactly",
		"title - Required. Document title",
		"product_code - Required. Product the document belongs to",
		"edition - Optional. Edition label",
		"publish_month - Optional. Pick from the dropdown (01-12)",
		"publish_year - Required. Four-digit year",
		"page_count - Optional. Auto-detected from the PDF when left blank",
		"notes - Optional. Free text",
		"tags - Optional. Comma-separated; matched case-insensitively",
		"classifications - Optional. Comma-separated",
	}
	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			log.Fatal(err)
		}
	}

	if err := os.MkdirAll("examples", 0o755); err != nil {
		log.Fatal(err)
	}

	if err := f.SaveAs("examples/document-import-template.xlsx"); err != nil {
		log.Fatal(err)
	}
	log.Println("Created examples/document-import-template.xlsx")
}
