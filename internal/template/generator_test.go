package template_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/document-manager/internal/metadata"
	"github.com/jonesrussell/document-manager/internal/models"
	"github.com/jonesrussell/document-manager/internal/template"
	"github.com/jonesrussell/document-manager/internal/testhelpers"
)

// fakePageCounter reports one page per content byte; empty content is
// unknown.
type fakePageCounter struct{}

func (fakePageCounter) DetectPageCount(content []byte) int {
	return len(content)
}

func generate(t *testing.T, files map[string]models.UploadedFile, tags []models.Tag, classifications []models.Classification) *excelize.File {
	t.Helper()

	g := template.NewGenerator(fakePageCounter{}, testhelpers.NewTestLogger())
	data, err := g.Generate(files, tags, classifications)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateHeadersAndFilenames(t *testing.T) {
	files := map[string]models.UploadedFile{
		"zulu.pdf":  {Filename: "zulu.pdf", Content: []byte("123")},
		"alpha.pdf": {Filename: "alpha.pdf", Content: []byte("12345")},
	}

	f := generate(t, files, nil, nil)

	rows, err := f.GetRows(metadata.SheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, template.Headers, rows[0][:len(template.Headers)])

	// Filenames are pre-filled in sorted order.
	assert.Equal(t, "alpha.pdf", rows[1][0])
	assert.Equal(t, "zulu.pdf", rows[2][0])
}

func TestGeneratePageCountAutoPopulated(t *testing.T) {
	files := map[string]models.UploadedFile{
		"a.pdf": {Filename: "a.pdf", Content: []byte("1234")},
		"b.pdf": {Filename: "b.pdf", Content: []byte{}},
	}

	f := generate(t, files, nil, nil)

	// a.pdf sorts first; detection succeeded for it.
	count, err := f.GetCellValue(metadata.SheetName, "G2")
	require.NoError(t, err)
	assert.Equal(t, "4", count)

	// Detection yielded unknown for b.pdf; the cell stays blank.
	count, err = f.GetCellValue(metadata.SheetName, "G3")
	require.NoError(t, err)
	assert.Empty(t, count)
}

func TestGenerateMonthDropdown(t *testing.T) {
	files := map[string]models.UploadedFile{
		"a.pdf": {Filename: "a.pdf", Content: []byte("1")},
	}

	f := generate(t, files, nil, nil)

	validations, err := f.GetDataValidations(metadata.SheetName)
	require.NoError(t, err)
	require.Len(t, validations, 1)
	assert.Equal(t, "E2:E2", validations[0].Sqref)
}

func TestGenerateReferenceSheet(t *testing.T) {
	now := time.Now()
	tags := []models.Tag{
		{ID: "t1", Name: "manuals", CreatedAt: now},
		{ID: "t2", Name: "safety", CreatedAt: now},
	}
	classifications := []models.Classification{
		{ID: "c1", Name: "public", CreatedAt: now},
	}

	f := generate(t, nil, tags, classifications)

	val, err := f.GetCellValue(template.ReferenceSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "manuals", val)

	val, err = f.GetCellValue(template.ReferenceSheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "safety", val)

	val, err = f.GetCellValue(template.ReferenceSheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "public", val)
}

// The generated workbook round-trips through the metadata parser.
func TestGeneratedTemplateParses(t *testing.T) {
	files := map[string]models.UploadedFile{
		"a.pdf": {Filename: "a.pdf", Content: []byte("12")},
	}

	g := template.NewGenerator(fakePageCounter{}, testhelpers.NewTestLogger())
	data, err := g.Generate(files, nil, nil)
	require.NoError(t, err)

	records, err := metadata.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a.pdf", records[0].Filename)
	assert.Equal(t, 2, records[0].PageCount)
}
