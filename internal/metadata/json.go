package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonesrussell/document-manager/internal/models"
)

// flexString accepts a JSON string or number and resolves to a string.
// Edited-metadata payloads arrive from a spreadsheet-like UI where numeric
// columns may be serialized either way.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(num.String())
	return nil
}

// flexInt accepts a JSON number or numeric string and resolves to an int.
// Anything unparseable resolves to zero rather than failing the record.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
	}
	if raw == "" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

// flexStringList accepts either a comma-joined string or a JSON array of
// strings and resolves to the comma-joined form.
type flexStringList string

func (l *flexStringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = ""
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("expected array of strings, got %s", data)
		}
		*l = flexStringList(strings.Join(items, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string or array, got %s", data)
	}
	*l = flexStringList(s)
	return nil
}

type jsonRecord struct {
	Filename        string         `json:"filename"`
	Title           string         `json:"title"`
	ProductCode     string         `json:"product_code"`
	Edition         string         `json:"edition"`
	PublishMonth    flexString     `json:"publish_month"`
	PublishYear     flexString     `json:"publish_year"`
	PageCount       flexInt        `json:"page_count"`
	Notes           string         `json:"notes"`
	Tags            flexStringList `json:"tags"`
	Classifications flexStringList `json:"classifications"`
}

// ParseJSON reads document metadata from an edited-JSON payload: a flat array
// of objects, one per candidate document. Numeric fields are coerced from
// either numbers or numeric strings; tags and classifications arrive as a
// comma-joined string or an array of names; absent keys map to empty values.
// Malformed JSON is a structural failure for the whole run.
func ParseJSON(data []byte) ([]models.DocumentMetadata, error) {
	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}

	records := make([]models.DocumentMetadata, 0, len(raw))
	for _, rec := range raw {
		records = append(records, models.DocumentMetadata{
			Filename:        strings.TrimSpace(rec.Filename),
			Title:           strings.TrimSpace(rec.Title),
			ProductCode:     strings.TrimSpace(rec.ProductCode),
			Edition:         strings.TrimSpace(rec.Edition),
			PublishMonth:    NormalizeMonth(string(rec.PublishMonth)),
			PublishYear:     strings.TrimSpace(string(rec.PublishYear)),
			PageCount:       int(rec.PageCount),
			Notes:           strings.TrimSpace(rec.Notes),
			Tags:            NormalizeTagList(string(rec.Tags)),
			Classifications: NormalizeTagList(string(rec.Classifications)),
		})
	}

	return records, nil
}
