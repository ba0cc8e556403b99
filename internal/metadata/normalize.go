// Package metadata parses per-document metadata from either an Excel
// workbook or an edited-JSON payload. Both adapters share the same
// normalization rules so equivalent inputs compare equal regardless of
// which source produced them.
package metadata

import (
	"regexp"
	"strings"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// NormalizeTag canonicalizes a single tag or classification name: trim,
// collapse internal whitespace, lowercase. Normalizing an already-normalized
// name returns the same string.
func NormalizeTag(name string) string {
	name = strings.TrimSpace(name)
	name = innerWhitespace.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}

// NormalizeTagList normalizes a comma-joined list of names, dropping empties
// and duplicates while preserving first-seen order.
func NormalizeTagList(list string) string {
	return strings.Join(SplitNames(list), ",")
}

// SplitNames splits a comma-joined list into normalized, deduplicated names.
func SplitNames(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, part := range strings.Split(list, ",") {
		name := NormalizeTag(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// NormalizeMonth canonicalizes a publish month to two digits. Accepted input
// forms include "6", "06" and "06 (Jun)"; any parenthetical label is stripped
// and single digits are left-padded.
func NormalizeMonth(month string) string {
	if idx := strings.Index(month, "("); idx >= 0 {
		month = month[:idx]
	}
	month = strings.TrimSpace(month)
	if len(month) == 1 {
		month = "0" + month
	}
	return month
}
