package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single digit", input: "6", want: "06"},
		{name: "already two digits", input: "06", want: "06"},
		{name: "parenthetical label", input: "11 (Nov)", want: "11"},
		{name: "single digit with label", input: "6 (Jun)", want: "06"},
		{name: "surrounding whitespace", input: "  09  ", want: "09"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMonth(tt.input))
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "mixed case", input: "Safety", want: "safety"},
		{name: "surrounding whitespace", input: "  quality ", want: "quality"},
		{name: "inner whitespace collapsed", input: "site   access", want: "site access"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.input))
		})
	}
}

// Normalization must be a fixed point: normalizing an already-normalized
// name returns the same string.
func TestNormalizeTagFixedPoint(t *testing.T) {
	inputs := []string{"Safety", "  site   ACCESS ", "quality"}
	for _, input := range inputs {
		once := NormalizeTag(input)
		assert.Equal(t, once, NormalizeTag(once))
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "messy and clean inputs agree",
			input: "  Safety, Quality ",
			want:  []string{"safety", "quality"},
		},
		{
			name:  "duplicates collapse",
			input: "safety,Safety, SAFETY",
			want:  []string{"safety"},
		},
		{
			name:  "empty entries dropped",
			input: "safety,,quality,",
			want:  []string{"safety", "quality"},
		},
		{
			name:  "blank list",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitNames(tt.input))
		})
	}
}

func TestSplitNamesEquivalentInputs(t *testing.T) {
	assert.Equal(t, SplitNames("  Safety, Quality "), SplitNames("safety,quality"))
}

func TestNormalizeTagList(t *testing.T) {
	assert.Equal(t, "safety,quality", NormalizeTagList(" Safety ,  Quality"))
	assert.Equal(t, "", NormalizeTagList(""))
}
