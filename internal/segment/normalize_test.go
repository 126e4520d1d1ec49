package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain hyphen break",
			input: "docu-\nment",
			want:  "document",
		},
		{
			name:  "hyphen with trailing spaces before newline",
			input: "docu-  \nment",
			want:  "document",
		},
		{
			name:  "hyphen with indented continuation",
			input: "docu-\n   ment",
			want:  "document",
		},
		{
			name:  "multiple breaks",
			input: "trans-\naction pro-\ncessing",
			want:  "transaction processing",
		},
		{
			name:  "no artifacts unchanged",
			input: "a well-formed line\nand another",
			want:  "a well-formed line\nand another",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "hyphen not followed by newline is kept",
			input: "state-of-the-art",
			want:  "state-of-the-art",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"docu-\nment with a-\nfew breaks",
		"plain text\nno artifacts",
		"trailing hyphen-",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "second pass must be a no-op for %q", input)
	}
}
