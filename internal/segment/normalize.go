// Package segment turns raw extracted document text into clean, semantically
// coherent sections ready for embedding.
//
// The pipeline has two pure stages:
//   - Normalize repairs hyphen-newline artifacts left by justified-text line
//     wrapping (PDF extraction in particular).
//   - Split partitions normalized text into sections using a heuristic
//     line classifier (see Classify).
//
// Both stages are deterministic and side-effect free, which keeps them
// independently unit-testable.
package segment

import "regexp"

// hyphenBreak matches a hyphen followed by optional whitespace, a newline,
// and optional leading whitespace on the continuation line. Justified text
// splits words this way ("docu-\nment"), and the pieces must be rejoined
// before tokenization.
var hyphenBreak = regexp.MustCompile(`-\s*\n\s*`)

// Normalize removes hyphen-newline artifacts from raw extracted text,
// joining words that were split across lines. It is idempotent: once no
// hyphen-break pattern remains, further passes return the input unchanged.
func Normalize(text string) string {
	return hyphenBreak.ReplaceAllString(text, "")
}
