package segment

import "strings"

// Split partitions normalized text into ordered sections. It scans line by
// line, skipping blank and reference lines, opening a new section on each
// boundary line (heading or label), and accumulating bullets and prose into
// the current section. Lines within a section are rejoined with a single
// newline; every emitted section is trimmed and non-empty.
func Split(text string) []string {
	var sections []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		section := strings.TrimSpace(strings.Join(current, "\n"))
		if section != "" {
			sections = append(sections, section)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		class := Classify(line)
		switch {
		case class == LineBlank || class == LineReference:
			continue
		case class.IsBoundary():
			flush()
			current = append(current, strings.TrimSpace(line))
		default:
			current = append(current, strings.TrimSpace(line))
		}
	}
	flush()

	return sections
}

// TokenCount returns the number of whitespace-delimited tokens in s.
// Used by the ingestion layer to enforce minimum section and chunk sizes.
func TokenCount(s string) int {
	return len(strings.Fields(s))
}
