package segment

import (
	"regexp"
	"strings"
)

// LineClass is the classification of a single line of normalized text.
// The splitter's boundary policy is expressed entirely in terms of this
// type so the per-line decision can be tested independently of the
// accumulation loop.
type LineClass int

const (
	// LineBlank is an empty or whitespace-only line. Skipped.
	LineBlank LineClass = iota

	// LineReference is a bibliography or footnote marker line, e.g. "[12] ...".
	// Skipped.
	LineReference

	// LineBullet is a list item ("• ..." or "- ..."). Appended to the
	// current section, never a boundary.
	LineBullet

	// LineHeading starts a new section: markdown emphasis/heading markers
	// or an ordinal prefix such as "1.".
	LineHeading

	// LineLabel starts a new section: a line that ends with a colon, or
	// whose content after the first colon is empty.
	LineLabel

	// LineProse is any other line. Appended to the current section.
	LineProse
)

// String returns the class name for logging and test failure messages.
func (c LineClass) String() string {
	switch c {
	case LineBlank:
		return "blank"
	case LineReference:
		return "reference"
	case LineBullet:
		return "bullet"
	case LineHeading:
		return "heading"
	case LineLabel:
		return "label"
	case LineProse:
		return "prose"
	default:
		return "unknown"
	}
}

// IsBoundary reports whether a line of this class opens a new section.
func (c LineClass) IsBoundary() bool {
	return c == LineHeading || c == LineLabel
}

var (
	// referenceLine matches bibliography entries like "[3] Smith et al.".
	referenceLine = regexp.MustCompile(`^\[\d+\]`)

	// headingLine matches markdown-style heading/emphasis markers and
	// ordinal prefixes ("1. Introduction"). The ordinal requires a space
	// or end-of-line after the dot so decimal numbers ("1.5 million")
	// stay prose.
	headingLine = regexp.MustCompile(`^(#{1,6}\s|\*\*|__|\d+\.(\s|$))`)
)

// Classify assigns a LineClass to one line. Classification happens on the
// whitespace-trimmed line; precedence is blank, reference, bullet, heading,
// label, prose. Bullets win over label so "- deadline: tomorrow" stays in
// its section.
//
// This is a best-effort heuristic, not a grammar: false boundaries on
// unusual layouts are accepted.
func Classify(line string) LineClass {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		return LineBlank
	}
	if referenceLine.MatchString(trimmed) {
		return LineReference
	}
	if strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "- ") {
		return LineBullet
	}
	if headingLine.MatchString(trimmed) {
		return LineHeading
	}
	// Label-only lines: a trailing colon, possibly followed by whitespace
	// in the raw line, marks "Agenda:" style section labels. Lines with
	// content after the colon ("deadline: tomorrow") are prose.
	if strings.HasSuffix(trimmed, ":") {
		return LineLabel
	}
	return LineProse
}
