package docdex

import (
	"regexp"
	"strings"
)

// ContentType classifies a chunk's dominant markdown construct.
// The classification is mutually exclusive and exhaustive for supported
// constructs; anything unclassified is a paragraph.
type ContentType string

// Supported content types.
const (
	ContentTypeParagraph ContentType = "paragraph"
	ContentTypeCodeBlock ContentType = "code_block"
	ContentTypeTable     ContentType = "table"
	ContentTypeList      ContentType = "list"
	ContentTypeHeading   ContentType = "heading"
)

// Valid reports whether ct is one of the supported content types.
func (ct ContentType) Valid() bool {
	switch ct {
	case ContentTypeParagraph, ContentTypeCodeBlock, ContentTypeTable,
		ContentTypeList, ContentTypeHeading:
		return true
	}
	return false
}

// ParseContentType converts a string into a ContentType.
// Returns EINVALID for unknown values.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	if !ct.Valid() {
		return "", Errorf(EINVALID, "unknown content type %q", s)
	}
	return ct, nil
}

var (
	tableDelimiterRe = regexp.MustCompile(`\|[\s\-:]+\|`)
	listMarkerRe     = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s`)
)

// ClassifyContent determines the dominant content type of a chunk using
// structural heuristics. It is pure and total: degenerate or ambiguous
// content resolves to paragraph, never an error.
func ClassifyContent(content string) ContentType {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ContentTypeParagraph
	}

	// Fenced code dominates: a chunk carrying a code fence exists to show code.
	if strings.Contains(trimmed, "```") {
		return ContentTypeCodeBlock
	}

	// A table needs pipes plus a delimiter row, not just inline pipes.
	if strings.Contains(trimmed, "|") && tableDelimiterRe.MatchString(trimmed) {
		return ContentTypeTable
	}

	lines := nonBlankLines(trimmed)
	if isListDominant(lines) {
		return ContentTypeList
	}

	// A bare header with no body underneath it.
	if len(lines) == 1 && strings.HasPrefix(lines[0], "#") && len(lines[0]) < 120 {
		return ContentTypeHeading
	}

	return ContentTypeParagraph
}

func nonBlankLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// isListDominant reports whether the majority of lines start with a list
// marker (bulleted or numbered).
func isListDominant(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	var marked int
	for _, line := range lines {
		if listMarkerRe.MatchString(line) {
			marked++
		}
	}
	return marked*2 > len(lines)
}
