package docdex

import (
	"regexp"
	"sort"
	"strings"
)

// maxKeywords caps the keyword set per chunk.
const maxKeywords = 10

var (
	wordRe       = regexp.MustCompile(`\w+`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
)

// ExtractKeywords derives the keyword set for a chunk from its enclosing
// header titles and any inline code spans in the content. Keywords are
// lower-cased, deduplicated and returned sorted, capped at ten entries.
// The function is deterministic: identical input yields an identical set.
func ExtractKeywords(content string, headerPath []string) []string {
	seen := make(map[string]struct{})

	for _, title := range headerPath {
		for _, word := range wordRe.FindAllString(strings.ToLower(title), -1) {
			if len(word) > 3 {
				seen[word] = struct{}{}
			}
		}
	}

	for _, m := range inlineCodeRe.FindAllStringSubmatch(content, -1) {
		kw := strings.ToLower(m[1])
		if len(kw) > 2 {
			seen[kw] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// SectionPath joins header titles for display, e.g. "A > B > C".
// An empty header path reports "Root".
func SectionPath(headerPath []string) string {
	parts := make([]string, 0, len(headerPath))
	for _, title := range headerPath {
		if title != "" {
			parts = append(parts, title)
		}
	}
	if len(parts) == 0 {
		return "Root"
	}
	return strings.Join(parts, " > ")
}

// ParseSectionPath is the inverse of SectionPath for metadata round-trips.
func ParseSectionPath(s string) []string {
	if s == "" || s == "Root" {
		return nil
	}
	return strings.Split(s, " > ")
}
