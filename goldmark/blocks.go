package goldmark

import (
	"regexp"
	"strings"
)

// block is a structural unit within an oversized section. Atomic blocks
// (fenced code, tables, contiguous lists) must never be split internally.
type block struct {
	text   string
	atomic bool
}

var (
	listItemRe   = regexp.MustCompile(`^\s{0,3}(?:[-*+]|\d+\.)\s`)
	tableDelimRe = regexp.MustCompile(`^\s*\|?[\s:\-|]+\|[\s:\-|]*$`)
)

// parseBlocks scans a markdown section line by line and groups it into
// prose paragraphs and atomic constructs.
func parseBlocks(content string) []block {
	lines := strings.Split(content, "\n")
	var blocks []block

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "":
			i++

		case isFence(trimmed):
			start := i
			marker := fenceMarker(trimmed)
			i++
			for i < len(lines) && !closesFence(lines[i], marker) {
				i++
			}
			if i < len(lines) {
				i++ // include the closing fence
			}
			blocks = append(blocks, block{
				text:   strings.Join(lines[start:i], "\n"),
				atomic: true,
			})

		case startsTable(lines, i):
			start := i
			for i < len(lines) && strings.Contains(lines[i], "|") {
				i++
			}
			blocks = append(blocks, block{
				text:   strings.Join(lines[start:i], "\n"),
				atomic: true,
			})

		case listItemRe.MatchString(lines[i]):
			start := i
			i++
			for i < len(lines) {
				if strings.TrimSpace(lines[i]) == "" {
					// A blank line stays inside the list only when the list
					// resumes afterwards.
					j := i + 1
					for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
						j++
					}
					if j < len(lines) && (listItemRe.MatchString(lines[j]) || isIndented(lines[j])) {
						i = j
						continue
					}
					break
				}
				if listItemRe.MatchString(lines[i]) || isIndented(lines[i]) {
					i++
					continue
				}
				break
			}
			blocks = append(blocks, block{
				text:   strings.Join(lines[start:i], "\n"),
				atomic: true,
			})

		default:
			// Prose paragraph: consume until a blank line or the start of a
			// structural block.
			start := i
			for i < len(lines) {
				t := strings.TrimSpace(lines[i])
				if t == "" || isFence(t) || listItemRe.MatchString(lines[i]) || startsTable(lines, i) {
					break
				}
				i++
			}
			blocks = append(blocks, block{
				text: strings.Join(lines[start:i], "\n"),
			})
		}
	}

	return blocks
}

func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// fenceMarker returns the fence character sequence that must close the block.
func fenceMarker(trimmed string) string {
	if strings.HasPrefix(trimmed, "~~~") {
		return "~~~"
	}
	return "```"
}

func closesFence(line, marker string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), marker)
}

// startsTable reports whether line i opens a pipe table: a cell row
// followed by a delimiter row.
func startsTable(lines []string, i int) bool {
	if !strings.Contains(lines[i], "|") {
		return false
	}
	if tableDelimRe.MatchString(lines[i]) && strings.Contains(lines[i], "-") {
		return true
	}
	return i+1 < len(lines) &&
		strings.Contains(lines[i+1], "-") &&
		tableDelimRe.MatchString(lines[i+1])
}

func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// splitProse splits a paragraph that alone exceeds the character budget on
// sentence boundaries, falling back to word boundaries for run-on text.
func splitProse(text string, maxChars int) []string {
	var parts []string
	var cur strings.Builder

	for _, sentence := range splitSentences(text) {
		if len(sentence) > maxChars {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			parts = append(parts, forceSplit(sentence, maxChars)...)
			continue
		}
		if cur.Len() > 0 && cur.Len()+1+len(sentence) > maxChars {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(sentence)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}

	return parts
}

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range strings.SplitAfter(text, ". ") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// forceSplit cuts text into maxChars pieces, backing up to the nearest word
// boundary when one is close enough.
func forceSplit(text string, maxChars int) []string {
	var parts []string
	for len(text) > 0 {
		size := maxChars
		if len(text) <= size {
			parts = append(parts, text)
			break
		}
		for i := size; i > size-100 && i > 0; i-- {
			if text[i] == ' ' || text[i] == '\n' {
				size = i
				break
			}
		}
		parts = append(parts, strings.TrimSpace(text[:size]))
		text = strings.TrimSpace(text[size:])
	}
	return parts
}
