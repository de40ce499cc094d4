// Package goldmark provides markdown chunking backed by the goldmark parser.
// Documents are split on header boundaries first; oversized sections fall
// back to block-aware size splitting with a character overlap between
// adjacent chunks.
package goldmark

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Chunking defaults. The 4 chars/token approximation converts the token
// budget into character budgets for overlap computation.
const (
	DefaultMaxTokens      = 1024
	DefaultOverlapPercent = 0.15
	charsPerToken         = 4

	// Headers H1-H3 are split boundaries; deeper headers stay inline.
	maxBoundaryLevel = 3
)

// Ensure Chunker implements docdex.Chunker at compile time.
var _ docdex.Chunker = (*Chunker)(nil)

// Chunker implements docdex.Chunker using a two-stage pipeline:
// header-boundary splitting, then size-based splitting of sections that
// exceed the token budget. Atomic constructs (fenced code, tables,
// contiguous lists) are never split internally, even when oversized.
type Chunker struct {
	// Maximum tokens per chunk. Defaults to DefaultMaxTokens.
	MaxTokens int

	// Fraction of the character target copied from the end of one
	// size-split chunk into the start of the next.
	OverlapPercent float64

	// Token counter for sizing decisions. Defaults to the 4-chars/token
	// approximation when nil.
	Tokens docdex.TokenCounter
}

// NewChunker returns a Chunker with default settings.
func NewChunker() *Chunker {
	return &Chunker{
		MaxTokens:      DefaultMaxTokens,
		OverlapPercent: DefaultOverlapPercent,
		Tokens:         docdex.ApproxTokenCounter{},
	}
}

// Chunk splits a document into ordered chunks covering its entire content.
// Empty documents yield zero chunks and no error.
func (c *Chunker) Chunk(ctx context.Context, doc *docdex.Document) ([]*docdex.Chunk, error) {
	if doc == nil {
		return nil, docdex.Errorf(docdex.EINVALID, "document required")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	var chunks []*docdex.Chunk
	for _, seg := range splitByHeaders([]byte(doc.Content)) {
		content := strings.TrimSpace(seg.text)
		if content == "" {
			continue
		}

		tokens, err := c.countTokens(ctx, content)
		if err != nil {
			return nil, err
		}

		pieces := []string{content}
		if tokens > c.maxTokens() {
			pieces, err = c.splitOversized(ctx, content)
			if err != nil {
				return nil, err
			}
		}

		for _, piece := range pieces {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			tokens, err := c.countTokens(ctx, piece)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, &docdex.Chunk{
				SourceFile:  doc.FilePath,
				Position:    len(chunks),
				Content:     piece,
				HeaderPath:  seg.headerPath,
				ContentType: docdex.ClassifyContent(piece),
				TokenCount:  tokens,
			})
		}
	}

	return chunks, nil
}

func (c *Chunker) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

func (c *Chunker) overlapChars() int {
	pct := c.OverlapPercent
	if pct <= 0 {
		pct = DefaultOverlapPercent
	}
	return int(float64(c.maxTokens()*charsPerToken) * pct)
}

func (c *Chunker) countTokens(ctx context.Context, s string) (int, error) {
	counter := c.Tokens
	if counter == nil {
		counter = docdex.ApproxTokenCounter{}
	}
	return counter.CountTokens(ctx, s)
}

// segment is the output of the header-splitting stage: a slice of the
// document tagged with its enclosing header path and, implicitly, whether
// it still needs size-based splitting (decided by token count).
type segment struct {
	text       string
	headerPath []string
}

// splitByHeaders splits markdown on H1-H3 boundaries found via the goldmark
// AST, so `#` lines inside fenced code blocks are never treated as headers.
// Content before the first header becomes a segment with an empty path.
func splitByHeaders(source []byte) []segment {
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	type boundary struct {
		offset int
		level  int
		title  string
	}
	var boundaries []boundary
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > maxBoundaryLevel {
			continue
		}
		offset, ok := headingOffset(h, source)
		if !ok {
			continue
		}
		boundaries = append(boundaries, boundary{
			offset: offset,
			level:  h.Level,
			title:  headingTitle(h, source),
		})
	}

	var segs []segment
	var path [maxBoundaryLevel]string
	prev := 0
	for _, b := range boundaries {
		if b.offset > prev {
			segs = append(segs, segment{
				text:       string(source[prev:b.offset]),
				headerPath: headerPathOf(path),
			})
		}
		path[b.level-1] = b.title
		for i := b.level; i < maxBoundaryLevel; i++ {
			path[i] = ""
		}
		prev = b.offset
	}
	segs = append(segs, segment{
		text:       string(source[prev:]),
		headerPath: headerPathOf(path),
	})

	return segs
}

// headerPathOf collapses the level-indexed titles into the ordered list of
// enclosing headers, dropping unset levels.
func headerPathOf(path [maxBoundaryLevel]string) []string {
	var out []string
	for _, title := range path {
		if title != "" {
			out = append(out, title)
		}
	}
	return out
}

// headingOffset returns the byte offset of the start of the heading's line.
func headingOffset(h *ast.Heading, source []byte) (int, bool) {
	var start int
	if h.Lines().Len() > 0 {
		start = h.Lines().At(0).Start
	} else if t, ok := h.FirstChild().(*ast.Text); ok {
		start = t.Segment.Start
	} else {
		return 0, false
	}
	return bytes.LastIndexByte(source[:start], '\n') + 1, true
}

// headingTitle extracts the heading's plain text, including inline code.
func headingTitle(h *ast.Heading, source []byte) string {
	var sb strings.Builder
	collectText(h, source, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(n ast.Node, source []byte, sb *strings.Builder) {
	if t, ok := n.(*ast.Text); ok {
		sb.Write(t.Segment.Value(source))
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(c, source, sb)
	}
}

// splitOversized is the size-based splitting stage. It accumulates blocks
// up to the token budget, seeds continuation chunks with a trailing overlap
// from the previous chunk, and emits oversized atomic blocks whole rather
// than corrupting them.
func (c *Chunker) splitOversized(ctx context.Context, content string) ([]string, error) {
	maxTokens := c.maxTokens()
	maxChars := maxTokens * charsPerToken
	overlap := c.overlapChars()

	// Prose pieces leave room for the overlap seed so a seeded chunk still
	// fits the token budget.
	proseBudget := maxChars - overlap
	if proseBudget < charsPerToken {
		proseBudget = maxChars
	}

	// Expand prose blocks that alone exceed the budget into
	// sentence-bounded pieces before accumulation.
	var units []block
	for _, b := range parseBlocks(content) {
		tokens, err := c.countTokens(ctx, b.text)
		if err != nil {
			return nil, err
		}
		if !b.atomic && tokens > maxTokens {
			for _, piece := range splitProse(b.text, proseBudget) {
				units = append(units, block{text: piece})
			}
			continue
		}
		units = append(units, b)
	}

	var chunks []string
	var cur strings.Builder
	curTokens := 0
	lastAtomic := false
	tail := "" // overlap seed carried into the next chunk

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		chunks = append(chunks, cur.String())
		if lastAtomic {
			// No overlap out of an atomic construct: copying the end of a
			// code block or table into the next chunk would corrupt it.
			tail = ""
		} else {
			tail = lastChars(cur.String(), overlap)
		}
		cur.Reset()
		curTokens = 0
	}

	for _, u := range units {
		tokens, err := c.countTokens(ctx, u.text)
		if err != nil {
			return nil, err
		}

		// An atomic construct larger than the budget is emitted as a single
		// oversized chunk (accepted limit violation).
		if u.atomic && tokens > maxTokens {
			flush()
			chunks = append(chunks, u.text)
			tail = ""
			continue
		}

		if cur.Len() > 0 && curTokens+tokens > maxTokens {
			flush()
		}

		if cur.Len() == 0 && tail != "" && !u.atomic {
			// The seed counts against the budget like any other content:
			// trim it so seed plus unit still fits, dropping it entirely
			// when the unit alone fills the chunk.
			seed := tail
			if budget := (maxTokens-tokens)*charsPerToken - len("\n\n"); budget <= 0 {
				seed = ""
			} else {
				seed = lastChars(seed, budget)
			}
			if seed != "" {
				seedTokens, err := c.countTokens(ctx, seed)
				if err != nil {
					return nil, err
				}
				if seedTokens+tokens <= maxTokens {
					cur.WriteString(seed)
					curTokens += seedTokens
				}
			}
			tail = ""
		}

		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(u.text)
		curTokens += tokens
		lastAtomic = u.atomic
	}
	flush()

	return chunks, nil
}

// lastChars returns the trailing n characters of s on a rune boundary.
func lastChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
