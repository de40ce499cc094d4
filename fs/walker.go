// Package fs provides filesystem-based corpus walking for indexing runs.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fwojciec/docdex"
)

// DefaultGlob matches the markdown files of a mirrored documentation tree.
const DefaultGlob = "*.md"

// Ensure Walker implements docdex.CorpusWalker at compile time.
var _ docdex.CorpusWalker = (*Walker)(nil)

// Walker enumerates markdown files under a root directory, chunks each one,
// and aggregates the chunks for an indexing run. Files are processed in
// lexicographic path order so runs are deterministic.
type Walker struct {
	// Chunker splits each document. Required.
	Chunker docdex.Chunker

	// Glob matched against file base names. Defaults to DefaultGlob.
	Glob string

	// SourceURL derives the attribution URL for a corpus-relative path.
	// Defaults to returning the path itself.
	SourceURL docdex.SourceURLFunc
}

// Walk processes all matching files under root. Per-file read or chunking
// failures are recorded and skipped; an unreadable root is a configuration
// failure and aborts the walk.
func (w *Walker) Walk(ctx context.Context, root string) (*docdex.WalkResult, error) {
	if w.Chunker == nil {
		return nil, docdex.Errorf(docdex.EINTERNAL, "walker requires a chunker")
	}
	if _, err := os.Stat(root); err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "corpus root %q not readable: %v", root, err)
	}

	paths, result, err := w.matchFiles(root)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	for _, relPath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := os.ReadFile(filepath.Join(root, relPath))
		if err != nil {
			result.Failures = append(result.Failures, docdex.WalkFailure{Path: relPath, Err: err})
			continue
		}

		doc := &docdex.Document{
			FilePath:  filepath.ToSlash(relPath),
			SourceURL: w.sourceURL(filepath.ToSlash(relPath)),
			Content:   string(raw),
		}

		chunks, err := w.Chunker.Chunk(ctx, doc)
		if err != nil {
			result.Failures = append(result.Failures, docdex.WalkFailure{Path: relPath, Err: err})
			continue
		}

		for _, chunk := range chunks {
			chunk.Enrich(doc.SourceURL)
		}

		result.Documents = append(result.Documents, doc)
		result.Chunks = append(result.Chunks, chunks...)
	}

	return result, nil
}

// matchFiles collects corpus-relative paths matching the glob. Unreadable
// subdirectories are recorded as failures rather than aborting the walk.
func (w *Walker) matchFiles(root string) ([]string, *docdex.WalkResult, error) {
	glob := w.Glob
	if glob == "" {
		glob = DefaultGlob
	}

	result := &docdex.WalkResult{}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			result.Failures = append(result.Failures, docdex.WalkFailure{Path: rel, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		matched, err := filepath.Match(glob, d.Name())
		if err != nil {
			return docdex.Errorf(docdex.EINVALID, "invalid glob %q: %v", glob, err)
		}
		if !matched {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return paths, result, nil
}

func (w *Walker) sourceURL(relPath string) string {
	if w.SourceURL == nil {
		return relPath
	}
	return w.SourceURL(relPath)
}
