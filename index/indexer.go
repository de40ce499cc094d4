// Package index provides indexing orchestration. It coordinates
// deduplication, embedding, vector store writes and catalog bookkeeping
// for one indexing run.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/bloom"
	"golang.org/x/time/rate"
)

// Defaults for indexing behavior.
const (
	// DefaultBatchSize is the number of chunks processed per batch.
	DefaultBatchSize = 100

	// DefaultDelay is the pause between embedding calls, keeping the run
	// within the embedding API's rate limits.
	DefaultDelay = 500 * time.Millisecond

	// bloomFalsePositiveRate is the acceptable false positive rate for the
	// dedup prefilter. A false positive only costs one catalog lookup.
	bloomFalsePositiveRate = 0.01

	// bloomMinCapacity floors the prefilter size for small corpora.
	bloomMinCapacity = 1024
)

// Indexer orchestrates indexing of chunked documentation into a vector
// store. Chunks whose IDs are already cataloged are skipped, so repeated
// runs over an unchanged corpus embed nothing.
type Indexer struct {
	Embedder  docdex.Embedder
	Store     docdex.VectorStore
	Catalog   docdex.CatalogService
	BatchSize int
	Limiter   *rate.Limiter
}

// Options configures one indexing run.
type Options struct {
	// Reset clears the vector store and the catalog before indexing.
	Reset bool
}

// Summary holds the outcome of an indexing run.
type Summary struct {
	Documents int
	Chunks    int
	Indexed   int
	Skipped   int
	Failed    int
	Failures  []Failure
}

// Failure records a chunk that could not be embedded.
type Failure struct {
	ChunkID    string
	SourceFile string
	Err        error
}

// ProgressEvent reports progress during an indexing run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Batch     int
	Batches   int
	Chunk     *docdex.Chunk
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressBatch
	ProgressIndexed
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// Index processes the output of a corpus walk. Embedding failures are
// recorded per chunk and the run continues; storage failures abort the run
// because they indicate the store itself is unusable.
func (ix *Indexer) Index(ctx context.Context, walk *docdex.WalkResult, opts Options, progress ProgressFunc) (*Summary, error) {
	if opts.Reset {
		if err := ix.Store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset vector store: %w", err)
		}
		if err := ix.Catalog.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset catalog: %w", err)
		}
	}

	seen, err := ix.warmPrefilter(ctx, len(walk.Chunks))
	if err != nil {
		return nil, fmt.Errorf("load indexed chunk IDs: %w", err)
	}

	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	limiter := ix.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(DefaultDelay), 1)
	}

	total := len(walk.Chunks)
	batches := (total + batchSize - 1) / batchSize

	if progress != nil {
		progress(ProgressEvent{
			Type:    ProgressStarted,
			Total:   total,
			Batches: batches,
		})
	}

	summary := &Summary{
		Documents: len(walk.Documents),
		Chunks:    total,
	}

	for i, chunk := range walk.Chunks {
		if progress != nil && i%batchSize == 0 {
			progress(ProgressEvent{
				Type:      ProgressBatch,
				Completed: i,
				Total:     total,
				Batch:     i/batchSize + 1,
				Batches:   batches,
			})
		}

		indexed, err := ix.alreadyIndexed(ctx, seen, chunk.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup for chunk %s: %w", chunk.ID, err)
		}
		if indexed {
			summary.Skipped++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressSkipped,
					Completed: i + 1,
					Total:     total,
					Chunk:     chunk,
				})
			}
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		embedding, err := ix.Embedder.EmbedDocument(ctx, chunk.Content)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				ChunkID:    chunk.ID,
				SourceFile: chunk.SourceFile,
				Err:        err,
			})
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: i + 1,
					Total:     total,
					Chunk:     chunk,
					Error:     err,
				})
			}
			continue
		}
		chunk.Embedding = embedding

		if err := ix.Store.Upsert(ctx, chunk); err != nil {
			return nil, fmt.Errorf("store chunk %s: %w", chunk.ID, err)
		}
		if err := ix.Catalog.RecordChunk(ctx, chunk); err != nil {
			return nil, fmt.Errorf("catalog chunk %s: %w", chunk.ID, err)
		}
		seen.Add(chunk.ID)

		summary.Indexed++
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressIndexed,
				Completed: i + 1,
				Total:     total,
				Chunk:     chunk,
			})
		}
	}

	if err := ix.recordDocuments(ctx, walk); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return summary, nil
}

// warmPrefilter seeds a Bloom filter with the cataloged chunk IDs so that
// most dedup checks never touch the catalog.
func (ix *Indexer) warmPrefilter(ctx context.Context, incoming int) (*bloom.Filter, error) {
	ids, err := ix.Catalog.ChunkIDs(ctx)
	if err != nil {
		return nil, err
	}

	capacity := uint(len(ids) + incoming)
	if capacity < bloomMinCapacity {
		capacity = bloomMinCapacity
	}

	filter := bloom.NewFilter(capacity, bloomFalsePositiveRate)
	for _, id := range ids {
		filter.Add(id)
	}
	return filter, nil
}

// alreadyIndexed reports whether a chunk was committed in an earlier run.
// A Bloom filter miss is definitive; a hit is confirmed against the catalog
// to rule out false positives.
func (ix *Indexer) alreadyIndexed(ctx context.Context, seen *bloom.Filter, id string) (bool, error) {
	if !seen.Test(id) {
		return false, nil
	}
	return ix.Catalog.HasChunk(ctx, id)
}

// recordDocuments upserts a manifest entry per walked document.
func (ix *Indexer) recordDocuments(ctx context.Context, walk *docdex.WalkResult) error {
	chunkCounts := make(map[string]int, len(walk.Documents))
	for _, chunk := range walk.Chunks {
		chunkCounts[chunk.SourceFile]++
	}

	for _, doc := range walk.Documents {
		rec := &docdex.DocumentRecord{
			FilePath:    doc.FilePath,
			SourceURL:   doc.SourceURL,
			ContentHash: docdex.HashContent(doc.Content),
			ChunkCount:  chunkCounts[doc.FilePath],
		}
		if err := ix.Catalog.RecordDocument(ctx, rec); err != nil {
			return fmt.Errorf("record document %s: %w", doc.FilePath, err)
		}
	}
	return nil
}
