// Package slog provides logging decorators for docdex services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docdex"
)

// Ensure LoggingEmbedder implements docdex.Embedder.
var _ docdex.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with debug logging.
type LoggingEmbedder struct {
	next   docdex.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next docdex.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// EmbedDocument delegates to the wrapped embedder and logs the operation.
func (e *LoggingEmbedder) EmbedDocument(ctx context.Context, text string) (embedding []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed document",
			"chars", len(text),
			"dims", len(embedding),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedDocument(ctx, text)
}

// EmbedQuery delegates to the wrapped embedder and logs the operation.
func (e *LoggingEmbedder) EmbedQuery(ctx context.Context, text string) (embedding []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed query",
			"chars", len(text),
			"dims", len(embedding),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedQuery(ctx, text)
}
