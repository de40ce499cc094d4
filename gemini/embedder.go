// Package gemini provides embedding and token counting backed by the
// Google Gemini API.
package gemini

import (
	"context"

	"github.com/fwojciec/docdex"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the Gemini embedding model used for both
// document and query embeddings. Both sides must use the same model or
// similarity scores are meaningless.
const DefaultEmbeddingModel = "text-embedding-004"

// Task types distinguish storage-side from query-side embeddings.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements docdex.Embedder at compile time.
var _ docdex.Embedder = (*Embedder)(nil)

// Embedder implements docdex.Embedder using Gemini embedding models.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder. An empty model selects
// DefaultEmbeddingModel.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// EmbedDocument embeds chunk content for storage.
func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, taskDocument)
}

// EmbedQuery embeds a search query in the same embedding space.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, taskQuery)
}

func (e *Embedder) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	if text == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "text required")
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
		}},
		&genai.EmbedContentConfig{TaskType: taskType},
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, docdex.Errorf(docdex.EINTERNAL, "gemini returned an empty embedding")
	}

	return result.Embeddings[0].Values, nil
}
