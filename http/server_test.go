package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/docdex"
	dochttp "github.com/fwojciec/docdex/http"
	"github.com/fwojciec/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(searcher docdex.SearchService, catalog docdex.CatalogService, store docdex.VectorStore) *dochttp.Server {
	s := dochttp.NewServer()
	s.Searcher = searcher
	s.Catalog = catalog
	s.Store = store
	s.Logger = slog.New(slog.DiscardHandler)
	return s
}

func do(t *testing.T, s *dochttp.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	t.Run("returns ranked matches", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error) {
				assert.Equal(t, "auth tokens", query)
				assert.Equal(t, 3, opts.Limit)
				return []*docdex.SearchResult{{
					Chunk: &docdex.Chunk{
						SourceFile:  "api/auth.md",
						SourceURL:   "https://example.com/api/auth",
						Content:     "Token details.",
						HeaderPath:  []string{"API", "Auth"},
						ContentType: docdex.ContentTypeParagraph,
						TokenCount:  7,
						Keywords:    []string{"auth", "token"},
					},
					Score: 0.87654,
				}}, nil
			},
		}
		s := newServer(searcher, nil, nil)

		rec := do(t, s, http.MethodPost, "/search", `{"query":"auth tokens","n_results":3}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dochttp.SearchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "auth tokens", resp.Query)
		assert.Equal(t, 1, resp.TotalResults)
		require.Len(t, resp.Results, 1)
		got := resp.Results[0]
		assert.Equal(t, "api/auth.md", got.SourceFile)
		assert.Equal(t, "API > Auth", got.SectionPath)
		assert.Equal(t, "paragraph", got.ContentType)
		assert.Equal(t, 0.8765, got.SimilarityScore, "score rounds to four decimals")
	})

	t.Run("defaults n_results", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error) {
				assert.Equal(t, 5, opts.Limit)
				return nil, nil
			},
		}
		s := newServer(searcher, nil, nil)

		rec := do(t, s, http.MethodPost, "/search", `{"query":"q"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("passes filters through", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error) {
				assert.Equal(t, docdex.ContentTypeCodeBlock, opts.ContentType)
				assert.Equal(t, "api/", opts.Source)
				return nil, nil
			},
		}
		s := newServer(searcher, nil, nil)

		rec := do(t, s, http.MethodPost, "/search",
			`{"query":"q","content_type":"code_block","source":"api/"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a missing query", func(t *testing.T) {
		t.Parallel()

		s := newServer(&mock.SearchService{}, nil, nil)

		rec := do(t, s, http.MethodPost, "/search", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "query is required")
	})

	t.Run("rejects out-of-range n_results", func(t *testing.T) {
		t.Parallel()

		s := newServer(&mock.SearchService{}, nil, nil)

		for _, body := range []string{`{"query":"q","n_results":21}`, `{"query":"q","n_results":-1}`} {
			rec := do(t, s, http.MethodPost, "/search", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		s := newServer(&mock.SearchService{}, nil, nil)

		rec := do(t, s, http.MethodPost, "/search", `{"query":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps domain error codes to HTTP status", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts docdex.SearchOptions) ([]*docdex.SearchResult, error) {
				return nil, docdex.Errorf(docdex.EUNAVAILABLE, "embedding API down")
			},
		}
		s := newServer(searcher, nil, nil)

		rec := do(t, s, http.MethodPost, "/search", `{"query":"q"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "embedding API down")
	})

	t.Run("rejects GET", func(t *testing.T) {
		t.Parallel()

		s := newServer(&mock.SearchService{}, nil, nil)

		rec := do(t, s, http.MethodGet, "/search", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	store := &mock.VectorStore{
		CountFn: func(ctx context.Context) (int, error) { return 42, nil },
	}
	s := newServer(nil, nil, store)

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, float64(42), resp["document_count"])
}

func TestServer_Stats(t *testing.T) {
	t.Parallel()

	catalog := &mock.CatalogService{
		StatsFn: func(ctx context.Context) (*docdex.CorpusStats, error) {
			return &docdex.CorpusStats{
				TotalChunks:    10,
				TotalDocuments: 3,
				ContentTypes:   map[string]int{"paragraph": 8, "code_block": 2},
				Sources:        map[string]int{"api": 6, "guides": 4},
			}, nil
		},
	}
	s := newServer(nil, catalog, nil)

	rec := do(t, s, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalChunks    int            `json:"total_chunks"`
		TotalDocuments int            `json:"total_documents"`
		ContentTypes   map[string]int `json:"content_types"`
		Sources        map[string]int `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.TotalChunks)
	assert.Equal(t, 3, resp.TotalDocuments)
	assert.Equal(t, 2, resp.ContentTypes["code_block"])
	assert.Equal(t, 6, resp.Sources["api"])
}

func TestServer_Root(t *testing.T) {
	t.Parallel()

	s := newServer(nil, nil, nil)

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docdex")
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	s := newServer(nil, nil, nil)

	t.Run("adds CORS headers", func(t *testing.T) {
		t.Parallel()

		rec := do(t, s, http.MethodGet, "/", "")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight requests", func(t *testing.T) {
		t.Parallel()

		rec := do(t, s, http.MethodOptions, "/search", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}
