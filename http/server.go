// Package http provides the HTTP API for searching indexed documentation.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/docdex"
)

// Request limits for the search endpoint.
const (
	MinResults     = 1
	MaxResults     = 20
	DefaultResults = 5
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server serves the search API over HTTP.
type Server struct {
	server *http.Server

	Addr     string
	Searcher docdex.SearchService
	Catalog  docdex.CatalogService
	Store    docdex.VectorStore
	Logger   *slog.Logger
}

// NewServer creates a new Server with routes registered.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{},
		Logger: slog.Default(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)

	s.server.Handler = s.cors(s.logRequests(mux))
	return s
}

// Open starts listening and serving. It blocks until the listener fails or
// Close is called.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.Logger.Info("http server listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, useful in tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query       string `json:"query"`
	NResults    int    `json:"n_results"`
	ContentType string `json:"content_type"`
	Source      string `json:"source"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query        string          `json:"query"`
	Results      []ResultPayload `json:"results"`
	TotalResults int             `json:"total_results"`
}

// ResultPayload is one search match on the wire.
type ResultPayload struct {
	Content         string   `json:"content"`
	SourceFile      string   `json:"source_file"`
	SourceURL       string   `json:"source_url"`
	SectionPath     string   `json:"section_path"`
	ContentType     string   `json:"content_type"`
	Keywords        []string `json:"keywords"`
	TokenCount      int      `json:"token_count"`
	SimilarityScore float64  `json:"similarity_score"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name": "docdex",
		"endpoints": map[string]string{
			"POST /search": "semantic search over indexed documentation",
			"GET /health":  "service health and chunk count",
			"GET /stats":   "corpus statistics",
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, docdex.Errorf(docdex.EINVALID, "invalid JSON body: %v", err))
		return
	}
	if req.Query == "" {
		s.writeError(w, r, docdex.Errorf(docdex.EINVALID, "query is required"))
		return
	}

	n := req.NResults
	if n == 0 {
		n = DefaultResults
	}
	if n < MinResults || n > MaxResults {
		s.writeError(w, r, docdex.Errorf(docdex.EINVALID,
			"n_results must be between %d and %d", MinResults, MaxResults))
		return
	}

	results, err := s.Searcher.Search(r.Context(), req.Query, docdex.SearchOptions{
		Limit:       n,
		ContentType: docdex.ContentType(req.ContentType),
		Source:      req.Source,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload := SearchResponse{
		Query:        req.Query,
		Results:      make([]ResultPayload, 0, len(results)),
		TotalResults: len(results),
	}
	for _, res := range results {
		payload.Results = append(payload.Results, ResultPayload{
			Content:         res.Chunk.Content,
			SourceFile:      res.Chunk.SourceFile,
			SourceURL:       res.Chunk.SourceURL,
			SectionPath:     res.Chunk.SectionPath(),
			ContentType:     string(res.Chunk.ContentType),
			Keywords:        res.Chunk.Keywords,
			TokenCount:      res.Chunk.TokenCount,
			SimilarityScore: roundScore(res.Score),
		})
	}

	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.Store.Count(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"document_count": count,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Catalog.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_chunks":    stats.TotalChunks,
		"total_documents": stats.TotalDocuments,
		"content_types":   stats.ContentTypes,
		"sources":         stats.Sources,
	})
}

// cors allows browser clients on any origin to call the API.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(begin),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := docdex.ErrorCode(err)
	status := statusFromCode(code)
	if status == http.StatusInternalServerError {
		s.Logger.Error("http request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	s.writeJSON(w, status, map[string]string{"error": docdex.ErrorMessage(err)})
}

// statusFromCode maps domain error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case docdex.EINVALID:
		return http.StatusBadRequest
	case docdex.ENOTFOUND:
		return http.StatusNotFound
	case docdex.ECONFLICT:
		return http.StatusConflict
	case docdex.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// roundScore rounds a similarity score to four decimal places for stable
// presentation.
func roundScore(score float32) float64 {
	return math.Round(float64(score)*10000) / 10000
}
