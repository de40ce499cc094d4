package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/chromem"
	"github.com/fwojciec/docdex/gemini"
	"github.com/fwojciec/docdex/goldmark"
	"github.com/fwojciec/docdex/search"
	docslog "github.com/fwojciec/docdex/slog"
	"github.com/fwojciec/docdex/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m, err := NewMain()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration loaded from the environment. Set before calling Run()
	// to override.
	Config Config

	// SQLite database backing the catalog.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Catalog docdex.CatalogService
	Store   docdex.VectorStore
}

// NewMain returns a new instance of Main with configuration loaded from the
// environment. Configuration failure is fatal at startup.
func NewMain() (*Main, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &Main{Config: cfg}, nil
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: m.Config,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.Config.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", m.Config.DataDir, err)
	}

	// Open catalog database
	m.DB = sqlite.NewDB(m.Config.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.Config.DBPath, err)
	}
	defer m.Close()

	m.Catalog = sqlite.NewCatalogService(m.DB)
	deps.Catalog = m.Catalog

	// The vector store and embedder are only wired for commands that touch
	// them; stats and docs read the catalog alone.
	needsStore := cmd == "index" || cmd == "search" || cmd == "serve"
	if needsStore {
		store, err := chromem.NewStore(m.Config.VectorDir(), m.Config.Collection)
		if err != nil {
			return fmt.Errorf("failed to open vector store: %w", err)
		}
		m.Store = store
		deps.Store = store

		if m.Config.APIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.Config.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Embedder = docslog.NewLoggingEmbedder(
			gemini.NewEmbedder(client, m.Config.EmbedModel), deps.Logger)
		deps.Searcher = docslog.NewLoggingSearchService(
			search.NewService(deps.Embedder, deps.Store), deps.Logger)
	}

	if cmd == "index" {
		chunker := goldmark.NewChunker()
		if counter, err := gemini.NewTokenCounter(tokenizerModel); err == nil {
			chunker.Tokens = counter
		}
		deps.Chunker = chunker
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for exact token counting during chunking. When the
// tokenizer cannot be constructed the chunker falls back to its built-in
// chars/token approximation.
const tokenizerModel = "gemini-2.0-flash"
