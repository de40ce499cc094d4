package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration. A .env file in the working
// directory is loaded first when present; real environment variables win.
type Config struct {
	// Gemini API key for embeddings. Required for index, search and serve.
	APIKey string `env:"GEMINI_API_KEY"`

	// Data directory holding the catalog and the vector store.
	// Defaults to ~/.docdex.
	DataDir string `env:"DOCDEX_DATA"`

	// Catalog database path. Defaults to <DataDir>/docdex.db.
	DBPath string `env:"DOCDEX_DB"`

	// Vector store collection name.
	Collection string `env:"DOCDEX_COLLECTION" envDefault:"documentation"`

	// HTTP listen address for serve.
	Addr string `env:"DOCDEX_ADDR" envDefault:":8000"`

	// Base URL the corpus was mirrored from; used to derive attribution
	// links. Empty keeps file paths as source URLs.
	SiteURL string `env:"DOCDEX_SITE_URL"`

	// Embedding model override. Empty selects the package default.
	EmbedModel string `env:"DOCDEX_EMBED_MODEL"`
}

// LoadConfig reads configuration from .env and the environment, then fills
// in path defaults.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "docdex.db")
	}

	return cfg, nil
}

// VectorDir returns the directory the vector store persists into.
func (c Config) VectorDir() string {
	return filepath.Join(c.DataDir, "vectors")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docdex"
	}
	return filepath.Join(home, ".docdex")
}
