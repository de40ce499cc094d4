// Package docdex provides local semantic search over mirrored documentation.
// It chunks markdown documentation into metadata-tagged units, indexes them
// into a local vector store using an external embedding service, and serves
// similarity search with metadata filtering over the indexed corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, chromem/, gemini/).
package docdex
