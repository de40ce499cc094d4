package docdex

import (
	"context"
	"unicode/utf8"
)

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// ApproxTokenCounter estimates tokens at four characters per token, a
// reasonable approximation for English prose. It is the dependency-free
// fallback when no model tokenizer is wired in.
type ApproxTokenCounter struct{}

var _ TokenCounter = ApproxTokenCounter{}

// CountTokens returns the character count divided by four.
func (ApproxTokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	return utf8.RuneCountInString(text) / 4, nil
}
