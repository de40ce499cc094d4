package mock

import (
	"context"

	"github.com/fwojciec/docdex"
)

var _ docdex.CorpusWalker = (*CorpusWalker)(nil)

// CorpusWalker is a mock implementation of docdex.CorpusWalker.
type CorpusWalker struct {
	WalkFn func(ctx context.Context, root string) (*docdex.WalkResult, error)
}

func (w *CorpusWalker) Walk(ctx context.Context, root string) (*docdex.WalkResult, error) {
	return w.WalkFn(ctx, root)
}
