package search

import (
	"context"

	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
)

// Index is the full-text index collaborator. Implementations return scores
// already normalized to [0, 100] and categories resolved from document
// metadata. Unknown indexes fail with domain.ErrIndexUnavailable, execution
// failures with domain.ErrIndexQuery.
type Index interface {
	Execute(ctx context.Context, indexName, queryText string) ([]result.Record, error)
}
