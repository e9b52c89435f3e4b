package db

import (
	"context"
	"time"
)

// Store is the database facade combining the sub-interfaces used by the service.
type Store interface {
	Pinger
	IndexInspector
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexInspector reports on FT indexes. Index lifecycle is owned elsewhere.
type IndexInspector interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides full-text search over FT indexes.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
}
