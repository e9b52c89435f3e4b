package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexProber checks that a named index can be resolved.
type IndexProber interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}
