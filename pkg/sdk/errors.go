package facetsearch

import "github.com/kailas-cloud/facetsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration    = domain.ErrConfiguration
	ErrIndexUnavailable = domain.ErrIndexUnavailable
	ErrIndexQuery       = domain.ErrIndexQuery
)

// ConfigurationError carries the rejected setting. Use errors.As() to inspect.
type ConfigurationError = domain.ConfigurationError

// IndexError carries the index and query of a failed execution.
type IndexError = domain.IndexError
