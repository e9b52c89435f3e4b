package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetsearch/internal/domain"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
	"github.com/kailas-cloud/facetsearch/internal/metrics"
)

// Query status labels.
const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	statusError       = "error"
)

// InstrumentedIndex wraps an Index with Prometheus metrics and logging.
type InstrumentedIndex struct {
	inner  Index
	logger *zap.Logger
}

// NewInstrumentedIndex wraps an index with observability.
func NewInstrumentedIndex(inner Index, logger *zap.Logger) *InstrumentedIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedIndex{inner: inner, logger: logger}
}

// Execute delegates to the inner index and records query metrics.
func (i *InstrumentedIndex) Execute(
	ctx context.Context, indexName, queryText string,
) ([]result.Record, error) {
	start := time.Now()

	records, err := i.inner.Execute(ctx, indexName, queryText)

	duration := time.Since(start)
	metrics.SearchQueryDuration.WithLabelValues(indexName).Observe(duration.Seconds())

	if err != nil {
		status := statusError
		if errors.Is(err, domain.ErrIndexUnavailable) {
			status = statusUnavailable
		}
		metrics.SearchQueriesTotal.WithLabelValues(indexName, status).Inc()
		i.logger.Error("Index query failed",
			zap.String("index", indexName),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.SearchQueriesTotal.WithLabelValues(indexName, statusOK).Inc()
	metrics.SearchResults.WithLabelValues(indexName).Observe(float64(len(records)))

	i.logger.Debug("Index query completed",
		zap.String("index", indexName),
		zap.Duration("duration", duration),
		zap.Int("hits", len(records)),
	)
	return records, nil
}
