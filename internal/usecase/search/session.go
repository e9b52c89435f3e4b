package search

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetsearch/internal/domain"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/order"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
	"github.com/kailas-cloud/facetsearch/internal/logger"
	"github.com/kailas-cloud/facetsearch/internal/metrics"
)

// State is the lifecycle state of a Session.
type State int

// Session states.
const (
	// Unconfigured: index name or query text not set yet.
	Unconfigured State = iota
	// Configured: ready to execute, no valid cache.
	Configured
	// Executed: results (and facets, if requested) are cached.
	Executed
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	case Executed:
		return "executed"
	}
	return "unknown"
}

// Session is one configured query over an index. The query runs lazily on
// the first Results/CategoryFacets call and its output is cached until a
// setter changes the configuration.
//
// A Session is not safe for concurrent mutation. Concurrent reads of an
// Executed session are safe.
type Session struct {
	index     Index
	collector *facet.Collector

	indexName           string
	query               string
	sortOrder           order.Order
	calculateCategories bool
	searchRoot          string

	// paging is a view over the cache and does not invalidate it
	matchesPerPage int
	page           int

	executed bool
	results  []result.Record
	facets   facet.Map // nil unless calculated for the last execution
}

// NewSession creates an unconfigured session. A nil collector counts
// multi-category documents in every bucket.
func NewSession(index Index, collector *facet.Collector) *Session {
	if collector == nil {
		collector = facet.NewCollector(facet.All)
	}
	return &Session{
		index:     index,
		collector: collector,
		sortOrder: order.Default,
		page:      1,
	}
}

// SetIndex selects the index to query.
func (s *Session) SetIndex(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewConfigurationError("index", name, "must not be empty")
	}
	s.indexName = name
	s.invalidate()
	return nil
}

// SetQuery sets the raw query text.
func (s *Session) SetQuery(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NewConfigurationError("query", text, "must not be empty")
	}
	s.query = text
	s.invalidate()
	return nil
}

// SetSortOrder selects the result order.
func (s *Session) SetSortOrder(o order.Order) error {
	if !o.IsValid() {
		return domain.NewConfigurationError("sort order", string(o), "unrecognized value")
	}
	s.sortOrder = o
	s.invalidate()
	return nil
}

// SetCalculateCategories enables or disables category aggregation.
func (s *Session) SetCalculateCategories(enabled bool) {
	s.calculateCategories = enabled
	s.invalidate()
}

// SetSearchRoot restricts results to paths below the folder root. A missing
// trailing slash is added, so "/news" does not match "/newsletter.html".
// Empty means no restriction.
func (s *Session) SetSearchRoot(root string) {
	root = strings.TrimSpace(root)
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}
	s.searchRoot = root
	s.invalidate()
}

// SetMatchesPerPage sets the page size for PageResults. n <= 0 disables paging.
func (s *Session) SetMatchesPerPage(n int) {
	s.matchesPerPage = max(n, 0)
}

// SetPage selects the 1-based page returned by PageResults.
func (s *Session) SetPage(p int) error {
	if p < 1 {
		return domain.NewConfigurationError("page", strconv.Itoa(p), "must be at least 1")
	}
	s.page = p
	return nil
}

// IndexName returns the configured index name.
func (s *Session) IndexName() string { return s.indexName }

// Query returns the configured query text.
func (s *Session) Query() string { return s.query }

// SortOrder returns the configured sort order.
func (s *Session) SortOrder() order.Order { return s.sortOrder }

// CalculateCategories reports whether category aggregation is enabled.
func (s *Session) CalculateCategories() bool { return s.calculateCategories }

// SearchRoot returns the path restriction.
func (s *Session) SearchRoot() string { return s.searchRoot }

// MatchesPerPage returns the page size (0 = unlimited).
func (s *Session) MatchesPerPage() int { return s.matchesPerPage }

// CurrentPage returns the selected 1-based page.
func (s *Session) CurrentPage() int { return s.page }

// State returns the lifecycle state.
func (s *Session) State() State {
	switch {
	case s.indexName == "" || s.query == "":
		return Unconfigured
	case s.executed:
		return Executed
	default:
		return Configured
	}
}

// Results returns the ordered results, executing the query if the cache is
// invalid. The returned slice is shared with the cache and must not be modified.
func (s *Session) Results(ctx context.Context) ([]result.Record, error) {
	if err := s.ensureExecuted(ctx); err != nil {
		return nil, err
	}
	return s.results, nil
}

// CategoryFacets returns the category facets of the last execution,
// executing the query if the cache is invalid. ok is false when category
// aggregation was not requested; an empty map with ok == true means no
// results carried any category.
func (s *Session) CategoryFacets(ctx context.Context) (facets facet.Map, ok bool, err error) {
	if err = s.ensureExecuted(ctx); err != nil {
		return nil, false, err
	}
	if s.facets == nil {
		return nil, false, nil
	}
	return s.facets, true, nil
}

// PageResults returns the window of results for the current page.
// Pages past the end are empty.
func (s *Session) PageResults(ctx context.Context) ([]result.Record, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return nil, err
	}
	if s.matchesPerPage <= 0 {
		if s.page > 1 {
			return []result.Record{}, nil
		}
		return results, nil
	}

	start := (s.page - 1) * s.matchesPerPage
	if start >= len(results) {
		return []result.Record{}, nil
	}
	end := min(start+s.matchesPerPage, len(results))
	return results[start:end:end], nil
}

// PageCount returns the number of result pages.
func (s *Session) PageCount(ctx context.Context) (int, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	if s.matchesPerPage <= 0 {
		return 1, nil
	}
	return (len(results) + s.matchesPerPage - 1) / s.matchesPerPage, nil
}

func (s *Session) invalidate() {
	s.executed = false
	s.results = nil
	s.facets = nil
}

func (s *Session) ensureExecuted(ctx context.Context) error {
	if s.executed {
		return nil
	}
	if s.indexName == "" {
		return domain.NewConfigurationError("index", "", "not set")
	}
	if s.query == "" {
		return domain.NewConfigurationError("query", "", "not set")
	}
	return s.execute(ctx)
}

// execute runs the query once and fills the caches. Nothing is cached on failure.
func (s *Session) execute(ctx context.Context) error {
	log := logger.FromContext(ctx).With(
		zap.String("index", s.indexName),
		zap.String("query", s.query),
		zap.String("sort", s.sortOrder.String()),
		zap.Bool("categories", s.calculateCategories),
	)
	log.Debug("Executing search")
	start := time.Now()

	records, err := s.index.Execute(ctx, s.indexName, s.query)
	if err != nil {
		err = s.classify(err)
		log.Warn("Search failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return err
	}

	records = filterByRoot(records, s.searchRoot)
	sorted := order.Sort(records, s.sortOrder)
	if sorted == nil {
		sorted = []result.Record{}
	}

	var facets facet.Map
	if s.calculateCategories {
		facets = s.collector.Collect(sorted)
		metrics.SearchFacetBuckets.WithLabelValues(s.indexName).Observe(float64(len(facets)))
		log.Debug("Category facets", zap.String("facets", facet.Format(facets)))
	}

	s.results = sorted
	s.facets = facets
	s.executed = true

	log.Info("Search executed",
		zap.Int("results", len(sorted)),
		zap.Int("facet_buckets", len(facets)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// classify keeps index errors as-is and wraps anything else as a query
// failure, so every error carries index and query.
func (s *Session) classify(err error) error {
	var ie *domain.IndexError
	if errors.As(err, &ie) {
		return err
	}
	if errors.Is(err, domain.ErrIndexUnavailable) {
		return domain.NewIndexUnavailable(s.indexName, s.query, err)
	}
	return domain.NewIndexQueryError(s.indexName, s.query, err)
}

func filterByRoot(records []result.Record, root string) []result.Record {
	if root == "" {
		return records
	}
	out := make([]result.Record, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.Path(), root) {
			out = append(out, r)
		}
	}
	return out
}
