package facetsearch

import (
	"context"
	"fmt"
	"time"

	searchuc "github.com/kailas-cloud/facetsearch/internal/usecase/search"
)

// Session is a configured query over one index. The query runs on the first
// Results or CategoryFacets call; later calls reuse the cached execution
// until a configuration setter changes it. Paging setters never re-execute.
//
// A Session is not safe for concurrent use.
type Session struct {
	inner *searchuc.Session
	obs   *observer
}

// SetIndex selects the index to query.
func (s *Session) SetIndex(name string) error {
	if err := s.inner.SetIndex(name); err != nil {
		return fmt.Errorf("set index: %w", err)
	}
	return nil
}

// SetQuery sets the query text.
func (s *Session) SetQuery(text string) error {
	if err := s.inner.SetQuery(text); err != nil {
		return fmt.Errorf("set query: %w", err)
	}
	return nil
}

// SetSortOrder selects the result order. The name is matched case-insensitively.
func (s *Session) SetSortOrder(o SortOrder) error {
	parsed, err := o.resolve()
	if err != nil {
		return fmt.Errorf("set sort order: %w", err)
	}
	if err := s.inner.SetSortOrder(parsed); err != nil {
		return fmt.Errorf("set sort order: %w", err)
	}
	return nil
}

// SetCalculateCategories enables or disables category aggregation.
func (s *Session) SetCalculateCategories(enabled bool) { s.inner.SetCalculateCategories(enabled) }

// SetSearchRoot restricts results to paths below the folder root.
func (s *Session) SetSearchRoot(root string) { s.inner.SetSearchRoot(root) }

// SetMatchesPerPage sets the page size. n <= 0 returns all results on page 1.
func (s *Session) SetMatchesPerPage(n int) { s.inner.SetMatchesPerPage(n) }

// SetPage selects the 1-based page.
func (s *Session) SetPage(p int) error {
	if err := s.inner.SetPage(p); err != nil {
		return fmt.Errorf("set page: %w", err)
	}
	return nil
}

// IndexName returns the configured index.
func (s *Session) IndexName() string { return s.inner.IndexName() }

// Query returns the configured query text.
func (s *Session) Query() string { return s.inner.Query() }

// SortOrder returns the configured order.
func (s *Session) SortOrder() SortOrder { return SortOrder(s.inner.SortOrder()) }

// CalculateCategories reports whether aggregation is enabled.
func (s *Session) CalculateCategories() bool { return s.inner.CalculateCategories() }

// SearchRoot returns the path restriction.
func (s *Session) SearchRoot() string { return s.inner.SearchRoot() }

// Executed reports whether results are cached for the current configuration.
func (s *Session) Executed() bool { return s.inner.State() == searchuc.Executed }

// Results returns all ordered results.
func (s *Session) Results(ctx context.Context) (results []Result, err error) {
	defer s.track(time.Now(), &err)()

	records, err := s.inner.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	return fromRecords(records), nil
}

// CategoryFacets returns label counts. ok is false when aggregation is disabled.
func (s *Session) CategoryFacets(ctx context.Context) (facets map[string]int, ok bool, err error) {
	defer s.track(time.Now(), &err)()

	m, ok, err := s.inner.CategoryFacets(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("category facets: %w", err)
	}
	return fromFacets(m), ok, nil
}

// PageResults returns the results of the current page.
func (s *Session) PageResults(ctx context.Context) (results []Result, err error) {
	defer s.track(time.Now(), &err)()

	records, err := s.inner.PageResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("page results: %w", err)
	}
	return fromRecords(records), nil
}

// PageCount returns the number of pages.
func (s *Session) PageCount(ctx context.Context) (int, error) {
	n, err := s.inner.PageCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return n, nil
}

// track observes the call only when it executes the query; cache hits are free.
func (s *Session) track(start time.Time, errp *error) func() {
	cached := s.Executed()
	return func() {
		if cached {
			return
		}
		s.obs.observe("session.execute", s.inner.IndexName(), start, *errp)
		if *errp == nil {
			if records, err := s.inner.Results(context.Background()); err == nil {
				s.obs.observeHits(s.inner.IndexName(), len(records))
			}
		}
	}
}
