package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/facetsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/order"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
)

// Params is a one-shot search request. Zero values fall back to service defaults.
type Params struct {
	Index               string
	Query               string
	Order               order.Order
	CalculateCategories *bool
	SearchRoot          string
	Page                int
	MatchesPerPage      int
}

// Outcome is the result of a one-shot search.
type Outcome struct {
	Results []result.Record // current page
	Total   int
	Page    int
	Pages   int
	// Facets is nil when category aggregation was not requested.
	Facets facet.Map
}

// Service creates search sessions with shared defaults.
type Service struct {
	index               Index
	collector           *facet.Collector
	defaultOrder        order.Order
	calculateCategories bool
	matchesPerPage      int
}

// New creates a search service.
func New(index Index) *Service {
	return &Service{
		index:        index,
		collector:    facet.NewCollector(facet.All),
		defaultOrder: order.Default,
	}
}

// WithCategoryPolicy sets how multi-category documents are counted.
func (s *Service) WithCategoryPolicy(p facet.Policy) *Service {
	s.collector = facet.NewCollector(p)
	return s
}

// WithDefaults sets the session defaults. An invalid order keeps the current default.
func (s *Service) WithDefaults(o order.Order, calculateCategories bool, matchesPerPage int) *Service {
	if o.IsValid() {
		s.defaultOrder = o
	}
	s.calculateCategories = calculateCategories
	s.matchesPerPage = max(matchesPerPage, 0)
	return s
}

// NewSession creates a session carrying the service defaults.
func (s *Service) NewSession() *Session {
	sess := NewSession(s.index, s.collector)
	sess.sortOrder = s.defaultOrder
	sess.calculateCategories = s.calculateCategories
	sess.matchesPerPage = s.matchesPerPage
	return sess
}

// Search configures a fresh session from p and executes it.
func (s *Service) Search(ctx context.Context, p Params) (Outcome, error) {
	sess := s.NewSession()

	if err := sess.SetIndex(p.Index); err != nil {
		return Outcome{}, err
	}
	if err := sess.SetQuery(p.Query); err != nil {
		return Outcome{}, err
	}
	if p.Order != "" {
		if err := sess.SetSortOrder(p.Order); err != nil {
			return Outcome{}, err
		}
	}
	if p.CalculateCategories != nil {
		sess.SetCalculateCategories(*p.CalculateCategories)
	}
	if p.SearchRoot != "" {
		sess.SetSearchRoot(p.SearchRoot)
	}
	if p.MatchesPerPage > 0 {
		sess.SetMatchesPerPage(p.MatchesPerPage)
	}
	if p.Page != 0 {
		if err := sess.SetPage(p.Page); err != nil {
			return Outcome{}, err
		}
	}

	all, err := sess.Results(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("search: %w", err)
	}
	page, err := sess.PageResults(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("page results: %w", err)
	}
	pages, err := sess.PageCount(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("page count: %w", err)
	}
	facets, _, err := sess.CategoryFacets(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("category facets: %w", err)
	}

	return Outcome{
		Results: page,
		Total:   len(all),
		Page:    sess.CurrentPage(),
		Pages:   pages,
		Facets:  facets,
	}, nil
}
