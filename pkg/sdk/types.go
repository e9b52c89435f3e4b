package facetsearch

import (
	"maps"
	"strings"
	"time"

	"github.com/kailas-cloud/facetsearch/internal/domain"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/order"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
)

// SortOrder controls result ordering.
type SortOrder string

// Sort order constants.
const (
	SortRelevance    SortOrder = SortOrder(order.Relevance)    // score, highest first
	SortTitle        SortOrder = SortOrder(order.Title)        // title, lexicographic ascending
	SortLastModified SortOrder = SortOrder(order.LastModified) // modification time, newest first
)

// resolve maps o onto an order, case-insensitively. Blank names are
// rejected; fields whose zero value means "default" check for it first.
func (o SortOrder) resolve() (order.Order, error) {
	if strings.TrimSpace(string(o)) == "" {
		return "", domain.NewConfigurationError("sort order", string(o), "empty value")
	}
	parsed, err := order.Parse(string(o))
	if err != nil {
		return "", domain.NewConfigurationError("sort order", string(o), "unrecognized value")
	}
	return parsed, nil
}

// CategoryPolicy controls how a document with several categories is counted.
type CategoryPolicy string

// Category policy constants.
const (
	CountAll   CategoryPolicy = CategoryPolicy(facet.All)
	CountFirst CategoryPolicy = CategoryPolicy(facet.First)
)

// UnknownCategory is the facet bucket counting uncategorized documents.
const UnknownCategory = facet.Unknown

// Result is a matched document.
type Result struct {
	Path         string
	Title        string
	Score        float64 // 0..100
	LastModified time.Time
	Categories   []string
}

// SearchRequest is a one-shot search. Zero values use the client's session defaults.
type SearchRequest struct {
	Index      string
	Query      string
	Sort       SortOrder // case-insensitive; empty keeps the default
	Categories *bool // nil keeps the default
	Root       string
	Page       int
	PerPage    int
}

// SearchResponse is the outcome of a one-shot search.
type SearchResponse struct {
	Results []Result // current page
	Total   int
	Page    int
	Pages   int
	// Categories is nil when aggregation was not requested.
	Categories map[string]int
}

// Bool returns a pointer to b, for SearchRequest.Categories.
func Bool(b bool) *bool { return &b }

func fromRecords(records []result.Record) []Result {
	out := make([]Result, len(records))
	for i := range records {
		r := &records[i]
		out[i] = Result{
			Path:         r.Path(),
			Title:        r.Title(),
			Score:        r.Score(),
			LastModified: r.LastModified(),
			Categories:   r.Categories(),
		}
	}
	return out
}

func fromFacets(m facet.Map) map[string]int {
	return maps.Clone(map[string]int(m))
}
