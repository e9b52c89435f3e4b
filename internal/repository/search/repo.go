package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/facetsearch/internal/db"
	"github.com/kailas-cloud/facetsearch/internal/domain"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
)

// Document field names in the FT index.
const (
	FieldContent      = "content"
	FieldTitle        = "title"
	FieldLastModified = "last_modified" // Unix milliseconds
	FieldCategories   = "categories"    // TAG, comma separated

	categorySeparator = ","
)

// DefaultMaxResults caps how many hits a single query retrieves.
const DefaultMaxResults = 1000

// store is the consumer interface for search operations (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Index on top of an FT index.
type Repo struct {
	store      store
	keyPrefix  string
	maxResults int
}

// New creates a search repository. keyPrefix namespaces index and document keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, maxResults: DefaultMaxResults}
}

// WithMaxResults overrides the per-query hit limit.
func (r *Repo) WithMaxResults(n int) *Repo {
	if n > 0 {
		r.maxResults = n
	}
	return r
}

// Execute runs queryText against the named index and returns records with
// scores normalized to [0, 100] relative to the best hit.
func (r *Repo) Execute(ctx context.Context, indexName, queryText string) ([]result.Record, error) {
	ftIndex := r.IndexKey(indexName)

	exists, err := r.store.IndexExists(ctx, ftIndex)
	if err != nil {
		// a failed probe (timeout, lost connection) says nothing about the index
		return nil, domain.NewIndexQueryError(indexName, queryText, fmt.Errorf("probe index: %w", err))
	}
	if !exists {
		return nil, domain.NewIndexUnavailable(indexName, queryText, nil)
	}

	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    ftIndex,
		Query:        queryText,
		Field:        FieldContent,
		Limit:        r.maxResults,
		ReturnFields: []string{FieldTitle, FieldLastModified, FieldCategories},
	})
	if err != nil {
		// the index can disappear between FT.INFO and FT.SEARCH
		if errors.Is(err, db.ErrIndexNotFound) && ctx.Err() == nil {
			return nil, domain.NewIndexUnavailable(indexName, queryText, err)
		}
		return nil, domain.NewIndexQueryError(indexName, queryText, fmt.Errorf("search text: %w", err))
	}

	return parseResults(sr, r.docPrefix(indexName)), nil
}

// IndexKey returns the FT index name backing indexName.
func (r *Repo) IndexKey(indexName string) string {
	return fmt.Sprintf("%s%s:idx", r.keyPrefix, indexName)
}

func (r *Repo) docPrefix(indexName string) string {
	return fmt.Sprintf("%s%s:", r.keyPrefix, indexName)
}

// parseResults converts db.SearchResult into records, keeping index order.
func parseResults(sr *db.SearchResult, prefix string) []result.Record {
	if sr == nil || len(sr.Entries) == 0 {
		return []result.Record{}
	}

	top := 0.0
	for _, e := range sr.Entries {
		top = max(top, e.Score)
	}

	records := make([]result.Record, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		records = append(records, result.New(
			strings.TrimPrefix(e.Key, prefix),
			e.Fields[FieldTitle],
			normalizeScore(e.Score, top),
			parseMillis(e.Fields[FieldLastModified]),
			splitCategories(e.Fields[FieldCategories]),
		))
	}
	return records
}

// normalizeScore maps a raw score onto [0, 100], the best hit scoring 100.
func normalizeScore(raw, top float64) float64 {
	if top <= 0 || raw <= 0 {
		return 0
	}
	return raw / top * result.MaxScore
}

func parseMillis(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func splitCategories(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, categorySeparator)
}
