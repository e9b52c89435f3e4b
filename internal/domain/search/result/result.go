package result

import (
	"math"
	"strings"
	"time"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Record is a single matched document. Immutable once created.
type Record struct {
	path         string
	title        string
	score        float64
	lastModified time.Time
	categories   []string
}

// New creates a record. The score is clamped into [MinScore, MaxScore];
// category labels are trimmed, empty labels and duplicates dropped.
func New(path, title string, score float64, lastModified time.Time, categories []string) Record {
	return Record{
		path:         path,
		title:        title,
		score:        clampScore(score),
		lastModified: lastModified,
		categories:   normalizeCategories(categories),
	}
}

// Path returns the document path, unique within an index.
func (r *Record) Path() string { return r.path }

// Title returns the document title (may be empty).
func (r *Record) Title() string { return r.title }

// Score returns the relevance score in [0, 100].
func (r *Record) Score() float64 { return r.score }

// LastModified returns the document modification time.
func (r *Record) LastModified() time.Time { return r.lastModified }

// Categories returns the category labels, in first-seen order.
// Returns nil for an uncategorized document.
func (r *Record) Categories() []string {
	if len(r.categories) == 0 {
		return nil
	}
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// HasCategories reports whether the document carries at least one category.
func (r *Record) HasCategories() bool { return len(r.categories) > 0 }

func clampScore(s float64) float64 {
	switch {
	case math.IsNaN(s):
		return MinScore
	case s < MinScore:
		return MinScore
	case s > MaxScore:
		return MaxScore
	}
	return s
}

func normalizeCategories(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
