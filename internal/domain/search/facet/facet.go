// Package facet aggregates search results into per-category counts.
package facet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
)

// Unknown is the sentinel bucket for documents without any category.
const Unknown = "unknown"

// Policy selects how a document with several categories is counted.
type Policy string

// Policy constants.
const (
	// All counts the document once in every category it carries.
	All Policy = "all"
	// First counts the document only in its first category.
	First Policy = "first"
)

// IsValid checks if the policy is one of the supported values.
func (p Policy) IsValid() bool {
	return p == All || p == First
}

// Map is category label -> number of matching documents.
type Map map[string]int

// Collector derives category facets from result records. Pure, never fails.
type Collector struct {
	policy Policy
}

// NewCollector creates a collector. An empty or unknown policy falls back to All.
func NewCollector(p Policy) *Collector {
	if !p.IsValid() {
		p = All
	}
	return &Collector{policy: p}
}

// Policy returns the multi-category policy in effect.
func (c *Collector) Policy() Policy { return c.policy }

// Collect counts records per category. Uncategorized records go to Unknown,
// which is only present when at least one such record exists.
func (c *Collector) Collect(records []result.Record) Map {
	m := make(Map)
	for i := range records {
		cats := records[i].Categories()
		if len(cats) == 0 {
			m[Unknown]++
			continue
		}
		if c.policy == First {
			cats = cats[:1]
		}
		for _, label := range cats {
			m[label]++
		}
	}
	return m
}

// Total returns the sum of all bucket counts. With the All policy it may
// exceed the number of records.
func (m Map) Total() int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// Labels returns the labels in presentation order: lexicographic, Unknown last.
func (m Map) Labels() []string {
	labels := make([]string, 0, len(m))
	hasUnknown := false
	for k := range m {
		if k == Unknown {
			hasUnknown = true
			continue
		}
		labels = append(labels, k)
	}
	slices.Sort(labels)
	if hasUnknown {
		labels = append(labels, Unknown)
	}
	return labels
}

// Format renders the map as deterministic text, one "label: count" per line.
// Intended for logs and diagnostics.
func Format(m Map) string {
	if len(m) == 0 {
		return "(no categories)\n"
	}
	var sb strings.Builder
	for _, label := range m.Labels() {
		fmt.Fprintf(&sb, "%s: %d\n", label, m[label])
	}
	return sb.String()
}
