package order

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
)

// Sort returns a stably sorted copy of records. Equal keys keep input order,
// since the index may already deliver a meaningful secondary order.
// An unknown order leaves the input order unchanged.
func Sort(records []result.Record, o Order) []result.Record {
	out := slices.Clone(records)
	if len(out) < 2 {
		return out
	}

	switch o {
	case Relevance:
		slices.SortStableFunc(out, byScoreDesc)
	case Title:
		slices.SortStableFunc(out, byTitle)
	case LastModified:
		slices.SortStableFunc(out, byLastModifiedDesc)
	}
	return out
}

func byScoreDesc(a, b result.Record) int {
	return cmp.Compare(b.Score(), a.Score())
}

// byTitle compares ordinally; the empty title is the smallest string.
func byTitle(a, b result.Record) int {
	return strings.Compare(a.Title(), b.Title())
}

func byLastModifiedDesc(a, b result.Record) int {
	return b.LastModified().Compare(a.LastModified())
}
