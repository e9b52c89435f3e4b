package order

import (
	"fmt"
	"strings"
)

// Order is the sort order applied to search results.
type Order string

// Sort order constants.
const (
	// Relevance sorts by descending score.
	Relevance Order = "relevance"
	// Title sorts by ascending byte-wise title.
	Title Order = "title"
	// LastModified sorts most recently modified first.
	LastModified Order = "lastmodified"
)

// Default is used when no order is configured.
const Default = Relevance

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Relevance || o == Title || o == LastModified
}

func (o Order) String() string { return string(o) }

// Parse resolves a user-supplied order name, case-insensitively.
// Empty input yields Default.
func Parse(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case "relevance", "score":
		return Relevance, nil
	case "title":
		return Title, nil
	case "lastmodified", "last_modified", "date":
		return LastModified, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}
