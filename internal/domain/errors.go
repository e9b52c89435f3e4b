package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals an invalid session configuration value.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrIndexUnavailable signals that the named index does not exist or cannot be reached.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrIndexQuery signals a failure while the index executed a query.
	ErrIndexQuery = errors.New("index query failed")
)

// ConfigurationError wraps ErrConfiguration with the offending setting.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrConfiguration.Error(), e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a configuration error for a setting.
func NewConfigurationError(field, value, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// IndexError reports a failure at the index boundary.
// Kind is ErrIndexUnavailable or ErrIndexQuery; Err is the underlying cause (may be nil).
type IndexError struct {
	Kind  error
	Index string
	Query string
	Err   error
}

func (e *IndexError) Error() string {
	msg := fmt.Sprintf("%s: index %q, query %q", e.Kind.Error(), e.Index, e.Query)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IndexError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewIndexUnavailable creates an IndexError of kind ErrIndexUnavailable.
func NewIndexUnavailable(index, query string, cause error) error {
	return &IndexError{Kind: ErrIndexUnavailable, Index: index, Query: query, Err: cause}
}

// NewIndexQueryError creates an IndexError of kind ErrIndexQuery.
func NewIndexQueryError(index, query string, cause error) error {
	return &IndexError{Kind: ErrIndexQuery, Index: index, Query: query, Err: cause}
}
