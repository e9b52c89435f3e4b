package facetsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix           string
	maxResults          int
	categoryPolicy      CategoryPolicy
	defaultSort         SortOrder
	calculateCategories bool
	matchesPerPage      int
	healthIndexes       []string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis 8+ instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithACLUser sets the Redis ACL username.
func WithACLUser(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithDB selects the logical Redis database.
func WithDB(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = n
	})
}

// WithKeyPrefix sets the namespace of index and document keys.
// Default: "facetsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxResults caps the hits fetched per query. Default: 1000.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithCategoryPolicy sets how documents with several categories are counted.
// Default: CountAll.
func WithCategoryPolicy(p CategoryPolicy) Option {
	return optionFunc(func(c *clientConfig) {
		c.categoryPolicy = p
	})
}

// WithSessionDefaults sets the initial sort order, category aggregation and
// page size of new sessions.
func WithSessionDefaults(sort SortOrder, calculateCategories bool, matchesPerPage int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultSort = sort
		c.calculateCategories = calculateCategories
		c.matchesPerPage = matchesPerPage
	})
}

// WithHealthIndexes lists indexes probed by Client.Health.
func WithHealthIndexes(names ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.healthIndexes = append(c.healthIndexes, names...)
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
