package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facetsearch",
			Name:      "search_queries_total",
			Help:      "Total number of queries executed against an index",
		},
		[]string{"index", "status"},
	)

	SearchQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facetsearch",
			Name:      "search_query_duration_seconds",
			Help:      "Index query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"index"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facetsearch",
			Name:      "search_results",
			Help:      "Number of results per executed query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"index"},
	)

	SearchFacetBuckets = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facetsearch",
			Name:      "search_facet_buckets",
			Help:      "Number of category buckets per aggregated query",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"index"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchQueryDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchFacetBuckets)
	searchMetricsRegistered = true
}
