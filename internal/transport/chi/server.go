package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/facetsearch/internal/domain"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/order"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/facetsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetsearch/internal/usecase/search"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeValidationFailed = "validation_failed"
	CodeIndexNotFound    = "index_not_found"
	CodeIndexQueryFailed = "index_query_failed"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchResultItem is one matched document.
type SearchResultItem struct {
	Path         string   `json:"path"`
	Title        string   `json:"title"`
	Score        float64  `json:"score"`
	LastModified int64    `json:"last_modified"` // unix millis
	Categories   []string `json:"categories,omitempty"`
}

// SearchResponse is the body of GET /indexes/{index}/search.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	Pages   int                `json:"pages"`

	// nil when aggregation was not requested; points to an empty map when
	// nothing matched
	Categories *map[string]int `json:"categories,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search and health endpoints.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	queryTimeout  time.Duration
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrConfiguration, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrIndexQuery, http.StatusBadGateway, CodeIndexQueryFailed),
	}
	return s
}

// WithQueryTimeout bounds each search request. Zero disables the bound.
func (s *Server) WithQueryTimeout(d time.Duration) *Server {
	s.queryTimeout = max(d, 0)
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/indexes/{index}/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Search handles GET /indexes/{index}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := searchParamsFromQuery(chi.URLParam(r, "index"), r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	out, err := s.search.Search(ctx, params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(out.Results))
	for i := range out.Results {
		items[i] = searchResultToItem(&out.Results[i])
	}

	resp := SearchResponse{
		Results: items,
		Total:   out.Total,
		Page:    out.Page,
		Pages:   out.Pages,
	}
	if out.Facets != nil {
		facets := map[string]int(out.Facets)
		resp.Categories = &facets
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchParamsFromQuery(index string, r *http.Request) (searchuc.Params, error) {
	q := r.URL.Query()
	p := searchuc.Params{
		Index:      index,
		Query:      q.Get("q"),
		SearchRoot: q.Get("root"),
	}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		o, err := order.Parse(raw)
		if err != nil {
			return searchuc.Params{}, err
		}
		p.Order = o
	}
	if raw := q.Get("categories"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return searchuc.Params{}, errors.New("categories must be a boolean")
		}
		p.CalculateCategories = &v
	}
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return searchuc.Params{}, errors.New("page must be a positive integer")
		}
		p.Page = v
	}
	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return searchuc.Params{}, errors.New("per_page must be a positive integer")
		}
		p.MatchesPerPage = v
	}
	return p, nil
}

func searchResultToItem(r *result.Record) SearchResultItem {
	return SearchResultItem{
		Path:         r.Path(),
		Title:        r.Title(),
		Score:        r.Score(),
		LastModified: r.LastModified().UnixMilli(),
		Categories:   r.Categories(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Configuration errors are
// returned in full since they only echo request input.
func safeDomainMessage(err error) string {
	var ce *domain.ConfigurationError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	var ie *domain.IndexError
	if errors.As(err, &ie) {
		return ie.Kind.Error() + ": " + ie.Index
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
