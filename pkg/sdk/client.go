package facetsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/facetsearch/internal/db"
	dbRedis "github.com/kailas-cloud/facetsearch/internal/db/redis"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/facetsearch/internal/domain/search/order"
	searchrepo "github.com/kailas-cloud/facetsearch/internal/repository/search"
	healthuc "github.com/kailas-cloud/facetsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "facetsearch:"
)

// Client is the facetsearch SDK entry point. Safe for concurrent use;
// the sessions it creates are not.
type Client struct {
	store     db.Store
	searchSvc *searchuc.Service
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("facetsearch: database address required (use WithRedis)")
	}
	if cfg.categoryPolicy != "" && !facet.Policy(cfg.categoryPolicy).IsValid() {
		return nil, fmt.Errorf("facetsearch: unknown category policy %q", cfg.categoryPolicy)
	}
	if cfg.defaultSort != "" {
		if _, err := cfg.defaultSort.resolve(); err != nil {
			return nil, fmt.Errorf("facetsearch: default %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("facetsearch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("facetsearch: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	prefix := cfg.keyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	repo := searchrepo.New(store, prefix).WithMaxResults(cfg.maxResults)

	policy := facet.Policy(cfg.categoryPolicy)
	if policy == "" {
		policy = facet.All
	}
	defaultOrder := order.Default
	if cfg.defaultSort != "" {
		if o, err := cfg.defaultSort.resolve(); err == nil {
			defaultOrder = o
		}
	}
	searchSvc := searchuc.New(repo).
		WithCategoryPolicy(policy).
		WithDefaults(defaultOrder, cfg.calculateCategories, cfg.matchesPerPage)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, store, cfg.healthIndexes, repo.IndexKey),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// NewSession creates an unconfigured session carrying the client defaults.
func (c *Client) NewSession() *Session {
	return &Session{inner: c.searchSvc.NewSession(), obs: c.obs}
}

// Search runs a one-shot query and returns the requested page.
func (c *Client) Search(ctx context.Context, req SearchRequest) (resp *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", req.Index, start, err) }()

	var sortOrder order.Order
	if req.Sort != "" {
		if sortOrder, err = req.Sort.resolve(); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
	}

	out, err := c.searchSvc.Search(ctx, searchuc.Params{
		Index:               req.Index,
		Query:               req.Query,
		Order:               sortOrder,
		CalculateCategories: req.Categories,
		SearchRoot:          req.Root,
		Page:                req.Page,
		MatchesPerPage:      req.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.observeHits(req.Index, out.Total)

	return &SearchResponse{
		Results:    fromRecords(out.Results),
		Total:      out.Total,
		Page:       out.Page,
		Pages:      out.Pages,
		Categories: fromFacets(out.Facets),
	}, nil
}
