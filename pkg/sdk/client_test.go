package facetsearch

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_InvalidDefaults(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"policy", WithCategoryPolicy("most")},
		{"sort", WithSessionDefaults("popularity", false, 0)},
		{"blank sort", WithSessionDefaults("  ", false, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(context.Background(), WithRedis("localhost:6379", ""), tc.opt)
			if err == nil {
				t.Fatal("expected error for invalid default")
			}
		})
	}
}

func TestSortOrder_CaseInsensitiveEverywhere(t *testing.T) {
	c := testClient(siteStore(), WithSessionDefaults("Title", false, 0))
	if got := c.NewSession().SortOrder(); got != SortTitle {
		t.Errorf("default SortOrder() = %q, want title", got)
	}

	resp, err := c.Search(context.Background(), SearchRequest{Index: "site", Query: "welcome", Sort: "LastModified"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"/news/b.html", "/news/a.html", "/about.html", "/index.html"}
	if got := resultPaths(resp.Results); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}

	_, err = c.Search(context.Background(), SearchRequest{Index: "site", Query: "welcome", Sort: "  "})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("blank Sort err = %v, want ErrConfiguration", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6380", "pass").apply(cfg)
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6380" {
		t.Errorf("addrs = %v, want [localhost:6380]", cfg.addrs)
	}
	if cfg.password != "pass" {
		t.Errorf("password = %q, want pass", cfg.password)
	}

	WithACLUser("search").apply(cfg)
	WithDB(2).apply(cfg)
	if cfg.username != "search" || cfg.db != 2 {
		t.Errorf("username/db = %q/%d", cfg.username, cfg.db)
	}

	WithKeyPrefix("cms:").apply(cfg)
	WithMaxResults(50).apply(cfg)
	WithCategoryPolicy(CountFirst).apply(cfg)
	if cfg.keyPrefix != "cms:" || cfg.maxResults != 50 || cfg.categoryPolicy != CountFirst {
		t.Errorf("prefix/max/policy = %q/%d/%q", cfg.keyPrefix, cfg.maxResults, cfg.categoryPolicy)
	}

	WithSessionDefaults(SortTitle, true, 10).apply(cfg)
	if cfg.defaultSort != SortTitle || !cfg.calculateCategories || cfg.matchesPerPage != 10 {
		t.Errorf("session defaults = %q/%v/%d", cfg.defaultSort, cfg.calculateCategories, cfg.matchesPerPage)
	}

	WithHealthIndexes("site").apply(cfg)
	WithHealthIndexes("intranet").apply(cfg)
	if !slices.Equal(cfg.healthIndexes, []string{"site", "intranet"}) {
		t.Errorf("healthIndexes = %v", cfg.healthIndexes)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close(t *testing.T) {
	c := &Client{store: nil}
	c.Close() // nil store must not panic

	store := siteStore()
	testClient(store).Close()
	if !store.closed {
		t.Error("store not closed")
	}
}

func TestClient_Ping(t *testing.T) {
	if err := testClient(siteStore()).Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := siteStore()
	store.pingErr = errors.New("connection refused")
	if err := testClient(store).Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestClient_Search(t *testing.T) {
	store := siteStore()
	c := testClient(store)

	resp, err := c.Search(context.Background(), SearchRequest{Index: "site", Query: "welcome"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/index.html", "/news/a.html", "/news/b.html", "/about.html"}
	if got := resultPaths(resp.Results); !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if resp.Results[0].Score != 100 || resp.Results[1].Score != 50 {
		t.Errorf("scores = %v, %v; want 100, 50", resp.Results[0].Score, resp.Results[1].Score)
	}
	if resp.Categories != nil {
		t.Errorf("Categories = %v, want nil when not requested", resp.Categories)
	}
	if resp.Total != 4 || resp.Page != 1 || resp.Pages != 1 {
		t.Errorf("total/page/pages = %d/%d/%d", resp.Total, resp.Page, resp.Pages)
	}

	if len(store.searchCalls) != 1 {
		t.Fatalf("search calls = %d, want 1", len(store.searchCalls))
	}
	q := store.searchCalls[0]
	if q.IndexName != "facetsearch:site:idx" || q.Query != "welcome" {
		t.Errorf("query = %+v", q)
	}
}

func TestClient_Search_CategoriesAndPaging(t *testing.T) {
	c := testClient(siteStore())

	resp, err := c.Search(context.Background(), SearchRequest{
		Index:      "site",
		Query:      "news",
		Sort:       SortLastModified,
		Categories: Bool(true),
		PerPage:    3,
		Page:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// newest first: b(7000) a(5000) about(3000) | index(1000)
	if got := resultPaths(resp.Results); !slices.Equal(got, []string{"/index.html"}) {
		t.Errorf("page 2 = %v", got)
	}
	if resp.Pages != 2 || resp.Total != 4 {
		t.Errorf("pages/total = %d/%d, want 2/4", resp.Pages, resp.Total)
	}
	wantFacets := map[string]int{"news": 2, "events": 1, UnknownCategory: 2}
	if len(resp.Categories) != len(wantFacets) {
		t.Fatalf("Categories = %v, want %v", resp.Categories, wantFacets)
	}
	for k, v := range wantFacets {
		if resp.Categories[k] != v {
			t.Errorf("Categories[%q] = %d, want %d", k, resp.Categories[k], v)
		}
	}
}

func TestClient_Search_FirstCategoryPolicy(t *testing.T) {
	c := testClient(siteStore(), WithCategoryPolicy(CountFirst))

	resp, err := c.Search(context.Background(), SearchRequest{
		Index: "site", Query: "news", Categories: Bool(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := resp.Categories["events"]; ok {
		t.Errorf("Categories = %v, events must not be counted under CountFirst", resp.Categories)
	}
	if resp.Categories["news"] != 2 {
		t.Errorf("news = %d, want 2", resp.Categories["news"])
	}
}

func TestClient_Search_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		mutate  func(*mockStore)
		wantErr error
	}{
		{
			name:    "empty query",
			req:     SearchRequest{Index: "site"},
			wantErr: ErrConfiguration,
		},
		{
			name:    "unknown index",
			req:     SearchRequest{Index: "missing", Query: "x"},
			wantErr: ErrIndexUnavailable,
		},
		{
			name:    "search failure",
			req:     SearchRequest{Index: "site", Query: "x"},
			mutate:  func(m *mockStore) { m.searchErr = errors.New("syntax error") },
			wantErr: ErrIndexQuery,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := siteStore()
			if tc.mutate != nil {
				tc.mutate(store)
			}
			resp, err := testClient(store).Search(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if resp != nil {
				t.Errorf("resp = %+v, want nil on error", resp)
			}
		})
	}
}

func TestClient_Search_IndexErrorDetails(t *testing.T) {
	_, err := testClient(siteStore()).Search(context.Background(), SearchRequest{Index: "missing", Query: "x"})

	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IndexError, got %T", err)
	}
	if ie.Index != "missing" || ie.Query != "x" {
		t.Errorf("IndexError = %+v", ie)
	}
}

func TestClient_Health(t *testing.T) {
	c := testClient(siteStore(), WithHealthIndexes("site", "missing"))

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", h.Status)
	}
	if h.Checks["database"] != "ok" || h.Checks["index:site"] != "ok" || h.Checks["index:missing"] != "missing" {
		t.Errorf("Checks = %v", h.Checks)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", "", time.Now(), nil)
	obs.observe("test", "site", time.Now(), errors.New("err"))
	obs.observeHits("site", 3)
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search", "site", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("search", "site", time.Now(), errors.New("fail"))
	obs.observeHits("site", 12)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]int{}
	for _, f := range families {
		found[f.GetName()] = len(f.GetMetric())
	}
	if found["facetsearch_sdk_operations_total"] != 2 {
		t.Errorf("operations_total samples = %d, want 2", found["facetsearch_sdk_operations_total"])
	}
	if found["facetsearch_sdk_search_hits"] != 1 {
		t.Errorf("search_hits samples = %d, want 1", found["facetsearch_sdk_search_hits"])
	}
}

func TestObserver_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first observer: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second observer on same registry: %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", "site", time.Now(), nil)
	obs.observe("test.op", "site", time.Now(), errors.New("test error"))
}
