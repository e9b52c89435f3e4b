package facetsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/facetsearch/internal/db"
)

// --- db.Store mock ---

type mockStore struct {
	pingErr     error
	indexes     map[string]bool
	entries     []db.SearchEntry
	searchErr   error
	searchCalls []db.TextQuery
	closed      bool
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) IndexExists(_ context.Context, name string) (bool, error) {
	return m.indexes[name], nil
}

func (m *mockStore) SearchText(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.searchCalls = append(m.searchCalls, *q)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return &db.SearchResult{Total: len(m.entries), Entries: m.entries}, nil
}

func (m *mockStore) Close() { m.closed = true }

func (m *mockStore) WaitForReady(context.Context, time.Duration) error { return nil }

// --- helpers ---

// siteStore serves index "site" under the default key prefix.
func siteStore() *mockStore {
	entry := func(path, title string, score float64, modified, cats string) db.SearchEntry {
		return db.SearchEntry{
			Key:   "facetsearch:site:" + path,
			Score: score,
			Fields: map[string]string{
				"title":         title,
				"last_modified": modified,
				"categories":    cats,
			},
		}
	}
	return &mockStore{
		indexes: map[string]bool{"facetsearch:site:idx": true},
		entries: []db.SearchEntry{
			entry("/news/a.html", "News A", 4, "5000", "news"),
			entry("/index.html", "Welcome", 8, "1000", ""),
			entry("/news/b.html", "News B", 2, "7000", "news,events"),
			entry("/about.html", "About", 1, "3000", ""),
		},
	}
}

func testClient(store *mockStore, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	return wireClient(store, cfg, nil)
}

func resultPaths(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Path
	}
	return out
}
