// Package facetsearch provides an embeddable Go client for full-text search
// sessions over Redis FT indexes, with result ordering and category facets.
//
// # One-shot search
//
//	client, _ := facetsearch.New(ctx, facetsearch.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, facetsearch.SearchRequest{
//	    Index:      "site",
//	    Query:      "OpenCms",
//	    Sort:       facetsearch.SortLastModified,
//	    Categories: facetsearch.Bool(true),
//	})
//	fmt.Println(resp.Total, resp.Categories)
//
// # Sessions
//
// A Session keeps its configuration between calls and executes lazily.
// Results and facets are cached until a configuration setter is called.
//
//	s := client.NewSession()
//	_ = s.SetIndex("site")
//	_ = s.SetQuery("OpenCms")
//	s.SetCalculateCategories(true)
//	results, _ := s.Results(ctx)
//	facets, ok, _ := s.CategoryFacets(ctx) // same execution
package facetsearch
