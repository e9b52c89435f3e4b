package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/facetsearch/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected *db.Error, got %T", err)
	}
}

func TestIsRedisErr(t *testing.T) {
	if isRedisErr(errors.New("unknown index name"), errUnknownIndex) {
		t.Error("plain error must not be treated as a Redis error")
	}
	if isRedisErr(nil, errUnknownIndex) {
		t.Error("nil must not be treated as a Redis error")
	}
}

// --- index.go tests ---

func TestIndexExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "cms:offline:idx")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("cms:offline:idx"))))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "cms:offline:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestIndexExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "cms:missing:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "cms:missing:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestIndexExists_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.IndexExists(context.Background(), "idx")
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected *db.Error, got %T", err)
	}
}

// --- search.go tests ---

func TestSearchText_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var sent []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			sent = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("cms:offline:/index.html"),
			mock.RedisString("4.2"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("Welcome"),
				mock.RedisString("categories"), mock.RedisString("news,events"),
			),
			mock.RedisString("cms:offline:/about.html"),
			mock.RedisString("2.1"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("About")),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchText(context.Background(), &db.TextQuery{
		IndexName:    "cms:offline:idx",
		Query:        "OpenCms",
		Field:        "content",
		Limit:        50,
		ReturnFields: []string{"title", "categories"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("total=%d entries=%d, want 2/2", res.Total, len(res.Entries))
	}
	if res.Entries[0].Key != "cms:offline:/index.html" || res.Entries[0].Score != 4.2 {
		t.Errorf("entry[0] = %+v", res.Entries[0])
	}
	if res.Entries[0].Fields["categories"] != "news,events" {
		t.Errorf("fields = %v", res.Entries[0].Fields)
	}

	want := []string{
		"FT.SEARCH", "cms:offline:idx", "@content:(OpenCms)", "WITHSCORES",
		"RETURN", "2", "title", "categories", "LIMIT", "0", "50", "DIALECT", "2",
	}
	if len(sent) != len(want) {
		t.Fatalf("command = %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Fatalf("command = %v, want %v", sent, want)
		}
	}
}

func TestSearchText_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchText(context.Background(), &db.TextQuery{IndexName: "idx", Query: "nothing", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSearchText_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("idx: no such index")))

	s := NewStoreForTest(c)
	_, err := s.SearchText(context.Background(), &db.TextQuery{IndexName: "idx", Query: "q", Limit: 10})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrIndexNotFound) {
		t.Error("generic Redis error must not map to ErrIndexNotFound")
	}

	ctrl2 := gomock.NewController(t)
	c2 := mock.NewClient(ctrl2)
	c2.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	_, err = NewStoreForTest(c2).SearchText(context.Background(), &db.TextQuery{IndexName: "idx", Query: "q", Limit: 10})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
	if !isDBError(err) {
		t.Errorf("expected *db.Error, got %T", err)
	}
}

func TestSearchText_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	if _, err := s.SearchText(ctx, &db.TextQuery{Query: "test", Limit: 10}); err == nil {
		t.Error("expected error for empty index name")
	}
	if _, err := s.SearchText(ctx, &db.TextQuery{IndexName: "idx", Query: "  ", Limit: 10}); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := s.SearchText(ctx, &db.TextQuery{IndexName: "idx", Query: "test"}); err == nil {
		t.Error("expected error for limit=0")
	}
}

func TestBuildTextQuery(t *testing.T) {
	if got := buildTextQuery("", " OpenCms "); got != "OpenCms" {
		t.Errorf("no field: %q", got)
	}
	if got := buildTextQuery("content", "a-b"); got != `@content:(a\-b)` {
		t.Errorf("with field: %q", got)
	}
}

func TestEscapeQuery(t *testing.T) {
	input := `hello "world" @user {tag}`
	escaped := escapeQuery(input)
	expected := `hello \"world\" \@user \{tag\}`
	if escaped != expected {
		t.Errorf("expected %q, got %q", expected, escaped)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
