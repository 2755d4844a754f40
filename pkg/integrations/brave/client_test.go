package brave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yaohuangguan/orion-voice2map/pkg/cache"
	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
)

const sampleResponse = `{
	"web": {
		"results": [
			{"title": "Compost basics", "url": "https://example.org/compost"},
			{"title": "broken", "url": "ftp://example.org/nope"},
			{"title": "", "url": "https://example.org/untitled"}
		]
	}
}`

func newTestClient(t *testing.T, backend cache.Cache, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("token", backend, time.Hour, Options{})
	c.baseURL = srv.URL
	return c
}

func TestSearch(t *testing.T) {
	var gotToken, gotQuery string
	c := newTestClient(t, cache.NewNullCache(), func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Subscription-Token")
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(sampleResponse))
	})

	links, err := c.Search(context.Background(), "compost heap", false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotToken != "token" {
		t.Errorf("subscription header = %q", gotToken)
	}
	if gotQuery != "compost heap" {
		t.Errorf("query param = %q", gotQuery)
	}
	if len(links) != 2 {
		t.Fatalf("non-http URL should be dropped, got %d links", len(links))
	}
	if links[0].Title != "Compost basics" {
		t.Errorf("links[0] = %+v", links[0])
	}
	if links[1].Title != "https://example.org/untitled" {
		t.Errorf("blank title should fall back to URL, got %q", links[1].Title)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := NewClient("token", cache.NewNullCache(), 0, Options{})
	_, err := c.Search(context.Background(), "  ", false)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

func TestSearch_CountClamped(t *testing.T) {
	var gotCount string
	c := newTestClient(t, cache.NewNullCache(), func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(`{"web":{"results":[]}}`))
	})
	c.count = NewClient("t", nil, 0, Options{Count: 50}).count

	if _, err := c.Search(context.Background(), "anything", false); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotCount != "10" {
		t.Errorf("count should clamp to 10, got %q", gotCount)
	}
}

func TestLookup_UsesCache(t *testing.T) {
	calls := 0
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := newTestClient(t, backend, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sampleResponse))
	})

	for range 2 {
		if _, err := c.Lookup(context.Background(), "compost heap"); err != nil {
			t.Fatalf("Lookup: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("second lookup should be served from cache, got %d calls", calls)
	}
}
