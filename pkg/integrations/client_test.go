package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yaohuangguan/orion-voice2map/pkg/cache"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("default header missing: %q", got)
		}
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(cache.NewNullCache(), 0, map[string]string{"X-Api-Key": "secret"})

	var out struct {
		Value string `json:"value"`
	}
	if err := c.Get(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Value != "ok" {
		t.Errorf("decoded %+v", out)
	}
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		w.Write([]byte(`{"echo":true}`))
	}))
	defer srv.Close()

	c := NewClient(nil, 0, nil)
	var out struct {
		Echo bool `json:"echo"`
	}
	if err := c.Post(context.Background(), srv.URL, map[string]string{"q": "x"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !out.Echo {
		t.Error("response not decoded")
	}
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := NewClient(nil, 0, nil)
		err := c.Get(context.Background(), srv.URL, &struct{}{})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}

func TestClient_CachedAvoidsSecondFetch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"value":"fresh"}`))
	}))
	defer srv.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := NewClient(backend, time.Hour, nil)
	ctx := context.Background()

	fetch := func(v any) error {
		return c.Cached(ctx, "http:test:key", false, v, func() error {
			return c.Get(ctx, srv.URL, v)
		})
	}

	var first, second struct {
		Value string `json:"value"`
	}
	if err := fetch(&first); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if err := fetch(&second); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if calls != 1 {
		t.Errorf("server saw %d calls, want 1 (second should be cached)", calls)
	}
	if second.Value != "fresh" {
		t.Errorf("cached value = %+v", second)
	}
}

func TestClient_CachedRefreshBypasses(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := NewClient(backend, time.Hour, nil)
	ctx := context.Background()

	var v struct{}
	for range 2 {
		if err := c.Cached(ctx, "http:test:key", true, &v, func() error {
			return c.Get(ctx, srv.URL, &v)
		}); err != nil {
			t.Fatalf("Cached: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("refresh=true should always fetch, got %d calls", calls)
	}
}
