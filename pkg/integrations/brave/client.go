// Package brave looks up web references for mind-map nodes through the
// Brave Search API. Its [Client] satisfies the board's Enricher interface,
// so search results flow into node links through the normal merge path.
package brave

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yaohuangguan/orion-voice2map/pkg/cache"
	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
	"github.com/yaohuangguan/orion-voice2map/pkg/integrations"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

const (
	defaultBaseURL = "https://api.search.brave.com/res/v1"

	// DefaultCount is how many results a lookup returns when Options.Count is zero.
	DefaultCount = 3

	maxCount = 10
)

// Options tune search lookups. The zero value is usable.
type Options struct {
	Count int // results per query (default DefaultCount, capped at 10)
}

// Client queries the Brave web search API.
//
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
	count   int
}

// NewClient creates a Brave Search client.
//
// Parameters:
//   - apiKey: Brave subscription token (sent as X-Subscription-Token)
//   - backend: cache backend for search results (use cache.NewNullCache() for none)
//   - cacheTTL: how long search results are cached
//   - opts: result-count options
func NewClient(apiKey string, backend cache.Cache, cacheTTL time.Duration, opts Options) *Client {
	count := opts.Count
	if count <= 0 {
		count = DefaultCount
	}
	if count > maxCount {
		count = maxCount
	}
	headers := map[string]string{
		"X-Subscription-Token": apiKey,
		"Accept":               "application/json",
	}
	return &Client{
		Client:  integrations.NewClient(backend, cacheTTL, headers),
		baseURL: defaultBaseURL,
		keyer:   cache.NewDefaultKeyer(),
		count:   count,
	}
}

// searchResponse is reduced to the fields drawn from the web results.
type searchResponse struct {
	Web struct {
		Results []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs a web search and returns the results as node links.
// Results with invalid URLs are dropped. Set refresh to bypass the cache.
func (c *Client) Search(ctx context.Context, query string, refresh bool) ([]mindmap.Link, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "search query cannot be empty")
	}

	key := c.keyer.SearchKey(query, cache.SearchKeyOpts{Count: c.count})

	var resp searchResponse
	err := c.Cached(ctx, key, refresh, &resp, func() error {
		u := fmt.Sprintf("%s/web/search?q=%s&count=%d", c.baseURL, url.QueryEscape(query), c.count)
		return c.Get(ctx, u, &resp)
	})
	if err != nil {
		return nil, err
	}

	links := make([]mindmap.Link, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		if apperrors.ValidateURL(r.URL) != nil {
			continue
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = r.URL
		}
		links = append(links, mindmap.Link{Title: title, URL: r.URL})
	}
	return links, nil
}

// Lookup implements the board's Enricher interface. It never bypasses the
// cache; enrichment is best-effort and repeat queries are common.
func (c *Client) Lookup(ctx context.Context, query string) ([]mindmap.Link, error) {
	return c.Search(ctx, query, false)
}
