// Package integrations provides shared HTTP plumbing for the external
// services voice2map talks to: the generative structuring API (gemini) and
// the web-search enrichment API (brave).
//
// The shared [Client] composes per-call caching (pkg/cache), retry with
// exponential backoff (pkg/httputil), and default headers, so the concrete
// clients only describe their endpoints and payloads.
package integrations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the remote resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned when the API key is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// DecodeJSONString unmarshals a JSON document that arrived embedded in a
// text field. Generative APIs sometimes wrap such payloads in markdown
// code fences despite being asked for raw JSON, so fences are stripped
// before decoding.
func DecodeJSONString(text string, v any) error {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return json.Unmarshal([]byte(strings.TrimSpace(text)), v)
}
